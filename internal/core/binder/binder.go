// Package binder resolves Ref/Prop track targets against a live scene and
// caches the resolution, per spec.md §3/§4.E.
package binder

import (
	"sync"

	"github.com/gowvp/moviemaker/internal/core/moverr"
	"github.com/gowvp/moviemaker/internal/core/value"
)

// Scene is the host application's live object graph. A Binder resolves
// track paths against it; the engine never touches Scene directly.
type Scene interface {
	// ResolveRef returns the opaque handle for the scene object at path, or
	// an error if path does not resolve.
	ResolveRef(path []string) (any, error)
	// ResolveProperty returns the current live value of a property on the
	// scene object identified by ref, for read-back/diffing purposes.
	ResolveProperty(ref any, propertyPath []string) (value.Value, error)
	// WriteProperty pushes a sampled value onto the scene object's
	// property, e.g. a bone transform or a material parameter.
	WriteProperty(ref any, propertyPath []string, v value.Value) error
}

// Binder is the engine-facing resolution surface: track paths in, scene
// handles out, with caching and invalidation.
type Binder interface {
	ResolveRef(path []string) (any, error)
	ResolveProperty(ref any, propertyPath []string) (value.Value, error)
	WriteProperty(ref any, propertyPath []string, v value.Value) error
	// Notify invalidates any cached resolution under path (and its
	// descendants) after the host scene graph changes shape.
	Notify(path []string)
}

// Default is the in-memory Binder: it delegates to a Scene and caches
// ResolveRef lookups in a bounded LRU, evicted on Notify.
type Default struct {
	scene Scene
	cache *lruCache
}

// New builds a Default binder over scene, with a resolution cache holding
// up to capacity entries.
func New(scene Scene, capacity int) *Default {
	return &Default{scene: scene, cache: newLRUCache(capacity)}
}

func pathKey(path []string) string {
	key := ""
	for i, p := range path {
		if i > 0 {
			key += "/"
		}
		key += p
	}
	return key
}

// ResolveRef resolves path to a scene handle, serving from cache when
// possible.
func (b *Default) ResolveRef(path []string) (any, error) {
	key := pathKey(path)
	if ref, ok := b.cache.get(key); ok {
		return ref, nil
	}
	if b.scene == nil {
		return nil, moverr.ErrNotBound.Withf("path[%s]", key)
	}
	ref, err := b.scene.ResolveRef(path)
	if err != nil {
		return nil, moverr.ErrNotBound.Withf("path[%s] err[%s]", key, err.Error())
	}
	b.cache.put(key, ref)
	return ref, nil
}

// ResolveProperty reads the current value of a scene property.
func (b *Default) ResolveProperty(ref any, propertyPath []string) (value.Value, error) {
	if b.scene == nil {
		return value.Value{}, moverr.ErrNotBound.Withf("property[%s]", pathKey(propertyPath))
	}
	return b.scene.ResolveProperty(ref, propertyPath)
}

// WriteProperty writes a sampled value to a scene property.
func (b *Default) WriteProperty(ref any, propertyPath []string, v value.Value) error {
	if b.scene == nil {
		return moverr.ErrNotBound.Withf("property[%s]", pathKey(propertyPath))
	}
	return b.scene.WriteProperty(ref, propertyPath, v)
}

// Notify evicts every cached resolution whose path is prefixed by path (or
// equal to it), forcing the next ResolveRef under that subtree to re-query
// the scene.
func (b *Default) Notify(path []string) {
	prefix := pathKey(path)
	b.cache.evictPrefix(prefix)
}

// lruCache is a bounded, intrusive-linked-list LRU cache; no repo in this
// pack imports an LRU cache library, so the cache is hand-rolled directly
// over the standard library.
type lruCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*lruNode
	head     *lruNode // most recently used
	tail     *lruNode // least recently used
}

type lruNode struct {
	key        string
	value      any
	prev, next *lruNode
}

func newLRUCache(capacity int) *lruCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &lruCache{capacity: capacity, entries: make(map[string]*lruNode)}
}

func (c *lruCache) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(n)
	return n.value, true
}

func (c *lruCache) put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n, ok := c.entries[key]; ok {
		n.value = value
		c.moveToFront(n)
		return
	}
	n := &lruNode{key: key, value: value}
	c.entries[key] = n
	c.pushFront(n)
	if len(c.entries) > c.capacity {
		c.evict(c.tail)
	}
}

func (c *lruCache) evictPrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, n := range c.entries {
		if hasPathPrefix(key, prefix) {
			c.evict(n)
		}
	}
}

func hasPathPrefix(key, prefix string) bool {
	if prefix == "" {
		return true
	}
	if key == prefix {
		return true
	}
	return len(key) > len(prefix) && key[:len(prefix)] == prefix && key[len(prefix)] == '/'
}

func (c *lruCache) evict(n *lruNode) {
	if n == nil {
		return
	}
	c.unlink(n)
	delete(c.entries, n.key)
}

func (c *lruCache) moveToFront(n *lruNode) {
	if c.head == n {
		return
	}
	c.unlink(n)
	c.pushFront(n)
}

func (c *lruCache) pushFront(n *lruNode) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

func (c *lruCache) unlink(n *lruNode) {
	if n.prev != nil {
		n.prev.next = n.next
	} else if c.head == n {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else if c.tail == n {
		c.tail = n.prev
	}
	n.prev, n.next = nil, nil
}
