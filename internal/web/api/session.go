// Package api implements the editor shell's HTTP surface: track CRUD,
// player transport, recorder control, edit operations, modifications, and
// project save/load, over a single in-process Session.
package api

import (
	"sync"

	"github.com/gowvp/moviemaker/internal/conf"
	"github.com/gowvp/moviemaker/internal/core/binder"
	"github.com/gowvp/moviemaker/internal/core/edit"
	"github.com/gowvp/moviemaker/internal/core/keyframe"
	"github.com/gowvp/moviemaker/internal/core/player"
	"github.com/gowvp/moviemaker/internal/core/project"
	"github.com/gowvp/moviemaker/internal/core/recorder"
	"github.com/gowvp/moviemaker/internal/core/value"
)

// refCacheCapacity bounds the Binder's ResolveRef LRU; the headless scene
// has no real cost to re-resolving, but the cache is kept anyway so the
// Binder behaves the way a real scene-backed one would under Notify.
const refCacheCapacity = 1024

// headlessScene is an in-memory binder.Scene standing in for the real
// rendering engine: each scene path resolves to a node holding a bag of
// last-written properties. It lets Player/Recorder round-trip values with
// no host application attached, which is what the bare HTTP API offers.
type headlessScene struct {
	mu    sync.Mutex
	nodes map[string]*sceneNode
}

type sceneNode struct {
	mu    sync.Mutex
	props map[string]value.Value
}

func newHeadlessScene() *headlessScene {
	return &headlessScene{nodes: make(map[string]*sceneNode)}
}

func (s *headlessScene) ResolveRef(path []string) (any, error) {
	key := pathKey(path)
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[key]
	if !ok {
		n = &sceneNode{props: make(map[string]value.Value)}
		s.nodes[key] = n
	}
	return n, nil
}

func (s *headlessScene) ResolveProperty(ref any, propertyPath []string) (value.Value, error) {
	n := ref.(*sceneNode)
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.props[pathKey(propertyPath)], nil
}

func (s *headlessScene) WriteProperty(ref any, propertyPath []string, v value.Value) error {
	n := ref.(*sceneNode)
	n.mu.Lock()
	defer n.mu.Unlock()
	n.props[pathKey(propertyPath)] = v
	return nil
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

// Session is the single open project an editor-shell process holds in
// memory: its track tree, the Registry every value is typed against, and
// the Player/Recorder/Editor instances that operate on it.
type Session struct {
	mu sync.RWMutex

	Registry *value.Registry
	Scene    *headlessScene
	Bind     binder.Binder

	Project  *project.Project
	Editor   *edit.Editor
	Player   *player.Player
	Recorder *recorder.Core
}

// NewSession builds the process's single Session from cfg.Project's
// defaults, wiring a fresh headless scene through a Binder into a Player
// and Recorder, ready to author tracks into before a project is loaded
// over it.
func NewSession(registry *value.Registry, cfg *conf.Bootstrap, store recorder.Storer) *Session {
	scene := newHeadlessScene()
	bind := binder.New(scene, refCacheCapacity)

	p := player.New(registry)
	p.SetBinder(bind)

	sampleRate := cfg.Project.DefaultSampleRate
	proj := project.New(sampleRate, parseInterpolation(cfg.Project.DefaultInterpolation))
	p.SetClip(proj.Tree)

	rec := recorder.NewCore(store, bind, registry, recorder.WithSampleRate(sampleRate))

	return &Session{
		Registry: registry,
		Scene:    scene,
		Bind:     bind,
		Project:  proj,
		Editor:   edit.NewEditor(proj.Tree),
		Player:   p,
		Recorder: rec,
	}
}

func parseInterpolation(s string) keyframe.Interpolation {
	switch s {
	case "Step":
		return keyframe.Step
	case "Cubic":
		return keyframe.Cubic
	default:
		return keyframe.Linear
	}
}

// ReplaceProject swaps in a freshly loaded/decoded project, re-pointing the
// Player and Editor at its tree. The Recorder is rebuilt too, since its
// in-flight track states referenced the old tree's *track.Track pointers.
func (s *Session) ReplaceProject(proj *project.Project, store recorder.Storer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Project = proj
	s.Player.SetClip(proj.Tree)
	s.Editor = edit.NewEditor(proj.Tree)
	s.Recorder = recorder.NewCore(store, s.Bind, s.Registry, recorder.WithSampleRate(proj.SampleRate))
}
