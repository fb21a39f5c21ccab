// Package webkit is the HTTP handler plumbing the editor's API layer is
// built on: a generic request/response wrapper, pagination/date-range query
// filters, and the JSON envelope every handler returns through. It takes the
// place of the camera app's ixugo/goddd/pkg/web package, which this module
// does not depend on.
package webkit

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error is an HTTP-facing error: a stable code plus a message safe to show
// a caller. Handlers should return one of the sentinels below, or wrap a
// domain error's message into ErrServer.
type Error struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *Error) Error() string { return e.Msg }

// SetMsg returns a copy of e with Msg replaced, preserving Code.
func (e *Error) SetMsg(msg string) *Error {
	return &Error{Code: e.Code, Msg: msg}
}

var (
	ErrServer       = &Error{Code: 1, Msg: "服务器内部错误"}
	ErrInvalidBody  = &Error{Code: 2, Msg: "请求参数错误"}
	ErrNotFound     = &Error{Code: 3, Msg: "资源不存在"}
	ErrUnauthorized = &Error{Code: 4, Msg: "未授权"}
)

type envelope struct {
	Code int    `json:"code"`
	Data any    `json:"data,omitempty"`
	Msg  string `json:"msg,omitempty"`
}

// Fail writes err as a JSON error envelope with HTTP status 200, using err's
// Code and Msg when it is a *Error, or ErrServer's code with err's message
// otherwise.
func Fail(c *gin.Context, err error) {
	status := http.StatusOK
	if e, ok := err.(*Error); ok {
		c.JSON(status, envelope{Code: e.Code, Msg: e.Msg})
		return
	}
	slog.ErrorContext(c.Request.Context(), "handler error", "err", err)
	c.JSON(status, envelope{Code: ErrServer.Code, Msg: err.Error()})
}

// Success writes data as a JSON success envelope (code 0).
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, envelope{Code: 0, Data: data})
}

// WrapH adapts a handler of the shape func(*gin.Context, *I) (O, error) into
// a gin.HandlerFunc: I is bound from the request (URI params, then query for
// GET/DELETE/HEAD, then JSON body otherwise), and the result is written as
// an envelope.
func WrapH[I, O any](fn func(*gin.Context, *I) (O, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		in := new(I)
		if len(c.Params) > 0 {
			if err := c.ShouldBindUri(in); err != nil {
				Fail(c, ErrInvalidBody.SetMsg(err.Error()))
				return
			}
		}
		switch c.Request.Method {
		case http.MethodGet, http.MethodDelete, http.MethodHead:
			if err := c.ShouldBindQuery(in); err != nil {
				Fail(c, ErrInvalidBody.SetMsg(err.Error()))
				return
			}
		default:
			if c.Request.ContentLength != 0 {
				if err := c.ShouldBindJSON(in); err != nil {
					Fail(c, ErrInvalidBody.SetMsg(err.Error()))
					return
				}
			}
		}

		out, err := fn(c, in)
		if err != nil {
			Fail(c, err)
			return
		}
		Success(c, out)
	}
}

// WrapHs returns WrapH(fn) preceded by mids, for registering a handler
// alongside per-route middleware in a single variadic call.
func WrapHs[I, O any](fn func(*gin.Context, *I) (O, error), mids ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mids)+1)
	out = append(out, mids...)
	out = append(out, WrapH(fn))
	return out
}

// PagerFilter is an embeddable page/size query filter.
type PagerFilter struct {
	Page int `form:"page" json:"page"`
	Size int `form:"size" json:"size"`
}

// Offset returns the zero-based row offset for this page, defaulting Page
// to 1 and Size to 20 when unset.
func (p PagerFilter) Offset() int {
	page, size := p.Page, p.Size
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	return (page - 1) * size
}

// Limit returns Size, defaulting to 20 when unset.
func (p PagerFilter) Limit() int {
	if p.Size < 1 {
		return 20
	}
	return p.Size
}

// DateFilter is an embeddable millisecond-epoch time-range query filter.
type DateFilter struct {
	StartMs int64 `form:"start_ms" json:"start_ms"`
	EndMs   int64 `form:"end_ms" json:"end_ms"`
}
