// Package pipeline runs an ordered middleware chain in front of any
// terminal handler, independent of routing. A single Pipeline can sit in
// front of the HTTP router (see core/server) or in front of the WS upgrade
// dispatch, which bypasses the router entirely.
package pipeline

import (
	"errors"

	"github.com/nexora/webkit/core/handler"
)

// ErrDoubleNext indicates a middleware invoked its next handler more than
// once during a single Execute call. In debug mode this is raised as a
// panic at the point of the second call.
var ErrDoubleNext = errors.New("pipeline: next called more than once")

// Pipeline is an immutable-after-build ordered list of middlewares, run in
// registration order on the way in and reverse order on the way out.
type Pipeline[C handler.Context] struct {
	middlewares []handler.Middleware[C]
	debug       bool
}

// Option configures a Pipeline at construction time.
type Option[C handler.Context] func(*Pipeline[C])

// WithDebug toggles double-next detection. When enabled, a middleware that
// calls next more than once panics with ErrDoubleNext instead of silently
// re-running the rest of the chain.
func WithDebug[C handler.Context](enabled bool) Option[C] {
	return func(p *Pipeline[C]) { p.debug = enabled }
}

// New creates a Pipeline. Debug mode defaults on; callers running in
// production should pass WithDebug(false) (core/server does this based on
// config.IsProduction()).
func New[C handler.Context](opts ...Option[C]) *Pipeline[C] {
	p := &Pipeline[C]{debug: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Use appends middlewares to the end of the chain.
func (p *Pipeline[C]) Use(middlewares ...handler.Middleware[C]) {
	p.middlewares = append(p.middlewares, middlewares...)
}

// Execute runs the pipeline for one request: middlewares wrap terminal in
// registration order, so the first middleware registered is the first to
// observe ctx and the last to observe the response on the way out. The
// chain is rebuilt fresh on every call so double-next guards are scoped to
// this single execution, not shared across concurrent requests.
func (p *Pipeline[C]) Execute(ctx C, terminal handler.HandlerFunc[C]) handler.Response {
	h := terminal
	for i := len(p.middlewares) - 1; i >= 0; i-- {
		next := h
		if p.debug {
			next = guardOnce(next)
		}
		h = p.middlewares[i](next)
	}
	return h(ctx)
}

// guardOnce wraps a handler so a second invocation within the same Execute
// call panics instead of silently re-running the remainder of the chain.
func guardOnce[C handler.Context](h handler.HandlerFunc[C]) handler.HandlerFunc[C] {
	called := false
	return func(ctx C) handler.Response {
		if called {
			panic(ErrDoubleNext)
		}
		called = true
		return h(ctx)
	}
}
