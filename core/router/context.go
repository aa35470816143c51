package router

import (
	"net/http"
	"time"
)

// Context is the default handler.Context implementation used when no
// custom context factory is supplied to New. It delegates all
// context.Context methods to the request's context and layers in
// routing params plus a request-scoped value bag.
type Context struct {
	w      http.ResponseWriter
	r      *http.Request
	params map[string]string
	values map[any]any
}

// newContext builds a *Context for a single request.
func newContext(w http.ResponseWriter, r *http.Request, params map[string]string) *Context {
	return &Context{
		w:      w,
		r:      r,
		params: params,
	}
}

// NewContext builds a *Context directly, for callers that construct an
// Exchange outside of a mux dispatch — e.g. the WS upgrade short-circuit in
// core/server, or tests that exercise a Pipeline without a Router.
func NewContext(w http.ResponseWriter, r *http.Request, params map[string]string) *Context {
	return newContext(w, r, params)
}

// Deadline delegates to the request's context.
func (c *Context) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}

// Done delegates to the request's context.
func (c *Context) Done() <-chan struct{} {
	return c.r.Context().Done()
}

// Err delegates to the request's context.
func (c *Context) Err() error {
	return c.r.Context().Err()
}

// Value first checks request-scoped values set via SetValue, then falls
// back to the underlying request context.
func (c *Context) Value(key any) any {
	if c.values != nil {
		if v, ok := c.values[key]; ok {
			return v
		}
	}
	return c.r.Context().Value(key)
}

// Request returns the *http.Request associated with the context.
func (c *Context) Request() *http.Request {
	return c.r
}

// ResponseWriter returns the http.ResponseWriter associated with the context.
func (c *Context) ResponseWriter() http.ResponseWriter {
	return c.w
}

// Param returns the value of the URL parameter by key, or "" if unset.
func (c *Context) Param(key string) string {
	if c.params == nil {
		return ""
	}
	return c.params[key]
}

// SetValue stores a request-scoped value retrievable via Value.
func (c *Context) SetValue(key, val any) {
	if c.values == nil {
		c.values = make(map[any]any)
	}
	c.values[key] = val
}
