// Package ctx wraps a request/response pair so controllers take a single
// argument and report failures through one path:
//
//	func (c *OrderController) Cancel(cx *ctx.Context) {
//	    id, err := cx.ParamID("orderId")
//	    if err != nil {
//	        cx.Fail(err)
//	        return
//	    }
//	    ...
//	}
//
//	group.Patch("/{orderId}", "orders.cancel", ctx.Wrap(c.Cancel))
package ctx

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/pizzeria/pkg/apperror"
	"github.com/shashiranjanraj/pizzeria/pkg/auth"
	"github.com/shashiranjanraj/pizzeria/pkg/bind"
	"github.com/shashiranjanraj/pizzeria/pkg/response"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap adapts h to http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps one request. It must not be retained after the handler
// returns.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	status int
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter.
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamID parses a path parameter as a positive integer id.
func (c *Context) ParamID(key string) (uint, error) {
	return positiveID(key, c.Param(key))
}

// Query returns a query-string value, "" when absent.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// DefaultQuery returns the query value or def when empty.
func (c *Context) DefaultQuery(key, def string) string {
	if v := c.Query(key); v != "" {
		return v
	}
	return def
}

// QueryInt parses an optional integer query parameter.
func (c *Context) QueryInt(key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.Validation(apperror.FieldError{
			Field:   key,
			Message: fmt.Sprintf("The %s must be an integer.", key),
		})
	}
	return n, nil
}

// QueryID parses a required positive integer query parameter.
func (c *Context) QueryID(key string) (uint, error) {
	return positiveID(key, c.Query(key))
}

func positiveID(key, raw string) (uint, error) {
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n == 0 {
		return 0, apperror.Validation(apperror.FieldError{
			Field:   key,
			Message: fmt.Sprintf("The %s must be a positive integer.", key),
		})
	}
	return uint(n), nil
}

// Context returns the request's context.Context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Identity returns the caller established by the token gate.
func (c *Context) Identity() (auth.Identity, bool) {
	return auth.IdentityFromCtx(c.R.Context())
}

// Path returns the request URL path.
func (c *Context) Path() string { return c.R.URL.Path }

// ─── Binding ──────────────────────────────────────────────────────────────────

// BindJSON decodes and validates the body into dest. On failure the error
// response has already been written and false is returned.
func (c *Context) BindJSON(dest any) bool {
	if err := bind.JSON(c.R, dest); err != nil {
		c.Fail(err)
		return false
	}
	return true
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// JSON writes v with status code.
func (c *Context) JSON(code int, v any) {
	c.status = code
	response.JSON(c.W, code, v)
}

func (c *Context) OK(v any) { c.JSON(http.StatusOK, v) }

func (c *Context) Created(v any) { c.JSON(http.StatusCreated, v) }

func (c *Context) NoContent() {
	c.status = http.StatusNoContent
	response.NoContent(c.W)
}

// Fail renders err through the shared error mapping.
func (c *Context) Fail(err error) {
	c.status = apperror.Status(err)
	response.Error(c.W, c.R, err)
}

// WrittenStatus is the status written so far, 0 if none.
func (c *Context) WrittenStatus() int { return c.status }
