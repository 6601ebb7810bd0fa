// Package ctx gives handlers a single request context with helpers for path
// params, binding, the authenticated identity and the JSON envelope.
//
//	func (h *OrderController) Show(c *ctx.Context) {
//	    id, ok := c.ParamUint("order")
//	    if !ok {
//	        return
//	    }
//	    ...
//	    c.Success(order)
//	}
//
//	router.Get("/orders/{order}", "orders.show", ctx.Wrap(h.Show))
package ctx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shopfront/storefront/pkg/auth"
	"github.com/shopfront/storefront/pkg/bind"
	"github.com/shopfront/storefront/pkg/logger"
	"github.com/shopfront/storefront/pkg/response"
	"github.com/shopfront/storefront/pkg/validate"
)

type HandlerFunc func(c *Context)

// Wrap adapts a HandlerFunc to http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

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

// Param returns a URL path parameter.
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamUint parses a numeric path parameter. On failure it sends a 404,
// since no row can have that id, and returns false.
func (c *Context) ParamUint(key string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || n == 0 {
		c.NotFound()
		return 0, false
	}
	return uint(n), true
}

func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// QueryInt returns the integer query value or def when absent or malformed.
func (c *Context) QueryInt(key string, def int) int {
	if n, err := strconv.Atoi(c.Query(key)); err == nil {
		return n
	}
	return def
}

func (c *Context) Context() context.Context { return c.R.Context() }

// Log returns the request-scoped logger.
func (c *Context) Log() *slog.Logger { return logger.WithCtx(c.R.Context()) }

// Identity returns the caller resolved by the Auth middleware.
func (c *Context) Identity() (auth.Identity, bool) {
	return auth.FromContext(c.R.Context())
}

// MustIdentity is Identity for routes behind the Auth middleware. It sends a
// 401 and returns false when no identity is present.
func (c *Context) MustIdentity() (auth.Identity, bool) {
	id, ok := c.Identity()
	if !ok {
		c.Unauthorized()
	}
	return id, ok
}

// BindJSON decodes and validates the JSON body. It writes a 400 and returns
// false on malformed JSON or validation failures.
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	return c.handleBind(errs, err)
}

// Bind picks JSON or form decoding from the Content-Type.
func (c *Context) Bind(dest any) bool {
	if bind.IsMultipart(c.R) || c.R.Header.Get("Content-Type") == "application/x-www-form-urlencoded" {
		errs, err := bind.Form(c.R, dest)
		return c.handleBind(errs, err)
	}
	return c.BindJSON(dest)
}

func (c *Context) handleBind(errs map[string]string, err error) bool {
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if validate.HasErrors(errs) {
		c.ValidationError(errs)
		return false
	}
	return true
}

// FormFile returns the uploaded file part named field, or (nil, nil) when
// the request carries no such part.
func (c *Context) FormFile(field string) (*multipart.FileHeader, error) {
	if !bind.IsMultipart(c.R) {
		return nil, nil
	}
	if c.R.MultipartForm == nil {
		if err := c.R.ParseMultipartForm(32 << 20); err != nil {
			return nil, fmt.Errorf("ctx: parse multipart: %w", err)
		}
	}
	_, fh, err := c.R.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fh, nil
}

func (c *Context) write(code int, body response.Envelope) {
	c.status = code
	response.Write(c.W, code, body)
}

// Success sends a 200 with data.
func (c *Context) Success(data any) {
	c.write(http.StatusOK, response.Envelope{Data: data})
}

// Message sends a status with a message and optional data.
func (c *Context) Message(code int, message string, data any) {
	c.write(code, response.Envelope{Message: message, Data: data})
}

// Created sends a 201 with a message and the created resource.
func (c *Context) Created(message string, data any) {
	c.Message(http.StatusCreated, message, data)
}

func (c *Context) Error(code int, message string) {
	c.write(code, response.Envelope{Message: message})
}

// ValidationError sends a 400 with a field → message map.
func (c *Context) ValidationError(errs map[string]string) {
	c.write(http.StatusBadRequest, response.Envelope{Message: "Validation failed", Errors: errs})
}

func (c *Context) Unauthorized(message ...string) {
	c.Error(http.StatusUnauthorized, first(message, "Unauthenticated."))
}

func (c *Context) Forbidden(message ...string) {
	c.Error(http.StatusForbidden, first(message, "Forbidden"))
}

func (c *Context) NotFound(message ...string) {
	c.Error(http.StatusNotFound, first(message, "Not found"))
}

// WrittenStatus is the status sent so far, or 0.
func (c *Context) WrittenStatus() int { return c.status }

func first(s []string, def string) string {
	if len(s) > 0 && s[0] != "" {
		return s[0]
	}
	return def
}
