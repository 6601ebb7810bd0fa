// Package controllers adapts HTTP requests to service calls. Handlers bind
// and validate the body, pass the caller's identity explicitly, and turn
// service errors into the JSON envelope with fail.
package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shopfront/storefront/app/services"
	"github.com/shopfront/storefront/config"
	"github.com/shopfront/storefront/pkg/ctx"
)

// fail writes err to the client. Internal failures are logged with their
// cause and reported with the service's generic message only.
func fail(c *ctx.Context, err error) {
	var se *services.Error
	if !errors.As(err, &se) {
		se = &services.Error{Kind: services.KindInternal, Message: "Server Error", Err: err}
	}

	switch se.Kind {
	case services.KindValidation:
		if len(se.Fields) > 0 {
			c.ValidationError(se.Fields)
			return
		}
		c.Error(http.StatusBadRequest, se.Message)
	case services.KindInternal:
		c.Log().Error(se.Message, "error", se.Err)
		c.Error(http.StatusInternalServerError, se.Message)
	default:
		c.Error(se.Status(), se.Message)
	}
}

// imageUpload reads the "image" file part, if any. It writes a 400 and
// returns false when the part is unreadable.
func imageUpload(c *ctx.Context) (*services.ImageUpload, bool) {
	fh, err := c.FormFile("image")
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return nil, false
	}
	if fh == nil {
		return nil, true
	}

	f, err := fh.Open()
	if err != nil {
		c.Error(http.StatusBadRequest, fmt.Sprintf("cannot read image: %v", err))
		return nil, false
	}
	defer f.Close()

	// One byte past the limit is enough for the size check to reject it.
	content, err := io.ReadAll(io.LimitReader(f, config.MaxImageBytes()+1))
	if err != nil {
		c.Error(http.StatusBadRequest, fmt.Sprintf("cannot read image: %v", err))
		return nil, false
	}
	return &services.ImageUpload{Filename: fh.Filename, Content: content}, true
}

// respond sends data, or the error.
func respond(c *ctx.Context, data any, err error) {
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(data)
}

// done sends message for a mutation without a body, or the error.
func done(c *ctx.Context, message string, err error) {
	if err != nil {
		fail(c, err)
		return
	}
	c.Message(http.StatusOK, message, nil)
}

type clearResult struct {
	Deleted int64 `json:"deleted"`
}

func clearedResponse(c *ctx.Context, message string, n int64, err error) {
	if err != nil {
		fail(c, err)
		return
	}
	c.Message(http.StatusOK, message, clearResult{Deleted: n})
}
