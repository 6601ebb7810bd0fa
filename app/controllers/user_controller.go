package controllers

import (
	"net/http"

	"github.com/shopfront/storefront/app/services"
	"github.com/shopfront/storefront/pkg/ctx"
)

// UserController is the admin user surface.
type UserController struct {
	service *services.UserService
}

func NewUserController(service *services.UserService) *UserController {
	return &UserController{service: service}
}

func (h *UserController) Index(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	users, err := h.service.List(c.Context(), id)
	respond(c, users, err)
}

func (h *UserController) Show(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	userID, ok := c.ParamUint("user")
	if !ok {
		return
	}
	user, err := h.service.Details(c.Context(), id, userID)
	respond(c, user, err)
}

func (h *UserController) Update(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	userID, ok := c.ParamUint("user")
	if !ok {
		return
	}
	var in services.UserUpdateInput
	if !c.BindJSON(&in) {
		return
	}
	user, err := h.service.Update(c.Context(), id, userID, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Message(http.StatusOK, "User updated", user)
}

func (h *UserController) Destroy(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	userID, ok := c.ParamUint("user")
	if !ok {
		return
	}
	done(c, "User deleted", h.service.Delete(c.Context(), id, userID))
}

func (h *UserController) Roles(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	userID, ok := c.ParamUint("user")
	if !ok {
		return
	}
	roles, err := h.service.Roles(c.Context(), id, userID)
	respond(c, roles, err)
}
