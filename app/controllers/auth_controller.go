package controllers

import (
	"net/http"

	"github.com/shopfront/storefront/app/services"
	"github.com/shopfront/storefront/pkg/ctx"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

func (h *AuthController) Register(c *ctx.Context) {
	var in services.RegisterInput
	if !c.BindJSON(&in) {
		return
	}
	sess, err := h.service.Register(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created("Registration successful", sess)
}

func (h *AuthController) Login(c *ctx.Context) {
	var in services.LoginInput
	if !c.BindJSON(&in) {
		return
	}
	sess, err := h.service.Login(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(sess)
}

func (h *AuthController) Logout(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	if err := h.service.Logout(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Message(http.StatusOK, "Logged out", nil)
}

type currentUser struct {
	ID    uint     `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// Me returns the authenticated user.
func (h *AuthController) Me(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	user, err := h.service.Me(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(currentUser{ID: user.ID, Name: user.Name, Email: user.Email, Roles: user.RoleNames()})
}
