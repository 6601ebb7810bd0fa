package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopfront/storefront/app/models"
	"github.com/shopfront/storefront/app/services"
	"github.com/shopfront/storefront/pkg/rbac"
	"github.com/shopfront/storefront/pkg/router"
)

func TestWriteRoutes(t *testing.T) {
	var out bytes.Buffer
	err := writeRoutes(&out, []router.RouteInfo{
		{Method: "GET", Path: "/api/products", Name: "products.index"},
		{Method: "POST", Path: "/api/login", Name: "auth.login"},
	})
	assert.NoError(t, err)
	assert.Contains(t, out.String(), "METHOD")
	assert.Contains(t, out.String(), "/api/products")
	assert.Contains(t, out.String(), "auth.login")
}

func TestWriteRoutesEmpty(t *testing.T) {
	var out bytes.Buffer
	assert.NoError(t, writeRoutes(&out, nil))
	assert.Equal(t, "No routes registered.\n", out.String())
}

func TestWriteRoleReport(t *testing.T) {
	var out bytes.Buffer
	writeRoleReport(&out, services.RoleReport{
		User:         models.User{Name: "Admin", Email: "admin@example.com"},
		Roles:        []string{"admin"},
		IsAdmin:      true,
		Capabilities: rbac.Capabilities(rbac.Admin),
	})
	s := out.String()
	assert.Contains(t, s, "Roles: admin")
	assert.Contains(t, s, "Admin: yes")
	assert.Contains(t, s, "can users.manage")

	out.Reset()
	writeRoleReport(&out, services.RoleReport{User: models.User{Name: "Nobody"}})
	assert.Contains(t, out.String(), "Roles: (none)")
	assert.Contains(t, out.String(), "Admin: no")
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"serve", "route:list", "migrate", "migrate:rollback", "migrate:status", "seed", "user:check-role"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if assert.NoError(t, err, name) {
			assert.Equal(t, name, cmd.Name())
		}
	}
}
