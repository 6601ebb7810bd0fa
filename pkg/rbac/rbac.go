// Package rbac defines the closed set of roles, the capabilities each role
// grants, and the middleware that enforces them.
package rbac

import (
	"fmt"
	"net/http"

	"github.com/shopfront/storefront/pkg/auth"
	"github.com/shopfront/storefront/pkg/response"
)

// Role is one of the roles a user can hold.
type Role string

const (
	Admin Role = "admin"
	User  Role = "user"
)

// Roles lists every role, in seeding order.
var Roles = []Role{Admin, User}

// ParseRole rejects names outside the closed set.
func ParseRole(name string) (Role, error) {
	for _, r := range Roles {
		if string(r) == name {
			return r, nil
		}
	}
	return "", fmt.Errorf("rbac: unknown role %q", name)
}

// Capability is a permission checked at the route or service boundary.
type Capability string

const (
	ManageCatalog    Capability = "catalog.manage"
	ViewStock        Capability = "stock.view"
	ManageUsers      Capability = "users.manage"
	ModerateComments Capability = "comments.moderate"
)

var grants = map[Role][]Capability{
	Admin: {ManageCatalog, ViewStock, ManageUsers, ModerateComments},
	User:  {},
}

// Capabilities returns what role grants.
func Capabilities(role Role) []Capability {
	return append([]Capability(nil), grants[role]...)
}

// Can reports whether any of roles grants c. Unknown role names grant nothing.
func Can(roles []string, c Capability) bool {
	for _, name := range roles {
		role, err := ParseRole(name)
		if err != nil {
			continue
		}
		for _, g := range grants[role] {
			if g == c {
				return true
			}
		}
	}
	return false
}

// HasRole reports whether roles contains role.
func HasRole(roles []string, role Role) bool {
	for _, r := range roles {
		if r == string(role) {
			return true
		}
	}
	return false
}

// Require allows the request only when the authenticated caller holds c.
// It must run after the Auth middleware.
func Require(c Capability) func(http.Handler) http.Handler {
	return guard(func(id auth.Identity) bool { return Can(id.Roles, c) })
}

// RequireRole allows the request only when the caller holds role.
func RequireRole(role Role) func(http.Handler) http.Handler {
	return guard(func(id auth.Identity) bool { return HasRole(id.Roles, role) })
}

func guard(allow func(auth.Identity) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.FromContext(r.Context())
			if !ok {
				response.Unauthorized(w)
				return
			}
			if !allow(id) {
				response.Error(w, http.StatusForbidden, "Unauthorized. Admin access required.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
