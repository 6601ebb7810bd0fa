package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopfront/storefront/pkg/auth"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole("admin")
	assert.NoError(t, err)
	assert.Equal(t, Admin, r)

	_, err = ParseRole("superuser")
	assert.Error(t, err)
}

func TestCan(t *testing.T) {
	assert.True(t, Can([]string{"admin"}, ManageCatalog))
	assert.True(t, Can([]string{"user", "admin"}, ModerateComments))
	assert.False(t, Can([]string{"user"}, ViewStock))
	assert.False(t, Can([]string{"root"}, ManageUsers))
	assert.False(t, Can(nil, ManageUsers))
}

func TestCapabilitiesIsACopy(t *testing.T) {
	caps := Capabilities(Admin)
	caps[0] = "mutated"
	assert.Equal(t, ManageCatalog, Capabilities(Admin)[0])
	assert.Empty(t, Capabilities(User))
}

func TestRequire(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := Require(ViewStock)(ok)

	cases := []struct {
		name string
		id   *auth.Identity
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"user", &auth.Identity{UserID: 2, Roles: []string{"user"}}, http.StatusForbidden},
		{"admin", &auth.Identity{UserID: 1, Roles: []string{"admin"}}, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.id != nil {
				r = r.WithContext(auth.WithIdentity(r.Context(), *tc.id))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	h := RequireRole(Admin)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(auth.WithIdentity(r.Context(), auth.Identity{UserID: 2, Roles: []string{"user"}}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
