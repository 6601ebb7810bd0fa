package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/storefront/pkg/router"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func header(key, value string) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add(key, value)
			next.ServeHTTP(w, r)
		})
	}
}

func TestGroupsJoinPrefixesAndMiddleware(t *testing.T) {
	r := router.New()
	api := r.Group("/api", header("X-Layer", "api"))
	admin := api.Group("/admin/", header("X-Layer", "admin"))
	admin.Delete("/items/{item}", "items.destroy", ok, header("X-Layer", "route"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/admin/items/7", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"api", "admin", "route"}, rec.Header().Values("X-Layer"))
}

func TestNamedRouteURL(t *testing.T) {
	r := router.New()
	r.Group("/api").Get("/orders/{order}", "orders.show", ok)

	url, err := r.URL("orders.show", map[string]string{"order": "12"})
	require.NoError(t, err)
	assert.Equal(t, "/api/orders/12", url)

	_, err = r.URL("orders.show", nil)
	assert.Error(t, err)
	_, err = r.URL("missing", nil)
	assert.Error(t, err)
}

func TestRoutesAreListedSorted(t *testing.T) {
	r := router.New()
	g := r.Group("/api")
	g.Put("/cart", "cart.update", ok)
	g.Get("/cart", "cart.index", ok)
	r.Get("/metrics", "", ok)

	assert.Equal(t, []router.RouteInfo{
		{Method: http.MethodGet, Path: "/api/cart", Name: "cart.index"},
		{Method: http.MethodPut, Path: "/api/cart", Name: "cart.update"},
		{Method: http.MethodGet, Path: "/metrics"},
	}, r.Routes())
}
