// Package kernel assembles the HTTP handler: global middleware, the fallback
// handlers, operational endpoints and the API routes.
package kernel

import (
	"net/http"

	"github.com/shopfront/storefront/app/routes"
	"github.com/shopfront/storefront/config"
	"github.com/shopfront/storefront/pkg/metrics"
	"github.com/shopfront/storefront/pkg/middleware"
	"github.com/shopfront/storefront/pkg/reqid"
	"github.com/shopfront/storefront/pkg/response"
	"github.com/shopfront/storefront/pkg/router"
	"github.com/shopfront/storefront/pkg/storage"
	"github.com/shopfront/storefront/pkg/ws"
)

// New builds the router for svc. Uploaded images are served from /storage
// when disk is a local disk; feed may be nil.
func New(svc *routes.Services, disk storage.Disk, feed *ws.Hub) (*router.Router, error) {
	r := router.New()

	// Outermost first: metrics sees total latency, recovery catches
	// everything below it, the request ID exists before anything logs.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(config.CORSOrigins())))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/metrics", "metrics", metrics.Handler())

	if local, ok := disk.(*storage.LocalDisk); ok {
		r.Mount("/storage", "storage", http.StripPrefix("/storage", http.FileServer(http.Dir(local.Root()))))
	}

	if err := routes.RegisterAPI(r, svc, feed); err != nil {
		return nil, err
	}
	return r, nil
}
