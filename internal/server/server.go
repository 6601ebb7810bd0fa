// Package server runs the storefront: it connects the backing services,
// serves HTTP (and gRPC health when GRPC_PORT is set) and shuts everything
// down when ctx is cancelled.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/shopfront/storefront/app/listeners"
	"github.com/shopfront/storefront/app/routes"
	"github.com/shopfront/storefront/config"
	"github.com/shopfront/storefront/internal/kernel"
	"github.com/shopfront/storefront/pkg/cache"
	"github.com/shopfront/storefront/pkg/database"
	"github.com/shopfront/storefront/pkg/grpc"
	"github.com/shopfront/storefront/pkg/logger"
	"github.com/shopfront/storefront/pkg/storage"
	"github.com/shopfront/storefront/pkg/ws"
)

const shutdownTimeout = 15 * time.Second

// Boot loads config and connects the database, cache, storage and log sink.
// A missing Redis is not fatal: the catalog is then served uncached.
func Boot(ctx context.Context) error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := logger.Setup(); err != nil {
		logger.Warn("mongo log sink disabled", "error", err)
	}
	if err := database.Connect(); err != nil {
		return err
	}
	if err := cache.Connect(ctx); err != nil {
		logger.Warn("redis unavailable, caching disabled", "error", err)
	}
	storage.Connect()
	return nil
}

// Shutdown releases what Boot connected.
func Shutdown() {
	if err := cache.Close(); err != nil {
		logger.Warn("cache close", "error", err)
	}
	if err := database.Close(); err != nil {
		logger.Warn("database close", "error", err)
	}
	logger.Close()
}

// Run serves until ctx is done, then drains in-flight requests.
func Run(ctx context.Context) error {
	disk := storage.Default()

	feed := ws.NewHub()
	origins := config.CORSOrigins()
	if !slices.Contains(origins, "*") {
		feed.SetCheckOrigin(func(r *http.Request) bool {
			return slices.Contains(origins, r.Header.Get("Origin"))
		})
	}
	go feed.Run(ctx)
	listeners.Register(feed)

	r, err := kernel.New(routes.NewServices(disk), disk, feed)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)

	var health *grpc.Server
	if port := config.GRPCPort(); port != "" {
		lis, err := net.Listen("tcp", ":"+port)
		if err != nil {
			return fmt.Errorf("grpc: listen: %w", err)
		}
		health = grpc.New(pingDB, 0)
		go func() { errCh <- health.Serve(lis) }()
	}

	go func() {
		logger.Info("storefront listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	logger.Info("shutting down")
	if health != nil {
		health.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func pingDB(ctx context.Context) error {
	if database.DB == nil {
		return errors.New("database not connected")
	}
	sqlDB, err := database.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
