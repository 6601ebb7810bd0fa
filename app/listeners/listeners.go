// Package listeners reacts to domain events fired by the services.
package listeners

import (
	"context"

	"github.com/shopfront/storefront/app/repositories"
	"github.com/shopfront/storefront/app/services"
	"github.com/shopfront/storefront/pkg/cache"
	"github.com/shopfront/storefront/pkg/event"
	"github.com/shopfront/storefront/pkg/logger"
)

// Publisher broadcasts a message to connected clients.
type Publisher interface {
	Publish(v any)
}

// Register subscribes the catalog listeners. feed may be nil.
func Register(feed Publisher) {
	event.Listen(services.ProductChangedEvent, ForgetCatalog)
	if feed != nil {
		event.Listen(services.ProductChangedEvent, func(_ context.Context, payload any) {
			if change, ok := payload.(services.ProductChanged); ok {
				feed.Publish(change)
			}
		})
	}
}

// ForgetCatalog drops the cached product listing.
func ForgetCatalog(ctx context.Context, _ any) {
	if err := cache.Forget(ctx, repositories.AllProductsCacheKey); err != nil {
		logger.WithCtx(ctx).Warn("catalog cache invalidation failed", "error", err)
	}
}
