package listeners

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopfront/storefront/app/services"
	"github.com/shopfront/storefront/pkg/cache"
	"github.com/shopfront/storefront/pkg/event"
)

type recorder struct {
	mu   sync.Mutex
	msgs []any
}

func (r *recorder) Publish(v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, v)
}

func TestRegisterPublishesProductChanges(t *testing.T) {
	event.Flush()
	cache.Use(nil)
	t.Cleanup(event.Flush)

	feed := &recorder{}
	Register(feed)

	change := services.ProductChanged{Action: "updated", ProductID: 4, Title: "Cap", Stock: 2}
	event.Fire(context.Background(), services.ProductChangedEvent, change)
	event.Fire(context.Background(), services.ProductChangedEvent, "not a change")

	assert.Equal(t, []any{change}, feed.msgs)
}

func TestForgetCatalogWithoutCache(t *testing.T) {
	cache.Use(nil)
	assert.NotPanics(t, func() { ForgetCatalog(context.Background(), nil) })
}
