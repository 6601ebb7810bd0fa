// Package event is a small in-process publish/subscribe bus. Services fire
// domain events; listeners registered at boot react to them (cache
// invalidation, the admin stock feed).
package event

import (
	"context"
	"sync"
)

// Handler receives an event payload.
type Handler func(ctx context.Context, payload any)

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
)

// Listen registers handler for name.
func Listen(name string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[name] = append(handlers[name], handler)
}

func snapshot(name string) []Handler {
	mu.RLock()
	defer mu.RUnlock()
	return append([]Handler(nil), handlers[name]...)
}

// Fire runs every listener for name synchronously, in registration order.
func Fire(ctx context.Context, name string, payload any) {
	for _, h := range snapshot(name) {
		h(ctx, payload)
	}
}

// FireAsync runs the listeners on their own goroutines with a context that is
// not cancelled when the request ends.
func FireAsync(ctx context.Context, name string, payload any) {
	detached := context.WithoutCancel(ctx)
	for _, h := range snapshot(name) {
		go h(detached, payload)
	}
}

// Flush removes all listeners (tests).
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}
