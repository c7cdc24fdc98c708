// Package event is a small in-process event bus. Services fire named events
// ("order.created", "callback.created") and listeners react to them: send
// mail, queue jobs, push to the admin websocket feed.
package event

import (
	"context"
	"sync"

	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/workerpool"
)

// Handler receives an event payload.
type Handler func(ctx context.Context, payload any)

// Firer is what services depend on.
type Firer interface {
	Fire(ctx context.Context, name string, payload any)
}

// Bus dispatches events to the handlers registered for their name.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	wg       sync.WaitGroup
	pool     *workerpool.Pool
}

func New() *Bus {
	return &Bus{handlers: map[string][]Handler{}}
}

// Listen registers a handler for the given event name.
func (b *Bus) Listen(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

func (b *Bus) snapshot(name string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Handler(nil), b.handlers[name]...)
}

// Fire runs every listener synchronously. A panicking listener is logged and
// does not stop the others.
func (b *Bus) Fire(ctx context.Context, name string, payload any) {
	metrics.DomainEvents.WithLabelValues(name).Inc()
	for _, h := range b.snapshot(name) {
		b.call(ctx, name, h, payload)
	}
}

// UsePool runs FireAsync listeners on p instead of fresh goroutines.
func (b *Bus) UsePool(p *workerpool.Pool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pool = p
}

// FireAsync runs each listener in the background, detached from ctx
// cancellation so the listeners outlive the request. With a closed pool the
// listener runs inline.
func (b *Bus) FireAsync(ctx context.Context, name string, payload any) {
	metrics.DomainEvents.WithLabelValues(name).Inc()
	detached := context.WithoutCancel(ctx)
	b.mu.RLock()
	pool := b.pool
	b.mu.RUnlock()

	for _, h := range b.snapshot(name) {
		b.wg.Add(1)
		task := func() {
			defer b.wg.Done()
			b.call(detached, name, h, payload)
		}
		if pool == nil {
			go task()
			continue
		}
		if err := pool.Go(task); err != nil {
			task()
		}
	}
}

func (b *Bus) call(ctx context.Context, name string, h Handler, payload any) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithCtx(ctx).Error("event: listener panicked", "event", name, "panic", r)
		}
	}()
	h(ctx, payload)
}

// Wait blocks until every FireAsync listener has returned.
func (b *Bus) Wait() { b.wg.Wait() }

// Flush removes all listeners.
func (b *Bus) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = map[string][]Handler{}
}

// Nop discards every event. Handy for services under test.
type Nop struct{}

func (Nop) Fire(context.Context, string, any) {}

type asyncFirer struct{ b *Bus }

func (a asyncFirer) Fire(ctx context.Context, name string, payload any) { a.b.FireAsync(ctx, name, payload) }

// Async returns a Firer whose Fire is b.FireAsync.
func (b *Bus) Async() Firer { return asyncFirer{b} }
