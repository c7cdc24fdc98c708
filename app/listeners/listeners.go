// Package listeners reacts to store events: every event is pushed to the
// admin live feed, placed orders are counted and the matching notification
// job is queued.
package listeners

import (
	"context"

	"github.com/shashiranjanraj/storefront/app/jobs"
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/queue"
)

// Publisher is the live feed, usually *ws.Hub.
type Publisher interface {
	Publish(event string, data any)
}

// Register subscribes the listeners on bus. feed and q may be nil.
func Register(bus *event.Bus, feed Publisher, q queue.Dispatcher) {
	for _, name := range []string{services.EventOrderCreated, services.EventCallbackCreated, services.EventReviewCreated} {
		bus.Listen(name, publish(feed, name))
	}
	bus.Listen(services.EventOrderCreated, countOrder)
	if q == nil {
		return
	}
	bus.Listen(services.EventOrderCreated, func(ctx context.Context, payload any) {
		if o, ok := payload.(*models.Order); ok {
			dispatch(ctx, q, &jobs.NotifyNewOrder{OrderID: o.ID})
		}
	})
	bus.Listen(services.EventCallbackCreated, func(ctx context.Context, payload any) {
		if cb, ok := payload.(*models.CallbackRequest); ok {
			dispatch(ctx, q, &jobs.NotifyCallbackRequest{CallbackID: cb.ID})
		}
	})
	bus.Listen(services.EventReviewCreated, func(ctx context.Context, payload any) {
		if r, ok := payload.(*models.ProductReview); ok {
			dispatch(ctx, q, &jobs.NotifyNewReview{ReviewID: r.ID})
		}
	})
}

func countOrder(_ context.Context, payload any) {
	o, ok := payload.(*models.Order)
	if !ok {
		return
	}
	delivery := ""
	if o.DeliveryMethod != nil {
		delivery = o.DeliveryMethod.Code
	}
	metrics.RecordOrder(delivery, o.Total.InexactFloat64())
}

func publish(feed Publisher, name string) event.Handler {
	return func(_ context.Context, payload any) {
		if feed != nil {
			feed.Publish(name, payload)
		}
	}
}

func dispatch(ctx context.Context, q queue.Dispatcher, job queue.Job) {
	if err := q.Dispatch(ctx, job); err != nil {
		logger.WithCtx(ctx).Error("listeners: dispatch failed", "job", job, "error", err)
	}
}
