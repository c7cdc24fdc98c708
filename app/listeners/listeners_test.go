package listeners_test

import (
	"context"
	"sync"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/jobs"
	"github.com/shashiranjanraj/storefront/app/listeners"
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/queue"
)

type feed struct {
	mu     sync.Mutex
	events []string
}

func (f *feed) Publish(name string, _ any) {
	f.mu.Lock()
	f.events = append(f.events, name)
	f.mu.Unlock()
}

type recorder struct {
	jobs []queue.Job
}

func (r *recorder) Dispatch(_ context.Context, job queue.Job) error {
	r.jobs = append(r.jobs, job)
	return nil
}

func TestEventsReachFeedAndQueue(t *testing.T) {
	bus := event.New()
	f := &feed{}
	q := &recorder{}
	listeners.Register(bus, f, q)

	ctx := context.Background()
	order := &models.Order{}
	order.ID = 42
	bus.Fire(ctx, services.EventOrderCreated, order)
	cb := &models.CallbackRequest{}
	cb.ID = 7
	bus.Fire(ctx, services.EventCallbackCreated, cb)

	assert.Equal(t, []string{services.EventOrderCreated, services.EventCallbackCreated}, f.events)
	require.Len(t, q.jobs, 2)
	assert.Equal(t, &jobs.NotifyNewOrder{OrderID: 42}, q.jobs[0])
	assert.Equal(t, &jobs.NotifyCallbackRequest{CallbackID: 7}, q.jobs[1])
}

func TestNilFeedAndQueue(t *testing.T) {
	bus := event.New()
	listeners.Register(bus, nil, nil)
	assert.NotPanics(t, func() {
		bus.Fire(context.Background(), services.EventReviewCreated, &models.ProductReview{})
	})
}

func counterValue(t *testing.T, delivery string) float64 {
	var m dto.Metric
	require.NoError(t, metrics.OrdersPlaced.WithLabelValues(delivery).Write(&m))
	return m.GetCounter().GetValue()
}

func TestPlacedOrdersAreCounted(t *testing.T) {
	bus := event.New()
	listeners.Register(bus, nil, nil)
	before := counterValue(t, "pickup")

	o := &models.Order{Total: decimal.NewFromInt(120), DeliveryMethod: &models.DeliveryMethod{Code: "pickup"}}
	bus.Fire(context.Background(), services.EventOrderCreated, o)
	bus.Fire(context.Background(), services.EventOrderCreated, "not an order")

	assert.Equal(t, before+1, counterValue(t, "pickup"))
}
