package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/jobs"
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/mail"
	"github.com/shashiranjanraj/storefront/pkg/queue"
	"github.com/shashiranjanraj/storefront/pkg/testkit"
)

const admin = "orders@shop.test"

type mailer struct{ mock.Mock }

func (m *mailer) Send(ctx context.Context, msg *mail.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func to(address string) any {
	return mock.MatchedBy(func(msg *mail.Message) bool {
		r := msg.Recipients()
		return len(r) == 1 && r[0] == address
	})
}

func setup(t *testing.T, m *mailer) (*queue.Manager, *gorm.DB) {
	db := testkit.DB(t)
	q := queue.New(queue.NewMemoryDriver(16))
	q.SetMaxRetry(2)
	q.SetBackoff(func(int) time.Duration { return 0 })
	q.UseDB(db)
	jobs.Register(q, jobs.Env{DB: db, Mailer: m, Admin: admin})
	return q, db
}

func run(t *testing.T, q *queue.Manager, job queue.Job) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, q.Dispatch(ctx, job))
	ok, err := q.ProcessNext(ctx)
	require.NoError(t, err)
	require.True(t, ok)
}

func order(t *testing.T, db *gorm.DB, email string) *models.Order {
	o := &models.Order{
		Number:           "20260101-000001",
		UserID:           1,
		CustomerName:     "Ann",
		CustomerPhone:    "+100200300",
		CustomerEmail:    email,
		DeliveryMethodID: 1,
		PaymentMethodID:  1,
		Status:           models.OrderNew,
		Subtotal:         decimal.NewFromInt(699),
		DeliveryPrice:    decimal.Zero,
		Total:            decimal.NewFromInt(699),
		Items: []models.OrderItem{{
			ProductVariantID: 1, ProductName: "Pixel Nine", SKU: "pixel-9", Price: decimal.NewFromInt(699), Quantity: 1,
		}},
	}
	require.NoError(t, db.Create(o).Error)
	return o
}

func TestNotifyNewOrder(t *testing.T) {
	m := &mailer{}
	q, db := setup(t, m)
	o := order(t, db, "ann@example.com")

	m.On("Send", mock.Anything, to("ann@example.com")).Return(nil).Once().Run(func(args mock.Arguments) {
		msg := args.Get(1).(*mail.Message)
		assert.Equal(t, "Your order 20260101-000001", msg.SubjectLine())
		assert.Contains(t, msg.Content(), "Pixel Nine (pixel-9)")
		assert.Contains(t, msg.Content(), "Total: 699.00")
	})
	m.On("Send", mock.Anything, to(admin)).Return(nil).Once()

	run(t, q, &jobs.NotifyNewOrder{OrderID: o.ID})
	m.AssertExpectations(t)
	assert.Empty(t, q.FailedJobs())
}

func TestNotifyNewOrderWithoutCustomerEmail(t *testing.T) {
	m := &mailer{}
	q, db := setup(t, m)
	o := order(t, db, "")

	m.On("Send", mock.Anything, to(admin)).Return(nil).Once()
	run(t, q, &jobs.NotifyNewOrder{OrderID: o.ID})
	m.AssertExpectations(t)
}

func TestMissingRowsAreSkipped(t *testing.T) {
	m := &mailer{}
	q, _ := setup(t, m)

	run(t, q, &jobs.NotifyNewOrder{OrderID: 999})
	run(t, q, &jobs.NotifyCallbackRequest{CallbackID: 999})
	run(t, q, &jobs.NotifyNewReview{ReviewID: 999})
	m.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	assert.Empty(t, q.FailedJobs())
}

func TestNotifyCallbackRequest(t *testing.T) {
	m := &mailer{}
	q, db := setup(t, m)
	cb := &models.CallbackRequest{Name: "Bo", Phone: "+100200300", Comment: "after <5pm>", Status: "new"}
	require.NoError(t, db.Create(cb).Error)

	m.On("Send", mock.Anything, to(admin)).Return(nil).Once().Run(func(args mock.Arguments) {
		msg := args.Get(1).(*mail.Message)
		assert.Equal(t, "Callback request from Bo", msg.SubjectLine())
		assert.Contains(t, msg.Content(), "after &lt;5pm&gt;")
	})
	run(t, q, &jobs.NotifyCallbackRequest{CallbackID: cb.ID})
	m.AssertExpectations(t)
}

func TestFailingMailerExhaustsRetries(t *testing.T) {
	m := &mailer{}
	q, db := setup(t, m)
	cb := &models.CallbackRequest{Name: "Bo", Phone: "+100200300", Status: "new"}
	require.NoError(t, db.Create(cb).Error)

	m.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down"))
	run(t, q, &jobs.NotifyCallbackRequest{CallbackID: cb.ID})

	m.AssertNumberOfCalls(t, "Send", 2)
	failed := q.FailedJobs()
	require.Len(t, failed, 1)

	var rows int64
	require.NoError(t, db.Model(&queue.FailedJobRecord{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}
