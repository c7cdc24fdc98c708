// Package jobs holds the queued notification jobs. Each job carries only ids
// in its payload; the database and mailer come from the factory registered
// with the queue.
package jobs

import (
	"context"
	"fmt"
	"html/template"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/mail"
	"github.com/shashiranjanraj/storefront/pkg/queue"
)

// Env is what the jobs need to run.
type Env struct {
	DB     *gorm.DB
	Mailer mail.Mailer
	// Admin receives store notifications. Empty disables them.
	Admin string
}

// Register makes every job decodable by q.
func Register(q *queue.Manager, env Env) {
	q.Register(func() queue.Job { return &NotifyNewOrder{env: env} })
	q.Register(func() queue.Job { return &NotifyCallbackRequest{env: env} })
	q.Register(func() queue.Job { return &NotifyNewReview{env: env} })
}

var (
	orderCustomerTpl = template.Must(template.New("order_customer").Parse(`<h1>Thank you for your order</h1>
<p>{{.CustomerName}}, your order <b>{{.Number}}</b> has been received.</p>
<table>
{{range .Items}}<tr><td>{{.ProductName}} ({{.SKU}})</td><td>{{.Quantity}} x {{.Price.StringFixed 2}}</td></tr>
{{end}}</table>
<p>Subtotal: {{.Subtotal.StringFixed 2}}<br>Delivery: {{.DeliveryPrice.StringFixed 2}}<br><b>Total: {{.Total.StringFixed 2}}</b></p>`))

	orderAdminTpl = template.Must(template.New("order_admin").Parse(`<h1>New order {{.Number}}</h1>
<p>{{.CustomerName}}, {{.CustomerPhone}} {{.CustomerEmail}}</p>
<p>{{.Address}}</p>
<p>{{len .Items}} item(s), total {{.Total.StringFixed 2}}</p>
{{if .Comment}}<p>{{.Comment}}</p>{{end}}`))

	callbackTpl = template.Must(template.New("callback").Parse(`<h1>Callback request</h1>
<p>{{.Name}} asks to be called back at <b>{{.Phone}}</b>.</p>
{{if .Comment}}<p>{{.Comment}}</p>{{end}}`))

	reviewTpl = template.Must(template.New("review").Parse(`<h1>New review awaiting moderation</h1>
<p>{{.AuthorName}} rated {{if .Product}}{{.Product.Name}}{{else}}product #{{.ProductID}}{{end}} {{.Rating}}/5.</p>
{{if .Comment}}<p>{{.Comment}}</p>{{end}}`))
)

// NotifyNewOrder mails the order confirmation to the customer and a copy to
// the store admin.
type NotifyNewOrder struct {
	OrderID uint `json:"order_id"`
	env     Env
}

func (j *NotifyNewOrder) Handle(ctx context.Context) error {
	o, err := repositories.NewOrderRepository(j.env.DB).FindFull(ctx, j.OrderID, 0)
	if repositories.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load order %d: %w", j.OrderID, err)
	}
	if o.CustomerEmail != "" {
		msg := mail.To(o.CustomerEmail).
			Subject("Your order " + o.Number).
			Template(orderCustomerTpl, o)
		if err := j.env.Mailer.Send(ctx, msg); err != nil {
			return err
		}
	}
	if j.env.Admin == "" {
		return nil
	}
	return j.env.Mailer.Send(ctx, mail.To(j.env.Admin).
		Subject("New order "+o.Number).
		Template(orderAdminTpl, o))
}

// NotifyCallbackRequest tells the admin somebody wants a call.
type NotifyCallbackRequest struct {
	CallbackID uint `json:"callback_id"`
	env        Env
}

func (j *NotifyCallbackRequest) Handle(ctx context.Context) error {
	if j.env.Admin == "" {
		return nil
	}
	cb, err := repositories.NewCallbackRepository(j.env.DB).Find(ctx, j.CallbackID)
	if repositories.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load callback request %d: %w", j.CallbackID, err)
	}
	return j.env.Mailer.Send(ctx, mail.To(j.env.Admin).
		Subject("Callback request from "+cb.Name).
		Template(callbackTpl, cb))
}

// NotifyNewReview asks the admin to moderate a review.
type NotifyNewReview struct {
	ReviewID uint `json:"review_id"`
	env      Env
}

func (j *NotifyNewReview) Handle(ctx context.Context) error {
	if j.env.Admin == "" {
		return nil
	}
	var r models.ProductReview
	err := j.env.DB.WithContext(ctx).Preload("Product").First(&r, j.ReviewID).Error
	if repositories.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load review %d: %w", j.ReviewID, err)
	}
	return j.env.Mailer.Send(ctx, mail.To(j.env.Admin).
		Subject("New review to moderate").
		Template(reviewTpl, &r))
}
