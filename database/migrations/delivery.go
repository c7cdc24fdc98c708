package migrations

import (
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

func init() {
	migration.Register("20260101000002_create_delivery_tables", &tables{
		models: []interface{}{&models.DeliveryMethod{}, &models.PaymentMethod{}, &models.DeliveryPaymentMethod{}},
		drop:   []string{"delivery_payment_methods", "payment_methods", "delivery_methods"},
	})
	migration.Register("20260101000003_create_callback_requests_table", &tables{
		models: []interface{}{&models.CallbackRequest{}},
		drop:   []string{"callback_requests"},
	})
}
