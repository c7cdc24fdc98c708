package migrations

import (
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/migration"
	"github.com/shashiranjanraj/storefront/pkg/queue"
)

func init() {
	migration.Register("20260101000006_create_customer_lists_tables", &tables{
		models: []interface{}{&models.CartItem{}, &models.Favorite{}, &models.Comparison{}},
		drop:   []string{"comparisons", "favorites", "cart_items"},
	})
	migration.Register("20260101000007_create_orders_tables", &tables{
		models: []interface{}{&models.Order{}, &models.OrderItem{}},
		drop:   []string{"order_items", "orders"},
	})
	migration.Register("20260101000008_create_failed_jobs_table", &tables{
		models: []interface{}{&queue.FailedJobRecord{}},
		drop:   []string{"failed_jobs"},
	})
}
