package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

type OrderFilter struct {
	UserID uint
	Status string
	Search string
}

type OrderRepository struct {
	Repository[models.Order]
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{NewRepository[models.Order](db)}
}

func (r *OrderRepository) List(ctx context.Context, f OrderFilter, page orm.PageParams) ([]models.Order, orm.Pagination, error) {
	q := Search(r.Query(ctx), f.Search, "number", "customer_name", "customer_phone").
		Preload("Items").
		Order("id desc")
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return r.Paginate(q, page)
}

// FindFull loads an order with items and methods. A non-zero userID
// restricts the lookup to that user's orders.
func (r *OrderRepository) FindFull(ctx context.Context, id, userID uint) (*models.Order, error) {
	q := r.DB(ctx).Preload("Items").Preload("DeliveryMethod").Preload("PaymentMethod")
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	var o models.Order
	if err := q.First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// SetNumber stores the public order number.
func (r *OrderRepository) SetNumber(ctx context.Context, id uint, number string) error {
	return r.Query(ctx).Where("id = ?", id).Update("number", number).Error
}

func (r *OrderRepository) SetStatus(ctx context.Context, id uint, status string) error {
	return r.Query(ctx).Where("id = ?", id).Update("status", status).Error
}
