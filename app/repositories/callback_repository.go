package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

type CallbackRepository struct {
	Repository[models.CallbackRequest]
}

func NewCallbackRepository(db *gorm.DB) *CallbackRepository {
	return &CallbackRepository{NewRepository[models.CallbackRequest](db)}
}

func (r *CallbackRepository) List(ctx context.Context, status, term string, page orm.PageParams) ([]models.CallbackRequest, orm.Pagination, error) {
	q := Search(r.Query(ctx), term, "name", "phone").Order("created_at desc, id desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	return r.Paginate(q, page)
}
