package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

// PivotState is one delivery/payment pair with its active flag.
type PivotState struct {
	PaymentMethodID uint
	IsActive        bool
}

type DeliveryRepository struct {
	Repository[models.DeliveryMethod]
}

func NewDeliveryRepository(db *gorm.DB) *DeliveryRepository {
	return &DeliveryRepository{NewRepository[models.DeliveryMethod](db)}
}

func (r *DeliveryRepository) List(ctx context.Context, term string, page orm.PageParams) ([]models.DeliveryMethod, orm.Pagination, error) {
	return r.Paginate(Search(r.Query(ctx), term, "name", "code").Order("sort_order, id"), page)
}

// ActiveWithPayments returns active delivery methods, each carrying the
// payment methods that are active and enabled for it.
func (r *DeliveryRepository) ActiveWithPayments(ctx context.Context) ([]models.DeliveryMethod, error) {
	methods := []models.DeliveryMethod{}
	if err := r.DB(ctx).Where("is_active = ?", true).Order("sort_order, id").Find(&methods).Error; err != nil {
		return nil, err
	}
	if len(methods) == 0 {
		return methods, nil
	}
	ids := make([]uint, len(methods))
	for i, m := range methods {
		ids[i] = m.ID
	}

	var rows []struct {
		DeliveryMethodID uint
		models.PaymentMethod
	}
	err := r.DB(ctx).
		Table("payment_methods").
		Select("delivery_payment_methods.delivery_method_id, payment_methods.*").
		Joins("JOIN delivery_payment_methods ON delivery_payment_methods.payment_method_id = payment_methods.id").
		Where("delivery_payment_methods.delivery_method_id IN ?", ids).
		Where("delivery_payment_methods.is_active = ? AND payment_methods.is_active = ?", true, true).
		Order("payment_methods.sort_order, payment_methods.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	byMethod := map[uint][]models.PaymentMethod{}
	for _, row := range rows {
		byMethod[row.DeliveryMethodID] = append(byMethod[row.DeliveryMethodID], row.PaymentMethod)
	}
	for i := range methods {
		methods[i].PaymentMethods = byMethod[methods[i].ID]
		if methods[i].PaymentMethods == nil {
			methods[i].PaymentMethods = []models.PaymentMethod{}
		}
	}
	return methods, nil
}

// Pivots returns the payment pivot rows of a delivery method.
func (r *DeliveryRepository) Pivots(ctx context.Context, deliveryID uint) ([]models.DeliveryPaymentMethod, error) {
	out := []models.DeliveryPaymentMethod{}
	err := r.DB(ctx).Where("delivery_method_id = ?", deliveryID).Order("payment_method_id").Find(&out).Error
	return out, err
}

// SyncPayments replaces the pivot rows of a delivery method.
func (r *DeliveryRepository) SyncPayments(ctx context.Context, deliveryID uint, states []PivotState) error {
	db := r.DB(ctx)
	if err := deleteWhere(db, "delivery_payment_methods", "delivery_method_id = ?", deliveryID); err != nil {
		return err
	}
	if len(states) == 0 {
		return nil
	}
	rows := make([]models.DeliveryPaymentMethod, len(states))
	for i, s := range states {
		rows[i] = models.DeliveryPaymentMethod{DeliveryMethodID: deliveryID, PaymentMethodID: s.PaymentMethodID, IsActive: s.IsActive}
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "delivery_method_id"}, {Name: "payment_method_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_active"}),
	}).Create(&rows).Error
}

// PaymentAllowed reports whether the payment method is active and enabled
// for the active delivery method.
func (r *DeliveryRepository) PaymentAllowed(ctx context.Context, deliveryID, paymentID uint) (bool, error) {
	var n int64
	err := r.DB(ctx).
		Table("delivery_payment_methods").
		Joins("JOIN delivery_methods ON delivery_methods.id = delivery_payment_methods.delivery_method_id").
		Joins("JOIN payment_methods ON payment_methods.id = delivery_payment_methods.payment_method_id").
		Where("delivery_payment_methods.delivery_method_id = ? AND delivery_payment_methods.payment_method_id = ?", deliveryID, paymentID).
		Where("delivery_payment_methods.is_active = ? AND delivery_methods.is_active = ? AND payment_methods.is_active = ?", true, true, true).
		Count(&n).Error
	return n > 0, err
}

// OrderCount counts orders placed with the delivery method.
func (r *DeliveryRepository) OrderCount(ctx context.Context, id uint) (int64, error) {
	var n int64
	err := r.DB(ctx).Model(&models.Order{}).Where("delivery_method_id = ?", id).Count(&n).Error
	return n, err
}

func (r *DeliveryRepository) DeleteCascade(ctx context.Context, id uint) error {
	db := r.DB(ctx)
	if err := deleteWhere(db, "delivery_payment_methods", "delivery_method_id = ?", id); err != nil {
		return err
	}
	return db.Delete(&models.DeliveryMethod{}, id).Error
}

type PaymentRepository struct {
	Repository[models.PaymentMethod]
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{NewRepository[models.PaymentMethod](db)}
}

func (r *PaymentRepository) List(ctx context.Context, term string, page orm.PageParams) ([]models.PaymentMethod, orm.Pagination, error) {
	return r.Paginate(Search(r.Query(ctx), term, "name", "code").Order("sort_order, id"), page)
}

func (r *PaymentRepository) OrderCount(ctx context.Context, id uint) (int64, error) {
	var n int64
	err := r.DB(ctx).Model(&models.Order{}).Where("payment_method_id = ?", id).Count(&n).Error
	return n, err
}

func (r *PaymentRepository) DeleteCascade(ctx context.Context, id uint) error {
	db := r.DB(ctx)
	if err := deleteWhere(db, "delivery_payment_methods", "payment_method_id = ?", id); err != nil {
		return err
	}
	return db.Delete(&models.PaymentMethod{}, id).Error
}
