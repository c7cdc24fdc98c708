package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/collection"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

type PaymentLinkInput struct {
	ID       uint `json:"id" validate:"required"`
	IsActive bool `json:"is_active"`
}

type DeliveryMethodInput struct {
	Name           string             `json:"name" validate:"required,max=255"`
	Code           string             `json:"code" validate:"required,alpha_dash,max=100"`
	Description    string             `json:"description"`
	Price          decimal.Decimal    `json:"price" validate:"gte=0"`
	FreeFrom       *decimal.Decimal   `json:"free_from" validate:"nullable,gte=0"`
	IsActive       bool               `json:"is_active"`
	SortOrder      int                `json:"sort_order" validate:"gte=0"`
	PaymentMethods []PaymentLinkInput `json:"payment_methods" validate:"dive"`
}

type PaymentMethodInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Code        string `json:"code" validate:"required,alpha_dash,max=100"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
	SortOrder   int    `json:"sort_order" validate:"gte=0"`
}

// DeliveryMethodView is the admin view of a delivery method with its
// payment links.
type DeliveryMethodView struct {
	*models.DeliveryMethod
	Payments []models.DeliveryPaymentMethod `json:"payments"`
}

type DeliveryService struct {
	Deps
	repo     *repositories.DeliveryRepository
	payments *repositories.PaymentRepository
}

func NewDeliveryService(d Deps) *DeliveryService {
	return &DeliveryService{
		Deps:     d,
		repo:     repositories.NewDeliveryRepository(d.DB),
		payments: repositories.NewPaymentRepository(d.DB),
	}
}

// Active lists what the checkout offers: active delivery methods with their
// enabled payment methods.
func (s *DeliveryService) Active(ctx context.Context) ([]models.DeliveryMethod, error) {
	return s.repo.ActiveWithPayments(ctx)
}

func (s *DeliveryService) ListMethods(ctx context.Context, term string, page orm.PageParams) ([]models.DeliveryMethod, orm.Pagination, error) {
	return s.repo.List(ctx, term, page)
}

func (s *DeliveryService) FindMethod(ctx context.Context, id uint) (*DeliveryMethodView, error) {
	m, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, missing(err, "Delivery method")
	}
	pivots, err := s.repo.Pivots(ctx, id)
	if err != nil {
		return nil, err
	}
	return &DeliveryMethodView{DeliveryMethod: m, Payments: pivots}, nil
}

func (s *DeliveryService) CreateMethod(ctx context.Context, in DeliveryMethodInput) (*DeliveryMethodView, error) {
	m := &models.DeliveryMethod{}
	if err := s.saveMethod(ctx, m, in); err != nil {
		return nil, err
	}
	return s.FindMethod(ctx, m.ID)
}

func (s *DeliveryService) UpdateMethod(ctx context.Context, id uint, in DeliveryMethodInput) (*DeliveryMethodView, error) {
	m, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, missing(err, "Delivery method")
	}
	if err := s.saveMethod(ctx, m, in); err != nil {
		return nil, err
	}
	return s.FindMethod(ctx, id)
}

func (s *DeliveryService) saveMethod(ctx context.Context, m *models.DeliveryMethod, in DeliveryMethodInput) error {
	code := strings.TrimSpace(in.Code)
	if taken, err := s.repo.Exists(ctx, "code", code, m.ID); err != nil {
		return err
	} else if taken {
		return Invalid("code", "The code has already been taken.")
	}

	// the last entry for a payment method wins
	links := collection.KeyBy(in.PaymentMethods, func(l PaymentLinkInput) uint { return l.ID })
	ids := collection.Unique(collection.Map(in.PaymentMethods, func(l PaymentLinkInput) uint { return l.ID }))
	if found, err := s.payments.FindMany(ctx, ids); err != nil {
		return err
	} else if len(found) != len(ids) {
		return Invalid("payment_methods", "The selected payment methods is invalid.")
	}
	states := collection.Map(ids, func(id uint) repositories.PivotState {
		return repositories.PivotState{PaymentMethodID: id, IsActive: links[id].IsActive}
	})

	m.Name = strings.TrimSpace(in.Name)
	m.Code = code
	m.Description = in.Description
	m.Price = in.Price
	m.FreeFrom = in.FreeFrom
	m.IsActive = in.IsActive
	m.SortOrder = in.SortOrder

	return s.tx(ctx, func(ctx context.Context) error {
		var err error
		if m.ID == 0 {
			err = s.repo.Create(ctx, m)
		} else {
			err = s.repo.Save(ctx, m)
		}
		if err != nil {
			return err
		}
		return s.repo.SyncPayments(ctx, m.ID, states)
	})
}

// DeleteMethod refuses methods that orders were placed with.
func (s *DeliveryService) DeleteMethod(ctx context.Context, id uint) error {
	if _, err := s.repo.Find(ctx, id); err != nil {
		return missing(err, "Delivery method")
	}
	n, err := s.repo.OrderCount(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return Invalid("delivery_method", "The delivery method is used by orders and cannot be deleted.")
	}
	return s.tx(ctx, func(ctx context.Context) error { return s.repo.DeleteCascade(ctx, id) })
}

func (s *DeliveryService) ListPayments(ctx context.Context, term string, page orm.PageParams) ([]models.PaymentMethod, orm.Pagination, error) {
	return s.payments.List(ctx, term, page)
}

func (s *DeliveryService) FindPayment(ctx context.Context, id uint) (*models.PaymentMethod, error) {
	p, err := s.payments.Find(ctx, id)
	return p, missing(err, "Payment method")
}

func (s *DeliveryService) CreatePayment(ctx context.Context, in PaymentMethodInput) (*models.PaymentMethod, error) {
	p := &models.PaymentMethod{}
	if err := s.savePayment(ctx, p, in); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *DeliveryService) UpdatePayment(ctx context.Context, id uint, in PaymentMethodInput) (*models.PaymentMethod, error) {
	p, err := s.FindPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.savePayment(ctx, p, in); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *DeliveryService) savePayment(ctx context.Context, p *models.PaymentMethod, in PaymentMethodInput) error {
	code := strings.TrimSpace(in.Code)
	if taken, err := s.payments.Exists(ctx, "code", code, p.ID); err != nil {
		return err
	} else if taken {
		return Invalid("code", "The code has already been taken.")
	}
	p.Name = strings.TrimSpace(in.Name)
	p.Code = code
	p.Description = in.Description
	p.IsActive = in.IsActive
	p.SortOrder = in.SortOrder
	if p.ID == 0 {
		return s.payments.Create(ctx, p)
	}
	return s.payments.Save(ctx, p)
}

func (s *DeliveryService) DeletePayment(ctx context.Context, id uint) error {
	if _, err := s.FindPayment(ctx, id); err != nil {
		return err
	}
	n, err := s.payments.OrderCount(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return Invalid("payment_method", "The payment method is used by orders and cannot be deleted.")
	}
	return s.tx(ctx, func(ctx context.Context) error { return s.payments.DeleteCascade(ctx, id) })
}
