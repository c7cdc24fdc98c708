package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

type CheckoutInput struct {
	DeliveryMethodID uint   `json:"delivery_method_id" validate:"required"`
	PaymentMethodID  uint   `json:"payment_method_id" validate:"required"`
	CustomerName     string `json:"customer_name" validate:"required,max=255"`
	CustomerPhone    string `json:"customer_phone" validate:"required,max=50"`
	CustomerEmail    string `json:"customer_email" validate:"nullable,email,max=255"`
	Address          string `json:"address" validate:"nullable,max=1000"`
	Comment          string `json:"comment" validate:"nullable,max=2000"`
}

type OrderStatusInput struct {
	Status string `json:"status" validate:"required,in=new,processing,shipped,completed,cancelled"`
}

type OrderService struct {
	Deps
	repo       *repositories.OrderRepository
	cart       *repositories.CartRepository
	variants   *repositories.VariantRepository
	deliveries *repositories.DeliveryRepository
}

func NewOrderService(d Deps) *OrderService {
	return &OrderService{
		Deps:       d,
		repo:       repositories.NewOrderRepository(d.DB),
		cart:       repositories.NewCartRepository(d.DB),
		variants:   repositories.NewVariantRepository(d.DB),
		deliveries: repositories.NewDeliveryRepository(d.DB),
	}
}

// Checkout turns the user's cart into an order in one transaction: stock is
// decremented, delivery is priced against the subtotal and the cart is
// emptied.
func (s *OrderService) Checkout(ctx context.Context, userID uint, in CheckoutInput) (*models.Order, error) {
	var order *models.Order
	err := s.tx(ctx, func(ctx context.Context) error {
		items, err := s.cart.Items(ctx, userID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return Invalid("cart", "The cart is empty.")
		}

		delivery, err := s.deliveries.Find(ctx, in.DeliveryMethodID)
		if err != nil && !repositories.IsNotFound(err) {
			return err
		}
		if delivery == nil || !delivery.IsActive {
			return Invalid("delivery_method_id", "The selected delivery method id is invalid.")
		}
		allowed, err := s.deliveries.PaymentAllowed(ctx, delivery.ID, in.PaymentMethodID)
		if err != nil {
			return err
		}
		if !allowed {
			return Invalid("payment_method_id", "The payment method is not available for this delivery method.")
		}

		subtotal := decimal.Zero
		lines := make([]models.OrderItem, 0, len(items))
		for _, it := range items {
			v := it.Variant
			if v == nil || !v.IsActive || v.Product == nil || !v.Product.IsActive {
				return Invalid("cart", "Some products in the cart are no longer available.")
			}
			ok, err := s.variants.DecrementStock(ctx, v.ID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return outOfStock(*v)
			}
			subtotal = subtotal.Add(v.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
			name := v.Product.Name
			if v.Name != "" {
				name += " " + v.Name
			}
			lines = append(lines, models.OrderItem{
				ProductVariantID: v.ID,
				ProductName:      name,
				SKU:              v.SKU,
				Price:            v.Price,
				Quantity:         it.Quantity,
			})
		}
		deliveryPrice := delivery.PriceFor(subtotal)

		order = &models.Order{
			// unique stand-in, replaced by SetNumber once the id is known
			Number:           strings.ReplaceAll(uuid.NewString(), "-", ""),
			UserID:           userID,
			CustomerName:     strings.TrimSpace(in.CustomerName),
			CustomerPhone:    strings.TrimSpace(in.CustomerPhone),
			CustomerEmail:    strings.TrimSpace(in.CustomerEmail),
			Address:          in.Address,
			Comment:          in.Comment,
			DeliveryMethodID: delivery.ID,
			PaymentMethodID:  in.PaymentMethodID,
			Status:           models.OrderNew,
			Subtotal:         subtotal,
			DeliveryPrice:    deliveryPrice,
			Total:            subtotal.Add(deliveryPrice),
			Items:            lines,
		}
		if err := s.repo.Create(ctx, order); err != nil {
			return err
		}
		order.Number = order.OrderNumber()
		if err := s.repo.SetNumber(ctx, order.ID, order.Number); err != nil {
			return err
		}
		return s.cart.Clear(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	full, err := s.repo.FindFull(ctx, order.ID, 0)
	if err != nil {
		return nil, err
	}
	s.Events.Fire(ctx, EventOrderCreated, full)
	return full, nil
}

func (s *OrderService) ForUser(ctx context.Context, userID uint, page orm.PageParams) ([]models.Order, orm.Pagination, error) {
	return s.repo.List(ctx, repositories.OrderFilter{UserID: userID}, page)
}

// FindForUser only sees the user's own orders.
func (s *OrderService) FindForUser(ctx context.Context, id, userID uint) (*models.Order, error) {
	o, err := s.repo.FindFull(ctx, id, userID)
	return o, missing(err, "Order")
}

func (s *OrderService) List(ctx context.Context, status, term string, page orm.PageParams) ([]models.Order, orm.Pagination, error) {
	return s.repo.List(ctx, repositories.OrderFilter{Status: status, Search: term}, page)
}

func (s *OrderService) Find(ctx context.Context, id uint) (*models.Order, error) {
	o, err := s.repo.FindFull(ctx, id, 0)
	return o, missing(err, "Order")
}

// SetStatus changes the order status. Cancelling puts the items back in
// stock; a cancelled order stays cancelled.
func (s *OrderService) SetStatus(ctx context.Context, id uint, in OrderStatusInput) (*models.Order, error) {
	err := s.tx(ctx, func(ctx context.Context) error {
		o, err := s.repo.FindFull(ctx, id, 0)
		if err != nil {
			return missing(err, "Order")
		}
		if o.Status == in.Status {
			return nil
		}
		if o.Status == models.OrderCancelled {
			return Invalid("status", "A cancelled order cannot change status.")
		}
		if in.Status == models.OrderCancelled {
			for _, it := range o.Items {
				if err := s.variants.IncrementStock(ctx, it.ProductVariantID, it.Quantity); err != nil {
					return fmt.Errorf("restore stock of variant %d: %w", it.ProductVariantID, err)
				}
			}
		}
		return s.repo.SetStatus(ctx, id, in.Status)
	})
	if err != nil {
		return nil, err
	}
	return s.Find(ctx, id)
}
