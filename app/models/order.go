package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	OrderNew        = "new"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderCompleted  = "completed"
	OrderCancelled  = "cancelled"
)

// OrderStatuses lists every valid order status.
var OrderStatuses = []string{OrderNew, OrderProcessing, OrderShipped, OrderCompleted, OrderCancelled}

type Order struct {
	Model
	Number           string          `gorm:"size:32;uniqueIndex" json:"number"`
	UserID           uint            `gorm:"not null;index" json:"user_id"`
	CustomerName     string          `gorm:"size:255;not null" json:"customer_name"`
	CustomerPhone    string          `gorm:"size:50;not null" json:"customer_phone"`
	CustomerEmail    string          `gorm:"size:255" json:"customer_email"`
	Address          string          `gorm:"size:1000" json:"address"`
	Comment          string          `gorm:"type:text" json:"comment"`
	DeliveryMethodID uint            `gorm:"not null" json:"delivery_method_id"`
	PaymentMethodID  uint            `gorm:"not null" json:"payment_method_id"`
	Status           string          `gorm:"size:20;not null;default:new;index" json:"status"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	DeliveryPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"delivery_price"`
	Total            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Items            []OrderItem     `json:"items,omitempty"`
	DeliveryMethod   *DeliveryMethod `json:"delivery_method,omitempty"`
	PaymentMethod    *PaymentMethod  `json:"payment_method,omitempty"`
}

// OrderNumber formats the public number: YYYYMMDD-<id padded to 6>.
func (o *Order) OrderNumber() string {
	return fmt.Sprintf("%s-%06d", o.CreatedAt.Format("20060102"), o.ID)
}

type OrderItem struct {
	Model
	OrderID          uint            `gorm:"not null;index" json:"order_id"`
	ProductVariantID uint            `gorm:"not null" json:"variant_id"`
	ProductName      string          `gorm:"size:255;not null" json:"product_name"`
	SKU              string          `gorm:"column:sku;size:100;not null" json:"sku"`
	Price            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Quantity         int             `gorm:"not null" json:"quantity"`
}
