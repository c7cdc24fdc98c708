package models

import "github.com/shopspring/decimal"

type DeliveryMethod struct {
	Model
	Name           string           `gorm:"size:255;not null" json:"name"`
	Code           string           `gorm:"size:100;not null;uniqueIndex" json:"code"`
	Description    string           `gorm:"type:text" json:"description"`
	Price          decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	FreeFrom       *decimal.Decimal `gorm:"type:decimal(12,2)" json:"free_from"`
	IsActive       bool             `gorm:"not null" json:"is_active"`
	SortOrder      int              `gorm:"not null;default:0" json:"sort_order"`
	PaymentMethods []PaymentMethod  `gorm:"-" json:"payment_methods,omitempty"`
}

// PriceFor is the delivery price for an order subtotal: free once the
// subtotal reaches FreeFrom.
func (d *DeliveryMethod) PriceFor(subtotal decimal.Decimal) decimal.Decimal {
	if d.FreeFrom != nil && d.FreeFrom.LessThanOrEqual(subtotal) {
		return decimal.Zero
	}
	return d.Price
}

type PaymentMethod struct {
	Model
	Name        string `gorm:"size:255;not null" json:"name"`
	Code        string `gorm:"size:100;not null;uniqueIndex" json:"code"`
	Description string `gorm:"type:text" json:"description"`
	IsActive    bool   `gorm:"not null" json:"is_active"`
	SortOrder   int    `gorm:"not null;default:0" json:"sort_order"`
}

// DeliveryPaymentMethod is the pivot between delivery and payment methods,
// with its own active flag.
type DeliveryPaymentMethod struct {
	ID               uint `gorm:"primaryKey" json:"id"`
	DeliveryMethodID uint `gorm:"not null;uniqueIndex:idx_delivery_payment" json:"delivery_method_id"`
	PaymentMethodID  uint `gorm:"not null;uniqueIndex:idx_delivery_payment" json:"payment_method_id"`
	IsActive         bool `gorm:"not null" json:"is_active"`
}
