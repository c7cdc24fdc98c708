package seeders

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
)

func seedStoreSettings(db *gorm.DB) error {
	settings := map[string]string{
		"store_name": `"Storefront"`,
		"phones":     `["+1 555 0100"]`,
		"email":      `"hello@storefront.local"`,
		"work_hours": `"Mon-Fri 9:00-18:00"`,
		"socials":    `{}`,
		"currency":   `"USD"`,
	}
	for key, value := range settings {
		s := models.StoreSetting{}
		if err := db.Where(models.StoreSetting{Key: key}).
			Attrs(models.StoreSetting{Value: datatypes.JSON(value)}).
			FirstOrCreate(&s).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedDelivery(db *gorm.DB) error {
	freeFrom := decimal.NewFromInt(5000)
	deliveries := []models.DeliveryMethod{
		{Name: "Courier", Code: "courier", Price: decimal.NewFromInt(300), FreeFrom: &freeFrom, IsActive: true, SortOrder: 1},
		{Name: "Pickup", Code: "pickup", Price: decimal.Zero, IsActive: true, SortOrder: 2},
	}
	payments := []models.PaymentMethod{
		{Name: "Cash on delivery", Code: "cash", IsActive: true, SortOrder: 1},
		{Name: "Card", Code: "card", IsActive: true, SortOrder: 2},
	}

	ids := map[string]uint{}
	for _, d := range deliveries {
		row := models.DeliveryMethod{}
		if err := db.Where(models.DeliveryMethod{Code: d.Code}).Attrs(d).FirstOrCreate(&row).Error; err != nil {
			return err
		}
		ids[d.Code] = row.ID
	}
	for _, p := range payments {
		row := models.PaymentMethod{}
		if err := db.Where(models.PaymentMethod{Code: p.Code}).Attrs(p).FirstOrCreate(&row).Error; err != nil {
			return err
		}
		ids[p.Code] = row.ID
	}

	pairs := [][2]string{{"courier", "cash"}, {"courier", "card"}, {"pickup", "cash"}, {"pickup", "card"}}
	for _, pair := range pairs {
		pivot := models.DeliveryPaymentMethod{}
		if err := db.Where(models.DeliveryPaymentMethod{DeliveryMethodID: ids[pair[0]], PaymentMethodID: ids[pair[1]]}).
			Attrs(models.DeliveryPaymentMethod{IsActive: true}).
			FirstOrCreate(&pivot).Error; err != nil {
			return err
		}
	}
	return nil
}
