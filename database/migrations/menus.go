package migrations

import (
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

func init() {
	migration.Register("20260101000004_create_catalog_menus_tables", &tables{
		models: []interface{}{&models.CatalogMenu{}, &models.CatalogMenuSection{}, &models.CatalogMenuItem{}},
		drop:   []string{"catalog_menu_items", "catalog_menu_sections", "catalog_menus"},
	})
	migration.Register("20260101000005_create_settings_tables", &tables{
		models: []interface{}{&models.StoreSetting{}, &models.SystemSetting{}},
		drop:   []string{"system_settings", "store_settings"},
	})
}
