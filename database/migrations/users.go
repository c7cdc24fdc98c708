package migrations

import (
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_users_tables", &tables{
		models: []interface{}{&models.Permission{}, &models.Role{}, &models.User{}},
		drop:   []string{"user_roles", "role_permissions", "users", "roles", "permissions"},
	})
}
