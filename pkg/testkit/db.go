// Package testkit is the test harness for the storefront: a migrated and
// seeded in-memory database, an API wrapper that boots the whole app over
// httptest, and a JSON scenario runner for table-style endpoint tests.
//
//	func TestCreateBrand(t *testing.T) {
//	    api := testkit.NewAPI(t)
//	    res := api.Post("/api/admin/brands", map[string]any{"name": "Acme"}, api.AdminToken())
//	    res.AssertStatus(http.StatusCreated)
//	}
package testkit

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	// registers the schema migrations
	_ "github.com/shashiranjanraj/storefront/database/migrations"
	"github.com/shashiranjanraj/storefront/database/seeders"
	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

// Admin credentials created by the seeders.
const (
	AdminEmail    = "admin@storefront.local"
	AdminPassword = "password"
)

// RawDB opens an empty private in-memory database.
func RawDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the shared-cache database alive and serialises writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// DB opens a migrated and seeded in-memory database.
func DB(t testing.TB) *gorm.DB {
	t.Helper()
	db := RawDB(t)
	_, err := migration.New(db).Run()
	require.NoError(t, err, "migrate")
	_, err = seeders.RunAll(db)
	require.NoError(t, err, "seed")
	return db
}
