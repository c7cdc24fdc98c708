// Package seeders fills a fresh database with what the store needs to run:
// permissions, roles, the first administrator, store settings and the
// delivery and payment methods. Every seeder is idempotent, so running
// them against a live database only adds what is missing.
package seeders

import (
	"fmt"
	"slices"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// Seeder populates one concern inside its own transaction.
type Seeder struct {
	Name string
	Run  func(tx *gorm.DB) error
}

// All lists the seeders in dependency order: roles need permissions and the
// admin account needs roles.
var All = []Seeder{
	{"permissions", seedPermissions},
	{"roles", seedRoles},
	{"admin_user", seedAdminUser},
	{"store_settings", seedStoreSettings},
	{"delivery_methods", seedDelivery},
}

// RunAll runs every seeder and returns the names that completed.
func RunAll(db *gorm.DB) ([]string, error) { return Run(db) }

// Run runs the named seeders, or all of them when none are named, stopping
// at the first failure.
func Run(db *gorm.DB, only ...string) ([]string, error) {
	for _, name := range only {
		if !slices.ContainsFunc(All, func(s Seeder) bool { return s.Name == name }) {
			return nil, fmt.Errorf("seeders: unknown seeder %q", name)
		}
	}

	var done []string
	for _, s := range All {
		if len(only) > 0 && !slices.Contains(only, s.Name) {
			continue
		}
		if err := db.Transaction(s.Run); err != nil {
			return done, fmt.Errorf("seeders: %s: %w", s.Name, err)
		}
		logger.Debug("seeded", "seeder", s.Name)
		done = append(done, s.Name)
	}
	return done, nil
}
