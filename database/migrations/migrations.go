// Package migrations contains the schema migrations. Each file registers
// its migrations from init(); cmd/storefront blank-imports this package.
package migrations

import "gorm.io/gorm"

// tables is the shared shape of a migration that auto-migrates a group of
// models together, so gorm can order their foreign keys, and drops the
// listed tables on rollback.
type tables struct {
	models []interface{}
	drop   []string
}

func (m *tables) Up(db *gorm.DB) error {
	return db.AutoMigrate(m.models...)
}

func (m *tables) Down(db *gorm.DB) error {
	for _, t := range m.drop {
		if err := db.Migrator().DropTable(t); err != nil {
			return err
		}
	}
	return nil
}
