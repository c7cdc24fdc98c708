package repositories

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/storefront/app/models"
)

// SettingRepository stores key/value JSON settings in one of the settings
// tables.
type SettingRepository struct {
	db    *gorm.DB
	table string
}

func NewStoreSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db, table: "store_settings"}
}

func NewSystemSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db, table: "system_settings"}
}

type settingRow struct {
	models.Model
	Key   string
	Value datatypes.JSON
}

// Map returns every setting keyed by its key.
func (r *SettingRepository) Map(ctx context.Context) (map[string]json.RawMessage, error) {
	var rows []settingRow
	if err := Conn(ctx, r.db).Table(r.table).Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]json.RawMessage, len(rows))
	for _, row := range rows {
		out[row.Key] = json.RawMessage(row.Value)
	}
	return out, nil
}

// Upsert inserts or overwrites each key.
func (r *SettingRepository) Upsert(ctx context.Context, values map[string]json.RawMessage) error {
	if len(values) == 0 {
		return nil
	}
	rows := make([]settingRow, 0, len(values))
	for k, v := range values {
		rows = append(rows, settingRow{Key: k, Value: datatypes.JSON(v)})
	}
	return Conn(ctx, r.db).Table(r.table).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rows).Error
}
