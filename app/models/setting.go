package models

import "gorm.io/datatypes"

// StoreSetting is a public key/value setting (phones, socials, banners).
type StoreSetting struct {
	Model
	Key   string         `gorm:"size:191;not null;uniqueIndex" json:"key"`
	Value datatypes.JSON `json:"value"`
}

// SystemSetting is an admin-only key/value setting.
type SystemSetting struct {
	Model
	Key   string         `gorm:"size:191;not null;uniqueIndex" json:"key"`
	Value datatypes.JSON `json:"value"`
}
