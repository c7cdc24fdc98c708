// Package models holds the gorm models of the store.
package models

import (
	"strings"
	"time"
)

// Model is embedded by every table; unlike gorm.Model it has no soft delete.
type Model struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FileURL turns a stored file path into a public URL. The HTTP kernel points
// it at the configured disk.
var FileURL = func(path string) string {
	if path == "" {
		return ""
	}
	return "/storage/" + strings.TrimLeft(path, "/")
}
