package models

import "time"

const (
	CallbackNew        = "new"
	CallbackInProgress = "in_progress"
	CallbackDone       = "done"
)

type CallbackRequest struct {
	Model
	Name        string     `gorm:"size:255;not null" json:"name"`
	Phone       string     `gorm:"size:50;not null" json:"phone"`
	Comment     string     `gorm:"type:text" json:"comment"`
	Status      string     `gorm:"size:20;not null;default:new;index" json:"status"`
	ProcessedAt *time.Time `json:"processed_at"`
}
