package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// FailedJobRecord is a row of the failed_jobs table.
type FailedJobRecord struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	JobType  string    `gorm:"size:255;not null;index"`
	Payload  string    `gorm:"type:text;not null"`
	Error    string    `gorm:"type:text"`
	Attempts int       `gorm:"not null"`
	FailedAt time.Time `gorm:"autoCreateTime"`
}

func (FailedJobRecord) TableName() string { return "failed_jobs" }

func (m *Manager) recordFailed(env envelope, lastErr error, attempts int) {
	now := time.Now()
	m.mu.Lock()
	m.failed = append(m.failed, FailedJob{
		Type: env.Type, Payload: env.Payload, Err: lastErr, FailedAt: now, Attempts: attempts,
	})
	db := m.failedDB
	m.mu.Unlock()

	if db == nil {
		return
	}
	msg := ""
	if lastErr != nil {
		msg = lastErr.Error()
	}
	record := FailedJobRecord{
		JobType:  env.Type,
		Payload:  string(env.Payload),
		Error:    msg,
		Attempts: attempts,
		FailedAt: now,
	}
	if err := db.Create(&record).Error; err != nil {
		logger.Error("queue: persist failed job", "type", env.Type, "error", err)
	}
}

// PruneFailed deletes failed_jobs rows older than age and returns how many
// went.
func PruneFailed(ctx context.Context, db *gorm.DB, age time.Duration) (int64, error) {
	res := db.WithContext(ctx).Where("failed_at < ?", time.Now().Add(-age)).Delete(&FailedJobRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("queue: prune failed jobs: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// ListFailed returns the persisted failures, newest first.
func ListFailed(ctx context.Context, db *gorm.DB, limit int) ([]FailedJobRecord, error) {
	var rows []FailedJobRecord
	q := db.WithContext(ctx).Order("failed_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("queue: list failed jobs: %w", err)
	}
	return rows, nil
}

// RetryFailed pushes the stored payload of failed job id back onto the queue
// and removes the row. The job type must still be registered.
func (m *Manager) RetryFailed(ctx context.Context, id uint) error {
	m.mu.RLock()
	db := m.failedDB
	m.mu.RUnlock()
	if db == nil {
		return errors.New("queue: failed jobs are not persisted")
	}

	var row FailedJobRecord
	if err := db.WithContext(ctx).First(&row, id).Error; err != nil {
		return fmt.Errorf("queue: failed job %d: %w", id, err)
	}
	m.mu.RLock()
	_, known := m.registry[row.JobType]
	d := m.driver
	m.mu.RUnlock()
	if !known {
		return fmt.Errorf("queue: failed job %d: %s is not registered", id, row.JobType)
	}

	env, err := json.Marshal(envelope{Type: row.JobType, Payload: json.RawMessage(row.Payload)})
	if err != nil {
		return fmt.Errorf("queue: marshal envelope: %w", err)
	}
	if err := d.Push(ctx, env); err != nil {
		return err
	}
	return db.WithContext(ctx).Delete(&row).Error
}
