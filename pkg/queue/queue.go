// Package queue runs background jobs through a pluggable driver (in-memory
// channel or Redis list).
//
// Jobs are JSON encoded with their Go type name. A worker decodes them into
// a value built by the factory registered for that name, so factories can
// close over dependencies the payload does not carry:
//
//	q.Register(func() queue.Job { return &jobs.NotifyCallbackRequest{Mailer: m} })
//	q.Dispatch(ctx, &jobs.NotifyCallbackRequest{CallbackID: 7})
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

// Job is implemented by every queued job.
type Job interface {
	Handle(ctx context.Context) error
}

// Driver is the queue storage backend. Pop returns (nil, nil) when no job
// arrived before its internal timeout.
type Driver interface {
	Push(ctx context.Context, payload []byte) error
	Pop(ctx context.Context) ([]byte, error)
}

// Dispatcher is the narrow interface services depend on.
type Dispatcher interface {
	Dispatch(ctx context.Context, job Job) error
}

// FailedJob is a job that exhausted its retries.
type FailedJob struct {
	Type     string
	Payload  []byte
	Err      error
	FailedAt time.Time
	Attempts int
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Manager owns the driver, the job registry and the failed-job log.
type Manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job
	failed   []FailedJob
	failedDB *gorm.DB
	maxRetry int
	backoff  func(attempt int) time.Duration
}

// New returns a manager over driver with 3 attempts and linear backoff.
func New(driver Driver) *Manager {
	return &Manager{
		driver:   driver,
		registry: map[string]func() Job{},
		maxRetry: 3,
		backoff:  func(attempt int) time.Duration { return time.Duration(attempt) * time.Second },
	}
}

// SetMaxRetry sets how many attempts a job gets.
func (m *Manager) SetMaxRetry(n int) {
	m.mu.Lock()
	m.maxRetry = n
	m.mu.Unlock()
}

// SetBackoff replaces the delay between attempts.
func (m *Manager) SetBackoff(fn func(attempt int) time.Duration) {
	m.mu.Lock()
	m.backoff = fn
	m.mu.Unlock()
}

// UseDB persists exhausted jobs into the failed_jobs table.
func (m *Manager) UseDB(db *gorm.DB) {
	m.mu.Lock()
	m.failedDB = db
	m.mu.Unlock()
}

// Register makes a job type decodable. The name is taken from the value
// the factory returns.
func (m *Manager) Register(factory func() Job) {
	name := typeName(factory())
	m.mu.Lock()
	m.registry[name] = factory
	m.mu.Unlock()
}

func typeName(job Job) string { return fmt.Sprintf("%T", job) }

// Dispatch pushes job onto the queue.
func (m *Manager) Dispatch(ctx context.Context, job Job) error {
	name := typeName(job)

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal job %s: %w", name, err)
	}
	env, err := json.Marshal(envelope{Type: name, Payload: payload})
	if err != nil {
		return fmt.Errorf("queue: marshal envelope: %w", err)
	}

	m.mu.RLock()
	d := m.driver
	m.mu.RUnlock()
	return d.Push(ctx, env)
}

// StartWorkers launches n workers that run until ctx is cancelled. The
// returned WaitGroup completes when all of them have stopped.
func (m *Manager) StartWorkers(ctx context.Context, n int) *sync.WaitGroup {
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.work(ctx)
		}()
	}
	logger.Info("queue: workers started", "count", n)
	return &wg
}

func (m *Manager) work(ctx context.Context) {
	for ctx.Err() == nil {
		if _, err := m.ProcessNext(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("queue: pop failed", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(500 * time.Millisecond):
			}
		}
	}
}

// ProcessNext pops one job and runs it with retries. It reports whether a
// job was popped.
func (m *Manager) ProcessNext(ctx context.Context) (bool, error) {
	m.mu.RLock()
	d := m.driver
	m.mu.RUnlock()

	raw, err := d.Pop(ctx)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	m.process(ctx, raw)
	return true, nil
}

func (m *Manager) process(ctx context.Context, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	m.mu.RUnlock()
	if !ok {
		logger.Warn("queue: unregistered job type", "type", env.Type)
		m.recordFailed(env, errors.New("unregistered job type"), 0)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: unmarshal payload", "type", env.Type, "error", err)
		m.recordFailed(env, err, 0)
		return
	}

	m.runWithRetry(ctx, job, env)
}

func (m *Manager) runWithRetry(ctx context.Context, job Job, env envelope) {
	m.mu.RLock()
	maxRetry, backoff := m.maxRetry, m.backoff
	m.mu.RUnlock()

	var lastErr error
	for attempt := 1; attempt <= maxRetry; attempt++ {
		start := time.Now()
		err := job.Handle(ctx)
		if err == nil {
			metrics.RecordQueueJob(env.Type, "success", start)
			logger.Info("queue: job processed", "type", env.Type, "attempt", attempt)
			return
		}
		metrics.RecordQueueJob(env.Type, "failed", start)
		lastErr = err
		logger.Warn("queue: job failed", "type", env.Type, "attempt", attempt, "error", err)

		if attempt < maxRetry {
			select {
			case <-ctx.Done():
				m.recordFailed(env, ctx.Err(), attempt)
				return
			case <-time.After(backoff(attempt)):
			}
		}
	}

	logger.Error("queue: job exhausted retries", "type", env.Type, "error", lastErr)
	m.recordFailed(env, lastErr, maxRetry)
}

// FailedJobs returns a snapshot of the jobs that failed in this process.
func (m *Manager) FailedJobs() []FailedJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]FailedJob(nil), m.failed...)
}
