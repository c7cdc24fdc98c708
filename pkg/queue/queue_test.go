package queue_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/queue"
)

type echoJob struct {
	Val    string `json:"val"`
	called *atomic.Int32
	seen   *atomic.Value
}

func (j *echoJob) Handle(context.Context) error {
	j.called.Add(1)
	j.seen.Store(j.Val)
	return nil
}

type failJob struct {
	attempts *atomic.Int32
}

func (j *failJob) Handle(context.Context) error {
	j.attempts.Add(1)
	return errors.New("always fails")
}

func newManager() *queue.Manager {
	m := queue.New(queue.NewMemoryDriver(10))
	m.SetBackoff(func(int) time.Duration { return 0 })
	return m
}

func TestDispatchAndProcess(t *testing.T) {
	ctx := context.Background()
	m := newManager()

	called := &atomic.Int32{}
	seen := &atomic.Value{}
	m.Register(func() queue.Job { return &echoJob{called: called, seen: seen} })

	require.NoError(t, m.Dispatch(ctx, &echoJob{Val: "hello"}))
	ok, err := m.ProcessNext(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int32(1), called.Load())
	assert.Equal(t, "hello", seen.Load())
}

func TestFailedJobRetry(t *testing.T) {
	ctx := context.Background()
	m := newManager()
	m.SetMaxRetry(2)

	attempts := &atomic.Int32{}
	m.Register(func() queue.Job { return &failJob{attempts: attempts} })

	require.NoError(t, m.Dispatch(ctx, &failJob{}))
	_, err := m.ProcessNext(ctx)
	require.NoError(t, err)

	assert.Equal(t, int32(2), attempts.Load())
	failed := m.FailedJobs()
	require.Len(t, failed, 1)
	assert.Equal(t, "*queue_test.failJob", failed[0].Type)
	assert.Equal(t, 2, failed[0].Attempts)
}

func TestUnregisteredJobIsRecorded(t *testing.T) {
	ctx := context.Background()
	m := newManager()
	require.NoError(t, m.Dispatch(ctx, &failJob{}))
	_, err := m.ProcessNext(ctx)
	require.NoError(t, err)
	assert.Len(t, m.FailedJobs(), 1)
}

func TestWorkersDrainQueue(t *testing.T) {
	m := newManager()
	called := &atomic.Int32{}
	m.Register(func() queue.Job { return &echoJob{called: called, seen: &atomic.Value{}} })

	for i := 0; i < 5; i++ {
		require.NoError(t, m.Dispatch(context.Background(), &echoJob{Val: "x"}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := m.StartWorkers(ctx, 2)
	assert.Eventually(t, func() bool { return called.Load() == 5 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	wg.Wait()
}

func TestMemoryDriverFull(t *testing.T) {
	d := queue.NewMemoryDriver(1)
	require.NoError(t, d.Push(context.Background(), []byte("a")))
	assert.Error(t, d.Push(context.Background(), []byte("b")))
	assert.Equal(t, 1, d.Len())
}

func TestFailedJobsPersistAndPrune(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenSQLite("file:queue_failed?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&queue.FailedJobRecord{}))

	m := newManager()
	m.SetMaxRetry(1)
	m.UseDB(db)
	m.Register(func() queue.Job { return &failJob{attempts: &atomic.Int32{}} })
	require.NoError(t, m.Dispatch(ctx, &failJob{}))
	_, err = m.ProcessNext(ctx)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&queue.FailedJobRecord{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	old := queue.FailedJobRecord{JobType: "old", Payload: "{}", Attempts: 1, FailedAt: time.Now().Add(-60 * 24 * time.Hour)}
	require.NoError(t, db.Create(&old).Error)

	n, err := queue.PruneFailed(ctx, db, 30*24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	require.NoError(t, db.Model(&queue.FailedJobRecord{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	rows, err := queue.ListFailed(ctx, db, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0].JobType, "failJob")

	require.NoError(t, m.RetryFailed(ctx, rows[0].ID))
	require.NoError(t, db.Model(&queue.FailedJobRecord{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	// it fails again and lands back in the table
	_, err = m.ProcessNext(ctx)
	require.NoError(t, err)
	require.NoError(t, db.Model(&queue.FailedJobRecord{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	assert.Error(t, m.RetryFailed(ctx, 9999))
}
