package schedule_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/storefront/pkg/schedule"
)

func TestIntervalTask(t *testing.T) {
	s := schedule.New()
	var n atomic.Int32
	s.Every(time.Minute).Name("tick").Run(func(context.Context) error {
		n.Add(1)
		return nil
	})

	ctx := context.Background()
	t0 := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, s.RunDue(ctx, t0))
	assert.Equal(t, 0, s.RunDue(ctx, t0.Add(30*time.Second)))
	assert.Equal(t, 1, s.RunDue(ctx, t0.Add(61*time.Second)))
	s.Wait()
	assert.Equal(t, int32(1), n.Load())
}

func TestCronFiresOncePerMinute(t *testing.T) {
	s := schedule.New()
	var n atomic.Int32
	s.Cron("30 3 * * 1-5").Run(func(context.Context) error {
		n.Add(1)
		return errors.New("logged, not fatal")
	})

	ctx := context.Background()
	monday := time.Date(2026, 1, 5, 3, 30, 0, 0, time.UTC)
	assert.Equal(t, 1, s.RunDue(ctx, monday))
	assert.Equal(t, 0, s.RunDue(ctx, monday.Add(20*time.Second)))
	assert.Equal(t, 0, s.RunDue(ctx, monday.Add(time.Minute)))

	sunday := time.Date(2026, 1, 4, 3, 30, 0, 0, time.UTC)
	assert.Equal(t, 0, s.RunDue(ctx, sunday))
	s.Wait()
	assert.Equal(t, int32(1), n.Load())
}

func TestCronFieldForms(t *testing.T) {
	s := schedule.New()
	s.Cron("*/15 8,20 * * *").Run(func(context.Context) error { return nil })

	ctx := context.Background()
	assert.Equal(t, 1, s.RunDue(ctx, time.Date(2026, 3, 1, 20, 45, 0, 0, time.UTC)))
	assert.Equal(t, 0, s.RunDue(ctx, time.Date(2026, 3, 1, 20, 50, 0, 0, time.UTC)))
	assert.Equal(t, 0, s.RunDue(ctx, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)))
	s.Wait()
}

func TestWithoutOverlapping(t *testing.T) {
	s := schedule.New()
	release := make(chan struct{})
	s.Cron("* * * * *").WithoutOverlapping().Run(func(context.Context) error {
		<-release
		return nil
	})

	ctx := context.Background()
	t0 := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, s.RunDue(ctx, t0))
	assert.Equal(t, 0, s.RunDue(ctx, t0.Add(time.Minute)))
	close(release)
	s.Wait()
	assert.Equal(t, 1, s.RunDue(ctx, t0.Add(2*time.Minute)))
	s.Wait()
}

func TestList(t *testing.T) {
	s := schedule.New()
	s.Hourly().Name("catalog:warm").Run(func(context.Context) error { return nil })
	s.Cron("0 4 * * *").Run(func(context.Context) error { return nil })
	assert.Equal(t, []string{"catalog:warm [every 1h0m0s]", "task-2 [0 4 * * *]"}, s.List())
}

func TestInvalidCronPanics(t *testing.T) {
	assert.Panics(t, func() { schedule.New().Cron("* *") })
}
