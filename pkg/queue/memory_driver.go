package queue

import (
	"context"
	"fmt"
	"time"
)

// MemoryDriver is an in-process, channel-backed driver. Not durable across
// restarts.
type MemoryDriver struct {
	ch      chan []byte
	timeout time.Duration
}

// NewMemoryDriver creates an in-memory queue buffering up to size jobs.
func NewMemoryDriver(size int) *MemoryDriver {
	if size <= 0 {
		size = 1000
	}
	return &MemoryDriver{ch: make(chan []byte, size), timeout: time.Second}
}

// Push fails instead of blocking when the buffer is full.
func (d *MemoryDriver) Push(_ context.Context, payload []byte) error {
	select {
	case d.ch <- payload:
		return nil
	default:
		return fmt.Errorf("queue/memory: buffer full (%d jobs)", cap(d.ch))
	}
}

func (d *MemoryDriver) Pop(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case payload := <-d.ch:
		return payload, nil
	case <-time.After(d.timeout):
		return nil, nil
	}
}

// Len reports how many jobs are waiting.
func (d *MemoryDriver) Len() int { return len(d.ch) }
