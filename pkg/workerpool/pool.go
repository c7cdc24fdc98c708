// Package workerpool bounds the goroutines spent on fire-and-forget work such
// as async event listeners. Try rejects work when every worker is busy and
// the backlog is full; Go waits for room.
package workerpool

import (
	"errors"
	"sync"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

var (
	ErrFull   = errors.New("workerpool: backlog full")
	ErrClosed = errors.New("workerpool: closed")
)

// Pool runs tasks on a fixed set of workers.
type Pool struct {
	tasks  chan func()
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
	once   sync.Once
}

// New starts size workers with a backlog of twice that.
func New(size int) *Pool {
	if size < 1 {
		size = 1
	}
	p := &Pool{
		tasks: make(chan func(), size*2),
		done:  make(chan struct{}),
	}
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}
	return p
}

// Try queues task without blocking.
func (p *Pool) Try(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrFull
	}
}

// Go queues task, waiting for backlog room.
func (p *Pool) Go(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.tasks <- task:
		return nil
	case <-p.done:
		return ErrClosed
	}
}

// Close stops accepting tasks and waits for the queued ones to finish.
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.done)
		p.mu.Lock()
		p.closed = true
		close(p.tasks)
		p.mu.Unlock()
		p.wg.Wait()
	})
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		run(task)
	}
}

func run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("workerpool: task panicked", "panic", r)
		}
	}()
	task()
}
