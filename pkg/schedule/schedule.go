// Package schedule runs recurring maintenance tasks inside a process.
//
//	s := schedule.New()
//	s.Every(time.Hour).Name("catalog:warm").Run(warm)
//	s.Cron("30 3 * * *").Name("failed-jobs:prune").WithoutOverlapping().Run(prune)
//	s.Start(ctx)
//
// Interval tasks first run one interval after Start. Cron tasks use five
// fields (minute hour dom month dow); each field is *, n, */step, a-b or a
// comma list of those, and fires at most once per minute.
package schedule

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// Task is one scheduled unit of work.
type Task func(ctx context.Context) error

type entry struct {
	name      string
	interval  time.Duration
	cron      []string
	task      Task
	noOverlap bool

	mu      sync.Mutex
	next    time.Time
	lastMin time.Time
	running bool
}

// Scheduler holds the registered tasks.
type Scheduler struct {
	mu      sync.Mutex
	entries []*entry
	tick    time.Duration
	now     func() time.Time
	wg      sync.WaitGroup
}

func New() *Scheduler {
	return &Scheduler{tick: time.Second, now: time.Now}
}

// Builder configures one task before Run registers it.
type Builder struct {
	s *Scheduler
	e *entry
}

// Every schedules a task at a fixed interval.
func (s *Scheduler) Every(d time.Duration) *Builder {
	return &Builder{s: s, e: &entry{interval: d}}
}

func (s *Scheduler) Hourly() *Builder { return s.Every(time.Hour) }
func (s *Scheduler) Daily() *Builder  { return s.Every(24 * time.Hour) }

// Cron schedules a task with a five-field expression. An invalid expression
// panics at registration.
func (s *Scheduler) Cron(expr string) *Builder {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		panic(fmt.Sprintf("schedule: cron %q needs 5 fields", expr))
	}
	return &Builder{s: s, e: &entry{cron: fields}}
}

func (b *Builder) Name(name string) *Builder {
	b.e.name = name
	return b
}

// WithoutOverlapping skips a run while the previous one is still going.
func (b *Builder) WithoutOverlapping() *Builder {
	b.e.noOverlap = true
	return b
}

// Run registers the task.
func (b *Builder) Run(t Task) {
	b.e.task = t
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	if b.e.name == "" {
		b.e.name = fmt.Sprintf("task-%d", len(b.s.entries)+1)
	}
	b.s.entries = append(b.s.entries, b.e)
}

func (s *Scheduler) snapshot() []*entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entry(nil), s.entries...)
}

// Start runs the scheduler loop until ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	start := s.now()
	for _, e := range s.snapshot() {
		e.mu.Lock()
		if e.interval > 0 {
			e.next = start.Add(e.interval)
		}
		e.mu.Unlock()
	}

	go func() {
		t := time.NewTicker(s.tick)
		defer t.Stop()
		logger.Info("schedule: started", "tasks", len(s.snapshot()))
		for {
			select {
			case <-ctx.Done():
				logger.Info("schedule: stopped")
				return
			case <-t.C:
				s.RunDue(ctx, s.now())
			}
		}
	}()
}

// RunDue starts every task due at now and returns how many were started.
func (s *Scheduler) RunDue(ctx context.Context, now time.Time) int {
	started := 0
	for _, e := range s.snapshot() {
		if s.claim(e, now) {
			started++
			s.wg.Add(1)
			go s.run(ctx, e)
		}
	}
	return started
}

// Wait blocks until every started task has returned.
func (s *Scheduler) Wait() { s.wg.Wait() }

func (s *Scheduler) claim(e *entry, now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cron != nil {
		minute := now.Truncate(time.Minute)
		if minute.Equal(e.lastMin) || !matchCron(e.cron, now) {
			return false
		}
		e.lastMin = minute
	} else {
		if e.next.IsZero() {
			e.next = now.Add(e.interval)
			return false
		}
		if now.Before(e.next) {
			return false
		}
		e.next = now.Add(e.interval)
	}

	if e.noOverlap && e.running {
		logger.Warn("schedule: previous run still active, skipping", "task", e.name)
		return false
	}
	e.running = true
	return true
}

func (s *Scheduler) run(ctx context.Context, e *entry) {
	defer s.wg.Done()
	start := time.Now()
	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		if r := recover(); r != nil {
			logger.Error("schedule: task panicked", "task", e.name, "panic", r)
		}
	}()

	if err := e.task(ctx); err != nil {
		logger.Error("schedule: task failed", "task", e.name, "error", err)
		return
	}
	logger.Debug("schedule: task done", "task", e.name, "took", time.Since(start))
}

// List describes the registered tasks for the CLI.
func (s *Scheduler) List() []string {
	var out []string
	for _, e := range s.snapshot() {
		freq := strings.Join(e.cron, " ")
		if freq == "" {
			freq = "every " + e.interval.String()
		}
		out = append(out, fmt.Sprintf("%s [%s]", e.name, freq))
	}
	return out
}

func matchCron(fields []string, t time.Time) bool {
	vals := [5]int{t.Minute(), t.Hour(), t.Day(), int(t.Month()), int(t.Weekday())}
	for i, f := range fields {
		if !matchField(f, vals[i]) {
			return false
		}
	}
	return true
}

func matchField(field string, val int) bool {
	for _, part := range strings.Split(field, ",") {
		if matchPart(part, val) {
			return true
		}
	}
	return false
}

func matchPart(part string, val int) bool {
	switch {
	case part == "*":
		return true
	case strings.HasPrefix(part, "*/"):
		step, err := strconv.Atoi(part[2:])
		return err == nil && step > 0 && val%step == 0
	case strings.Contains(part, "-"):
		lo, hi, _ := strings.Cut(part, "-")
		a, err1 := strconv.Atoi(lo)
		b, err2 := strconv.Atoi(hi)
		return err1 == nil && err2 == nil && val >= a && val <= b
	default:
		n, err := strconv.Atoi(part)
		return err == nil && n == val
	}
}
