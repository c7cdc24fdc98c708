// Package app wires the storefront together: database, disk, cache, event
// bus, queue, live feed, mailer and services. Boot builds everything from
// configuration; New takes ready-made pieces, which is what tests use.
//
//	a, err := app.Boot(ctx)
//	if err != nil { ... }
//	defer a.Close()
//	return a.Serve(ctx)
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/jobs"
	"github.com/shashiranjanraj/storefront/app/listeners"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/internal/kernel"
	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/mail"
	"github.com/shashiranjanraj/storefront/pkg/queue"
	"github.com/shashiranjanraj/storefront/pkg/router"
	"github.com/shashiranjanraj/storefront/pkg/schedule"
	"github.com/shashiranjanraj/storefront/pkg/storage"
	"github.com/shashiranjanraj/storefront/pkg/workerpool"
	"github.com/shashiranjanraj/storefront/pkg/ws"
)

// FailedJobRetention is how long failed_jobs rows are kept.
const FailedJobRetention = 30 * 24 * time.Hour

// App is the booted application.
type App struct {
	DB       *gorm.DB
	Disk     storage.Disk
	Cache    cache.Store
	Events   *event.Bus
	Queue    *queue.Manager
	Hub      *ws.Hub
	Mailer   mail.Mailer
	Services *services.Services
	Schedule *schedule.Scheduler

	pool  *workerpool.Pool
	redis *redis.Client
}

// Options are the pieces New wires together. Only DB is required.
type Options struct {
	DB     *gorm.DB
	Disk   storage.Disk
	Cache  cache.Store
	Mailer mail.Mailer
	// QueueDriver defaults to an in-memory driver.
	QueueDriver queue.Driver
	// AdminEmail receives store notifications.
	AdminEmail string
	// SyncEvents runs listeners on the request goroutine.
	SyncEvents bool
	// ListenerWorkers bounds async listeners; 0 means 8.
	ListenerWorkers int
}

// New wires an App from o.
func New(o Options) *App {
	if o.Cache == nil {
		o.Cache = cache.NewMemory()
	}
	if o.Mailer == nil {
		o.Mailer = mail.LogMailer{}
	}
	if o.QueueDriver == nil {
		o.QueueDriver = queue.NewMemoryDriver(1024)
	}
	if o.ListenerWorkers <= 0 {
		o.ListenerWorkers = 8
	}

	a := &App{
		DB:       o.DB,
		Disk:     o.Disk,
		Cache:    o.Cache,
		Events:   event.New(),
		Queue:    queue.New(o.QueueDriver),
		Hub:      ws.NewHub(),
		Mailer:   o.Mailer,
		Schedule: schedule.New(),
		pool:     workerpool.New(o.ListenerWorkers),
	}
	a.Events.UsePool(a.pool)
	a.Queue.UseDB(o.DB)

	jobs.Register(a.Queue, jobs.Env{DB: o.DB, Mailer: o.Mailer, Admin: o.AdminEmail})
	listeners.Register(a.Events, a.Hub, a.Queue)

	var firer event.Firer = a.Events.Async()
	if o.SyncEvents {
		firer = a.Events
	}
	a.Services = services.New(services.Deps{
		DB:     o.DB,
		Disk:   o.Disk,
		Cache:  o.Cache,
		Events: firer,
	})

	a.Schedule.Hourly().Name("catalog:warm-cache").WithoutOverlapping().Run(a.warmCache)
	a.Schedule.Cron("30 3 * * *").Name("failed-jobs:prune").Run(func(ctx context.Context) error {
		n, err := queue.PruneFailed(ctx, a.DB, FailedJobRetention)
		if err == nil && n > 0 {
			logger.Info("pruned failed jobs", "count", n)
		}
		return err
	})
	return a
}

// Boot builds the App from configuration. A Redis cache or queue that cannot
// be reached falls back to the memory driver with a warning.
func Boot(ctx context.Context) (*App, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("app: load config: %w", err)
	}

	if uri := config.LogMongoURI(); uri != "" {
		if err := logger.AttachMongo(uri, "storefront", "logs"); err != nil {
			logger.Warn("mongo log sink disabled", "error", err)
		}
	}

	db, err := database.Connect()
	if err != nil {
		return nil, err
	}

	disk, err := storage.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("app: open storage: %w", err)
	}

	store, err := cache.New(ctx)
	if err != nil {
		logger.Warn("cache: falling back to memory driver", "error", err)
		store = cache.NewMemory()
	}

	var rdb *redis.Client
	var driver queue.Driver
	if config.QueueDriver() == "redis" {
		rdb = redis.NewClient(&redis.Options{Addr: config.RedisAddr(), Password: config.RedisPassword()})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("queue: falling back to memory driver", "error", err)
			_ = rdb.Close()
			rdb = nil
		} else {
			driver = queue.NewRedisDriver(rdb)
		}
	}

	a := New(Options{
		DB:          db,
		Disk:        disk,
		Cache:       store,
		Mailer:      mail.New(),
		QueueDriver: driver,
		AdminEmail:  config.MailAdmin(),
	})
	a.redis = rdb
	return a, nil
}

// Router builds the HTTP router with every route registered.
func (a *App) Router() *router.Router {
	return kernel.New(kernel.Deps{Services: a.Services, Disk: a.Disk, Hub: a.Hub})
}

// Handler is the HTTP handler for the whole API.
func (a *App) Handler() http.Handler { return a.Router().Handler() }

// Ping reports whether the database answers.
func (a *App) Ping(ctx context.Context) error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (a *App) warmCache(ctx context.Context) error {
	_, err1 := a.Services.Categories.Tree(ctx)
	_, err2 := a.Services.Menus.Active(ctx)
	_, err3 := a.Services.Settings.Store(ctx)
	return errors.Join(err1, err2, err3)
}

// Close drains async listeners and releases connections.
func (a *App) Close() {
	a.pool.Close()
	a.Events.Wait()
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	logger.Close()
}
