package app

import (
	"context"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/internal/server"
)

// ServeOptions tune Serve.
type ServeOptions struct {
	// Workers is the number of in-process queue workers; 0 runs none, for
	// deployments with a separate queue:work process.
	Workers int
	// Scheduler runs the maintenance tasks in this process.
	Scheduler bool
}

// Serve runs the HTTP server with the live feed hub, queue workers and the
// scheduler until ctx is done.
func (a *App) Serve(ctx context.Context, o ServeOptions) error {
	bg := []func(context.Context){a.Hub.Run}
	if o.Workers > 0 {
		bg = append(bg, func(ctx context.Context) { a.Queue.StartWorkers(ctx, o.Workers).Wait() })
	}
	if o.Scheduler {
		bg = append(bg, func(ctx context.Context) {
			a.Schedule.Start(ctx)
			<-ctx.Done()
			a.Schedule.Wait()
		})
	}

	return server.Run(ctx, server.Config{
		Addr:       ":" + config.AppPort(),
		Handler:    a.Handler(),
		GRPCPort:   config.GRPCPort(),
		Probe:      a.Ping,
		Background: bg,
	})
}
