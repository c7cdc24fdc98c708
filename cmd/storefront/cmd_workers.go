package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storefront/pkg/app"
	"github.com/shashiranjanraj/storefront/pkg/queue"
)

var (
	queueWorkers     int
	queueFailedLimit int
)

var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Process queued notification jobs until interrupted",
	RunE: withApp(func(ctx context.Context, a *app.App, _ []string) error {
		n := max(queueWorkers, 1)
		fmt.Printf("Processing jobs with %d workers (Ctrl+C to stop)\n", n)
		a.Queue.StartWorkers(ctx, n).Wait()
		return nil
	}),
}

var queueFailedCmd = &cobra.Command{
	Use:   "queue:failed",
	Short: "List jobs that exhausted their retries",
	RunE: withApp(func(ctx context.Context, a *app.App, _ []string) error {
		rows, err := queue.ListFailed(ctx, a.DB, queueFailedLimit)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Println("No failed jobs.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tJOB\tTRIES\tFAILED AT\tERROR")
		for _, r := range rows {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", r.ID, r.JobType, r.Attempts, r.FailedAt.Format("2006-01-02 15:04"), r.Error)
		}
		return w.Flush()
	}),
}

var queueRetryCmd = &cobra.Command{
	Use:   "queue:retry ID...",
	Short: "Push failed jobs back onto the queue",
	Args:  cobra.MinimumNArgs(1),
	RunE: withApp(func(ctx context.Context, a *app.App, args []string) error {
		for _, arg := range args {
			id, err := strconv.ParseUint(arg, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid job id %q", arg)
			}
			if err := a.Queue.RetryFailed(ctx, uint(id)); err != nil {
				return err
			}
			fmt.Printf("Queued failed job %d again\n", id)
		}
		return nil
	}),
}

var scheduleRunCmd = &cobra.Command{
	Use:   "schedule:run",
	Short: "Run the maintenance scheduler in the foreground",
	RunE: withApp(func(ctx context.Context, a *app.App, _ []string) error {
		for _, task := range a.Schedule.List() {
			fmt.Println(" ", task)
		}
		a.Schedule.Start(ctx)
		<-ctx.Done()
		a.Schedule.Wait()
		return nil
	}),
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkers, "workers", "w", 5, "Concurrent workers")
	queueFailedCmd.Flags().IntVar(&queueFailedLimit, "limit", 50, "Rows to show (0 for all)")
}
