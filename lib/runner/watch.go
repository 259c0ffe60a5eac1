package runner

import (
	"context"
	"golfboard/internal/components/chrono"
)

const report_watch = "watch"

// Watch runs every target on the given cron schedule until ctx is cancelled.
// A run that is still going when the next one is due skips that tick.
func (r Runner) Watch(ctx context.Context, cron chrono.CronAPI, schedule string, targets []Target) error {
	err := cron.Cron(schedule, func() {
		results, err := r.Run(ctx, targets)
		if err != nil {
			r.Tel.ReportWarning(report_watch, err)
		}
		r.Tel.ReportCount(report_watch, int64(len(results)))
	})
	if err != nil {
		return err
	}

	<-ctx.Done()
	<-cron.Stop()
	return nil
}
