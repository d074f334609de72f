package sched

import (
	"context"
	"time"

	"github.com/jakhon09-png/vizabot/core/logger"
	"log/slog"
)

// Job is the unit of scheduled work.
type Job func(ctx context.Context) error

// Daily fires a job at a fixed wall-clock time once per day. It runs in its
// own goroutine, independent of the per-update path, and holds no locks
// while firing.
type Daily struct {
	hour   int
	minute int
	job    Job
	now    func() time.Time
}

// NewDaily builds a scheduler firing at hour:minute local time.
func NewDaily(hour, minute int, job Job) *Daily {
	return &Daily{hour: hour, minute: minute, job: job, now: time.Now}
}

// NextRun returns the first firing time strictly after now.
func (d *Daily) NextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), d.hour, d.minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Run blocks until ctx is done, firing the job daily. Job failures are
// logged and never stop the schedule.
func (d *Daily) Run(ctx context.Context) {
	for {
		next := d.NextRun(d.now())
		logger.Debug(ctx, "sched", "next_run",
			slog.String("payload", next.Format(time.RFC3339)),
		)

		timer := time.NewTimer(next.Sub(d.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		start := time.Now()
		err := d.job(ctx)
		attrs := []slog.Attr{
			slog.String("status", logger.Status(err)),
			slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
		}
		if err != nil {
			attrs = append(attrs, slog.String("err", logger.SanitizeLimit(err.Error(), 256)))
			logger.Warn(ctx, "sched", "job.failed", attrs...)
			continue
		}
		logger.Info(ctx, "sched", "job.done", attrs...)
	}
}
