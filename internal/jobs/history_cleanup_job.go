package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"osrorders/internal/core/application/usecases/commands"
)

// HistoryCleanupJob runs the retention sweep on a schedule, removing
// history records older than the configured retention age.
type HistoryCleanupJob struct {
	handler  commands.PurgeHistoryCommandHandler
	schedule string
	maxAge   time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewHistoryCleanupJob creates a job for history retention.
// The schedule is a standard five-field cron expression.
func NewHistoryCleanupJob(
	handler commands.PurgeHistoryCommandHandler,
	schedule string,
	maxAge time.Duration,
	logger *slog.Logger,
) *HistoryCleanupJob {
	return &HistoryCleanupJob{
		handler:  handler,
		schedule: schedule,
		maxAge:   maxAge,
		cron:     cron.New(),
		logger:   logger.With("component", "history_cleanup_job"),
	}
}

// Start begins the scheduled retention sweeps.
func (j *HistoryCleanupJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()

		cmd, err := commands.NewPurgeHistoryCommand(j.maxAge)
		if err != nil {
			j.logger.ErrorContext(ctx, "History cleanup job misconfigured", "error", err)
			return
		}

		removed, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "History cleanup job failed", "error", err)
			return
		}
		if removed > 0 {
			j.logger.InfoContext(ctx, "History cleanup removed aged records", "removed", removed)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "History cleanup job started",
		"schedule", j.schedule, "max_age", j.maxAge.String())
	return nil
}

// Stop stops the history cleanup job.
func (j *HistoryCleanupJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "History cleanup job stopped")
}
