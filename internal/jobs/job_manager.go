package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"osrorders/internal/core/application/usecases/commands"
	"osrorders/internal/core/application/usecases/queries"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	historyCleanupJob *HistoryCleanupJob
	statusRefreshJob  *StatusRefreshJob
}

// JobSchedules carries the cron expressions and retention age the jobs
// run with.
type JobSchedules struct {
	Cleanup      string
	Refresh      string
	RetentionAge time.Duration
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command and query handlers as dependencies to wire up job execution.
func NewJobManager(
	purgeHandler commands.PurgeHistoryCommandHandler,
	listHandler queries.ListOrdersQueryHandler,
	refreshHandler commands.RefreshStatusCommandHandler,
	schedules JobSchedules,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		historyCleanupJob: NewHistoryCleanupJob(purgeHandler, schedules.Cleanup, schedules.RetentionAge, logger),
		statusRefreshJob:  NewStatusRefreshJob(listHandler, refreshHandler, schedules.Refresh, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.historyCleanupJob.Start(); err != nil {
		return fmt.Errorf("failed to start history cleanup job: %w", err)
	}

	if err := jm.statusRefreshJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.historyCleanupJob.Stop()
		return fmt.Errorf("failed to start status refresh job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.historyCleanupJob.Stop()
	jm.statusRefreshJob.Stop()
}
