// Package jobs provides scheduled background tasks for the order service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle the periodic maintenance the order history requires.
//
// # Available Jobs
//
// 1. HistoryCleanupJob - removes history records older than the
// configured retention age
// 2. StatusRefreshJob - reconciles Sent and Unknown records with the
// remote system
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(purgeHandler, listHandler, refreshHandler, schedules, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
//   - The refresh job skips records that are busy or no longer refreshable;
//     the next run picks them up
//   - The cleanup job logs failures and retries on the next schedule tick
package jobs
