package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/robfig/cron/v3"

	"osrorders/internal/core/application/usecases/commands"
	"osrorders/internal/core/application/usecases/queries"
	"osrorders/internal/core/domain/model/kernel"
	"osrorders/internal/core/domain/model/order"
)

// StatusRefreshJob periodically reconciles in-flight records with the
// remote system, so completions and remote cancellations land in history
// without an operator asking for them.
type StatusRefreshJob struct {
	listHandler    queries.ListOrdersQueryHandler
	refreshHandler commands.RefreshStatusCommandHandler
	schedule       string
	cron           *cron.Cron
	logger         *slog.Logger
}

// NewStatusRefreshJob creates a job refreshing all Sent and Unknown records.
// The schedule is a standard five-field cron expression.
func NewStatusRefreshJob(
	listHandler queries.ListOrdersQueryHandler,
	refreshHandler commands.RefreshStatusCommandHandler,
	schedule string,
	logger *slog.Logger,
) *StatusRefreshJob {
	return &StatusRefreshJob{
		listHandler:    listHandler,
		refreshHandler: refreshHandler,
		schedule:       schedule,
		cron:           cron.New(),
		logger:         logger.With("component", "status_refresh_job"),
	}
}

// Start begins the scheduled refresh runs.
func (j *StatusRefreshJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		j.run(context.Background())
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Status refresh job started", "schedule", j.schedule)
	return nil
}

// Stop stops the status refresh job.
func (j *StatusRefreshJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Status refresh job stopped")
}

func (j *StatusRefreshJob) run(ctx context.Context) {
	query, err := queries.NewListOrdersQuery(order.Sent, order.Unknown)
	if err != nil {
		j.logger.ErrorContext(ctx, "Status refresh job misconfigured", "error", err)
		return
	}

	records, err := j.listHandler.Handle(ctx, query)
	if err != nil {
		j.logger.ErrorContext(ctx, "Status refresh job could not list records", "error", err)
		return
	}

	for _, record := range records {
		j.refresh(ctx, record.ID)
	}
}

func (j *StatusRefreshJob) refresh(ctx context.Context, id kernel.UUID) {
	cmd, err := commands.NewRefreshStatusCommand(id)
	if err != nil {
		j.logger.ErrorContext(ctx, "Status refresh job skipped record", "order_id", id.String(), "error", err)
		return
	}

	if err := j.refreshHandler.Handle(ctx, cmd); err != nil {
		// a busy record is being worked on right now; the next run gets it
		if errors.Is(err, commands.ErrOrderBusy) || errors.Is(err, commands.ErrOrderNotRefreshable) {
			return
		}
		j.logger.WarnContext(ctx, "Status refresh failed", "order_id", id.String(), "error", err)
	}
}
