package cmd

import (
	"log/slog"

	"osrorders/internal/adapters/in/http"
	"osrorders/internal/adapters/out/osr"
	"osrorders/internal/adapters/out/postgres"
	"osrorders/internal/adapters/out/postgres/catalogrepo"
	"osrorders/internal/core/application/usecases/commands"
	"osrorders/internal/core/application/usecases/queries"
	"osrorders/internal/core/domain/model/order"
	"osrorders/internal/core/domain/services"
	"osrorders/internal/core/ports"
	"osrorders/internal/jobs"
	"osrorders/internal/pkg/idlock"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	gateway    ports.OsrGateway
	builder    order.DocumentBuilder
	sandbox    services.SandboxCommandGenerator
	locks      *idlock.Registry
	logger     *slog.Logger
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) (CompositionRoot, error) {
	gateway, err := osr.NewClient(configs.OsrBaseURL, configs.OsrCallTimeout, logger)
	if err != nil {
		return CompositionRoot{}, err
	}

	builder, err := order.NewDocumentBuilder(order.BuildConfig{
		Name:          configs.OperatorName,
		CapacitySpecs: configs.CapacitySpecs,
	})
	if err != nil {
		return CompositionRoot{}, err
	}

	sandbox, err := services.NewSandboxCommandGenerator(configs.OsrID)
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		configs:    configs,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		gateway:    gateway,
		builder:    builder,
		sandbox:    sandbox,
		locks:      idlock.NewRegistry(),
		logger:     logger,
	}, nil
}

func (c *CompositionRoot) submitPolicy() commands.SubmitPolicy {
	policy := commands.DefaultSubmitPolicy()
	if c.configs.MaxSendAttempts > 0 {
		policy.MaxAttempts = c.configs.MaxSendAttempts
	}
	if c.configs.BackoffBase > 0 {
		policy.BackoffBase = c.configs.BackoffBase
	}
	if c.configs.BackoffCap > 0 {
		policy.BackoffCap = c.configs.BackoffCap
	}
	return policy
}

func (c *CompositionRoot) historyUoWFactory() commands.HistoryUoWFactory {
	return FuncHistoryUoWFactory(func() commands.HistoryUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateSubmitOrderCommandHandler() (commands.SubmitOrderCommandHandler, error) {
	return commands.NewSubmitOrderCommandHandler(
		c.historyUoWFactory(), c.gateway, c.builder, c.locks, c.submitPolicy())
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.historyUoWFactory(), c.gateway, c.locks)
}

func (c *CompositionRoot) CreateRefreshStatusCommandHandler() commands.RefreshStatusCommandHandler {
	return commands.NewRefreshStatusCommandHandler(c.historyUoWFactory(), c.gateway, c.locks)
}

func (c *CompositionRoot) CreatePurgeHistoryCommandHandler() commands.PurgeHistoryCommandHandler {
	return commands.NewPurgeHistoryCommandHandler(c.historyUoWFactory(), c.locks)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateCatalogReader() ports.CatalogReader {
	return catalogrepo.NewGormCatalogRepository(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() (*http.Server, error) {
	submitHandler, err := c.CreateSubmitOrderCommandHandler()
	if err != nil {
		return nil, err
	}

	return http.NewServer(
		submitHandler,
		c.CreateCancelOrderCommandHandler(),
		c.CreateRefreshStatusCommandHandler(),
		c.CreatePurgeHistoryCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateListOrdersQueryHandler(),
		c.sandbox,
		c.CreateCatalogReader(),
	), nil
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreatePurgeHistoryCommandHandler(),
		c.CreateListOrdersQueryHandler(),
		c.CreateRefreshStatusCommandHandler(),
		jobs.JobSchedules{
			Cleanup:      c.configs.CleanupSchedule,
			Refresh:      c.configs.RefreshSchedule,
			RetentionAge: c.configs.RetentionAge,
		},
		c.logger,
	)
}

type FuncHistoryUoWFactory func() commands.HistoryUoW

func (f FuncHistoryUoWFactory) Create() commands.HistoryUoW {
	return f()
}
