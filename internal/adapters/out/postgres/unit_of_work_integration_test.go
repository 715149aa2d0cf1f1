package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	postgresadapter "osrorders/internal/adapters/out/postgres"
	"osrorders/internal/adapters/out/postgres/historyrepo"
	"osrorders/internal/core/domain/model/kernel"
	"osrorders/internal/core/domain/model/order"
	"osrorders/internal/core/ports"
)

// UnitOfWorkIntegrationTestSuite provides integration testing for the
// GORM-based Unit of Work implementation with a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&historyrepo.RecordDTO{}))

	suite.factory = postgresadapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE order_history").Error)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) newRecord() *order.Record {
	return order.RestoreRecord(
		kernel.NewUUID(),
		"src-pick-1",
		order.Standard,
		`<?xml version="1.0"?><host2osr></host2osr>`,
		order.Pending,
		"",
		0,
		"",
		time.Now().UTC().Truncate(time.Microsecond),
		time.Now().UTC().Truncate(time.Microsecond),
	)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestFactoryCreatesSeparateInstances() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2)
	suite.NotNil(uow1.HistoryRepository())
	suite.NotNil(uow2.HistoryRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	// repeated Begin is a no-op, not a nested transaction
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommitWithoutBegin() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommitPersistsRecord() {
	ctx := context.Background()
	uow := suite.factory.Create()
	record := suite.newRecord()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.HistoryRepository().Add(ctx, record))

	// visible inside the transaction
	loaded, err := uow.HistoryRepository().Get(ctx, record.ID())
	suite.Require().NoError(err)
	suite.True(loaded.ID().IsEqual(record.ID()))

	suite.Require().NoError(uow.Commit(ctx))

	// visible to a fresh unit of work after commit
	loaded, err = suite.factory.Create().HistoryRepository().Get(ctx, record.ID())
	suite.Require().NoError(err)
	suite.Equal(record.OrderNumber(), loaded.OrderNumber())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollbackDiscardsRecord() {
	ctx := context.Background()
	uow := suite.factory.Create()
	record := suite.newRecord()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.HistoryRepository().Add(ctx, record))

	_, err := uow.HistoryRepository().Get(ctx, record.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(uow.Rollback(ctx))

	_, err = suite.factory.Create().HistoryRepository().Get(ctx, record.ID())
	suite.Require().Error(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestWithoutTransactionAutoCommits() {
	ctx := context.Background()
	uow := suite.factory.Create()
	record := suite.newRecord()

	suite.Require().NoError(uow.HistoryRepository().Add(ctx, record))

	loaded, err := suite.factory.Create().HistoryRepository().Get(ctx, record.ID())
	suite.Require().NoError(err)
	suite.True(loaded.ID().IsEqual(record.ID()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionIsolation() {
	ctx := context.Background()
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	record1 := suite.newRecord()
	record2 := suite.newRecord()

	suite.Require().NoError(uow1.Begin(ctx))
	suite.Require().NoError(uow2.Begin(ctx))

	suite.Require().NoError(uow1.HistoryRepository().Add(ctx, record1))
	suite.Require().NoError(uow2.HistoryRepository().Add(ctx, record2))

	_, err := uow1.HistoryRepository().Get(ctx, record2.ID())
	suite.Require().Error(err, "uow1 should not see uncommitted record2")

	_, err = uow2.HistoryRepository().Get(ctx, record1.ID())
	suite.Require().Error(err, "uow2 should not see uncommitted record1")

	suite.Require().NoError(uow1.Commit(ctx))
	suite.Require().NoError(uow2.Rollback(ctx))

	fresh := suite.factory.Create().HistoryRepository()
	_, err = fresh.Get(ctx, record1.ID())
	suite.Require().NoError(err, "record1 should persist after commit")
	_, err = fresh.Get(ctx, record2.ID())
	suite.Require().Error(err, "record2 should not persist after rollback")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestPartialFailureRollback() {
	ctx := context.Background()
	uow := suite.factory.Create()

	// record committed before the transaction under test
	existing := suite.newRecord()
	suite.Require().NoError(uow.HistoryRepository().Add(ctx, existing))

	suite.Require().NoError(uow.Begin(ctx))

	fresh := suite.newRecord()
	suite.Require().NoError(uow.HistoryRepository().Add(ctx, fresh))

	// duplicate of the pre-existing record must be rejected
	err := uow.HistoryRepository().Add(ctx, existing)
	suite.Require().ErrorIs(err, ports.ErrRecordAlreadyExists)

	suite.Require().NoError(uow.Rollback(ctx))

	repo := suite.factory.Create().HistoryRepository()
	_, err = repo.Get(ctx, existing.ID())
	suite.Require().NoError(err, "pre-existing record should survive the rollback")
	_, err = repo.Get(ctx, fresh.ID())
	suite.Require().Error(err, "record added inside the transaction should be gone")
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
