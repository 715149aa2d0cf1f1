package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"osrorders/internal/core/application/usecases/commands"
	"osrorders/internal/core/domain/model/kernel"
	"osrorders/internal/core/domain/model/order"
	"osrorders/internal/core/ports"
	"osrorders/internal/pkg/errs"
)

// fakeHistoryRepo is an in-memory HistoryRepository. It stores snapshots,
// so a record mutated by the handler is only visible after Update, the same
// way a database-backed repository behaves.
type fakeHistoryRepo struct {
	mu      sync.Mutex
	records map[string]*order.Record
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{records: make(map[string]*order.Record)}
}

func snapshot(record *order.Record) *order.Record {
	return order.RestoreRecord(
		record.ID(),
		record.OrderNumber(),
		record.Kind(),
		record.Document(),
		record.Status(),
		record.RemoteReference(),
		record.Attempts(),
		record.LastError(),
		record.CreatedAt(),
		record.LastUpdatedAt(),
	)
}

func (f *fakeHistoryRepo) Add(_ context.Context, record *order.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[record.ID().String()]; ok {
		return ports.ErrRecordAlreadyExists
	}
	f.records[record.ID().String()] = snapshot(record)
	return nil
}

func (f *fakeHistoryRepo) Update(_ context.Context, record *order.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[record.ID().String()]; !ok {
		return errs.NewObjectNotFoundError("record", record.ID())
	}
	f.records[record.ID().String()] = snapshot(record)
	return nil
}

func (f *fakeHistoryRepo) Get(_ context.Context, id kernel.UUID) (*order.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("record", id)
	}
	return snapshot(record), nil
}

func (f *fakeHistoryRepo) List(_ context.Context, filter ports.HistoryFilter) ([]*order.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*order.Record
	for _, record := range f.records {
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, record.Status()) {
			continue
		}
		if !filter.UpdatedBefore.IsZero() && !record.LastUpdatedAt().Before(filter.UpdatedBefore) {
			continue
		}
		out = append(out, snapshot(record))
	}
	return out, nil
}

func (f *fakeHistoryRepo) Remove(_ context.Context, id kernel.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, id.String())
	return nil
}

func (f *fakeHistoryRepo) mustGet(t *testing.T, id kernel.UUID) *order.Record {
	t.Helper()
	record, err := f.Get(context.Background(), id)
	require.NoError(t, err)
	return record
}

func (f *fakeHistoryRepo) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

func containsStatus(statuses []order.Status, status order.Status) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// fakeUoW hands out the shared repo; transaction control is a no-op.
type fakeUoW struct {
	repo *fakeHistoryRepo
}

func (u *fakeUoW) Begin(context.Context) error                { return nil }
func (u *fakeUoW) Commit(context.Context) error               { return nil }
func (u *fakeUoW) Rollback(context.Context) error             { return nil }
func (u *fakeUoW) HistoryRepository() ports.HistoryRepository { return u.repo }

type fakeUoWFactory struct {
	repo *fakeHistoryRepo
}

func (f *fakeUoWFactory) Create() commands.HistoryUoW {
	return &fakeUoW{repo: f.repo}
}

// MockOsrGateway is a testify mock of ports.OsrGateway.
type MockOsrGateway struct{ mock.Mock }

func (m *MockOsrGateway) Send(ctx context.Context, document string) (ports.RemoteReference, error) {
	args := m.Called(ctx, document)
	return args.Get(0).(ports.RemoteReference), args.Error(1)
}

func (m *MockOsrGateway) Cancel(ctx context.Context, ref ports.RemoteReference) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

func (m *MockOsrGateway) QueryStatus(ctx context.Context, ref ports.RemoteReference) (ports.RemoteStatus, error) {
	args := m.Called(ctx, ref)
	return args.Get(0).(ports.RemoteStatus), args.Error(1)
}

func testDocumentBuilder(t *testing.T) order.DocumentBuilder {
	t.Helper()
	builder, err := order.NewDocumentBuilder(order.BuildConfig{Name: "src"})
	require.NoError(t, err)
	return builder
}

func standardSpec(t *testing.T, dryRun bool) order.OrderSpec {
	t.Helper()
	spec, err := order.NewOrderSpec(order.Standard, []order.Field{
		{Name: order.FieldQuantity, Value: "10"},
		{Name: order.FieldContainerNumber, Value: "T925001"},
		{Name: order.FieldProductCode, Value: "test01"},
		{Name: order.FieldProductName, Value: "Test-Product-1"},
		{Name: order.FieldOrderNumber, Value: "1"},
	}, dryRun)
	require.NoError(t, err)
	return spec
}

// seedRecord puts a record with the given status directly into the repo.
func seedRecord(t *testing.T, repo *fakeHistoryRepo, status order.Status, updatedAt time.Time) kernel.UUID {
	t.Helper()
	id := kernel.NewUUID()
	ref := ""
	if status != order.Pending && status != order.Failed {
		ref = "osr-42"
	}
	record := order.RestoreRecord(id, "src-pick-1", order.Standard, "<host2osr/>",
		status, ref, 1, "", updatedAt, updatedAt)
	require.NoError(t, repo.Add(context.Background(), record))
	return id
}

func fastPolicy() commands.SubmitPolicy {
	return commands.SubmitPolicy{
		MaxAttempts: 3,
		BackoffBase: time.Millisecond,
		BackoffCap:  2 * time.Millisecond,
	}
}
