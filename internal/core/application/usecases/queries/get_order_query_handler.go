package queries

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"osrorders/internal/core/domain/model/kernel"
	"osrorders/internal/pkg/errs"
)

// GetOrderQueryHandler retrieves a single history record from the database.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single record queries.
// Requires a GORM database connection for query execution.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query. Returns errs.ObjectNotFoundError when no
// record with the given identifier exists.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_number,
			kind,
			status,
			document,
			remote_reference,
			attempts,
			last_error,
			created_at,
			last_updated_at
		FROM order_history
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	var resp GetOrderQueryResponse
	var id uuid.UUID

	err := row.Scan(
		&id,
		&resp.OrderNumber,
		&resp.Kind,
		&resp.Status,
		&resp.Document,
		&resp.RemoteReference,
		&resp.Attempts,
		&resp.LastError,
		&resp.CreatedAt,
		&resp.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, sql.ErrNoRows) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID())
		}
		return GetOrderQueryResponse{}, err
	}

	recordID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.ID = recordID

	return resp, nil
}
