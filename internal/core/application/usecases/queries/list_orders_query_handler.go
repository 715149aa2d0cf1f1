package queries

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"osrorders/internal/core/domain/model/kernel"
)

// ListOrdersQueryHandler retrieves history record summaries from the
// database, most recently updated first.
type ListOrdersQueryHandler struct {
	db *gorm.DB
}

// NewListOrdersQueryHandler creates a handler for history listing queries.
// Requires a GORM database connection for query execution.
func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

// Handle executes the query. An empty status filter returns the full
// history.
func (h ListOrdersQueryHandler) Handle(
	ctx context.Context,
	query ListOrdersQuery,
) ([]ListOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	records := make([]ListOrdersQueryResponse, 0)

	tx := h.db.WithContext(ctx)
	statement := `
		SELECT
			id,
			order_number,
			kind,
			status,
			remote_reference,
			attempts,
			last_error,
			created_at,
			last_updated_at
		FROM order_history
	`

	var rows *sql.Rows
	var err error

	if statuses := query.Statuses(); len(statuses) > 0 {
		names := make([]string, 0, len(statuses))
		for _, status := range statuses {
			names = append(names, status.String())
		}
		rows, err = tx.Raw(statement+`
		WHERE status IN (?)
		ORDER BY last_updated_at DESC
	`, names).Rows()
	} else {
		rows, err = tx.Raw(statement + `
		ORDER BY last_updated_at DESC
	`).Rows()
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp ListOrdersQueryResponse
		var id uuid.UUID

		err := rows.Scan(
			&id,
			&resp.OrderNumber,
			&resp.Kind,
			&resp.Status,
			&resp.RemoteReference,
			&resp.Attempts,
			&resp.LastError,
			&resp.CreatedAt,
			&resp.LastUpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		recordID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = recordID

		records = append(records, resp)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
