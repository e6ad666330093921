package queries

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetPackageEventsQueryHandler retrieves the event history of a package in
// the order events occurred.
type GetPackageEventsQueryHandler struct {
	db *gorm.DB
}

// NewGetPackageEventsQueryHandler creates a handler for package event
// queries.
func NewGetPackageEventsQueryHandler(db *gorm.DB) GetPackageEventsQueryHandler {
	return GetPackageEventsQueryHandler{db: db}
}

// Handle executes the query. An unknown package yields an empty slice, not
// an error.
func (h GetPackageEventsQueryHandler) Handle(
	ctx context.Context,
	query GetPackageEventsQuery,
) ([]GetPackageEventsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	events := make([]GetPackageEventsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, kind, payload, occurred_at
		FROM events
		WHERE package_id = ?
		ORDER BY occurred_at, id
	`, query.PackageID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetPackageEventsQueryResponse
		var id uuid.UUID
		var kind, payload string
		var occurredAt time.Time

		if err = rows.Scan(&id, &kind, &payload, &occurredAt); err != nil {
			return nil, err
		}

		eventID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		resp.ID = eventID
		resp.Kind = kind
		resp.Payload = payload
		resp.OccurredAt = occurredAt
		events = append(events, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
