package ports

import (
	"context"

	"dispatch/internal/core/domain/model/event"
)

// EventRepository defines the persistence contract for audit events.
// Events are append-only; there is no update path.
type EventRepository interface {
	// Add persists a new event record.
	Add(ctx context.Context, aggregate *event.Event) error
}
