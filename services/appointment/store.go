package appointment

import (
	"context"

	appointmentModel "repair-booking/models/appointment"
)

// EventMeta is the audit information written alongside every mutation
type EventMeta struct {
	Type       string
	FromStatus appointmentModel.Status
	ActorRole  string
	ActorID    string
}

// Store is the durable appointment storage contract. Soft-deleted rows are
// invisible to every method except ListDeleted, Restore and Purge.
type Store interface {
	Create(ctx context.Context, a *appointmentModel.Appointment, meta EventMeta) error

	// GetByID returns ErrNotFound for unknown and soft-deleted ids.
	GetByID(ctx context.Context, id string) (*appointmentModel.Appointment, error)

	// UpdateGuarded persists the record only when the stored
	// status_version still equals expectedVersion, bumping it by one.
	// Returns ErrConflict when the guard fails, ErrNotFound when the row
	// is gone. The audit event is written in the same transaction.
	UpdateGuarded(ctx context.Context, a *appointmentModel.Appointment, expectedVersion int, meta EventMeta) error

	ListActive(ctx context.Context) ([]appointmentModel.Appointment, error)
	ListDeleted(ctx context.Context) ([]appointmentModel.Appointment, error)

	SoftDelete(ctx context.Context, id string, meta EventMeta) error
	Restore(ctx context.Context, id string, meta EventMeta) error
	Purge(ctx context.Context, id string) error
}
