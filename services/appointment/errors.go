package appointment

import "errors"

var (
	ErrNotFound = errors.New("appointment not found")

	// ErrConflict means the caller lost a write race and should refetch
	// before retrying.
	ErrConflict = errors.New("appointment was modified concurrently")

	// ErrNotReschedulable guards the details update: only pending and
	// confirmed appointments can still be moved.
	ErrNotReschedulable = errors.New("appointment can no longer be rescheduled")
)
