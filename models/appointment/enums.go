package appointment

import "fmt"

// Status represents the lifecycle state of an appointment
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusRejected   Status = "rejected"
)

// Helper methods for Status
func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the status has no outgoing transitions
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusRejected
}

// RequiresCancellation returns true if the status must carry cancellation data
func (s Status) RequiresCancellation() bool {
	return s == StatusCancelled || s == StatusRejected
}

// statusAliases maps the legacy dashboard labels onto the canonical enum.
// The source UI said "upcoming" for confirmed appointments and spelled
// in_progress with a dash in some modules.
var statusAliases = map[string]Status{
	"upcoming":    StatusConfirmed,
	"in-progress": StatusInProgress,
}

// ParseStatus converts a raw string to a Status, accepting legacy aliases.
func ParseStatus(raw string) (Status, error) {
	if alias, ok := statusAliases[raw]; ok {
		return alias, nil
	}
	s := Status(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("unknown appointment status %q", raw)
	}
	return s, nil
}

// GetAllStatuses returns every canonical appointment status
func GetAllStatuses() []Status {
	return []Status{
		StatusPending,
		StatusConfirmed,
		StatusInProgress,
		StatusCompleted,
		StatusCancelled,
		StatusRejected,
	}
}
