package appointment

import (
	"time"
)

// Event types recorded in the audit trail
const (
	EventCreate       = "create"
	EventStatusChange = "status_change"
	EventReschedule   = "reschedule"
	EventFeedback     = "feedback"
	EventDelete       = "delete"
	EventRestore      = "restore"
)

// AppointmentEvent represents an audit entry for a lifecycle mutation.
// One row is written in the same transaction as every guarded update.
type AppointmentEvent struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	AppointmentID string `gorm:"type:varchar(36);not null;index" json:"appointment_id"`

	EventType  string `gorm:"type:varchar(30);not null" json:"event_type"`
	FromStatus Status `gorm:"type:varchar(20)" json:"from_status"`
	ToStatus   Status `gorm:"type:varchar(20)" json:"to_status"`
	ActorRole  string `gorm:"type:varchar(50);not null" json:"actor_role"`
	ActorID    string `gorm:"type:varchar(36);not null" json:"actor_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the AppointmentEvent model
func (AppointmentEvent) TableName() string {
	return "appointment_events"
}
