package appointment_event

import (
	appointmentModel "repair-booking/models/appointment"

	"gorm.io/gorm"
)

// Record writes an audit row for a lifecycle mutation. Callers pass the
// transaction handle so the event commits or rolls back together with the
// appointment row itself.
func Record(tx *gorm.DB, a *appointmentModel.Appointment, eventType string, fromStatus appointmentModel.Status, actorRole, actorID string) error {
	ev := appointmentModel.AppointmentEvent{
		AppointmentID: a.ID,
		EventType:     eventType,
		FromStatus:    fromStatus,
		ToStatus:      a.Status,
		ActorRole:     actorRole,
		ActorID:       actorID,
	}
	return tx.Create(&ev).Error
}
