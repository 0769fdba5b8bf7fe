package appointment

import (
	"time"

	"gorm.io/gorm"

	"repair-booking/models/service"
	"repair-booking/models/technician"
)

// Appointment represents a repair-service booking tracked through its lifecycle
type Appointment struct {
	ID string `gorm:"type:varchar(36);primaryKey" json:"id"`

	// Customer identity comes from the SSO token; name is denormalized so
	// list search does not need a join.
	CustomerID   string `gorm:"type:varchar(36);not null;index" json:"customer_id"`
	CustomerName string `gorm:"type:varchar(255);not null" json:"customer_name"`

	// Foreign key for technician relationship, nullable until assigned
	TechnicianID *uint                  `gorm:"index" json:"technician_id,omitempty"`
	Technician   *technician.Technician `gorm:"foreignKey:TechnicianID" json:"technician,omitempty"`

	// Denormalized service reference
	ServiceID    uint            `gorm:"not null;index" json:"service_id"`
	Service      service.Service `gorm:"foreignKey:ServiceID" json:"service"`
	ServiceName  string          `gorm:"type:varchar(255);not null" json:"service_name"`
	CategoryName string          `gorm:"type:varchar(100);not null;index" json:"category_name"`

	ScheduledAt time.Time `gorm:"not null;index" json:"scheduled_at"`
	Status      Status    `gorm:"type:varchar(20);not null;index" json:"status"`
	Notes       string    `gorm:"type:text" json:"notes"`

	// Cancellation data, present iff status is cancelled or rejected
	CancelCategory  *string `gorm:"type:varchar(100)" json:"cancel_category,omitempty"`
	CancelReason    *string `gorm:"type:text" json:"cancel_reason,omitempty"`
	CancelledByRole *string `gorm:"type:varchar(50)" json:"cancelled_by_role,omitempty"`
	CancelledByID   *string `gorm:"type:varchar(36)" json:"cancelled_by_id,omitempty"`

	// Feedback, set at most once on completed appointments
	Rating       *int       `gorm:"type:int" json:"rating,omitempty"`
	FeedbackText *string    `gorm:"type:text" json:"feedback_text,omitempty"`
	FeedbackAt   *time.Time `json:"feedback_at,omitempty"`

	// Optimistic concurrency token, bumped on every guarded write
	StatusVersion int `gorm:"not null;default:0" json:"status_version"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName sets the table name for the Appointment model
func (Appointment) TableName() string {
	return "appointments"
}

// HasCancellation returns true when cancellation data is populated
func (a *Appointment) HasCancellation() bool {
	return a.CancelCategory != nil && a.CancelReason != nil
}

// HasFeedback returns true when a rating has been attached
func (a *Appointment) HasFeedback() bool {
	return a.Rating != nil
}
