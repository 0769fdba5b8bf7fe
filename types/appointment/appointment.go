package appointment

import (
	"fmt"
	"time"
)

// AppointmentCreateRequest is the customer booking payload
type AppointmentCreateRequest struct {
	ServiceID   uint   `json:"service_id" validate:"required"`
	ScheduledAt string `json:"scheduled_at" validate:"required"` // RFC 3339
	Notes       string `json:"notes" validate:"omitempty"`
}

// StatusUpdateRequest is the transition payload. TechnicianID is required
// when confirming, category and reason when cancelling or rejecting,
// rating when attaching feedback.
type StatusUpdateRequest struct {
	Status       string `json:"status" validate:"required"`
	TechnicianID *uint  `json:"technician_id,omitempty"`
	Category     string `json:"category,omitempty"`
	Reason       string `json:"reason,omitempty"`
	Rating       *int   `json:"rating,omitempty"`
	Feedback     string `json:"feedback,omitempty"`
}

// DetailsUpdateRequest reschedules an appointment without changing status
type DetailsUpdateRequest struct {
	ScheduledAt  string `json:"scheduled_at,omitempty"` // RFC 3339
	TechnicianID *uint  `json:"technician_id,omitempty"`
}

// FeedbackRequest attaches a rating to a completed appointment
type FeedbackRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Text   string `json:"text" validate:"omitempty"`
}

// ListQuery is the projector entry point query string
type ListQuery struct {
	Status    string `query:"status"`
	Category  string `query:"category"`
	Search    string `query:"search"`
	Date      string `query:"date"` // YYYY-MM-DD, matches the scheduled day
	SortBy    string `query:"sortBy"`
	SortOrder string `query:"sortOrder"`
}

// IntakeSuggestRequest is the free-text problem description sent to the
// intake analyzer
type IntakeSuggestRequest struct {
	Description string `json:"description" validate:"required,min=1"`
}

func (r AppointmentCreateRequest) Validate() error {
	if r.ServiceID == 0 {
		return fmt.Errorf("service_id is required")
	}
	if r.ScheduledAt == "" {
		return fmt.Errorf("scheduled_at is required")
	}
	if _, err := time.Parse(time.RFC3339, r.ScheduledAt); err != nil {
		return fmt.Errorf("scheduled_at must be RFC 3339: %v", err)
	}
	return nil
}

func (r StatusUpdateRequest) Validate() error {
	if r.Status == "" {
		return fmt.Errorf("status is required")
	}
	return nil
}

func (r DetailsUpdateRequest) Validate() error {
	if r.ScheduledAt == "" && r.TechnicianID == nil {
		return fmt.Errorf("nothing to update")
	}
	if r.ScheduledAt != "" {
		if _, err := time.Parse(time.RFC3339, r.ScheduledAt); err != nil {
			return fmt.Errorf("scheduled_at must be RFC 3339: %v", err)
		}
	}
	return nil
}

func (r FeedbackRequest) Validate() error {
	if r.Rating == 0 {
		return fmt.Errorf("rating is required")
	}
	return nil
}

func (r IntakeSuggestRequest) Validate() error {
	if r.Description == "" {
		return fmt.Errorf("description is required")
	}
	return nil
}
