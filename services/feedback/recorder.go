// Package feedback attaches customer ratings to completed appointments.
package feedback

import (
	"errors"
	"time"

	appointmentModel "repair-booking/models/appointment"
)

var (
	ErrFeedbackNotAllowed = errors.New("feedback is only allowed once on completed appointments")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
)

// Recorder validates and applies feedback mutations
type Recorder struct{}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// Attach sets the rating and text on a completed appointment. The first
// call wins; later calls fail and leave the stored rating untouched.
func (r *Recorder) Attach(a *appointmentModel.Appointment, rating int, text string) error {
	if a.Status != appointmentModel.StatusCompleted {
		return ErrFeedbackNotAllowed
	}
	if a.HasFeedback() {
		return ErrFeedbackNotAllowed
	}
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	now := time.Now()
	a.Rating = &rating
	a.FeedbackText = &text
	a.FeedbackAt = &now
	return nil
}
