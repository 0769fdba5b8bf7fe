package feedback

import (
	"errors"
	"testing"

	appointmentModel "repair-booking/models/appointment"
)

func TestAttachOnlyOnCompleted(t *testing.T) {
	rec := NewRecorder()

	for _, status := range []appointmentModel.Status{
		appointmentModel.StatusPending,
		appointmentModel.StatusConfirmed,
		appointmentModel.StatusInProgress,
		appointmentModel.StatusCancelled,
		appointmentModel.StatusRejected,
	} {
		a := &appointmentModel.Appointment{Status: status}
		if err := rec.Attach(a, 5, "great"); !errors.Is(err, ErrFeedbackNotAllowed) {
			t.Errorf("Attach on %s = %v, want ErrFeedbackNotAllowed", status, err)
		}
		if a.HasFeedback() {
			t.Errorf("rejected attach on %s must not mutate the appointment", status)
		}
	}
}

func TestAttachExactlyOnce(t *testing.T) {
	rec := NewRecorder()
	a := &appointmentModel.Appointment{Status: appointmentModel.StatusCompleted}

	if err := rec.Attach(a, 5, "Great job"); err != nil {
		t.Fatalf("first attach: %v", err)
	}
	if a.Rating == nil || *a.Rating != 5 || a.FeedbackText == nil || *a.FeedbackText != "Great job" {
		t.Fatalf("feedback not stored: %+v", a)
	}
	if a.FeedbackAt == nil {
		t.Fatal("FeedbackAt not set")
	}

	if err := rec.Attach(a, 3, "changed my mind"); !errors.Is(err, ErrFeedbackNotAllowed) {
		t.Fatalf("second attach = %v, want ErrFeedbackNotAllowed", err)
	}
	if *a.Rating != 5 || *a.FeedbackText != "Great job" {
		t.Fatalf("second attach must not overwrite, got rating=%d text=%q", *a.Rating, *a.FeedbackText)
	}
}

func TestAttachRatingBounds(t *testing.T) {
	rec := NewRecorder()
	for _, rating := range []int{0, -1, 6, 100} {
		a := &appointmentModel.Appointment{Status: appointmentModel.StatusCompleted}
		if err := rec.Attach(a, rating, ""); !errors.Is(err, ErrInvalidRating) {
			t.Errorf("Attach rating %d = %v, want ErrInvalidRating", rating, err)
		}
	}
	for rating := 1; rating <= 5; rating++ {
		a := &appointmentModel.Appointment{Status: appointmentModel.StatusCompleted}
		if err := rec.Attach(a, rating, ""); err != nil {
			t.Errorf("Attach rating %d = %v, want nil", rating, err)
		}
	}
}
