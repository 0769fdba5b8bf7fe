package appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	appointmentModel "repair-booking/models/appointment"
	"repair-booking/services/assignment"
	"repair-booking/services/cancellation"
	"repair-booking/services/feedback"
	"repair-booking/services/projection"
	"repair-booking/services/transition"
)

func newTestService() (*Service, *memStore) {
	store := newMemStore()
	resolver := fakeResolver{known: map[uint]string{42: "Karim Uddin", 7: "Rasel Mia"}}
	svc := NewService(store, resolver, cancellation.NewTaxonomy(cancellation.DefaultCategories))
	return svc, store
}

func mustBook(t *testing.T, svc *Service, customerID, serviceName string) *appointmentModel.Appointment {
	t.Helper()
	a, err := svc.Book(context.Background(), BookCommand{
		CustomerID:   customerID,
		CustomerName: "Alice Khan",
		ServiceID:    1,
		ServiceName:  serviceName,
		CategoryName: "Security",
		ScheduledAt:  time.Now().Add(48 * time.Hour),
		Notes:        "gate camera flickering",
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	return a
}

func intPtr(v int) *int    { return &v }
func uintPtr(v uint) *uint { return &v }

func TestLifecycleHappyPath(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a := mustBook(t, svc, "cust-1", "CCTV Installation")
	if a.Status != appointmentModel.StatusPending || a.TechnicianID != nil {
		t.Fatalf("booking should start pending and unassigned: %+v", a)
	}

	// receptionist confirms with technician 42
	a, err := svc.Transition(ctx, TransitionCommand{
		AppointmentID: a.ID, Role: transition.RoleReceptionist, ActorID: "staff-1",
		Target: appointmentModel.StatusConfirmed, TechnicianID: uintPtr(42),
	})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if a.Status != appointmentModel.StatusConfirmed || a.TechnicianID == nil || *a.TechnicianID != 42 {
		t.Fatalf("confirmation did not assign technician: %+v", a)
	}

	// technician starts and completes the job
	a, err = svc.Transition(ctx, TransitionCommand{
		AppointmentID: a.ID, Role: transition.RoleTechnician, ActorID: "tech-42",
		Target: appointmentModel.StatusInProgress,
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	a, err = svc.Transition(ctx, TransitionCommand{
		AppointmentID: a.ID, Role: transition.RoleTechnician, ActorID: "tech-42",
		Target: appointmentModel.StatusCompleted,
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if a.Status != appointmentModel.StatusCompleted {
		t.Fatalf("status = %s, want completed", a.Status)
	}

	// customer rates it once
	a, err = svc.AttachFeedback(ctx, a.ID, transition.RoleCustomer, "cust-1", 5, "Great job")
	if err != nil {
		t.Fatalf("feedback: %v", err)
	}
	if a.Rating == nil || *a.Rating != 5 || *a.FeedbackText != "Great job" {
		t.Fatalf("feedback not stored: %+v", a)
	}

	// a second rating is rejected and the first one survives
	_, err = svc.AttachFeedback(ctx, a.ID, transition.RoleCustomer, "cust-1", 3, "meh")
	if !errors.Is(err, feedback.ErrFeedbackNotAllowed) {
		t.Fatalf("second feedback = %v, want ErrFeedbackNotAllowed", err)
	}
	stored, err := svc.Get(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if *stored.Rating != 5 {
		t.Fatalf("stored rating = %d, want 5", *stored.Rating)
	}
}

func TestConfirmRequiresResolvableTechnician(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	a := mustBook(t, svc, "cust-1", "AC Repair")

	// no technician at all
	for _, role := range []transition.Role{transition.RoleAdmin, transition.RoleReceptionist} {
		_, err := svc.Transition(ctx, TransitionCommand{
			AppointmentID: a.ID, Role: role, ActorID: "staff-1",
			Target: appointmentModel.StatusConfirmed,
		})
		if !errors.Is(err, transition.ErrMissingAssignment) {
			t.Fatalf("confirm without technician as %s = %v, want ErrMissingAssignment", role, err)
		}
	}

	// unknown technician id
	_, err := svc.Transition(ctx, TransitionCommand{
		AppointmentID: a.ID, Role: transition.RoleAdmin, ActorID: "staff-1",
		Target: appointmentModel.StatusConfirmed, TechnicianID: uintPtr(999),
	})
	if !errors.Is(err, assignment.ErrUnknownTechnician) {
		t.Fatalf("confirm with unknown technician = %v, want ErrUnknownTechnician", err)
	}

	// all failures left the record untouched
	stored, _ := store.GetByID(ctx, a.ID)
	if stored.Status != appointmentModel.StatusPending || stored.TechnicianID != nil || stored.StatusVersion != 0 {
		t.Fatalf("failed confirms must not mutate: %+v", stored)
	}
}

func TestCustomerCancelPopulatesCancellation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	a := mustBook(t, svc, "cust-1", "CCTV Installation")

	a, err := svc.Transition(ctx, TransitionCommand{
		AppointmentID: a.ID, Role: transition.RoleCustomer, ActorID: "cust-1",
		Target:   appointmentModel.StatusCancelled,
		Category: "Schedule conflict", Reason: "conflict with work",
	})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if a.Status != appointmentModel.StatusCancelled || !a.HasCancellation() {
		t.Fatalf("cancellation not recorded: %+v", a)
	}
	if *a.CancelledByRole != "customer" || *a.CancelledByID != "cust-1" {
		t.Fatalf("cancellation actor wrong: role=%s id=%s", *a.CancelledByRole, *a.CancelledByID)
	}
}

func TestCancelValidatesTaxonomy(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	a := mustBook(t, svc, "cust-1", "AC Repair")

	_, err := svc.Transition(ctx, TransitionCommand{
		AppointmentID: a.ID, Role: transition.RoleCustomer, ActorID: "cust-1",
		Target:   appointmentModel.StatusCancelled,
		Category: "Bad weather", Reason: "storm",
	})
	if !errors.Is(err, cancellation.ErrInvalidCategory) {
		t.Fatalf("cancel with unknown category = %v, want ErrInvalidCategory", err)
	}
}

func TestCustomerCannotTouchForeignBooking(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	a := mustBook(t, svc, "cust-1", "AC Repair")

	_, err := svc.Transition(ctx, TransitionCommand{
		AppointmentID: a.ID, Role: transition.RoleCustomer, ActorID: "cust-2",
		Target:   appointmentModel.StatusCancelled,
		Category: "Customer Request", Reason: "changed plans",
	})
	if !errors.Is(err, transition.ErrForbidden) {
		t.Fatalf("foreign cancel = %v, want ErrForbidden", err)
	}
}

func TestCancellationInvariant(t *testing.T) {
	// status ∈ {cancelled, rejected} iff cancellation data is present,
	// across every record the scenarios above can produce
	svc, store := newTestService()
	ctx := context.Background()

	a1 := mustBook(t, svc, "cust-1", "AC Repair")
	a2 := mustBook(t, svc, "cust-1", "CCTV Installation")
	a3 := mustBook(t, svc, "cust-1", "Fridge Repair")

	if _, err := svc.Transition(ctx, TransitionCommand{
		AppointmentID: a1.ID, Role: transition.RoleCustomer, ActorID: "cust-1",
		Target: appointmentModel.StatusCancelled, Category: "Emergency", Reason: "family matter",
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Transition(ctx, TransitionCommand{
		AppointmentID: a2.ID, Role: transition.RoleAdmin, ActorID: "staff-1",
		Target: appointmentModel.StatusRejected, Category: "Other", Reason: "service area not covered",
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Transition(ctx, TransitionCommand{
		AppointmentID: a3.ID, Role: transition.RoleReceptionist, ActorID: "staff-1",
		Target: appointmentModel.StatusConfirmed, TechnicianID: uintPtr(7),
	}); err != nil {
		t.Fatal(err)
	}

	all, _ := store.ListActive(ctx)
	for _, a := range all {
		hasCancellation := a.HasCancellation()
		shouldHave := a.Status.RequiresCancellation()
		if hasCancellation != shouldHave {
			t.Errorf("invariant broken for %s: status=%s cancellation=%v", a.ID, a.Status, hasCancellation)
		}
		if a.Status == appointmentModel.StatusConfirmed && a.TechnicianID == nil {
			t.Errorf("confirmed appointment %s has no technician", a.ID)
		}
	}
}

func TestRescheduleKeepsStatus(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	a := mustBook(t, svc, "cust-1", "AC Repair")

	a, err := svc.Transition(ctx, TransitionCommand{
		AppointmentID: a.ID, Role: transition.RoleReceptionist, ActorID: "staff-1",
		Target: appointmentModel.StatusConfirmed, TechnicianID: uintPtr(42),
	})
	if err != nil {
		t.Fatal(err)
	}

	newTime := time.Now().Add(96 * time.Hour).Truncate(time.Second)
	a, err = svc.Reschedule(ctx, RescheduleCommand{
		AppointmentID: a.ID, Role: transition.RoleAdmin, ActorID: "staff-2",
		ScheduledAt: &newTime, TechnicianID: uintPtr(7),
	})
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if a.Status != appointmentModel.StatusConfirmed {
		t.Fatalf("reschedule changed status to %s", a.Status)
	}
	if !a.ScheduledAt.Equal(newTime) || *a.TechnicianID != 7 {
		t.Fatalf("reschedule not applied: %+v", a)
	}

	// customers cannot reschedule
	if _, err := svc.Reschedule(ctx, RescheduleCommand{
		AppointmentID: a.ID, Role: transition.RoleCustomer, ActorID: "cust-1", ScheduledAt: &newTime,
	}); !errors.Is(err, transition.ErrForbidden) {
		t.Fatalf("customer reschedule = %v, want ErrForbidden", err)
	}

	// in_progress jobs are pinned
	if _, err := svc.Transition(ctx, TransitionCommand{
		AppointmentID: a.ID, Role: transition.RoleTechnician, ActorID: "tech-7",
		Target: appointmentModel.StatusInProgress,
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Reschedule(ctx, RescheduleCommand{
		AppointmentID: a.ID, Role: transition.RoleAdmin, ActorID: "staff-2", ScheduledAt: &newTime,
	}); !errors.Is(err, ErrNotReschedulable) {
		t.Fatalf("reschedule in_progress = %v, want ErrNotReschedulable", err)
	}
}

func TestListScopedToCustomer(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	mine := mustBook(t, svc, "cust-1", "CCTV Installation")
	mustBook(t, svc, "cust-2", "AC Servicing")

	items, counts, err := svc.List(ctx, projection.Query{}, "cust-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != mine.ID {
		t.Fatalf("scoped list = %v, want only %s", items, mine.ID)
	}
	if counts[appointmentModel.StatusPending] != 1 {
		t.Fatalf("scoped pending count = %d, want 1", counts[appointmentModel.StatusPending])
	}

	// staff view shows the whole pool
	all, _, err := svc.List(ctx, projection.Query{}, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("unscoped list = %d items, want 2", len(all))
	}
}

func TestSoftDeleteTouchesUpdatedAt(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	a := mustBook(t, svc, "cust-1", "AC Repair")
	before := a.UpdatedAt

	time.Sleep(time.Millisecond)
	if err := svc.SoftDelete(ctx, a.ID, transition.RoleAdmin, "staff-1"); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	bin, err := svc.RecycleBin(ctx)
	if err != nil || len(bin) != 1 {
		t.Fatalf("recycle bin = %v (%v)", bin, err)
	}
	if !bin[0].UpdatedAt.After(before) {
		t.Fatalf("updated_at not bumped by soft delete: before=%v after=%v", before, bin[0].UpdatedAt)
	}
}

func TestSoftDeleteRecycleBinRestorePurge(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	a := mustBook(t, svc, "cust-1", "AC Repair")

	if err := svc.SoftDelete(ctx, a.ID, transition.RoleReceptionist, "staff-1"); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	// invisible to reads, transitions and counts
	if _, err := svc.Get(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get deleted = %v, want ErrNotFound", err)
	}
	if _, err := svc.Transition(ctx, TransitionCommand{
		AppointmentID: a.ID, Role: transition.RoleAdmin, ActorID: "staff-1",
		Target: appointmentModel.StatusConfirmed, TechnicianID: uintPtr(42),
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("transition on deleted = %v, want ErrNotFound", err)
	}
	items, counts, err := svc.List(ctx, projection.Query{}, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 || counts[appointmentModel.StatusPending] != 0 {
		t.Fatalf("deleted appointment leaked into projection: items=%d counts=%v", len(items), counts)
	}

	// present in the recycle bin
	bin, err := svc.RecycleBin(ctx)
	if err != nil || len(bin) != 1 || bin[0].ID != a.ID {
		t.Fatalf("recycle bin = %v (%v)", bin, err)
	}

	// restore brings it back
	if err := svc.Restore(ctx, a.ID, transition.RoleAdmin, "staff-1"); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if _, err := svc.Get(ctx, a.ID); err != nil {
		t.Fatalf("get after restore: %v", err)
	}

	// purge only works from the bin and is final
	if err := svc.Purge(ctx, a.ID, transition.RoleAdmin); !errors.Is(err, ErrNotFound) {
		t.Fatalf("purge of live record = %v, want ErrNotFound", err)
	}
	if err := svc.SoftDelete(ctx, a.ID, transition.RoleAdmin, "staff-1"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Purge(ctx, a.ID, transition.RoleReceptionist); !errors.Is(err, transition.ErrForbidden) {
		t.Fatalf("receptionist purge = %v, want ErrForbidden", err)
	}
	if err := svc.Purge(ctx, a.ID, transition.RoleAdmin); err != nil {
		t.Fatalf("purge: %v", err)
	}
	if bin, _ := svc.RecycleBin(ctx); len(bin) != 0 {
		t.Fatalf("bin not empty after purge: %v", bin)
	}
}

func TestStaleVersionConflict(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	a := mustBook(t, svc, "cust-1", "AC Repair")

	// another writer lands in between fetch and write
	stale, _ := store.GetByID(ctx, a.ID)
	if _, err := svc.Transition(ctx, TransitionCommand{
		AppointmentID: a.ID, Role: transition.RoleReceptionist, ActorID: "staff-1",
		Target: appointmentModel.StatusConfirmed, TechnicianID: uintPtr(42),
	}); err != nil {
		t.Fatal(err)
	}

	stale.Status = appointmentModel.StatusRejected
	err := store.UpdateGuarded(ctx, stale, 0, EventMeta{Type: appointmentModel.EventStatusChange})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("stale write = %v, want ErrConflict", err)
	}
}

func TestConcurrentConfirmVsReject(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	a := mustBook(t, svc, "cust-1", "CCTV Installation")

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	start := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		_, err := svc.Transition(ctx, TransitionCommand{
			AppointmentID: a.ID, Role: transition.RoleReceptionist, ActorID: "staff-1",
			Target: appointmentModel.StatusConfirmed, TechnicianID: uintPtr(42),
		})
		errs <- err
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		_, err := svc.Transition(ctx, TransitionCommand{
			AppointmentID: a.ID, Role: transition.RoleAdmin, ActorID: "staff-2",
			Target: appointmentModel.StatusRejected, Category: "Other", Reason: "duplicate request",
		})
		errs <- err
	}()

	close(start)
	wg.Wait()
	close(errs)

	success := 0
	for err := range errs {
		if err == nil {
			success++
			continue
		}
		var ite *transition.InvalidTransitionError
		if !errors.Is(err, ErrConflict) && !errors.As(err, &ite) {
			t.Fatalf("unexpected loser error: %v", err)
		}
	}
	if success != 1 {
		t.Fatalf("expected exactly one winner, got %d", success)
	}

	stored, _ := store.GetByID(ctx, a.ID)
	if stored.Status != appointmentModel.StatusConfirmed && stored.Status != appointmentModel.StatusRejected {
		t.Fatalf("final status %s is neither outcome", stored.Status)
	}
	if stored.Status == appointmentModel.StatusConfirmed && stored.TechnicianID == nil {
		t.Fatal("confirmed without technician after race")
	}
	if stored.Status == appointmentModel.StatusRejected && !stored.HasCancellation() {
		t.Fatal("rejected without cancellation data after race")
	}
}

func TestConcurrentConfirmVsCustomerCancel(t *testing.T) {
	// confirmed appointments may still be cancelled by the customer, so
	// one or both requests can succeed, but the final state must be
	// coherent either way
	svc, store := newTestService()
	ctx := context.Background()
	a := mustBook(t, svc, "cust-1", "AC Repair")

	var wg sync.WaitGroup
	errs := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.Transition(ctx, TransitionCommand{
			AppointmentID: a.ID, Role: transition.RoleReceptionist, ActorID: "staff-1",
			Target: appointmentModel.StatusConfirmed, TechnicianID: uintPtr(42),
		})
		errs <- err
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.Transition(ctx, TransitionCommand{
			AppointmentID: a.ID, Role: transition.RoleCustomer, ActorID: "cust-1",
			Target: appointmentModel.StatusCancelled, Category: "Customer Request", Reason: "found another provider",
		})
		errs <- err
	}()

	wg.Wait()
	close(errs)

	success := 0
	for err := range errs {
		if err == nil {
			success++
			continue
		}
		var ite *transition.InvalidTransitionError
		if !errors.Is(err, ErrConflict) && !errors.As(err, &ite) {
			t.Fatalf("unexpected loser error: %v", err)
		}
	}
	if success < 1 || success > 2 {
		t.Fatalf("expected 1 or 2 successes, got %d", success)
	}

	stored, _ := store.GetByID(ctx, a.ID)
	if stored.Status != appointmentModel.StatusConfirmed && stored.Status != appointmentModel.StatusCancelled {
		t.Fatalf("final status %s is neither outcome", stored.Status)
	}
	if stored.Status == appointmentModel.StatusCancelled && !stored.HasCancellation() {
		t.Fatal("cancelled without cancellation data after race")
	}
}

func TestFeedbackRatingBoundsAtServiceLevel(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	a := mustBook(t, svc, "cust-1", "AC Repair")

	walkToCompleted(t, svc, a.ID)

	if _, err := svc.AttachFeedback(ctx, a.ID, transition.RoleCustomer, "cust-1", 9, "x"); !errors.Is(err, feedback.ErrInvalidRating) {
		t.Fatalf("rating 9 = %v, want ErrInvalidRating", err)
	}
	if _, err := svc.AttachFeedback(ctx, a.ID, transition.RoleTechnician, "tech-42", 5, "x"); !errors.Is(err, transition.ErrForbidden) {
		t.Fatalf("technician feedback = %v, want ErrForbidden", err)
	}
	if _, err := svc.AttachFeedback(ctx, a.ID, transition.RoleCustomer, "cust-2", 5, "x"); !errors.Is(err, transition.ErrForbidden) {
		t.Fatalf("foreign feedback = %v, want ErrForbidden", err)
	}
}

func walkToCompleted(t *testing.T, svc *Service, id string) {
	t.Helper()
	ctx := context.Background()
	steps := []TransitionCommand{
		{AppointmentID: id, Role: transition.RoleReceptionist, ActorID: "staff-1", Target: appointmentModel.StatusConfirmed, TechnicianID: uintPtr(42)},
		{AppointmentID: id, Role: transition.RoleTechnician, ActorID: "tech-42", Target: appointmentModel.StatusInProgress},
		{AppointmentID: id, Role: transition.RoleTechnician, ActorID: "tech-42", Target: appointmentModel.StatusCompleted},
	}
	for _, cmd := range steps {
		if _, err := svc.Transition(ctx, cmd); err != nil {
			t.Fatalf("walk to completed at %s: %v", cmd.Target, err)
		}
	}
}
