// Package appointment orchestrates the lifecycle workflow: it runs each
// request through the transition engine and the payload validators, then
// persists the outcome with an optimistic version guard.
package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	appointmentModel "repair-booking/models/appointment"
	"repair-booking/services/assignment"
	"repair-booking/services/cancellation"
	"repair-booking/services/feedback"
	"repair-booking/services/projection"
	"repair-booking/services/transition"
)

type Service struct {
	store    Store
	resolver assignment.Resolver
	taxonomy *cancellation.Taxonomy
	recorder *feedback.Recorder
}

func NewService(store Store, resolver assignment.Resolver, taxonomy *cancellation.Taxonomy) *Service {
	return &Service{
		store:    store,
		resolver: resolver,
		taxonomy: taxonomy,
		recorder: feedback.NewRecorder(),
	}
}

// BookCommand creates a pending appointment for a customer
type BookCommand struct {
	CustomerID   string
	CustomerName string
	ServiceID    uint
	ServiceName  string
	CategoryName string
	ScheduledAt  time.Time
	Notes        string
}

// TransitionCommand is one status-change request from a role client
type TransitionCommand struct {
	AppointmentID string
	Role          transition.Role
	ActorID       string
	Target        appointmentModel.Status
	TechnicianID  *uint
	Category      string
	Reason        string
	Rating        *int
	Feedback      string
}

// RescheduleCommand updates date/time and/or technician without a status change
type RescheduleCommand struct {
	AppointmentID string
	Role          transition.Role
	ActorID       string
	ScheduledAt   *time.Time
	TechnicianID  *uint
}

// Book creates a new pending appointment
func (s *Service) Book(ctx context.Context, cmd BookCommand) (*appointmentModel.Appointment, error) {
	a := &appointmentModel.Appointment{
		ID:           uuid.NewString(),
		CustomerID:   cmd.CustomerID,
		CustomerName: cmd.CustomerName,
		ServiceID:    cmd.ServiceID,
		ServiceName:  cmd.ServiceName,
		CategoryName: cmd.CategoryName,
		ScheduledAt:  cmd.ScheduledAt,
		Status:       appointmentModel.StatusPending,
		Notes:        cmd.Notes,
	}
	meta := EventMeta{
		Type:      appointmentModel.EventCreate,
		ActorRole: transition.RoleCustomer.String(),
		ActorID:   cmd.CustomerID,
	}
	if err := s.store.Create(ctx, a, meta); err != nil {
		return nil, err
	}
	return a, nil
}

// Transition runs one lifecycle change through the engine and validators.
// The fetched status version guards the write: when a concurrent request
// lands first, the store reports ErrConflict and nothing is persisted.
func (s *Service) Transition(ctx context.Context, cmd TransitionCommand) (*appointmentModel.Appointment, error) {
	a, err := s.store.GetByID(ctx, cmd.AppointmentID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(a, cmd.Role, cmd.ActorID); err != nil {
		return nil, err
	}

	payload := transition.Payload{
		TechnicianID: cmd.TechnicianID,
		Category:     cmd.Category,
		Reason:       cmd.Reason,
		Rating:       cmd.Rating,
		Feedback:     cmd.Feedback,
	}
	from := a.Status
	if err := transition.Attempt(from, cmd.Target, cmd.Role, payload); err != nil {
		return nil, err
	}

	meta := EventMeta{
		Type:       appointmentModel.EventStatusChange,
		FromStatus: from,
		ActorRole:  cmd.Role.String(),
		ActorID:    cmd.ActorID,
	}

	if transition.IsFeedbackAttach(from, cmd.Target) {
		rating := 0
		if cmd.Rating != nil {
			rating = *cmd.Rating
		}
		if err := s.recorder.Attach(a, rating, cmd.Feedback); err != nil {
			return nil, err
		}
		meta.Type = appointmentModel.EventFeedback
	} else {
		if cmd.Target == appointmentModel.StatusConfirmed {
			tech, err := s.resolver.Resolve(ctx, *cmd.TechnicianID)
			if err != nil {
				return nil, err
			}
			a.TechnicianID = &tech.ID
		}
		if cmd.Target.RequiresCancellation() {
			if err := s.taxonomy.Validate(cmd.Category, cmd.Reason); err != nil {
				return nil, err
			}
			role := cmd.Role.String()
			actor := cmd.ActorID
			a.CancelCategory = &cmd.Category
			a.CancelReason = &cmd.Reason
			a.CancelledByRole = &role
			a.CancelledByID = &actor
		}
		a.Status = cmd.Target
	}

	if err := s.store.UpdateGuarded(ctx, a, a.StatusVersion, meta); err != nil {
		return nil, err
	}
	return a, nil
}

// AttachFeedback is the dedicated feedback endpoint path. It shares the
// engine's customer-only rule and the recorder's once-only semantics.
func (s *Service) AttachFeedback(ctx context.Context, id string, role transition.Role, actorID string, rating int, text string) (*appointmentModel.Appointment, error) {
	if role != transition.RoleCustomer {
		return nil, transition.ErrForbidden
	}
	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.CustomerID != actorID {
		return nil, transition.ErrForbidden
	}
	if err := s.recorder.Attach(a, rating, text); err != nil {
		return nil, err
	}
	meta := EventMeta{
		Type:       appointmentModel.EventFeedback,
		FromStatus: a.Status,
		ActorRole:  role.String(),
		ActorID:    actorID,
	}
	if err := s.store.UpdateGuarded(ctx, a, a.StatusVersion, meta); err != nil {
		return nil, err
	}
	return a, nil
}

// Reschedule moves the scheduled time and/or technician of a pending or
// confirmed appointment. Status is untouched but the write is guarded and
// audited like any transition.
func (s *Service) Reschedule(ctx context.Context, cmd RescheduleCommand) (*appointmentModel.Appointment, error) {
	if cmd.Role != transition.RoleAdmin && cmd.Role != transition.RoleReceptionist {
		return nil, transition.ErrForbidden
	}
	a, err := s.store.GetByID(ctx, cmd.AppointmentID)
	if err != nil {
		return nil, err
	}
	if a.Status != appointmentModel.StatusPending && a.Status != appointmentModel.StatusConfirmed {
		return nil, ErrNotReschedulable
	}
	if cmd.TechnicianID != nil {
		tech, err := s.resolver.Resolve(ctx, *cmd.TechnicianID)
		if err != nil {
			return nil, err
		}
		a.TechnicianID = &tech.ID
	}
	if cmd.ScheduledAt != nil {
		a.ScheduledAt = *cmd.ScheduledAt
	}
	meta := EventMeta{
		Type:       appointmentModel.EventReschedule,
		FromStatus: a.Status,
		ActorRole:  cmd.Role.String(),
		ActorID:    cmd.ActorID,
	}
	if err := s.store.UpdateGuarded(ctx, a, a.StatusVersion, meta); err != nil {
		return nil, err
	}
	return a, nil
}

// Get fetches one live appointment
func (s *Service) Get(ctx context.Context, id string) (*appointmentModel.Appointment, error) {
	return s.store.GetByID(ctx, id)
}

// List projects the live snapshot into a filtered, sorted view plus the
// per-status counts for the dashboard badges. A non-empty scopeCustomerID
// narrows the snapshot to that customer's own appointments before
// projection, so counts match what the customer can see.
func (s *Service) List(ctx context.Context, q projection.Query, scopeCustomerID string) ([]appointmentModel.Appointment, map[appointmentModel.Status]int, error) {
	snapshot, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, nil, err
	}
	if scopeCustomerID != "" {
		scoped := snapshot[:0:0]
		for _, a := range snapshot {
			if a.CustomerID == scopeCustomerID {
				scoped = append(scoped, a)
			}
		}
		snapshot = scoped
	}
	items, err := projection.Project(snapshot, q)
	if err != nil {
		return nil, nil, err
	}
	return items, projection.Counts(snapshot, q.Category), nil
}

// SoftDelete moves an appointment to the recycle bin
func (s *Service) SoftDelete(ctx context.Context, id string, role transition.Role, actorID string) error {
	if role != transition.RoleAdmin && role != transition.RoleReceptionist {
		return transition.ErrForbidden
	}
	meta := EventMeta{Type: appointmentModel.EventDelete, ActorRole: role.String(), ActorID: actorID}
	return s.store.SoftDelete(ctx, id, meta)
}

// Restore brings a soft-deleted appointment back
func (s *Service) Restore(ctx context.Context, id string, role transition.Role, actorID string) error {
	if role != transition.RoleAdmin && role != transition.RoleReceptionist {
		return transition.ErrForbidden
	}
	meta := EventMeta{Type: appointmentModel.EventRestore, ActorRole: role.String(), ActorID: actorID}
	return s.store.Restore(ctx, id, meta)
}

// Purge permanently removes a recycle-bin entry
func (s *Service) Purge(ctx context.Context, id string, role transition.Role) error {
	if role != transition.RoleAdmin {
		return transition.ErrForbidden
	}
	return s.store.Purge(ctx, id)
}

// RecycleBin lists the soft-deleted partition
func (s *Service) RecycleBin(ctx context.Context) ([]appointmentModel.Appointment, error) {
	return s.store.ListDeleted(ctx)
}

// checkOwnership stops a customer from acting on someone else's booking.
// Staff and technicians act on the shared pool.
func (s *Service) checkOwnership(a *appointmentModel.Appointment, role transition.Role, actorID string) error {
	if role == transition.RoleCustomer && a.CustomerID != actorID {
		return transition.ErrForbidden
	}
	return nil
}
