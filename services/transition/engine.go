// Package transition implements the appointment lifecycle state machine.
//
// Valid status graph:
//
//	pending ──► confirmed ──► in_progress ──► completed ──► (feedback)
//	   │            │
//	   ├──► rejected└──► cancelled
//	   └──► cancelled
//
// completed, cancelled and rejected are terminal states. Every edge is
// additionally gated by the actor role and by a required payload.
package transition

import (
	"errors"
	"fmt"

	"repair-booking/constants"
	appointmentModel "repair-booking/models/appointment"
)

// Role is the actor role attempting a transition
type Role string

const (
	RoleCustomer     Role = "customer"
	RoleReceptionist Role = "receptionist"
	RoleAdmin        Role = "admin"
	RoleTechnician   Role = "technician"
)

// ParseRole maps the JWT role claim onto an engine role.
func ParseRole(claim string) (Role, error) {
	switch claim {
	case constants.RoleCustomer:
		return RoleCustomer, nil
	case constants.RoleReceptionist:
		return RoleReceptionist, nil
	case constants.RoleAdmin:
		return RoleAdmin, nil
	case constants.RoleTechnician:
		return RoleTechnician, nil
	default:
		return "", fmt.Errorf("unknown role claim %q", claim)
	}
}

func (r Role) String() string {
	return string(r)
}

// Payload carries the side data a transition may require
type Payload struct {
	TechnicianID *uint
	Category     string
	Reason       string
	Rating       *int
	Feedback     string
}

// rule describes one allowed (from, to) edge
type rule struct {
	roles             []Role
	needsAssignee     bool
	needsCancellation bool
	isFeedback        bool
}

var (
	staffRoles   = []Role{RoleAdmin, RoleReceptionist}
	customerOnly = []Role{RoleCustomer}
	techOnly     = []Role{RoleTechnician}
	everyRole    = []Role{RoleAdmin, RoleReceptionist, RoleTechnician, RoleCustomer}
)

// rules lists every allowed (from → to) edge with its gate.
// An absent pair is an invalid transition for every role.
var rules = map[[2]appointmentModel.Status]rule{
	{appointmentModel.StatusPending, appointmentModel.StatusConfirmed}:    {roles: staffRoles, needsAssignee: true},
	{appointmentModel.StatusPending, appointmentModel.StatusRejected}:     {roles: staffRoles, needsCancellation: true},
	{appointmentModel.StatusPending, appointmentModel.StatusCancelled}:    {roles: customerOnly, needsCancellation: true},
	{appointmentModel.StatusConfirmed, appointmentModel.StatusInProgress}: {roles: techOnly},
	{appointmentModel.StatusConfirmed, appointmentModel.StatusCancelled}:  {roles: everyRole, needsCancellation: true},
	{appointmentModel.StatusInProgress, appointmentModel.StatusCompleted}: {roles: techOnly},
	// feedback attach keeps the status at completed
	{appointmentModel.StatusCompleted, appointmentModel.StatusCompleted}: {roles: customerOnly, isFeedback: true},
}

var (
	ErrForbidden              = errors.New("role is not permitted for this transition")
	ErrMissingAssignment      = errors.New("confirmation requires a technician assignment")
	ErrIncompleteCancellation = errors.New("cancellation requires a category and a reason")
)

// InvalidTransitionError names the current and requested status of a
// transition absent from the rule table.
type InvalidTransitionError struct {
	From appointmentModel.Status
	To   appointmentModel.Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// CanTransition returns true when at least one role may move from → to.
func CanTransition(from, to appointmentModel.Status) bool {
	_, ok := rules[[2]appointmentModel.Status{from, to}]
	return ok
}

// IsFeedbackAttach returns true when the edge is the feedback self-loop
// on completed appointments.
func IsFeedbackAttach(from, to appointmentModel.Status) bool {
	r, ok := rules[[2]appointmentModel.Status{from, to}]
	return ok && r.isFeedback
}

// Attempt validates a transition request against the rule table. It checks
// edge existence, role permission and payload presence, in that order.
// Payload contents (technician existence, category membership, rating
// bounds) are validated by the dedicated services afterwards.
func Attempt(from, to appointmentModel.Status, role Role, p Payload) error {
	r, ok := rules[[2]appointmentModel.Status{from, to}]
	if !ok {
		return &InvalidTransitionError{From: from, To: to}
	}
	if !roleAllowed(r.roles, role) {
		return ErrForbidden
	}
	if r.needsAssignee && p.TechnicianID == nil {
		return ErrMissingAssignment
	}
	if r.needsCancellation && (p.Category == "" || p.Reason == "") {
		return ErrIncompleteCancellation
	}
	return nil
}

func roleAllowed(allowed []Role, role Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
