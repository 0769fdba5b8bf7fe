package appointment

import (
	"context"
	"fmt"
	"sync"
	"time"

	appointmentModel "repair-booking/models/appointment"
	technicianModel "repair-booking/models/technician"
	"repair-booking/services/assignment"
)

// memStore is an in-memory Store with the same version-guard semantics as
// the Postgres implementation, so the service can be exercised without a
// database.
type memStore struct {
	mu      sync.Mutex
	items   map[string]*appointmentModel.Appointment
	deleted map[string]*appointmentModel.Appointment
	events  []appointmentModel.AppointmentEvent
}

func newMemStore() *memStore {
	return &memStore{
		items:   make(map[string]*appointmentModel.Appointment),
		deleted: make(map[string]*appointmentModel.Appointment),
	}
}

func clone(a *appointmentModel.Appointment) *appointmentModel.Appointment {
	c := *a
	return &c
}

func (m *memStore) record(a *appointmentModel.Appointment, meta EventMeta) {
	m.events = append(m.events, appointmentModel.AppointmentEvent{
		AppointmentID: a.ID,
		EventType:     meta.Type,
		FromStatus:    meta.FromStatus,
		ToStatus:      a.Status,
		ActorRole:     meta.ActorRole,
		ActorID:       meta.ActorID,
	})
}

func (m *memStore) Create(_ context.Context, a *appointmentModel.Appointment, meta EventMeta) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[a.ID]; ok {
		return fmt.Errorf("duplicate id %s", a.ID)
	}
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	m.items[a.ID] = clone(a)
	m.record(a, meta)
	return nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*appointmentModel.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(a), nil
}

func (m *memStore) UpdateGuarded(_ context.Context, a *appointmentModel.Appointment, expectedVersion int, meta EventMeta) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.items[a.ID]
	if !ok {
		return ErrNotFound
	}
	if cur.StatusVersion != expectedVersion {
		return ErrConflict
	}
	next := clone(a)
	next.StatusVersion = expectedVersion + 1
	next.UpdatedAt = time.Now()
	m.items[a.ID] = next
	a.StatusVersion = next.StatusVersion
	m.record(next, meta)
	return nil
}

func (m *memStore) ListActive(_ context.Context) ([]appointmentModel.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]appointmentModel.Appointment, 0, len(m.items))
	for _, a := range m.items {
		out = append(out, *clone(a))
	}
	return out, nil
}

func (m *memStore) ListDeleted(_ context.Context) ([]appointmentModel.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]appointmentModel.Appointment, 0, len(m.deleted))
	for _, a := range m.deleted {
		out = append(out, *clone(a))
	}
	return out, nil
}

func (m *memStore) SoftDelete(_ context.Context, id string, meta EventMeta) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	a.UpdatedAt = time.Now()
	m.deleted[id] = a
	m.record(a, meta)
	return nil
}

func (m *memStore) Restore(_ context.Context, id string, meta EventMeta) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.deleted[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.deleted, id)
	m.items[id] = a
	m.record(a, meta)
	return nil
}

func (m *memStore) Purge(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.deleted[id]; !ok {
		return ErrNotFound
	}
	delete(m.deleted, id)
	return nil
}

var _ Store = (*memStore)(nil)

// fakeResolver resolves a fixed set of technician ids
type fakeResolver struct {
	known map[uint]string
}

func (f fakeResolver) Resolve(_ context.Context, id uint) (*technicianModel.Technician, error) {
	name, ok := f.known[id]
	if !ok {
		return nil, assignment.ErrUnknownTechnician
	}
	return &technicianModel.Technician{ID: id, Name: name, IsActive: true}, nil
}
