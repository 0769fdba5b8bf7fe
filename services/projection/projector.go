// Package projection builds the filtered, sorted dashboard views over an
// appointment snapshot. It never mutates the store.
package projection

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jinzhu/now"

	appointmentModel "repair-booking/models/appointment"
)

// Sort fields accepted by the list endpoint
const (
	SortByDate    = "date"
	SortByName    = "name"
	SortByCreated = "created"
	SortByUpdated = "updated"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Query is the projector input. Zero values mean "no filter" and the
// default ordering (date ascending).
type Query struct {
	Status    string // canonical status, "all", or a display alias like "upcoming"
	Category  string
	Search    string // case-insensitive substring over customer and service name
	Date      string // YYYY-MM-DD, matches the scheduled day
	SortBy    string
	SortOrder string
}

// Project filters and orders a snapshot. The snapshot is expected to
// contain only non-deleted appointments; soft-deleted rows never reach the
// projector.
func Project(items []appointmentModel.Appointment, q Query) ([]appointmentModel.Appointment, error) {
	statusFilter, err := parseStatusFilter(q.Status)
	if err != nil {
		return nil, err
	}

	var dayStart, dayEnd time.Time
	if q.Date != "" {
		day, err := time.Parse("2006-01-02", q.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date filter %q: %v", q.Date, err)
		}
		dayStart = now.New(day).BeginningOfDay()
		dayEnd = now.New(day).EndOfDay()
	}

	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]appointmentModel.Appointment, 0, len(items))
	for _, a := range items {
		if statusFilter != "" && a.Status != statusFilter {
			continue
		}
		if q.Category != "" && a.CategoryName != q.Category {
			continue
		}
		if q.Date != "" && (a.ScheduledAt.Before(dayStart) || a.ScheduledAt.After(dayEnd)) {
			continue
		}
		if search != "" && !matchesSearch(&a, search) {
			continue
		}
		out = append(out, a)
	}

	if err := sortAppointments(out, q.SortBy, q.SortOrder); err != nil {
		return nil, err
	}
	return out, nil
}

// Counts computes per-status totals over the category-filtered snapshot.
// The search filter deliberately does not apply, so the badge numbers stay
// stable while the user types.
func Counts(items []appointmentModel.Appointment, category string) map[appointmentModel.Status]int {
	counts := make(map[appointmentModel.Status]int, len(appointmentModel.GetAllStatuses()))
	for _, s := range appointmentModel.GetAllStatuses() {
		counts[s] = 0
	}
	for _, a := range items {
		if category != "" && a.CategoryName != category {
			continue
		}
		counts[a.Status]++
	}
	return counts
}

func parseStatusFilter(raw string) (appointmentModel.Status, error) {
	if raw == "" || raw == "all" {
		return "", nil
	}
	s, err := appointmentModel.ParseStatus(raw)
	if err != nil {
		return "", fmt.Errorf("invalid status filter: %v", err)
	}
	return s, nil
}

func matchesSearch(a *appointmentModel.Appointment, loweredNeedle string) bool {
	return strings.Contains(strings.ToLower(a.CustomerName), loweredNeedle) ||
		strings.Contains(strings.ToLower(a.ServiceName), loweredNeedle)
}

// sortAppointments orders the slice in place. The sort is stable so ties
// keep insertion order and results stay deterministic.
func sortAppointments(items []appointmentModel.Appointment, sortBy, order string) error {
	if sortBy == "" {
		sortBy = SortByDate
	}
	if order == "" {
		order = OrderAsc
	}
	if order != OrderAsc && order != OrderDesc {
		return fmt.Errorf("invalid sort order %q", order)
	}

	var less func(a, b *appointmentModel.Appointment) bool
	switch sortBy {
	case SortByDate:
		less = func(a, b *appointmentModel.Appointment) bool { return a.ScheduledAt.Before(b.ScheduledAt) }
	case SortByName:
		less = func(a, b *appointmentModel.Appointment) bool {
			return strings.ToLower(a.CustomerName) < strings.ToLower(b.CustomerName)
		}
	case SortByCreated:
		less = func(a, b *appointmentModel.Appointment) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortByUpdated:
		less = func(a, b *appointmentModel.Appointment) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	default:
		return fmt.Errorf("invalid sort field %q", sortBy)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if order == OrderDesc {
			return less(&items[j], &items[i])
		}
		return less(&items[i], &items[j])
	})
	return nil
}
