package projection

import (
	"testing"
	"time"

	appointmentModel "repair-booking/models/appointment"
)

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 10, 0, 0, 0, time.UTC)
}

func snapshot() []appointmentModel.Appointment {
	return []appointmentModel.Appointment{
		{ID: "a1", CustomerName: "Alice Khan", ServiceName: "CCTV Installation", CategoryName: "Security", Status: appointmentModel.StatusPending, ScheduledAt: day(3), CreatedAt: day(1), UpdatedAt: day(1)},
		{ID: "a2", CustomerName: "Bob Rahman", ServiceName: "AC Repair", CategoryName: "Cooling", Status: appointmentModel.StatusConfirmed, ScheduledAt: day(1), CreatedAt: day(2), UpdatedAt: day(4)},
		{ID: "a3", CustomerName: "alice cooper", ServiceName: "Fridge Repair", CategoryName: "Cooling", Status: appointmentModel.StatusConfirmed, ScheduledAt: day(2), CreatedAt: day(3), UpdatedAt: day(2)},
		{ID: "a4", CustomerName: "Dana Lee", ServiceName: "CCTV Maintenance", CategoryName: "Security", Status: appointmentModel.StatusCompleted, ScheduledAt: day(2), CreatedAt: day(4), UpdatedAt: day(3)},
	}
}

func ids(items []appointmentModel.Appointment) []string {
	out := make([]string, len(items))
	for i, a := range items {
		out[i] = a.ID
	}
	return out
}

func assertIDs(t *testing.T, got []appointmentModel.Appointment, want ...string) {
	t.Helper()
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("got %v, want %v", gotIDs, want)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("got %v, want %v", gotIDs, want)
		}
	}
}

func TestProjectStatusFilterAndAlias(t *testing.T) {
	confirmed, err := Project(snapshot(), Query{Status: "confirmed"})
	if err != nil {
		t.Fatalf("confirmed filter: %v", err)
	}
	upcoming, err := Project(snapshot(), Query{Status: "upcoming"})
	if err != nil {
		t.Fatalf("upcoming filter: %v", err)
	}
	assertIDs(t, confirmed, "a2", "a3")
	assertIDs(t, upcoming, "a2", "a3")

	all, err := Project(snapshot(), Query{Status: "all"})
	if err != nil {
		t.Fatalf("all filter: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("all returned %d items, want 4", len(all))
	}

	if _, err := Project(snapshot(), Query{Status: "archived"}); err == nil {
		t.Fatal("unknown status filter should fail")
	}
}

func TestProjectSearchIsCaseInsensitiveSubstring(t *testing.T) {
	got, err := Project(snapshot(), Query{Search: "ALICE"})
	if err != nil {
		t.Fatal(err)
	}
	assertIDs(t, got, "a3", "a1") // default date ascending

	// substring of the service name, not a prefix
	got, err = Project(snapshot(), Query{Search: "repair"})
	if err != nil {
		t.Fatal(err)
	}
	assertIDs(t, got, "a2", "a3")
}

func TestProjectCategoryAndDateFilter(t *testing.T) {
	got, err := Project(snapshot(), Query{Category: "Cooling"})
	if err != nil {
		t.Fatal(err)
	}
	assertIDs(t, got, "a2", "a3")

	got, err = Project(snapshot(), Query{Date: "2025-03-02"})
	if err != nil {
		t.Fatal(err)
	}
	assertIDs(t, got, "a3", "a4")

	if _, err := Project(snapshot(), Query{Date: "02-03-2025"}); err == nil {
		t.Fatal("malformed date filter should fail")
	}
}

func TestProjectSorting(t *testing.T) {
	cases := []struct {
		sortBy, order string
		want          []string
	}{
		{SortByDate, OrderAsc, []string{"a2", "a3", "a4", "a1"}},
		{SortByDate, OrderDesc, []string{"a1", "a3", "a4", "a2"}},
		{SortByName, OrderAsc, []string{"a3", "a1", "a2", "a4"}},
		{SortByCreated, OrderDesc, []string{"a4", "a3", "a2", "a1"}},
		{SortByUpdated, OrderAsc, []string{"a1", "a3", "a4", "a2"}},
	}
	for _, tc := range cases {
		got, err := Project(snapshot(), Query{SortBy: tc.sortBy, SortOrder: tc.order})
		if err != nil {
			t.Fatalf("sort %s/%s: %v", tc.sortBy, tc.order, err)
		}
		assertIDs(t, got, tc.want...)
	}

	if _, err := Project(snapshot(), Query{SortBy: "price"}); err == nil {
		t.Fatal("unknown sort field should fail")
	}
	if _, err := Project(snapshot(), Query{SortOrder: "sideways"}); err == nil {
		t.Fatal("unknown sort order should fail")
	}
}

func TestSortStabilityOnTies(t *testing.T) {
	// a3 and a4 share the same scheduled day and time; insertion order wins
	got, err := Project(snapshot(), Query{SortBy: SortByDate, SortOrder: OrderAsc})
	if err != nil {
		t.Fatal(err)
	}
	gotIDs := ids(got)
	if gotIDs[1] != "a3" || gotIDs[2] != "a4" {
		t.Fatalf("tie order changed: %v", gotIDs)
	}
}

func TestCountsIgnoreSearchButHonorCategory(t *testing.T) {
	counts := Counts(snapshot(), "")
	if counts[appointmentModel.StatusConfirmed] != 2 || counts[appointmentModel.StatusPending] != 1 || counts[appointmentModel.StatusCompleted] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
	if counts[appointmentModel.StatusCancelled] != 0 {
		t.Fatalf("missing zero bucket: %v", counts)
	}

	cooling := Counts(snapshot(), "Cooling")
	if cooling[appointmentModel.StatusConfirmed] != 2 || cooling[appointmentModel.StatusPending] != 0 {
		t.Fatalf("unexpected category counts: %v", cooling)
	}
}
