package appointment

import (
	"testing"

	"repair-booking/constants"
)

func TestViewerScope(t *testing.T) {
	tests := []struct {
		name      string
		roleClaim string
		actorID   string
		wantScope string
		wantErr   bool
	}{
		{"customer pinned to own appointments", constants.RoleCustomer, "cust-1", "cust-1", false},
		{"receptionist browses the pool", constants.RoleReceptionist, "staff-1", "", false},
		{"admin browses the pool", constants.RoleAdmin, "staff-2", "", false},
		{"technician browses the pool", constants.RoleTechnician, "tech-1", "", false},
		{"foreign service role rejected", "passport-booking.agent", "cust-1", "", true},
		{"missing role claim rejected", "", "cust-1", "", true},
		{"bare role without namespace rejected", "customer", "cust-1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, err := viewerScope(tt.roleClaim, tt.actorID)
			if (err != nil) != tt.wantErr {
				t.Fatalf("viewerScope(%q) error = %v, wantErr %v", tt.roleClaim, err, tt.wantErr)
			}
			if scope != tt.wantScope {
				t.Fatalf("viewerScope(%q) scope = %q, want %q", tt.roleClaim, scope, tt.wantScope)
			}
		})
	}
}
