package constants

// Actor roles carried in the JWT "role" claim
const (
	RoleCustomer     = "repair-booking.customer"
	RoleReceptionist = "repair-booking.receptionist"
	RoleAdmin        = "repair-booking.admin"
	RoleTechnician   = "repair-booking.technician"

	// Special role that only requires a valid token
	RoleAny = "any"
)

// Role groups for convenience
var (
	StaffRoles = []string{
		RoleAdmin,
		RoleReceptionist,
	}

	AllRoles = []string{
		RoleCustomer,
		RoleReceptionist,
		RoleAdmin,
		RoleTechnician,
	}
)
