package identity

// Role represents a user's role in the system.
// Platform roles operate across all societies; society roles are
// always bound to exactly one society.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN" // Platform operator
	RoleAdmin      Role = "ADMIN"       // Society administrator
	RoleAccountant Role = "ACCOUNTANT"  // Society accountant
	RoleResident   Role = "RESIDENT"    // Unit occupant
	RoleGuard      Role = "GUARD"       // Gate security
	RoleVendor     Role = "VENDOR"      // External service provider
)

// IsValid returns true if the role is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleAccountant, RoleResident, RoleGuard, RoleVendor:
		return true
	default:
		return false
	}
}

// IsPlatform returns true for roles that operate across societies
func (r Role) IsPlatform() bool {
	return r == RoleSuperAdmin
}

// CanManageBilling returns true for roles allowed to generate cycles,
// record payments, and view society-wide statistics
func (r Role) CanManageBilling() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleAccountant:
		return true
	default:
		return false
	}
}

// CanManageSociety returns true for roles allowed to change society
// settings and manage units and members
func (r Role) CanManageSociety() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin:
		return true
	default:
		return false
	}
}

// String returns the role as a string
func (r Role) String() string {
	return string(r)
}
