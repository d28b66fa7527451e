package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // Full access, including manual entry deletion
	RoleManager  Role = "manager"  // Can create/update manual entries and view team records
	RoleEmployee Role = "employee" // Regular employee
)

var RoleValues = []string{
	string(RoleAdmin),
	string(RoleManager),
	string(RoleEmployee),
}

// User is the slice of the identity directory this service consumes. The
// directory itself (credentials, onboarding, profile) is an external
// collaborator; rows here are read-only.
type User struct {
	ID        string
	Email     string
	FullName  string
	Role      Role
	IsActive  bool
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin checks if user has full administrative access
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsManager checks if user is manager or admin
func (u *User) IsManager() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin
}

// IsEmployable reports whether the user should be considered by the
// attendance sweeps.
func (u *User) IsEmployable() bool {
	return u.IsActive && u.DeletedAt == nil
}
