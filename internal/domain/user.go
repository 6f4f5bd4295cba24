package domain

import "time"

// Role enumerates account capabilities. OFFICER accounts may be assigned
// reports and submit resolutions; ADMIN additionally holds the
// administrative verify/override authority.
type Role string

const (
	RoleCitizen Role = "CITIZEN"
	RoleOfficer Role = "OFFICER"
	RoleAdmin   Role = "ADMIN"
)

// User is the domain model for any account: submitters, officers and admins.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	State     string
	District  string
	City      string
	Ward      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsHandler reports whether the account may be assigned reports.
func (u *User) IsHandler() bool {
	return u.Role == RoleOfficer || u.Role == RoleAdmin
}
