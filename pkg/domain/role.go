package domain

// Role is the single role value carried by a user.
type Role string

const (
	RolePlatformAdmin Role = "platform_admin"
	RoleTenantAdmin   Role = "tenant_admin"
	RoleRecruiter     Role = "recruiter"
	RoleInterviewer   Role = "interviewer"
)

// Roles lists every known role, most privileged first.
var Roles = []Role{RolePlatformAdmin, RoleTenantAdmin, RoleRecruiter, RoleInterviewer}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}
