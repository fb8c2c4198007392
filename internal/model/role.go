package model

// Role is the two-variant permission tag carried by every user.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMarker Role = "marker"
)

// Roles lists the valid roles in display order
var Roles = []Role{RoleMarker, RoleAdmin}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMarker
}

// Can reports whether the role grants the privilege
func (r Role) Can(p Privilege) bool {
	for _, granted := range rolePrivileges[r] {
		if granted == p {
			return true
		}
	}
	return false
}

// Privileges returns the privilege codes granted to the role
func (r Role) Privileges() []string {
	granted := rolePrivileges[r]
	codes := make([]string, len(granted))
	for i, p := range granted {
		codes[i] = string(p)
	}
	return codes
}
