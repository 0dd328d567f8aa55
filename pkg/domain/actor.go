package domain

// Role is the access role carried in a user's identity claims.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleMasterAdmin Role = "master_admin"
	RoleBrokerAdmin Role = "broker_admin"
	RoleBrokerStaff Role = "broker_staff"
	RoleOwner       Role = "owner"
	RoleStaff       Role = "staff"
	RoleEmployer    Role = "employer"
)

// IsGlobalAdmin reports whether the role grants unscoped access.
func (r Role) IsGlobalAdmin() bool {
	return r == RoleAdmin || r == RoleMasterAdmin
}

// IsBrokerRole reports whether the role is scoped to a brokerage.
func (r Role) IsBrokerRole() bool {
	switch r {
	case RoleBrokerAdmin, RoleBrokerStaff, RoleOwner, RoleStaff:
		return true
	}
	return false
}

// Actor is the authenticated principal acting on a request. It is resolved
// fresh per request from identity claims; role and broker association are
// never cached across requests.
type Actor struct {
	ID       UserID
	Role     Role
	BrokerID BrokerID
}
