package user

import "errors"

// Role is carried in the JWT claims issued by the identity service.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleOwner    Role = "owner"
)

// Elevated reports whether the role may act on other employees' data:
// team views, analytics, export, leave and correction approval.
func (r Role) Elevated() bool {
	return r == RoleManager || r == RoleOwner
}

var (
	ErrInvalidToken          = errors.New("invalid or missing token")
	ErrManagerAccessRequired = errors.New("manager access required")
)
