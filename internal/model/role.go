package model

// Role is the read-only access level the core receives from the auth layer.
// It only gates which category collection an operation may touch; the core
// performs no authentication of its own.
type Role string

// Known roles, least to most privileged.
const (
	RoleViewer Role = "viewer"
	RoleMember Role = "member"
	RoleVIP    Role = "vip"
	RoleAdmin  Role = "admin"
)

// CanViewMartingale reports whether the role may see the martingale
// (model portfolio) category collection.
func (r Role) CanViewMartingale() bool {
	switch r {
	case RoleMember, RoleVIP, RoleAdmin:
		return true
	}
	return false
}

// CanEditMartingale reports whether the role may execute or revoke
// transactions against the martingale collection.
func (r Role) CanEditMartingale() bool {
	return r == RoleAdmin
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleViewer, RoleMember, RoleVIP, RoleAdmin:
		return true
	}
	return false
}
