package models

import (
	"time"
)

// AdminRole gates which moderation operations an admin may perform.
type AdminRole string

const (
	RoleSuperAdmin AdminRole = "superAdmin"
	RoleEdit       AdminRole = "edit"
	RoleDelete     AdminRole = "delete"
	RoleView       AdminRole = "view"
)

// ParseAdminRole maps free-form input onto the closed role set, falling back
// to RoleView for anything unrecognized.
func ParseAdminRole(s string) AdminRole {
	switch AdminRole(s) {
	case RoleSuperAdmin, RoleEdit, RoleDelete, RoleView:
		return AdminRole(s)
	default:
		return RoleView
	}
}

// CanLock reports whether the role may lock suggestions or change their
// status (and promote reviews).
func (r AdminRole) CanLock() bool {
	return r == RoleSuperAdmin || r == RoleEdit
}

// CanDelete reports whether the role may delete user content.
func (r AdminRole) CanDelete() bool {
	return r == RoleSuperAdmin || r == RoleDelete
}

// Admin is a moderation account. Username, Email and PhoneNumber are each
// globally unique. APIKeyHash holds the bcrypt hash of the API key; the clear
// key is returned exactly once, at creation.
type Admin struct {
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	Role        AdminRole `json:"role"`
	APIKeyHash  string    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}
