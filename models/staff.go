package models

import "encoding/json"

// RoleAdmin is the unconditional-override role for the authorization table.
const RoleAdmin = "Admin"

// Staff role names that appear in the authorization table.
const (
	RoleVerifier       = "Verifier"
	RoleRootManager    = "Root Manager"
	RolePhlebo         = "Phlebo"
	RoleReportUploader = "Report Uploader"
	RoleHealthManager  = "Health Manager"
	RoleDietitian      = "Dietitian"
)

// Role carries the backend's flat permission list plus the bounds for
// discretionary admin discounts.
type Role struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	Permissions   []string    `json:"permissions,omitempty"`
	ViewAll       bool        `json:"view_all"`
	MaxAmount     json.Number `json:"max_amount,omitempty"`
	MaxPercentage json.Number `json:"max_percentage,omitempty"`
}

// StaffUser is a console operator (agent, verifier, phlebo, ...).
type StaffUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Mobile    string `json:"mobile"`
	Email     string `json:"email,omitempty"`
	Role      *Role  `json:"role,omitempty"`
}

// RoleName resolves the user's role name, empty when no role is attached.
func (u StaffUser) RoleName() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Name
}

// IsAdmin reports whether the user holds the Admin override, either by role
// name or by the view_all flag.
func (u StaffUser) IsAdmin() bool {
	if u.Role == nil {
		return false
	}
	return u.Role.Name == RoleAdmin || u.Role.ViewAll
}
