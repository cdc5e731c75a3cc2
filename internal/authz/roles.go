package authz

import "github.com/golang-jwt/jwt/v5"

const (
	RoleSales      = 10
	RoleOperations = 20
	RoleAudit      = 30
	RoleManagement = 40
	RoleAdmin      = 50
)

var roleNames = map[int]string{
	RoleSales:      "sales",
	RoleOperations: "operations",
	RoleAudit:      "audit",
	RoleManagement: "management",
	RoleAdmin:      "admin",
}

// RoleName returns the lowercase role label, or "" for an unknown id.
func RoleName(roleID int) string { return roleNames[roleID] }

// CanEditPipeline reports whether the role may move, create or delete deals.
func CanEditPipeline(roleID int) bool {
	return roleID == RoleSales || IsElevated(roleID)
}

func IsElevated(roleID int) bool {
	return roleID == RoleOperations || roleID == RoleManagement || roleID == RoleAdmin
}

func IsReadOnly(roleID int) bool {
	return roleID == RoleAudit
}

// Claims is the JWT payload issued on login.
type Claims struct {
	UserID int64 `json:"user_id"`
	RoleID int   `json:"role_id"`
	jwt.RegisteredClaims
}
