package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoles(t *testing.T) {
	tests := []struct {
		role     int
		name     string
		edit     bool
		readOnly bool
	}{
		{RoleSales, "sales", true, false},
		{RoleOperations, "operations", true, false},
		{RoleAudit, "audit", false, true},
		{RoleManagement, "management", true, false},
		{RoleAdmin, "admin", true, false},
		{99, "", false, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, RoleName(tt.role))
		assert.Equal(t, tt.edit, CanEditPipeline(tt.role), "role %d", tt.role)
		assert.Equal(t, tt.readOnly, IsReadOnly(tt.role), "role %d", tt.role)
	}
}
