package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims accepted by the risk service. The subject
// identifies the calling user or system.
type Claims struct {
	jwt.RegisteredClaims
	TenantID string   `json:"tenant_id"`
	Roles    []string `json:"roles"`
}

// HasRole checks if the claims include the specified role.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// HasAnyRole reports whether the claims include at least one of roles.
func (c Claims) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if c.HasRole(r) {
			return true
		}
	}
	return false
}

// Role constants
const (
	RoleAdmin       = "admin"
	RoleUnderwriter = "underwriter"
	RoleLoanOfficer = "loan_officer"
	RoleAuditor     = "auditor"
	RoleAPIClient   = "api_client"
)
