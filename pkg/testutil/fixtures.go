package testutil

import (
	"testing"
	"time"

	"github.com/bibbank/credit-risk/pkg/auth"
)

// Fixed identifiers for deterministic testing.
const (
	TestTenantID  = "00000000-0000-0000-0000-000000000010"
	TestSubject   = "underwriter-1"
	TestJWTSecret = "test-secret-key-for-unit-tests"
	TestIssuer    = "bib-test"
)

// NewJWTService returns an HMAC JWT service matching TestJWTSecret.
func NewJWTService(t *testing.T) *auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService(auth.JWTConfig{
		Secret:     TestJWTSecret,
		Issuer:     TestIssuer,
		Expiration: 15 * time.Minute,
	})
	if err != nil {
		t.Fatalf("failed to create jwt service: %v", err)
	}
	return svc
}

// BearerToken issues a token for TestSubject in TestTenantID with roles,
// formatted as an authorization header value.
func BearerToken(t *testing.T, svc *auth.JWTService, roles ...string) string {
	t.Helper()
	token, err := svc.GenerateToken(TestSubject, TestTenantID, roles)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return "Bearer " + token
}
