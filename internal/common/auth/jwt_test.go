package auth

import (
	"testing"
	"time"

	"github.com/driveport/driveport/internal/common/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret: "test-secret",
		Issuer:    "driveport-test",
		Audience:  "driveport-admin",
	}
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	cfg := testAuthConfig()

	token, expiresAt, err := GenerateAccessToken(cfg, "admin-1", []string{"admin"}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expected expiry in the future, got %v", expiresAt)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.Subject != "admin-1" {
		t.Fatalf("expected subject admin-1, got %s", claims.Subject)
	}
	if !claims.HasRole("admin") {
		t.Fatalf("expected admin role")
	}
	if claims.HasRole("user") {
		t.Fatalf("unexpected user role")
	}
}

func TestGenerateAccessTokenRejectsEmptySubject(t *testing.T) {
	if _, _, err := GenerateAccessToken(testAuthConfig(), "", nil, time.Hour); err == nil {
		t.Fatalf("expected error for empty subject")
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := testAuthConfig()
	token, _, err := GenerateAccessToken(cfg, "admin-1", []string{"admin"}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	other := cfg
	other.JWTSecret = "different-secret"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatalf("expected parse failure with wrong secret")
	}
}
