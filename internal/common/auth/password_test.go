package auth

import "testing"

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("p@ssw0rd")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "" {
		t.Fatalf("expected non-empty hash")
	}
	if !VerifyPassword("p@ssw0rd", hash) {
		t.Fatalf("expected verify ok")
	}
	if VerifyPassword("wrong", hash) {
		t.Fatalf("expected verify fail")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Fatalf("expected error for empty password")
	}
}
