package utils

import (
	"testing"

	"foodgram/domain"
)

func TestValidator_UsernameRule(t *testing.T) {
	InitValidator()

	ok := domain.RegisterRequest{
		Email:     "cook@example.com",
		Username:  "chef.anna+1",
		FirstName: "Anna",
		LastName:  "Smith",
		Password:  "secret-pass",
	}
	if err := Validate.Struct(ok); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	bad := ok
	bad.Username = "chef anna"
	if err := Validate.Struct(bad); err == nil {
		t.Fatalf("expected username with a space to be rejected")
	}
}

func TestPassword_HashAndCheck(t *testing.T) {
	hashed, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPassword(hashed, "correct horse") {
		t.Fatalf("expected password to match")
	}
	if CheckPassword(hashed, "battery staple") {
		t.Fatalf("expected wrong password to fail")
	}
}
