package auth

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func init() {
	BcryptCost = bcrypt.MinCost
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret!" {
		t.Fatal("password stored in plain text")
	}
	if !CheckPassword(hash, "s3cret!") {
		t.Error("expected matching password to verify")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("expected wrong password to fail")
	}
	if CheckPassword("", "anything") {
		t.Error("empty hash must never verify")
	}
}

func newTestResetService(exp time.Duration) *ResetTokenService {
	return NewResetTokenService(ResetTokenConfig{
		SecretKey:   "test-secret",
		Expiration:  exp,
		TokenIssuer: "eventportal-test",
	})
}

func TestResetTokenRoundTrip(t *testing.T) {
	svc := newTestResetService(time.Minute)

	token, err := svc.Generate(7, "admin@college.edu", "hash-v1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.AdminID != 7 || claims.Email != "admin@college.edu" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if !claims.Matches("hash-v1") {
		t.Error("expected fingerprint to match the issuing hash")
	}
	if claims.Matches("hash-v2") {
		t.Error("fingerprint must not match after the password changed")
	}
}

func TestResetTokenRejectsTampering(t *testing.T) {
	svc := newTestResetService(time.Minute)
	token, err := svc.Generate(1, "a@b.c", "h")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	other := NewResetTokenService(ResetTokenConfig{SecretKey: "other", Expiration: time.Minute, TokenIssuer: "eventportal-test"})
	if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for foreign signature, got %v", err)
	}
	if _, err := svc.Validate("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestResetTokenExpired(t *testing.T) {
	svc := newTestResetService(-time.Minute)
	token, err := svc.Generate(1, "a@b.c", "h")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := svc.Validate(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}
