package auth

import (
	"testing"
	"time"

	"github.com/DriveLinkRental/DriveLinkRental/internal/common/config"
)

func TestGenerateAndParseAccessToken(t *testing.T) {
	cfg := config.AuthConfig{
		Enabled:   true,
		JWTSecret: "test-secret",
		Issuer:    "drivelinkrental",
		Audience:  "drivelinkrental",
	}

	token, exp, err := GenerateAccessToken(cfg, "u-1", "jane@example.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}
	if exp.Before(time.Now()) {
		t.Fatalf("expected exp in future")
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.Subject != "u-1" {
		t.Fatalf("subject mismatch: %s", claims.Subject)
	}
	if claims.Email != "jane@example.com" {
		t.Fatalf("email mismatch: %s", claims.Email)
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := config.AuthConfig{JWTSecret: "secret-a", Issuer: "drivelinkrental"}
	token, _, err := GenerateAccessToken(cfg, "u-1", "", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	other := config.AuthConfig{JWTSecret: "secret-b", Issuer: "drivelinkrental"}
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatalf("expected parse to fail with wrong secret")
	}
}

func TestBearerToken(t *testing.T) {
	if got := BearerToken("Bearer abc.def.ghi"); got != "abc.def.ghi" {
		t.Fatalf("unexpected token: %q", got)
	}
	if got := BearerToken("bearer xyz"); got != "xyz" {
		t.Fatalf("unexpected token: %q", got)
	}
	if got := BearerToken(""); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
