package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DriveLinkRental/DriveLinkRental/internal/common/auth"
	"github.com/DriveLinkRental/DriveLinkRental/internal/common/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		Enabled:       true,
		JWTSecret:     "test-secret",
		Issuer:        "drivelinkrental",
		Audience:      "drivelinkrental",
		PublicActions: []string{"loginUser"},
	}
}

func TestJWTAuthPublicAction(t *testing.T) {
	called := false
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}), JWTAuth(testAuthConfig(), nil))

	req := httptest.NewRequest(http.MethodPost, "/api?action=loginUser", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if !called {
		t.Fatalf("expected public action to pass through")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestJWTAuthMissingToken(t *testing.T) {
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not be reached")
	}), JWTAuth(testAuthConfig(), nil))

	req := httptest.NewRequest(http.MethodPost, "/api?action=createBooking", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestJWTAuthValidToken(t *testing.T) {
	cfg := testAuthConfig()
	token, _, err := auth.GenerateAccessToken(cfg, "u-1", "jane@example.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	var got AuthInfo
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ai, ok := AuthFromContext(r.Context())
		if !ok {
			t.Fatalf("expected auth info in context")
		}
		got = ai
	}), JWTAuth(cfg, nil))

	req := httptest.NewRequest(http.MethodPost, "/api?action=createBooking", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if got.UserID != "u-1" || got.Email != "jane@example.com" {
		t.Fatalf("unexpected auth info: %#v", got)
	}
}
