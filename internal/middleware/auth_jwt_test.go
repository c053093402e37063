package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSignAndVerifyJWT(t *testing.T) {
	secret := "test-secret"
	claims := TokenClaims{
		Sub:      "user-123",
		Plan:     "pro",
		Exp:      time.Now().Add(time.Hour).Unix(),
		Issuer:   "tester",
		Audience: "clients",
	}
	token, err := SignJWT(secret, claims)
	if err != nil {
		t.Fatalf("SignJWT() unexpected error: %v", err)
	}
	parsed, err := VerifyJWT(secret, token)
	if err != nil {
		t.Fatalf("VerifyJWT() unexpected error: %v", err)
	}
	if parsed.Sub != claims.Sub || parsed.Plan != claims.Plan {
		t.Fatalf("VerifyJWT() returned %+v, want %+v", parsed, claims)
	}
}

func TestVerifyJWTInvalidSignature(t *testing.T) {
	claims := TokenClaims{
		Sub: "user-123",
		Exp: time.Now().Add(time.Hour).Unix(),
	}
	token, err := SignJWT("secret-a", claims)
	if err != nil {
		t.Fatalf("SignJWT() error: %v", err)
	}
	if _, err := VerifyJWT("secret-b", token); err == nil {
		t.Fatalf("VerifyJWT() expected invalid signature error")
	}
}

func TestVerifyJWTExpired(t *testing.T) {
	claims := TokenClaims{
		Sub: "user-123",
		Exp: time.Now().Add(-time.Minute).Unix(),
	}
	token, err := SignJWT("secret", claims)
	if err != nil {
		t.Fatalf("SignJWT() error: %v", err)
	}
	if _, err := VerifyJWT("secret", token); err == nil {
		t.Fatalf("VerifyJWT() expected expiration error")
	}
}

func TestAuthJWTInjectsUserID(t *testing.T) {
	secret := "secret"
	token, _ := SignJWT(secret, TokenClaims{Sub: "user-9", Exp: time.Now().Add(time.Hour).Unix()})

	var gotUserID string
	handler := AuthJWT(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != 200 || gotUserID != "user-9" {
		t.Fatalf("status %d, user id %q", rr.Code, gotUserID)
	}
}

func TestAuthJWTRejectsMissingHeader(t *testing.T) {
	handler := AuthJWT("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}
