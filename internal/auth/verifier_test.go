package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTVerifier(t *testing.T) {
	v := NewJWTVerifier("test-secret")

	token := signToken(t, "test-secret", jwt.MapClaims{"sub": "u1", "name": "Alice"})
	req := httptest.NewRequest("GET", "/ws?token="+token, nil)
	id, err := v.Verify(req)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.UserID != "u1" || id.DisplayName != "Alice" {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestJWTVerifierRejectsBadTokens(t *testing.T) {
	v := NewJWTVerifier("test-secret")

	cases := map[string]string{
		"missing token":   "",
		"wrong secret":    signToken(t, "other-secret", jwt.MapClaims{"sub": "u1"}),
		"missing subject": signToken(t, "test-secret", jwt.MapClaims{"name": "Alice"}),
	}
	for name, token := range cases {
		req := httptest.NewRequest("GET", "/ws?token="+token, nil)
		if _, err := v.Verify(req); err != ErrUnauthorized {
			t.Fatalf("%s: expected ErrUnauthorized, got %v", name, err)
		}
	}
}

func TestInsecureVerifierGuests(t *testing.T) {
	v := InsecureVerifier{}

	req := httptest.NewRequest("GET", "/ws?userId=u1&name=Alice", nil)
	id, err := v.Verify(req)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.UserID != "u1" || id.DisplayName != "Alice" {
		t.Fatalf("unexpected identity %+v", id)
	}

	req = httptest.NewRequest("GET", "/ws", nil)
	id, _ = v.Verify(req)
	if id.UserID == "" || id.DisplayName != "Guest" {
		t.Fatalf("expected guest identity, got %+v", id)
	}
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}
