package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is the resolved participant for the life of a connection. The
// orchestrator trusts it; credential issuance lives elsewhere.
type Identity struct {
	UserID      string
	DisplayName string
}

// Verifier resolves a connection handshake into an Identity or rejects it.
type Verifier interface {
	Verify(r *http.Request) (Identity, error)
}

var ErrUnauthorized = errors.New("unauthorized")

// JWTVerifier validates HS256 tokens carrying the participant identity in
// the sub and name claims. Tokens arrive in the token query parameter so
// browser websocket clients can supply them.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(r *http.Request) (Identity, error) {
	raw := r.URL.Query().Get("token")
	if raw == "" {
		return Identity{}, ErrUnauthorized
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrUnauthorized
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Identity{}, ErrUnauthorized
	}
	name, _ := claims["name"].(string)
	if name == "" {
		name = sub
	}
	return Identity{UserID: sub, DisplayName: name}, nil
}

// InsecureVerifier trusts userId/name query parameters. Dev and test only;
// a missing userId gets a throwaway guest identity.
type InsecureVerifier struct{}

func (InsecureVerifier) Verify(r *http.Request) (Identity, error) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		userID = "guest-" + uuid.NewString()
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "Guest"
	}
	return Identity{UserID: userID, DisplayName: name}, nil
}
