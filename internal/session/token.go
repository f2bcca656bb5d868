// Package session reads the identity out of the issued API token. The token
// is minted and verified by the remote auth service; this side only carries
// it, so claims are parsed without signature verification.
package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenError wraps a failure to read the session token.
type TokenError struct {
	Reason string
	Cause  error
}

func (e *TokenError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("session token: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("session token: %s", e.Reason)
}

func (e *TokenError) Unwrap() error { return e.Cause }

// Identity is the workspace user extracted from the token claims.
type Identity struct {
	UserID    int
	ExpiresAt time.Time
}

// Expired reports whether the token's lifetime has passed. A token without
// an exp claim never expires locally.
func (id Identity) Expired(now time.Time) bool {
	return !id.ExpiresAt.IsZero() && now.After(id.ExpiresAt)
}

// Introspect parses the token's claims and extracts the identity. The
// signature is not checked; the remote API is the authority on validity and
// rejects bad tokens with a 401.
func Introspect(token string) (Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Identity{}, &TokenError{Reason: "malformed token", Cause: err}
	}

	userID, err := claimInt(claims, "user_id")
	if err != nil {
		return Identity{}, err
	}

	id := Identity{UserID: userID}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		id.ExpiresAt = exp.Time
	}
	return id, nil
}

// claimInt reads a numeric claim. JSON numbers decode as float64, so the
// value is converted back.
func claimInt(claims jwt.MapClaims, key string) (int, error) {
	raw, ok := claims[key]
	if !ok {
		return 0, &TokenError{Reason: fmt.Sprintf("missing %s claim", key)}
	}
	switch v := raw.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	}
	return 0, &TokenError{Reason: fmt.Sprintf("%s claim is not numeric", key)}
}
