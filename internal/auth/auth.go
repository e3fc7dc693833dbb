package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthError is a custom error type for token verification errors
type AuthError string

// Error implements the error interface
func (e AuthError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig      AuthError = "config cannot be nil"
	ErrMissingSecret  AuthError = "signing secret cannot be empty"
	ErrInvalidToken   AuthError = "token is invalid"
	ErrMissingSubject AuthError = "token has no subject"
)

// Claims is the verified identity carried by a client token
type Claims struct {
	// PlayerID is the token subject
	PlayerID string

	// DisplayName is the optional human-readable name claim
	DisplayName string
}

// tokenClaims is the wire shape of the JWT payload
type tokenClaims struct {
	DisplayName string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Config holds configuration for the verifier
type Config struct {
	// Secret is the HMAC signing key shared with the token issuer
	Secret []byte
}

// Verifier validates client tokens and extracts the player identity
type Verifier struct {
	secret []byte
}

// NewVerifier creates a new token verifier
func NewVerifier(cfg *Config) (*Verifier, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if len(cfg.Secret) == 0 {
		return nil, ErrMissingSecret
	}

	return &Verifier{secret: cfg.Secret}, nil
}

// Verify parses and validates a token string, returning the player identity
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}

	return &Claims{
		PlayerID:    claims.Subject,
		DisplayName: claims.DisplayName,
	}, nil
}

// Issue signs a token for a player, used by tests and local tooling
func (v *Verifier) Issue(playerID, displayName string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		DisplayName: displayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   playerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(v.secret)
}
