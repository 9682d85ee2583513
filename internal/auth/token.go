package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidCookie is returned for cookies that fail signature or expiry checks.
var ErrInvalidCookie = errors.New("invalid session cookie")

// CookieSigner wraps opaque session tokens in signed JWTs so a forged or
// altered cookie is rejected before any store lookup.
type CookieSigner struct {
	secret []byte
}

// NewCookieSigner builds a signer for the given secret.
func NewCookieSigner(secret string) *CookieSigner {
	return &CookieSigner{secret: []byte(secret)}
}

// Claims describes the cookie payload.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Sign produces the cookie value for a session token expiring at expiresAt.
func (s *CookieSigner) Sign(sessionID string, expiresAt time.Time) (string, error) {
	claims := &Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse validates the cookie value and returns the session token it carries.
func (s *CookieSigner) Parse(value string) (string, error) {
	if value == "" {
		return "", ErrInvalidCookie
	}
	parsed, err := jwt.ParseWithClaims(value, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return "", ErrInvalidCookie
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.SessionID == "" {
		return "", ErrInvalidCookie
	}
	return claims.SessionID, nil
}
