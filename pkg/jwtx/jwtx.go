// Package jwtx wraps golang-jwt with the small signing surface this service
// needs: HS256 session tokens carrying a subject and absolute expiry.
package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("jwtx: invalid token")
	ErrExpiredToken = errors.New("jwtx: token expired")
)

// Claims are the claims embedded in a session token.
type Claims struct {
	Subject   string // user ID
	SessionID string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Issuer    string
}

// Signer mints and verifies HS256 session tokens with a shared secret.
type Signer struct {
	secret []byte
	issuer string
}

func NewSigner(secret []byte, issuer string) (*Signer, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("jwtx: secret must be at least 32 bytes, got %d", len(secret))
	}
	return &Signer{secret: secret, issuer: issuer}, nil
}

// Sign mints a token for the given subject and session with an absolute
// expiry.
func (s *Signer) Sign(subject, sessionID string, issuedAt, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"sid": sessionID,
		"iat": issuedAt.Unix(),
		"exp": expiresAt.Unix(),
		"iss": s.issuer,
	})
	return token.SignedString(s.secret)
}

// Verify checks signature, issuer and expiry, returning the parsed claims.
func (s *Signer) Verify(raw string) (Claims, error) {
	parsed, err := jwt.Parse(raw,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
			}
			return s.secret, nil
		},
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpiredToken
		}
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}

	claims := Claims{Issuer: s.issuer}
	if sub, ok := mapClaims["sub"].(string); ok {
		claims.Subject = sub
	}
	if sid, ok := mapClaims["sid"].(string); ok {
		claims.SessionID = sid
	}
	if iat, ok := mapClaims["iat"].(float64); ok {
		claims.IssuedAt = time.Unix(int64(iat), 0)
	}
	if exp, ok := mapClaims["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(exp), 0)
	}
	if claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
