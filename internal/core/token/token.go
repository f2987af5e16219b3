// Package token issues and verifies the HS256 bearer tokens handed out at
// login.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Caiquefelipe/minimal-api/internal/core/domain"
)

// Lifetime is how long an issued token stays valid. Tokens cannot be revoked
// before it elapses.
const Lifetime = 24 * time.Hour

var (
	ErrSigningKeyMissing = errors.New("token: signing key is not configured")
	ErrInvalidToken      = errors.New("token: invalid or expired")
)

// tokenClaims is the wire layout. "Perfil" and "role" carry the same value;
// the generic claim serves role-aware middleware that only knows "role".
type tokenClaims struct {
	Email  string `json:"Email"`
	Perfil string `json:"Perfil"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies tokens with a symmetric key. It holds no mutable
// state and is safe for concurrent use.
type Issuer struct {
	key []byte
	now func() time.Time
}

// Option customises an Issuer.
type Option func(*Issuer)

// WithClock replaces the wall clock used for iat, exp and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

func NewIssuer(key string, opts ...Option) *Issuer {
	i := &Issuer{key: []byte(key), now: time.Now}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Issue signs claims into a token expiring Lifetime from now. Without a
// signing key nothing is issued.
func (i *Issuer) Issue(c domain.Claims) (string, error) {
	if len(i.key) == 0 {
		return "", ErrSigningKeyMissing
	}
	if !c.Role.Valid() {
		return "", fmt.Errorf("token: unknown role %q", c.Role)
	}

	now := i.now().UTC()
	claims := tokenClaims{
		Email:  c.Email,
		Perfil: c.Role.String(),
		Role:   c.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(Lifetime)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of raw and returns its claims.
// Issuer and audience are not checked.
func (i *Issuer) Verify(raw string) (*domain.Claims, error) {
	if len(i.key) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrSigningKeyMissing)
	}

	var tc tokenClaims
	_, err := jwt.ParseWithClaims(raw, &tc,
		func(*jwt.Token) (any, error) { return i.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	perfil := tc.Perfil
	if perfil == "" {
		perfil = tc.Role
	}
	role := domain.Role(perfil)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, perfil)
	}

	return &domain.Claims{Email: tc.Email, Role: role}, nil
}
