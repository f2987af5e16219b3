package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Caiquefelipe/minimal-api/internal/core/domain"
	"github.com/Caiquefelipe/minimal-api/internal/core/ports"
)

const (
	claimsKey    = "auth.claims"
	authErrorKey = "auth.error"
)

var errMalformedAuthorization = errors.New("invalid authorization header")

// Authenticate verifies the bearer token, if any, and records the outcome on
// the context. It never rejects a request; the authorization gate decides
// what a missing or failed identity means for the route.
func Authenticate(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				c.Set(authErrorKey, errMalformedAuthorization)
				return next(c)
			}

			claims, err := verifier.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				c.Set(authErrorKey, err)
				return next(c)
			}

			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// Claims returns the identity proven for the request, or nil.
func Claims(c echo.Context) *domain.Claims {
	claims, _ := c.Get(claimsKey).(*domain.Claims)
	return claims
}

// AuthError returns why a presented token was rejected, or nil.
func AuthError(c echo.Context) error {
	err, _ := c.Get(authErrorKey).(error)
	return err
}
