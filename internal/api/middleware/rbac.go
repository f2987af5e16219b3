package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/Caiquefelipe/minimal-api/internal/api/metrics"
	"github.com/Caiquefelipe/minimal-api/internal/core/authz"
	"github.com/Caiquefelipe/minimal-api/internal/core/domain"
)

const policyKey = "auth.policy"

// Require evaluates the route policy before the handler runs.
func Require(p authz.Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := gate(c, p); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// Defer attaches the route policy to the context without evaluating it.
// Handlers that validate a body first call Enforce once validation passes.
func Defer(p authz.Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(policyKey, p)
			return next(c)
		}
	}
}

// Enforce evaluates the policy attached by Defer. A handler reached without
// one is denied.
func Enforce(c echo.Context) error {
	p, ok := c.Get(policyKey).(authz.Policy)
	if !ok {
		return fmt.Errorf("no policy attached to %s %s: %w", c.Request().Method, c.Path(), domain.ErrForbidden)
	}
	return gate(c, p)
}

func gate(c echo.Context, p authz.Policy) error {
	decision := p.Decide(Claims(c))
	switch decision {
	case authz.Allow:
		return nil
	case authz.Unauthenticated:
		metrics.AuthzDenialsTotal.WithLabelValues(route(c), decision.String()).Inc()
		if cause := AuthError(c); cause != nil {
			return fmt.Errorf("%w: %w", domain.ErrUnauthenticated, cause)
		}
		return domain.ErrUnauthenticated
	default:
		metrics.AuthzDenialsTotal.WithLabelValues(route(c), decision.String()).Inc()
		return domain.ErrForbidden
	}
}

func route(c echo.Context) string {
	return c.Request().Method + " " + c.Path()
}
