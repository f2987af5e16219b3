// Package authz decides whether a caller may reach an endpoint.
package authz

import (
	"slices"

	"github.com/Caiquefelipe/minimal-api/internal/core/domain"
)

// Decision is the outcome of evaluating a Policy.
type Decision int

const (
	Allow Decision = iota
	Unauthenticated
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Authorize reports whether caller is one of the required roles.
func Authorize(required []domain.Role, caller domain.Role) bool {
	return caller.Valid() && slices.Contains(required, caller)
}

// Policy is the access requirement declared for an endpoint.
type Policy struct {
	anonymous bool
	roles     []domain.Role // nil = any authenticated role
}

// Anonymous admits every caller, identified or not.
func Anonymous() Policy { return Policy{anonymous: true} }

// Authenticated admits any caller with a proven identity.
func Authenticated() Policy { return Policy{} }

// Roles admits authenticated callers holding one of roles.
func Roles(roles ...domain.Role) Policy {
	if len(roles) == 0 {
		panic("authz: Roles requires at least one role")
	}
	return Policy{roles: slices.Clone(roles)}
}

// IsAnonymous reports whether the policy skips authentication.
func (p Policy) IsAnonymous() bool { return p.anonymous }

// Required returns the role set, or nil when any role is accepted.
func (p Policy) Required() []domain.Role { return slices.Clone(p.roles) }

// Decide evaluates the policy for the given proven identity. A nil claims
// means the caller has not proven who they are.
func (p Policy) Decide(claims *domain.Claims) Decision {
	if p.anonymous {
		return Allow
	}
	if claims == nil {
		return Unauthenticated
	}
	if p.roles == nil {
		if claims.Role.Valid() {
			return Allow
		}
		return Forbidden
	}
	if Authorize(p.roles, claims.Role) {
		return Allow
	}
	return Forbidden
}
