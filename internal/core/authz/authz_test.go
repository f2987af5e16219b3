package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Caiquefelipe/minimal-api/internal/core/domain"
)

func TestAuthorize(t *testing.T) {
	assert.False(t, Authorize([]domain.Role{domain.RoleAdmin}, domain.RoleEditor))
	assert.True(t, Authorize([]domain.Role{domain.RoleAdmin, domain.RoleEditor}, domain.RoleEditor))
	assert.True(t, Authorize([]domain.Role{domain.RoleAdmin}, domain.RoleAdmin))
	assert.False(t, Authorize(nil, domain.RoleAdmin))
	assert.False(t, Authorize([]domain.Role{domain.RoleAdmin}, domain.Role("adm")))
}

func TestPolicy_Decide(t *testing.T) {
	admin := &domain.Claims{Email: "adm@teste.com", Role: domain.RoleAdmin}
	editor := &domain.Claims{Email: "ed@teste.com", Role: domain.RoleEditor}
	bogus := &domain.Claims{Email: "x@teste.com", Role: domain.Role("Root")}

	tests := []struct {
		name   string
		policy Policy
		claims *domain.Claims
		want   Decision
	}{
		{"anonymous without identity", Anonymous(), nil, Allow},
		{"anonymous with identity", Anonymous(), editor, Allow},
		{"authenticated without identity", Authenticated(), nil, Unauthenticated},
		{"authenticated editor", Authenticated(), editor, Allow},
		{"authenticated unknown role", Authenticated(), bogus, Forbidden},
		{"admin only, no identity", Roles(domain.RoleAdmin), nil, Unauthenticated},
		{"admin only, editor", Roles(domain.RoleAdmin), editor, Forbidden},
		{"admin only, admin", Roles(domain.RoleAdmin), admin, Allow},
		{"admin or editor, editor", Roles(domain.RoleAdmin, domain.RoleEditor), editor, Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Decide(tt.claims))
		})
	}
}

func TestRoles_PanicsWhenEmpty(t *testing.T) {
	assert.Panics(t, func() { Roles() })
}

func TestPolicy_RequiredIsCopy(t *testing.T) {
	p := Roles(domain.RoleAdmin)
	r := p.Required()
	r[0] = domain.RoleEditor
	assert.Equal(t, []domain.Role{domain.RoleAdmin}, p.Required())
	assert.Nil(t, Authenticated().Required())
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "forbidden", Forbidden.String())
	assert.Equal(t, "unknown", Decision(9).String())
}
