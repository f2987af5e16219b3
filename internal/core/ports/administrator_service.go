package ports

import (
	"context"

	"github.com/Caiquefelipe/minimal-api/internal/core/domain"
)

// LoginResult is what a successful login hands back to the transport layer.
type LoginResult struct {
	Administrator *domain.Administrator
	Token         string
}

type AdministratorService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	List(ctx context.Context, page int) ([]*domain.Administrator, error)
	Get(ctx context.Context, id int64) (*domain.Administrator, error)
	Create(ctx context.Context, in domain.AdministratorInput) (*domain.Administrator, error)
	// Bootstrap creates an Adm account when none exists yet. It reports
	// whether an account was created.
	Bootstrap(ctx context.Context, email, password string) (bool, error)
}

// TokenIssuer signs claim sets into bearer tokens.
type TokenIssuer interface {
	Issue(claims domain.Claims) (string, error)
}

// TokenVerifier proves the identity carried by a bearer token.
type TokenVerifier interface {
	Verify(token string) (*domain.Claims, error)
}
