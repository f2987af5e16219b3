package ports

import (
	"context"

	"github.com/Caiquefelipe/minimal-api/internal/core/domain"
)

// AdministratorRepository defines persistence operations for administrators.
type AdministratorRepository interface {
	// List returns one page of administrators ordered by id. Page 0 returns all.
	List(ctx context.Context, page int) ([]*domain.Administrator, error)
	GetByID(ctx context.Context, id int64) (*domain.Administrator, error)
	GetByEmail(ctx context.Context, email string) (*domain.Administrator, error)
	// Create stores a and assigns its ID. A duplicate e-mail yields
	// domain.ErrAdministratorExists.
	Create(ctx context.Context, a *domain.Administrator) error
	Count(ctx context.Context) (int64, error)
}
