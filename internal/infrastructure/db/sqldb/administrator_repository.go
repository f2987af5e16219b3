package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Caiquefelipe/minimal-api/internal/core/domain"
	"github.com/Caiquefelipe/minimal-api/internal/core/ports"
)

const administratorColumns = "id, email, senha, perfil"

// AdministratorRepository implements ports.AdministratorRepository over the
// administradores table.
type AdministratorRepository struct {
	store *Store
}

func scanAdministrator(row interface{ Scan(...any) error }) (*domain.Administrator, error) {
	var (
		a    domain.Administrator
		role string
	)
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &role); err != nil {
		return nil, err
	}
	a.Role = domain.Role(role)
	return &a, nil
}

func (r *AdministratorRepository) List(ctx context.Context, page int) ([]*domain.Administrator, error) {
	q := "SELECT " + administratorColumns + " FROM administradores ORDER BY id"
	var args []any
	if page > 0 {
		q += " LIMIT ? OFFSET ?"
		args = append(args, ports.PageSize, ports.PageOffset(page))
	}

	rows, err := r.store.db.QueryContext(ctx, r.store.rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("list administrators: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Administrator, 0)
	for rows.Next() {
		a, err := scanAdministrator(rows)
		if err != nil {
			return nil, fmt.Errorf("list administrators: scan: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list administrators: %w", err)
	}
	return out, nil
}

func (r *AdministratorRepository) GetByID(ctx context.Context, id int64) (*domain.Administrator, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *AdministratorRepository) GetByEmail(ctx context.Context, email string) (*domain.Administrator, error) {
	return r.getOne(ctx, "email = ?", email)
}

func (r *AdministratorRepository) getOne(ctx context.Context, cond string, arg any) (*domain.Administrator, error) {
	q := r.store.rebind("SELECT " + administratorColumns + " FROM administradores WHERE " + cond)
	a, err := scanAdministrator(r.store.db.QueryRowContext(ctx, q, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAdministratorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get administrator: %w", err)
	}
	return a, nil
}

func (r *AdministratorRepository) Create(ctx context.Context, a *domain.Administrator) error {
	q := r.store.rebind("INSERT INTO administradores (email, senha, perfil) VALUES (?, ?, ?) RETURNING id")
	err := r.store.db.QueryRowContext(ctx, q, a.Email, a.PasswordHash, a.Role.String()).Scan(&a.ID)
	if isUniqueViolation(err) {
		return domain.ErrAdministratorExists
	}
	if err != nil {
		return fmt.Errorf("insert administrator: %w", err)
	}
	return nil
}

func (r *AdministratorRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM administradores").Scan(&n); err != nil {
		return 0, fmt.Errorf("count administrators: %w", err)
	}
	return n, nil
}
