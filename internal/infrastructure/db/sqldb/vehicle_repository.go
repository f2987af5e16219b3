package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Caiquefelipe/minimal-api/internal/core/domain"
	"github.com/Caiquefelipe/minimal-api/internal/core/ports"
)

const vehicleColumns = "id, nome, marca, ano"

// VehicleRepository implements ports.VehicleRepository over the veiculos table.
type VehicleRepository struct {
	store *Store
}

func scanVehicle(row interface{ Scan(...any) error }) (*domain.Vehicle, error) {
	var v domain.Vehicle
	if err := row.Scan(&v.ID, &v.Name, &v.Brand, &v.Year); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VehicleRepository) List(ctx context.Context, f ports.VehicleFilter) ([]*domain.Vehicle, error) {
	var (
		where []string
		args  []any
	)
	if f.Name != "" {
		where = append(where, `LOWER(nome) LIKE LOWER(?) ESCAPE '\'`)
		args = append(args, likePattern(f.Name))
	}
	if f.Brand != "" {
		where = append(where, `LOWER(marca) LIKE LOWER(?) ESCAPE '\'`)
		args = append(args, likePattern(f.Brand))
	}

	q := "SELECT " + vehicleColumns + " FROM veiculos"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY id"
	if f.Page > 0 {
		q += " LIMIT ? OFFSET ?"
		args = append(args, ports.PageSize, f.Offset())
	}

	rows, err := r.store.db.QueryContext(ctx, r.store.rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Vehicle, 0)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("list vehicles: scan: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	return out, nil
}

func (r *VehicleRepository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	q := r.store.rebind("SELECT " + vehicleColumns + " FROM veiculos WHERE id = ?")
	v, err := scanVehicle(r.store.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrVehicleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get vehicle %d: %w", id, err)
	}
	return v, nil
}

func (r *VehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	q := r.store.rebind("INSERT INTO veiculos (nome, marca, ano) VALUES (?, ?, ?) RETURNING id")
	if err := r.store.db.QueryRowContext(ctx, q, v.Name, v.Brand, v.Year).Scan(&v.ID); err != nil {
		return fmt.Errorf("insert vehicle: %w", err)
	}
	return nil
}

func (r *VehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	q := r.store.rebind("UPDATE veiculos SET nome = ?, marca = ?, ano = ? WHERE id = ?")
	res, err := r.store.db.ExecContext(ctx, q, v.Name, v.Brand, v.Year, v.ID)
	if err != nil {
		return fmt.Errorf("update vehicle %d: %w", v.ID, err)
	}
	return expectOneRow(res, domain.ErrVehicleNotFound)
}

func (r *VehicleRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.store.db.ExecContext(ctx, r.store.rebind("DELETE FROM veiculos WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete vehicle %d: %w", id, err)
	}
	return expectOneRow(res, domain.ErrVehicleNotFound)
}

func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
