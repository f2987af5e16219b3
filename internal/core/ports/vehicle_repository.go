package ports

import (
	"context"

	"github.com/Caiquefelipe/minimal-api/internal/core/domain"
)

// VehicleFilter carries the query parameters for listing vehicles.
type VehicleFilter struct {
	Page  int    // 1-based; 0 = no paging, return everything
	Name  string // optional: case-insensitive substring of the name
	Brand string // optional: case-insensitive substring of the brand
}

// Offset returns the number of rows to skip for the filter's page.
func (f VehicleFilter) Offset() int { return PageOffset(f.Page) }

// VehicleRepository defines persistence operations for vehicles.
type VehicleRepository interface {
	List(ctx context.Context, filter VehicleFilter) ([]*domain.Vehicle, error)
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
	// Create stores v and assigns its ID.
	Create(ctx context.Context, v *domain.Vehicle) error
	// Update overwrites the stored record with v.ID. A missing record yields
	// domain.ErrVehicleNotFound.
	Update(ctx context.Context, v *domain.Vehicle) error
	Delete(ctx context.Context, id int64) error
}
