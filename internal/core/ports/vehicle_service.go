package ports

import (
	"context"
	"time"

	"github.com/Caiquefelipe/minimal-api/internal/core/domain"
)

// CreateVehicleResult is returned by VehicleService.Create.
type CreateVehicleResult struct {
	Vehicle *domain.Vehicle
	// Replayed is true when the Idempotency-Key matched an earlier create.
	Replayed bool
}

// VehicleService defines use-case operations for vehicles.
type VehicleService interface {
	List(ctx context.Context, filter VehicleFilter) ([]*domain.Vehicle, error)
	Get(ctx context.Context, id int64) (*domain.Vehicle, error)
	Create(ctx context.Context, in domain.VehicleInput, idempotencyKey string) (*CreateVehicleResult, error)
	Update(ctx context.Context, id int64, in domain.VehicleInput) (*domain.Vehicle, error)
	Delete(ctx context.Context, id int64) error
}

// IdempotencyStore remembers which record a client-supplied key produced.
type IdempotencyStore interface {
	// Lookup returns the remembered id and true, or false on a miss.
	Lookup(ctx context.Context, scope, key string) (int64, bool, error)
	Remember(ctx context.Context, scope, key string, id int64, ttl time.Duration) error
}
