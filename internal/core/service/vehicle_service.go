package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Caiquefelipe/minimal-api/internal/core/domain"
	"github.com/Caiquefelipe/minimal-api/internal/core/ports"
	"github.com/Caiquefelipe/minimal-api/internal/core/validation"
)

const (
	idempotencyScope = "veiculos"
	// IdempotencyTTL is how long a create is remembered under its key.
	IdempotencyTTL = 24 * time.Hour
)

type VehicleService struct {
	repo ports.VehicleRepository
	idem ports.IdempotencyStore
	log  zerolog.Logger
}

// NewVehicleService returns a VehicleService. A nil idem disables
// Idempotency-Key handling.
func NewVehicleService(repo ports.VehicleRepository, idem ports.IdempotencyStore, log zerolog.Logger) *VehicleService {
	if idem == nil {
		idem = noopIdempotency{}
	}
	return &VehicleService{repo: repo, idem: idem, log: log}
}

func (s *VehicleService) List(ctx context.Context, filter ports.VehicleFilter) ([]*domain.Vehicle, error) {
	if filter.Page < 0 {
		filter.Page = 0
	}
	return s.repo.List(ctx, filter)
}

func (s *VehicleService) Get(ctx context.Context, id int64) (*domain.Vehicle, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores a new vehicle. If idempotencyKey was already used, the vehicle
// created under it is returned and nothing is written.
func (s *VehicleService) Create(ctx context.Context, in domain.VehicleInput, idempotencyKey string) (*ports.CreateVehicleResult, error) {
	if err := validation.Check(validation.Vehicle(in)); err != nil {
		return nil, err
	}

	if idempotencyKey != "" {
		if v, ok := s.replay(ctx, idempotencyKey); ok {
			return &ports.CreateVehicleResult{Vehicle: v, Replayed: true}, nil
		}
	}

	v := &domain.Vehicle{}
	in.Apply(v)
	if err := s.repo.Create(ctx, v); err != nil {
		s.log.Error().Err(err).Msg("failed to create vehicle")
		return nil, fmt.Errorf("create vehicle: %w", err)
	}

	if idempotencyKey != "" {
		if err := s.idem.Remember(ctx, idempotencyScope, idempotencyKey, v.ID, IdempotencyTTL); err != nil {
			s.log.Warn().Err(err).Str("idempotency_key", idempotencyKey).Msg("idempotency store unavailable, key not remembered")
		}
	}

	s.log.Info().Int64("id", v.ID).Str("brand", v.Brand).Msg("vehicle created")
	return &ports.CreateVehicleResult{Vehicle: v}, nil
}

// replay resolves a previously used key. Store failures and records deleted
// since the first create count as a miss.
func (s *VehicleService) replay(ctx context.Context, key string) (*domain.Vehicle, bool) {
	id, ok, err := s.idem.Lookup(ctx, idempotencyScope, key)
	if err != nil {
		s.log.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, creating anyway")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrVehicleNotFound) {
			s.log.Warn().Err(err).Int64("id", id).Msg("idempotent replay lookup failed")
		}
		return nil, false
	}

	s.log.Info().Str("idempotency_key", key).Int64("id", v.ID).Msg("idempotent replay")
	return v, true
}

// Update overwrites the writable fields of an existing vehicle.
func (s *VehicleService) Update(ctx context.Context, id int64, in domain.VehicleInput) (*domain.Vehicle, error) {
	if err := validation.Check(validation.Vehicle(in)); err != nil {
		return nil, err
	}

	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.Apply(v)

	if err := s.repo.Update(ctx, v); err != nil {
		if !errors.Is(err, domain.ErrVehicleNotFound) {
			s.log.Error().Err(err).Int64("id", id).Msg("failed to update vehicle")
		}
		return nil, err
	}

	s.log.Info().Int64("id", id).Msg("vehicle updated")
	return v, nil
}

func (s *VehicleService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrVehicleNotFound) {
			s.log.Error().Err(err).Int64("id", id).Msg("failed to delete vehicle")
		}
		return err
	}

	s.log.Info().Int64("id", id).Msg("vehicle deleted")
	return nil
}

type noopIdempotency struct{}

func (noopIdempotency) Lookup(context.Context, string, string) (int64, bool, error) {
	return 0, false, nil
}

func (noopIdempotency) Remember(context.Context, string, string, int64, time.Duration) error {
	return nil
}
