package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Caiquefelipe/minimal-api/internal/core/domain"
	"github.com/Caiquefelipe/minimal-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubAdminRepo struct {
	byID      map[int64]*domain.Administrator
	nextID    int64
	createErr error
	countErr  error
}

func newStubAdminRepo() *stubAdminRepo {
	return &stubAdminRepo{byID: make(map[int64]*domain.Administrator)}
}

func cloneAdmin(a *domain.Administrator) *domain.Administrator {
	c := *a
	return &c
}

func (r *stubAdminRepo) List(_ context.Context, page int) ([]*domain.Administrator, error) {
	ids := make([]int64, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*domain.Administrator, 0, len(ids))
	for _, id := range ids {
		out = append(out, cloneAdmin(r.byID[id]))
	}
	return out, nil
}

func (r *stubAdminRepo) GetByID(_ context.Context, id int64) (*domain.Administrator, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAdministratorNotFound
	}
	return cloneAdmin(a), nil
}

func (r *stubAdminRepo) GetByEmail(_ context.Context, email string) (*domain.Administrator, error) {
	for _, a := range r.byID {
		if a.Email == email {
			return cloneAdmin(a), nil
		}
	}
	return nil, domain.ErrAdministratorNotFound
}

func (r *stubAdminRepo) Create(_ context.Context, a *domain.Administrator) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.byID {
		if existing.Email == a.Email {
			return domain.ErrAdministratorExists
		}
	}
	r.nextID++
	a.ID = r.nextID
	r.byID[a.ID] = cloneAdmin(a)
	return nil
}

func (r *stubAdminRepo) Count(context.Context) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	return int64(len(r.byID)), nil
}

type stubVehicleRepo struct {
	byID      map[int64]*domain.Vehicle
	nextID    int64
	creates   int
	createErr error
}

func newStubVehicleRepo() *stubVehicleRepo {
	return &stubVehicleRepo{byID: make(map[int64]*domain.Vehicle)}
}

func (r *stubVehicleRepo) List(_ context.Context, f ports.VehicleFilter) ([]*domain.Vehicle, error) {
	var out []*domain.Vehicle
	for _, v := range r.byID {
		if f.Name != "" && !strings.Contains(strings.ToLower(v.Name), strings.ToLower(f.Name)) {
			continue
		}
		if f.Brand != "" && !strings.Contains(strings.ToLower(v.Brand), strings.ToLower(f.Brand)) {
			continue
		}
		c := *v
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if f.Page == 0 {
		return out, nil
	}
	start := f.Offset()
	if start >= len(out) {
		return []*domain.Vehicle{}, nil
	}
	end := min(start+ports.PageSize, len(out))
	return out[start:end], nil
}

func (r *stubVehicleRepo) GetByID(_ context.Context, id int64) (*domain.Vehicle, error) {
	v, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrVehicleNotFound
	}
	c := *v
	return &c, nil
}

func (r *stubVehicleRepo) Create(_ context.Context, v *domain.Vehicle) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.creates++
	r.nextID++
	v.ID = r.nextID
	c := *v
	r.byID[v.ID] = &c
	return nil
}

func (r *stubVehicleRepo) Update(_ context.Context, v *domain.Vehicle) error {
	if _, ok := r.byID[v.ID]; !ok {
		return domain.ErrVehicleNotFound
	}
	c := *v
	r.byID[v.ID] = &c
	return nil
}

func (r *stubVehicleRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrVehicleNotFound
	}
	delete(r.byID, id)
	return nil
}

type stubIdempotency struct {
	keys      map[string]int64
	lookupErr error
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]int64)}
}

func (s *stubIdempotency) Lookup(_ context.Context, scope, key string) (int64, bool, error) {
	if s.lookupErr != nil {
		return 0, false, s.lookupErr
	}
	id, ok := s.keys[scope+":"+key]
	return id, ok, nil
}

func (s *stubIdempotency) Remember(_ context.Context, scope, key string, id int64, _ time.Duration) error {
	s.keys[scope+":"+key] = id
	return nil
}

type stubIssuer struct {
	err    error
	issued []domain.Claims
}

func (s *stubIssuer) Issue(c domain.Claims) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.issued = append(s.issued, c)
	return "token-for-" + c.Email, nil
}
