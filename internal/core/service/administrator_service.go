package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Caiquefelipe/minimal-api/internal/core/domain"
	"github.com/Caiquefelipe/minimal-api/internal/core/ports"
	"github.com/Caiquefelipe/minimal-api/internal/core/validation"
)

// AdministratorService implements login and administrator management.
type AdministratorService struct {
	repo   ports.AdministratorRepository
	tokens ports.TokenIssuer
	log    zerolog.Logger
}

func NewAdministratorService(repo ports.AdministratorRepository, tokens ports.TokenIssuer, log zerolog.Logger) *AdministratorService {
	return &AdministratorService{repo: repo, tokens: tokens, log: log}
}

// Login checks the credentials and issues a token for the matching account.
// Unknown e-mails and wrong passwords are indistinguishable to the caller.
func (s *AdministratorService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	admin, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrAdministratorNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(domain.ClaimsFor(admin))
	if err != nil {
		s.log.Error().Err(err).Str("email", admin.Email).Msg("token issuance failed")
		return nil, fmt.Errorf("login: %w", err)
	}

	return &ports.LoginResult{Administrator: admin, Token: tok}, nil
}

func (s *AdministratorService) List(ctx context.Context, page int) ([]*domain.Administrator, error) {
	if page < 0 {
		page = 0
	}
	return s.repo.List(ctx, page)
}

func (s *AdministratorService) Get(ctx context.Context, id int64) (*domain.Administrator, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates the input, hashes the password and stores the account.
// A missing role falls back to domain.DefaultRole.
func (s *AdministratorService) Create(ctx context.Context, in domain.AdministratorInput) (*domain.Administrator, error) {
	if in.Role == nil {
		def := domain.DefaultRole.String()
		in.Role = &def
	}
	if err := validation.Check(validation.Administrator(in)); err != nil {
		return nil, err
	}
	role, _ := domain.ParseRole(*in.Role)

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin := &domain.Administrator{
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		if !errors.Is(err, domain.ErrAdministratorExists) {
			s.log.Error().Err(err).Str("email", in.Email).Msg("failed to create administrator")
		}
		return nil, err
	}

	s.log.Info().Int64("id", admin.ID).Str("role", admin.Role.String()).Msg("administrator created")
	return admin, nil
}

// Bootstrap seeds the first Adm account so a fresh deployment can log in.
// It does nothing when credentials are blank or any administrator exists.
func (s *AdministratorService) Bootstrap(ctx context.Context, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}

	n, err := s.repo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("bootstrap: count administrators: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	role := domain.RoleAdmin.String()
	_, err = s.Create(ctx, domain.AdministratorInput{Email: email, Password: password, Role: &role})
	if errors.Is(err, domain.ErrAdministratorExists) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("bootstrap: %w", err)
	}
	return true, nil
}
