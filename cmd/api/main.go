// Command api serves the vehicle and administrator HTTP API.
//
//	@title						Minimal API
//	@version					1.0
//	@description				Vehicle and administrator management with JWT authentication.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the JWT token.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/Caiquefelipe/minimal-api/internal/api"
	"github.com/Caiquefelipe/minimal-api/internal/core/ports"
	"github.com/Caiquefelipe/minimal-api/internal/core/service"
	"github.com/Caiquefelipe/minimal-api/internal/core/token"
	"github.com/Caiquefelipe/minimal-api/internal/infrastructure/config"
	mongodb "github.com/Caiquefelipe/minimal-api/internal/infrastructure/db/mongo"
	redisdb "github.com/Caiquefelipe/minimal-api/internal/infrastructure/db/redis"
	"github.com/Caiquefelipe/minimal-api/internal/infrastructure/db/sqldb"
	"github.com/Caiquefelipe/minimal-api/internal/infrastructure/http"
	"github.com/Caiquefelipe/minimal-api/internal/infrastructure/http/handlers"
	"github.com/Caiquefelipe/minimal-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "minimal-api: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "minimal-api",
	})

	st, err := openStores(ctx, cfg, logger.Component("storage"))
	if err != nil {
		return err
	}
	defer st.close(log)

	issuer := token.NewIssuer(cfg.Jwt.Key)
	if cfg.Jwt.Key == "" {
		log.Warn().Msg("JWT_KEY is empty; logins will fail until a signing key is configured")
	}

	admins := service.NewAdministratorService(st.administrators, issuer, logger.Component("administrators"))
	vehicles := service.NewVehicleService(st.vehicles, st.idempotency, logger.Component("vehicles"))

	seeded, err := admins.Bootstrap(ctx, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("bootstrap administrator: %w", err)
	}
	if seeded {
		log.Info().Str("email", cfg.Admin.Email).Msg("seeded initial administrator")
	}

	e := api.NewRouter(api.Options{
		Administrators:     admins,
		Vehicles:           vehicles,
		Tokens:             issuer,
		Logger:             logger.Component("http"),
		ReadinessChecks:    st.checks,
		LoginRatePerMinute: cfg.LoginRate.PerMinute,
		LoginRateBurst:     cfg.LoginRate.Burst,
	})

	log.Info().
		Str("port", cfg.Port).
		Str("env", cfg.Env).
		Str("database", cfg.Database.Driver).
		Bool("idempotency", cfg.Redis.Addr != "").
		Msg("starting server")

	return http.NewServer(e, cfg.Port, cfg.ShutdownTimeout, logger.Component("server")).Run(ctx)
}

// stores bundles the repositories chosen by DATABASE_DRIVER together with
// their readiness checks and shutdown hooks.
type stores struct {
	administrators ports.AdministratorRepository
	vehicles       ports.VehicleRepository
	idempotency    ports.IdempotencyStore
	checks         map[string]handlers.Check
	closers        []io.Closer
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	st := &stores{checks: map[string]handlers.Check{}}

	switch cfg.Database.Driver {
	case "mongo":
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, closerFunc(func() error { return client.Disconnect(context.Background()) }))

		admins := mongodb.NewAdministratorRepository(db)
		vehicles := mongodb.NewVehicleRepository(db)
		if err := admins.EnsureIndexes(ctx); err != nil {
			st.close(log)
			return nil, err
		}
		if err := vehicles.EnsureIndexes(ctx); err != nil {
			st.close(log)
			return nil, err
		}
		st.administrators, st.vehicles = admins, vehicles
		st.checks["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	default:
		store, err := sqldb.Open(ctx, sqldb.Dialect(cfg.Database.Driver), cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, store)

		if err := store.Migrate(ctx); err != nil {
			st.close(log)
			return nil, err
		}
		st.administrators, st.vehicles = store.Administrators(), store.Vehicles()
		st.checks[cfg.Database.Driver] = store.Ping
		log.Info().Str("driver", cfg.Database.Driver).Msg("database migrated")
	}

	if cfg.Redis.Addr != "" {
		idem, err := redisdb.Open(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB, Timeout: cfg.Redis.Timeout})
		if err != nil {
			st.close(log)
			return nil, err
		}
		st.closers = append(st.closers, idem)
		st.idempotency = idem
		st.checks["redis"] = idem.Ping
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotency keys enabled")
	}

	return st, nil
}

func (s *stores) close(log zerolog.Logger) {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		log.Warn().Err(err).Msg("closing stores")
	}
}
