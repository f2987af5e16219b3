package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/Caiquefelipe/minimal-api/docs" // Swagger docs
	"github.com/Caiquefelipe/minimal-api/internal/api/handler"
	"github.com/Caiquefelipe/minimal-api/internal/api/middleware"
	"github.com/Caiquefelipe/minimal-api/internal/core/authz"
	"github.com/Caiquefelipe/minimal-api/internal/core/domain"
	"github.com/Caiquefelipe/minimal-api/internal/core/ports"
	"github.com/Caiquefelipe/minimal-api/internal/infrastructure/http/handlers"
)

// endpointPolicies declares who may call every route. Registering a route
// without an entry panics at start-up.
var endpointPolicies = map[string]authz.Policy{
	"GET /":                       authz.Anonymous(),
	"POST /administradores/login": authz.Anonymous(),
	"GET /administradores":        authz.Roles(domain.RoleAdmin),
	"GET /administradores/:id":    authz.Roles(domain.RoleAdmin),
	"POST /administradores":       authz.Roles(domain.RoleAdmin),
	"POST /veiculos":              authz.Roles(domain.RoleAdmin, domain.RoleEditor),
	"GET /veiculos":               authz.Roles(domain.RoleAdmin),
	"GET /veiculos/:id":           authz.Roles(domain.RoleAdmin, domain.RoleEditor),
	"PUT /veiculos/:id":           authz.Roles(domain.RoleAdmin),
	"DELETE /veiculos/:id":        authz.Roles(domain.RoleAdmin),

	"GET /health":       authz.Anonymous(),
	"GET /health/ready": authz.Anonymous(),
	"GET /metrics":      authz.Anonymous(),
	"GET /swagger/*":    authz.Anonymous(),
}

// validatedFirst lists routes whose body is validated before the policy is
// evaluated; the handler calls middleware.Enforce itself.
var validatedFirst = map[string]bool{
	"POST /administradores": true,
	"POST /veiculos":        true,
	"PUT /veiculos/:id":     true,
}

// Options carries everything the router wires together.
type Options struct {
	Administrators ports.AdministratorService
	Vehicles       ports.VehicleService
	Tokens         ports.TokenVerifier
	Logger         zerolog.Logger

	// ReadinessChecks are pinged by GET /health/ready.
	ReadinessChecks map[string]handlers.Check

	// LoginRatePerMinute 0 disables login throttling.
	LoginRatePerMinute float64
	LoginRateBurst     int

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(opts Options) *echo.Echo {
	if opts.Registerer == nil {
		opts.Registerer = prometheus.DefaultRegisterer
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)

	// --- Pre-routing ---
	e.Pre(middleware.LowercasePath())
	e.Pre(echomiddleware.RemoveTrailingSlash())

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(opts.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "minimal_api",
		Subsystem:  "http",
		Registerer: opts.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(middleware.Authenticate(opts.Tokens))

	r := &routes{e: e}

	// --- Dependencies ---
	admins := handler.NewAdministratorHandler(opts.Administrators)
	vehicles := handler.NewVehicleHandler(opts.Vehicles)
	health := handlers.NewHealthHandler()
	ready := handlers.NewHealthDependenciesHandler(opts.ReadinessChecks)

	// --- Home & docs ---
	r.add(http.MethodGet, "/", handler.Home)
	r.add(http.MethodGet, "/swagger/*", echoSwagger.WrapHandler)

	// --- Administrators ---
	r.add(http.MethodPost, "/administradores/login", admins.Login,
		middleware.LoginRateLimit(opts.LoginRatePerMinute, opts.LoginRateBurst))
	r.add(http.MethodGet, "/administradores", admins.List)
	r.add(http.MethodGet, "/administradores/:id", admins.Get)
	r.add(http.MethodPost, "/administradores", admins.Create)

	// --- Vehicles ---
	r.add(http.MethodPost, "/veiculos", vehicles.Create)
	r.add(http.MethodGet, "/veiculos", vehicles.List)
	r.add(http.MethodGet, "/veiculos/:id", vehicles.Get)
	r.add(http.MethodPut, "/veiculos/:id", vehicles.Update)
	r.add(http.MethodDelete, "/veiculos/:id", vehicles.Delete)

	// --- Operations (no auth required) ---
	r.add(http.MethodGet, "/health", health.Liveness)      // liveness  – is the process alive?
	r.add(http.MethodGet, "/health/ready", ready.Readiness) // readiness – are dependencies up?
	r.add(http.MethodGet, "/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: opts.Gatherer,
	}))

	return e
}

type routes struct {
	e *echo.Echo
}

// add registers a route behind the gate declared for it in endpointPolicies.
func (r *routes) add(method, path string, h echo.HandlerFunc, mw ...echo.MiddlewareFunc) {
	key := method + " " + path
	policy, ok := endpointPolicies[key]
	if !ok {
		panic("api: no access policy declared for " + key)
	}

	gate := middleware.Require(policy)
	if validatedFirst[key] {
		gate = middleware.Defer(policy)
	}
	r.e.Add(method, path, h, append(mw, gate)...)
}
