package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Caiquefelipe/minimal-api/internal/api/metrics"
	"github.com/Caiquefelipe/minimal-api/internal/api/middleware"
	"github.com/Caiquefelipe/minimal-api/internal/core/domain"
	"github.com/Caiquefelipe/minimal-api/internal/core/ports"
	"github.com/Caiquefelipe/minimal-api/internal/core/validation"
)

// AdministratorHandler handles login and administrator management.
type AdministratorHandler struct {
	service ports.AdministratorService
}

func NewAdministratorHandler(service ports.AdministratorService) *AdministratorHandler {
	return &AdministratorHandler{service: service}
}

// Login authenticates an administrator and returns a bearer token.
//
// @Summary      Login
// @Tags         administradores
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /administradores/login [post]
func (h *AdministratorHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}

	res, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		} else {
			metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Email: res.Administrator.Email,
		Role:  res.Administrator.Role.String(),
		Token: res.Token,
	})
}

// List handles GET /administradores.
//
// @Summary      List administrators
// @Tags         administradores
// @Produce      json
// @Security     BearerAuth
// @Param        pagina  query     int  false  "Page number (10 per page); 0 or omitted for all"
// @Success      200     {array}   administratorResponse
// @Failure      400     {object}  validationResponse
// @Failure      401     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /administradores [get]
func (h *AdministratorHandler) List(c echo.Context) error {
	var q pageQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	admins, err := h.service.List(c.Request().Context(), q.Page)
	if err != nil {
		return err
	}

	out := make([]administratorResponse, 0, len(admins))
	for _, a := range admins {
		out = append(out, toAdministratorResponse(a))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /administradores/:id.
//
// @Summary      Get an administrator
// @Tags         administradores
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Administrator id"
// @Success      200  {object}  administratorResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /administradores/{id} [get]
func (h *AdministratorHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	admin, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAdministratorResponse(admin))
}

// Create handles POST /administradores.
//
// @Summary      Create an administrator
// @Tags         administradores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      administratorRequest  true  "Administrator"
// @Success      201   {object}  administratorResponse
// @Failure      400   {object}  validationResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /administradores [post]
func (h *AdministratorHandler) Create(c echo.Context) error {
	var req administratorRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}
	if err := c.Validate(&req); err != nil {
		countValidationFailure(err, "administrator")
		return err
	}
	if err := middleware.Enforce(c); err != nil {
		return err
	}

	admin, err := h.service.Create(c.Request().Context(), req.input())
	if err != nil {
		return err
	}

	metrics.RecordWritesTotal.WithLabelValues("administrator", "create").Inc()
	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/administradores/%d", admin.ID))
	return c.JSON(http.StatusCreated, toAdministratorResponse(admin))
}

func countValidationFailure(err error, entity string) {
	var failed *validation.Failed
	if errors.As(err, &failed) {
		metrics.ValidationFailuresTotal.WithLabelValues(entity).Inc()
	}
}
