package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Caiquefelipe/minimal-api/internal/api/metrics"
	"github.com/Caiquefelipe/minimal-api/internal/api/middleware"
	"github.com/Caiquefelipe/minimal-api/internal/core/ports"
)

// HeaderIdempotencyKey lets clients retry POST /veiculos safely.
const HeaderIdempotencyKey = "Idempotency-Key"

// VehicleHandler handles HTTP requests for vehicle operations.
type VehicleHandler struct {
	service ports.VehicleService
}

func NewVehicleHandler(service ports.VehicleService) *VehicleHandler {
	return &VehicleHandler{service: service}
}

// Create handles POST /veiculos.
//
// @Summary      Create a vehicle
// @Tags         veiculos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string          false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      vehicleRequest  true   "Vehicle"
// @Success      201              {object}  vehicleResponse
// @Failure      400              {object}  validationResponse
// @Failure      401              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Router       /veiculos [post]
func (h *VehicleHandler) Create(c echo.Context) error {
	var req vehicleRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}
	if err := c.Validate(&req); err != nil {
		countValidationFailure(err, "vehicle")
		return err
	}
	if err := middleware.Enforce(c); err != nil {
		return err
	}

	res, err := h.service.Create(c.Request().Context(), req.input(), c.Request().Header.Get(HeaderIdempotencyKey))
	if err != nil {
		return err
	}

	if res.Replayed {
		metrics.IdempotentReplaysTotal.Inc()
	} else {
		metrics.RecordWritesTotal.WithLabelValues("vehicle", "create").Inc()
	}
	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/veiculos/%d", res.Vehicle.ID))
	return c.JSON(http.StatusCreated, toVehicleResponse(res.Vehicle))
}

// List handles GET /veiculos.
//
// @Summary      List vehicles
// @Tags         veiculos
// @Produce      json
// @Security     BearerAuth
// @Param        pagina  query     int     false  "Page number (10 per page); 0 or omitted for all"
// @Param        nome    query     string  false  "Name contains (case-insensitive)"
// @Param        marca   query     string  false  "Brand contains (case-insensitive)"
// @Success      200     {array}   vehicleResponse
// @Failure      400     {object}  validationResponse
// @Failure      401     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /veiculos [get]
func (h *VehicleHandler) List(c echo.Context) error {
	var q vehicleListQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	vehicles, err := h.service.List(c.Request().Context(), ports.VehicleFilter{
		Page:  q.Page,
		Name:  q.Name,
		Brand: q.Brand,
	})
	if err != nil {
		return err
	}

	out := make([]vehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, toVehicleResponse(v))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /veiculos/:id.
//
// @Summary      Get a vehicle
// @Tags         veiculos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Vehicle id"
// @Success      200  {object}  vehicleResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /veiculos/{id} [get]
func (h *VehicleHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	v, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toVehicleResponse(v))
}

// Update handles PUT /veiculos/:id.
//
// @Summary      Update a vehicle
// @Tags         veiculos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Vehicle id"
// @Param        body  body      vehicleRequest  true  "Vehicle"
// @Success      200   {object}  vehicleResponse
// @Failure      400   {object}  validationResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /veiculos/{id} [put]
func (h *VehicleHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req vehicleRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}
	if err := c.Validate(&req); err != nil {
		countValidationFailure(err, "vehicle")
		return err
	}
	if err := middleware.Enforce(c); err != nil {
		return err
	}

	v, err := h.service.Update(c.Request().Context(), id, req.input())
	if err != nil {
		return err
	}

	metrics.RecordWritesTotal.WithLabelValues("vehicle", "update").Inc()
	return c.JSON(http.StatusOK, toVehicleResponse(v))
}

// Delete handles DELETE /veiculos/:id.
//
// @Summary      Delete a vehicle
// @Tags         veiculos
// @Security     BearerAuth
// @Param        id  path  int  true  "Vehicle id"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /veiculos/{id} [delete]
func (h *VehicleHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	metrics.RecordWritesTotal.WithLabelValues("vehicle", "delete").Inc()
	return c.NoContent(http.StatusNoContent)
}
