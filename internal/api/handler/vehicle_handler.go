package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fleetline/logistics-platform/internal/core/domain"
	"github.com/fleetline/logistics-platform/internal/core/ports"
)

type provisionVehicleRequest struct {
	Variant string `json:"variant" validate:"required,oneof=DRONE TRUCK SHIP"`
}

type maintenanceRequest struct {
	Action string `json:"action" validate:"required,oneof=enter exit"`
}

type listVehiclesResponse struct {
	Data []vehicleResponse `json:"data"`
}

// VehicleHandler handles HTTP requests for fleet operations.
type VehicleHandler struct {
	fleet ports.FleetService
}

func NewVehicleHandler(fleet ports.FleetService) *VehicleHandler {
	return &VehicleHandler{fleet: fleet}
}

// Provision handles POST /v1/vehicles. This is the only way a SHIP enters
// the fleet; the shipment factory never auto-selects one.
func (h *VehicleHandler) Provision(c echo.Context) error {
	var req provisionVehicleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	vehicle, err := h.fleet.ProvisionVehicle(c.Request().Context(), domain.VehicleVariant(req.Variant))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toVehicleResponse(vehicle))
}

// List handles GET /v1/vehicles.
func (h *VehicleHandler) List(c echo.Context) error {
	fleet, err := h.fleet.ListVehicles(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]vehicleResponse, len(fleet))
	for i, v := range fleet {
		out[i] = toVehicleResponse(v)
	}
	return c.JSON(http.StatusOK, listVehiclesResponse{Data: out})
}

// Maintenance handles POST /v1/vehicles/:id/maintenance.
func (h *VehicleHandler) Maintenance(c echo.Context) error {
	var req maintenanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	var (
		vehicle *domain.Vehicle
		err     error
	)
	if req.Action == "enter" {
		vehicle, err = h.fleet.EnterMaintenance(c.Request().Context(), c.Param("id"))
	} else {
		vehicle, err = h.fleet.ExitMaintenance(c.Request().Context(), c.Param("id"))
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toVehicleResponse(vehicle))
}

// Refuel handles POST /v1/vehicles/:id/refuel.
func (h *VehicleHandler) Refuel(c echo.Context) error {
	vehicle, err := h.fleet.Refuel(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toVehicleResponse(vehicle))
}
