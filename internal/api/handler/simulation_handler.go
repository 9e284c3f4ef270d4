package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fleetline/logistics-platform/internal/api/metrics"
	"github.com/fleetline/logistics-platform/internal/core/ports"
)

// SimulationHandler exposes the externally triggered fleet simulation.
type SimulationHandler struct {
	sim ports.SimulationService
}

func NewSimulationHandler(sim ports.SimulationService) *SimulationHandler {
	return &SimulationHandler{sim: sim}
}

// Tick handles POST /v1/simulation/tick — advances every in-transit
// vehicle one step and returns the per-vehicle outcomes.
func (h *SimulationHandler) Tick(c echo.Context) error {
	timer := prometheus.NewTimer(metrics.TickDuration)
	result, err := h.sim.Tick(c.Request().Context())
	timer.ObserveDuration()
	if err != nil {
		return err
	}

	metrics.SimulationTicksTotal.Inc()
	for _, update := range result.Updates {
		action := update.Action
		if update.Error != "" {
			action = "error"
		}
		if action == "" {
			continue
		}
		metrics.SimulationVehiclesMoved.WithLabelValues(action).Inc()
	}

	return c.JSON(http.StatusOK, result)
}
