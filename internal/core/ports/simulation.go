package ports

import "context"

// Simulation tick actions.
const (
	ActionMoved     = "MOVED"
	ActionDelivered = "DELIVERED"
)

// VehicleUpdate is the per-vehicle outcome of one tick. Error is set when
// that vehicle's processing failed; the tick continues past it.
type VehicleUpdate struct {
	VehicleID  string  `json:"vehicleId"`
	TrackingID string  `json:"trackingId,omitempty"`
	Action     string  `json:"action,omitempty"`
	Lat        float64 `json:"lat,omitempty"`
	Lng        float64 `json:"lng,omitempty"`
	FuelPct    float64 `json:"fuelPct,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// TickResult summarizes one simulation tick.
type TickResult struct {
	VehiclesUpdated int             `json:"vehiclesUpdated"`
	Updates         []VehicleUpdate `json:"updates"`
}

// SimulationService advances the fleet. One Tick processes every in-transit
// vehicle exactly once; vehicles failing in isolation never block the rest.
type SimulationService interface {
	Tick(ctx context.Context) (*TickResult, error)
}
