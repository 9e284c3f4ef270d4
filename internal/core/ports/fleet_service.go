package ports

import (
	"context"

	"github.com/fleetline/logistics-platform/internal/core/domain"
)

// FleetService owns the vehicle pool outside of shipment assignment:
// provisioning (the only way a SHIP enters the fleet), listing, and
// maintenance rotation.
type FleetService interface {
	ProvisionVehicle(ctx context.Context, variant domain.VehicleVariant) (*domain.Vehicle, error)
	ListVehicles(ctx context.Context) ([]*domain.Vehicle, error)
	EnterMaintenance(ctx context.Context, vehicleID string) (*domain.Vehicle, error)
	ExitMaintenance(ctx context.Context, vehicleID string) (*domain.Vehicle, error)
	Refuel(ctx context.Context, vehicleID string) (*domain.Vehicle, error)
}
