package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fleetline/logistics-platform/internal/core/domain"
	"github.com/fleetline/logistics-platform/internal/core/ports"
)

// FleetService manages the vehicle pool: provisioning, listing and
// maintenance. The shipment factory auto-provisions drones and trucks;
// ships only ever enter the fleet through here.
type FleetService struct {
	vehicles ports.VehicleRepository
	bus      ports.Broadcaster
	locks    *LockRegistry
	logger   zerolog.Logger
}

func NewFleetService(
	vehicles ports.VehicleRepository,
	bus ports.Broadcaster,
	locks *LockRegistry,
	logger zerolog.Logger,
) *FleetService {
	return &FleetService{
		vehicles: vehicles,
		bus:      bus,
		locks:    locks,
		logger:   logger,
	}
}

// ProvisionVehicle adds a new idle vehicle of the given variant.
func (s *FleetService) ProvisionVehicle(ctx context.Context, variant domain.VehicleVariant) (*domain.Vehicle, error) {
	vehicle := domain.NewVehicle(variant, generateLicenseID(variant))
	vehicle.ID = uuid.NewString()

	if err := s.vehicles.Create(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("provision vehicle: %w", err)
	}

	s.logger.Info().
		Str("vehicle_id", vehicle.ID).
		Str("license_id", vehicle.LicenseID).
		Str("variant", string(variant)).
		Msg("vehicle provisioned")

	s.bus.Broadcast(domain.NewRealtimeEvent(domain.EventVehicleUpdate, vehicle), domain.ChannelVehicles)
	return vehicle, nil
}

// ListVehicles returns the whole fleet.
func (s *FleetService) ListVehicles(ctx context.Context) ([]*domain.Vehicle, error) {
	fleet, err := s.vehicles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	return fleet, nil
}

// EnterMaintenance takes an idle vehicle out of the dispatchable pool.
func (s *FleetService) EnterMaintenance(ctx context.Context, vehicleID string) (*domain.Vehicle, error) {
	vehicle, err := s.mutate(ctx, vehicleID, (*domain.Vehicle).EnterMaintenance)
	if err != nil {
		return nil, fmt.Errorf("enter maintenance: %w", err)
	}
	return vehicle, nil
}

// ExitMaintenance returns a vehicle to the idle pool.
func (s *FleetService) ExitMaintenance(ctx context.Context, vehicleID string) (*domain.Vehicle, error) {
	vehicle, err := s.mutate(ctx, vehicleID, (*domain.Vehicle).ExitMaintenance)
	if err != nil {
		return nil, fmt.Errorf("exit maintenance: %w", err)
	}
	return vehicle, nil
}

// Refuel restores an idle or maintenance vehicle to full fuel.
func (s *FleetService) Refuel(ctx context.Context, vehicleID string) (*domain.Vehicle, error) {
	vehicle, err := s.mutate(ctx, vehicleID, (*domain.Vehicle).Refuel)
	if err != nil {
		return nil, fmt.Errorf("refuel: %w", err)
	}
	return vehicle, nil
}

// mutate loads the vehicle under its entity lock, applies fn, persists and
// broadcasts. Fleet operations never touch a shipment, so the vehicle lock
// alone is enough.
func (s *FleetService) mutate(ctx context.Context, vehicleID string, fn func(*domain.Vehicle) error) (*domain.Vehicle, error) {
	unlock := s.locks.Lock(vehicleID)
	defer unlock()

	vehicle, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if err := fn(vehicle); err != nil {
		return nil, err
	}
	if err := s.vehicles.Update(ctx, vehicle); err != nil {
		return nil, err
	}

	s.bus.Broadcast(domain.NewRealtimeEvent(domain.EventVehicleUpdate, vehicle), domain.ChannelVehicles)
	return vehicle, nil
}
