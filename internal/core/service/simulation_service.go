package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/fleetline/logistics-platform/internal/core/domain"
	"github.com/fleetline/logistics-platform/internal/core/ports"
)

const (
	// arrivalRadiusDeg is the distance below which a vehicle snaps to the
	// destination and the shipment completes.
	arrivalRadiusDeg = 0.5
	// Fuel burned per tick: arrival costs more than a cruise step.
	deliveryFuelCostPct = 5.0
	moveFuelCostPct     = 2.0
)

// SimulationService advances every in-transit vehicle toward its shipment's
// destination. Ticks are externally triggered; the engine carries no
// scheduler of its own.
type SimulationService struct {
	shipments ports.ShipmentRepository
	vehicles  ports.VehicleRepository
	bus       ports.Broadcaster
	locks     *LockRegistry
	logger    zerolog.Logger
}

func NewSimulationService(
	shipments ports.ShipmentRepository,
	vehicles ports.VehicleRepository,
	bus ports.Broadcaster,
	locks *LockRegistry,
	logger zerolog.Logger,
) *SimulationService {
	return &SimulationService{
		shipments: shipments,
		vehicles:  vehicles,
		bus:       bus,
		locks:     locks,
		logger:    logger,
	}
}

// Tick processes each in-transit vehicle exactly once. Vehicles are handled
// in isolation: a failure on one is recorded in its outcome and the tick
// moves on. Vehicles not in transit are untouched, so a tick is idempotent
// for them.
func (s *SimulationService) Tick(ctx context.Context) (*ports.TickResult, error) {
	fleet, err := s.vehicles.FindInTransit(ctx)
	if err != nil {
		return nil, fmt.Errorf("simulation tick: %w", err)
	}

	result := &ports.TickResult{Updates: make([]ports.VehicleUpdate, 0, len(fleet))}
	for _, vehicle := range fleet {
		update := s.advanceVehicle(ctx, vehicle)
		switch {
		case update.Error != "":
			s.logger.Warn().
				Str("vehicle_id", update.VehicleID).
				Str("error", update.Error).
				Msg("tick: vehicle processing failed")
		case update.Action == "":
			// Raced with a cancel or concurrent delivery; no outcome to
			// report for this vehicle.
			continue
		default:
			result.VehiclesUpdated++
		}
		result.Updates = append(result.Updates, update)
	}

	s.bus.Broadcast(domain.NewRealtimeEvent(domain.EventStatsUpdate, map[string]any{
		"vehiclesUpdated": result.VehiclesUpdated,
		"inTransit":       len(fleet),
	}), domain.ChannelVehicles)

	return result, nil
}

// advanceVehicle moves one vehicle a single step. Both the shipment and the
// vehicle are re-read and mutated under their entity locks, shipment lock
// first (the ordering every writer follows).
func (s *SimulationService) advanceVehicle(ctx context.Context, snapshot *domain.Vehicle) ports.VehicleUpdate {
	update := ports.VehicleUpdate{VehicleID: snapshot.ID}

	if snapshot.CurrentShipmentID == nil {
		return update
	}
	shipmentID := *snapshot.CurrentShipmentID

	unlockShipment := s.locks.Lock(shipmentID)
	defer unlockShipment()
	unlockVehicle := s.locks.Lock(snapshot.ID)
	defer unlockVehicle()

	vehicle, err := s.vehicles.FindByID(ctx, snapshot.ID)
	if err != nil {
		update.Error = err.Error()
		return update
	}
	if vehicle.Status != domain.VehicleInTransit || vehicle.CurrentShipmentID == nil || *vehicle.CurrentShipmentID != shipmentID {
		// Raced with a cancel or a concurrent delivery; nothing to do.
		return update
	}

	shipment, err := s.shipments.FindByID(ctx, shipmentID)
	if err != nil {
		update.Error = err.Error()
		return update
	}
	update.TrackingID = shipment.TrackingID

	position := shipment.Origin
	if vehicle.Position != nil {
		position = *vehicle.Position
	}

	next, arrived := domain.StepToward(position, shipment.Destination, vehicle.SpeedDegPerTick, arrivalRadiusDeg)
	if arrived {
		return s.completeDelivery(ctx, vehicle, shipment, update)
	}

	vehicle.MoveTo(next)
	vehicle.ConsumeFuel(moveFuelCostPct)
	if err := s.vehicles.Update(ctx, vehicle); err != nil {
		update.Error = err.Error()
		return update
	}

	update.Action = ports.ActionMoved
	update.Lat = next.Lat
	update.Lng = next.Lng
	update.FuelPct = vehicle.CurrentFuelPct

	s.bus.Broadcast(domain.NewRealtimeEvent(domain.EventVehicleUpdate, vehicle), domain.ChannelVehicles)
	return update
}

// completeDelivery snaps the vehicle to the destination, frees it, and
// closes out the shipment.
func (s *SimulationService) completeDelivery(ctx context.Context, vehicle *domain.Vehicle, shipment *domain.Shipment, update ports.VehicleUpdate) ports.VehicleUpdate {
	vehicle.CompleteDelivery(shipment.Destination, deliveryFuelCostPct)
	if err := shipment.UpdateStatus(domain.StatusDelivered, shipment.Destination, "Delivered by fleet vehicle "+vehicle.LicenseID); err != nil {
		update.Error = err.Error()
		return update
	}

	if err := s.vehicles.Update(ctx, vehicle); err != nil {
		update.Error = err.Error()
		return update
	}
	if err := s.shipments.Update(ctx, shipment); err != nil {
		update.Error = err.Error()
		return update
	}

	update.Action = ports.ActionDelivered
	update.Lat = shipment.Destination.Lat
	update.Lng = shipment.Destination.Lng
	update.FuelPct = vehicle.CurrentFuelPct

	s.logger.Info().
		Str("vehicle_id", vehicle.ID).
		Str("tracking_id", shipment.TrackingID).
		Msg("shipment delivered")

	s.bus.Broadcast(domain.NewRealtimeEvent(domain.EventShipmentUpdate, shipment), domain.ChannelShipments)
	s.bus.Broadcast(domain.NewRealtimeEvent(domain.EventVehicleUpdate, vehicle), domain.ChannelVehicles)
	return update
}
