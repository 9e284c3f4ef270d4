package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fleetline/logistics-platform/internal/core/domain"
	"github.com/fleetline/logistics-platform/internal/core/ports"
)

// truckDistanceThresholdKm forces routes longer than this onto trucks even
// for urgent light parcels: drones do not cross the country.
const truckDistanceThresholdKm = 300.0

const maxPageLimit = 100

// ShipmentService is the shipment factory plus every lifecycle operation.
// All mutations on one shipment (or its vehicle) are serialized through the
// per-entity locks; distinct entities proceed in parallel.
type ShipmentService struct {
	shipments ports.ShipmentRepository
	vehicles  ports.VehicleRepository
	customers ports.CustomerRepository
	bus       ports.Broadcaster
	locks     *LockRegistry
	logger    zerolog.Logger
}

func NewShipmentService(
	shipments ports.ShipmentRepository,
	vehicles ports.VehicleRepository,
	customers ports.CustomerRepository,
	bus ports.Broadcaster,
	locks *LockRegistry,
	logger zerolog.Logger,
) *ShipmentService {
	return &ShipmentService{
		shipments: shipments,
		vehicles:  vehicles,
		customers: customers,
		bus:       bus,
		locks:     locks,
		logger:    logger,
	}
}

// CreateShipment is the synchronous factory path: the shipment is created
// PENDING and finalized in one call, leaving it ASSIGNED with a positive
// cost. The async path runs the same two halves with a worker in between.
func (s *ShipmentService) CreateShipment(ctx context.Context, input ports.CreateShipmentInput) (*ports.CreateShipmentResult, error) {
	shipment, err := s.CreatePendingShipment(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.FinalizeShipment(ctx, shipment.ID, input.Urgency)
}

// CreatePendingShipment validates the request and persists a PENDING
// shipment with no vehicle and no cost. Validation happens here, before
// any state exists anywhere.
func (s *ShipmentService) CreatePendingShipment(ctx context.Context, input ports.CreateShipmentInput) (*domain.Shipment, error) {
	if _, err := s.customers.FindCustomerByID(ctx, input.CustomerID); err != nil {
		return nil, fmt.Errorf("create shipment: %w", err)
	}

	shipment, err := domain.NewShipment(input.CustomerID, input.WeightKg, toLocation(input.Origin), toLocation(input.Destination))
	if err != nil {
		return nil, fmt.Errorf("create shipment: %w", err)
	}
	shipment.ID = uuid.NewString()

	if err := s.shipments.Create(ctx, shipment); err != nil {
		s.logger.Error().Err(err).Str("tracking_id", shipment.TrackingID).Msg("failed to persist shipment")
		return nil, fmt.Errorf("create shipment: %w", err)
	}

	s.logger.Info().
		Str("tracking_id", shipment.TrackingID).
		Str("customer_id", input.CustomerID).
		Float64("weight_kg", input.WeightKg).
		Msg("shipment created")

	s.bus.Broadcast(domain.NewRealtimeEvent(domain.EventNewShipment, shipment), domain.ChannelShipments)
	return shipment, nil
}

// FinalizeShipment provisions a vehicle for a PENDING shipment, assigns it
// and prices the shipment. It runs under the shipment's entity lock so the
// sync path, job workers and any concurrent mutation serialize.
func (s *ShipmentService) FinalizeShipment(ctx context.Context, shipmentID, urgency string) (*ports.CreateShipmentResult, error) {
	unlock := s.locks.Lock(shipmentID)
	defer unlock()

	shipment, err := s.shipments.FindByID(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("finalize shipment: %w", err)
	}

	variant := selectVariant(shipment.WeightKg, domain.DistanceKm(shipment.Origin, shipment.Destination), urgency)
	vehicle := domain.NewVehicle(variant, generateLicenseID(variant))
	vehicle.ID = uuid.NewString()

	if err := shipment.AssignVehicle(vehicle); err != nil {
		return nil, fmt.Errorf("finalize shipment: %w", err)
	}
	shipment.ApplyCost(domain.StrategyForVariant(variant))

	if err := s.vehicles.Create(ctx, vehicle); err != nil {
		s.logger.Error().Err(err).Str("variant", string(variant)).Msg("failed to persist vehicle")
		return nil, fmt.Errorf("finalize shipment: %w", err)
	}
	if err := s.shipments.Update(ctx, shipment); err != nil {
		s.logger.Error().Err(err).Str("tracking_id", shipment.TrackingID).Msg("failed to persist shipment")
		return nil, fmt.Errorf("finalize shipment: %w", err)
	}

	s.logger.Info().
		Str("tracking_id", shipment.TrackingID).
		Str("variant", string(variant)).
		Float64("cost", shipment.Cost).
		Msg("shipment assigned")

	s.bus.Broadcast(domain.NewRealtimeEvent(domain.EventShipmentUpdate, shipment), domain.ChannelShipments)
	s.bus.Broadcast(domain.NewRealtimeEvent(domain.EventAssignmentUpdate, map[string]any{
		"trackingId": shipment.TrackingID,
		"vehicleId":  vehicle.ID,
		"variant":    vehicle.Variant,
	}), domain.ChannelVehicles)

	return &ports.CreateShipmentResult{Shipment: shipment, Vehicle: vehicle}, nil
}

// selectVariant picks the carrier kind. Ships are never auto-selected; bulk
// and overseas routes go through the dedicated provisioning flow.
func selectVariant(weightKg, distanceKm float64, urgency string) domain.VehicleVariant {
	droneCapacity := domain.ParamsForVariant(domain.VariantDrone).CapacityKg
	if weightKg > droneCapacity || distanceKm > truckDistanceThresholdKm {
		return domain.VariantTruck
	}
	if urgency == ports.UrgencyHigh {
		return domain.VariantDrone
	}
	return domain.VariantTruck
}

// generateLicenseID returns a fleet license id like TRK-1A2B3C4D.
func generateLicenseID(variant domain.VehicleVariant) string {
	prefix := "VEH"
	switch variant {
	case domain.VariantDrone:
		prefix = "DRN"
	case domain.VariantTruck:
		prefix = "TRK"
	case domain.VariantShip:
		prefix = "SHP"
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return prefix + "-" + suffix
}

// GetShipment returns the shipment with its derived current location.
func (s *ShipmentService) GetShipment(ctx context.Context, trackingID string) (*ports.ShipmentDetail, error) {
	shipment, err := s.shipments.FindByTrackingID(ctx, trackingID)
	if err != nil {
		return nil, fmt.Errorf("get shipment: %w", err)
	}

	var vehiclePos *domain.Location
	if shipment.AssignedVehicleID != nil {
		vehicle, err := s.vehicles.FindByID(ctx, *shipment.AssignedVehicleID)
		if err == nil && vehicle.Position != nil {
			pos := vehicle.Position.Clone()
			vehiclePos = &pos
		}
	}

	return &ports.ShipmentDetail{
		Shipment:        shipment,
		CurrentLocation: shipment.CurrentLocation(vehiclePos),
	}, nil
}

// ListShipments returns a page of shipments. Customers only see their own.
func (s *ShipmentService) ListShipments(ctx context.Context, input ports.ListShipmentsInput) (*ports.ListShipmentsResult, error) {
	customerID := input.CustomerID
	if input.Role == domain.RoleAdmin {
		customerID = ""
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = 20
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	items, total, err := s.shipments.List(ctx, ports.ListShipmentsFilter{
		CustomerID: customerID,
		Status:     input.Status,
		Type:       input.Type,
		Search:     input.Search,
		DateFrom:   input.DateFrom,
		DateTo:     input.DateTo,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}
	return &ports.ListShipmentsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// Dispatch moves an assigned shipment into transit and starts its vehicle
// from the origin.
func (s *ShipmentService) Dispatch(ctx context.Context, trackingID string) (*domain.Shipment, error) {
	shipment, err := s.mutate(ctx, trackingID, func(sh *domain.Shipment) error {
		if sh.AssignedVehicleID == nil {
			return domain.ErrVehicleNotFound
		}
		vehicle, err := s.vehicles.FindByID(ctx, *sh.AssignedVehicleID)
		if err != nil {
			return err
		}

		unlockVehicle := s.locks.Lock(vehicle.ID)
		defer unlockVehicle()

		if err := sh.UpdateStatus(domain.StatusInTransit, sh.Origin, "Picked up, en route"); err != nil {
			return err
		}
		if err := vehicle.StartTransit(sh.Origin); err != nil {
			return err
		}
		if err := s.vehicles.Update(ctx, vehicle); err != nil {
			return err
		}
		s.bus.Broadcast(domain.NewRealtimeEvent(domain.EventVehicleUpdate, vehicle), domain.ChannelVehicles)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("dispatch: %w", err)
	}
	return shipment, nil
}

// Cancel terminates a non-terminal shipment and frees its vehicle.
func (s *ShipmentService) Cancel(ctx context.Context, trackingID, reason string) (*domain.Shipment, error) {
	if strings.TrimSpace(reason) == "" {
		reason = "Cancelled by request"
	}
	shipment, err := s.mutate(ctx, trackingID, func(sh *domain.Shipment) error {
		if err := sh.UpdateStatus(domain.StatusCancelled, sh.CurrentLocation(nil), reason); err != nil {
			return err
		}
		if sh.AssignedVehicleID == nil {
			return nil
		}
		vehicle, err := s.vehicles.FindByID(ctx, *sh.AssignedVehicleID)
		if err != nil {
			// Shipment cancellation stands even if the vehicle record is gone.
			s.logger.Warn().Err(err).Str("tracking_id", trackingID).Msg("cancel: vehicle lookup failed")
			return nil
		}
		unlockVehicle := s.locks.Lock(vehicle.ID)
		defer unlockVehicle()
		vehicle.ReleaseAssignment()
		if err := s.vehicles.Update(ctx, vehicle); err != nil {
			return err
		}
		s.bus.Broadcast(domain.NewRealtimeEvent(domain.EventVehicleUpdate, vehicle), domain.ChannelVehicles)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cancel: %w", err)
	}
	return shipment, nil
}

// AddInsurance insures a PENDING shipment and reprices it.
func (s *ShipmentService) AddInsurance(ctx context.Context, trackingID string, value float64) (*domain.Shipment, error) {
	shipment, err := s.mutate(ctx, trackingID, func(sh *domain.Shipment) error {
		if err := sh.AddInsurance(value); err != nil {
			return err
		}
		if sh.Cost > 0 {
			sh.ApplyCost(s.strategyFor(ctx, sh))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("add insurance: %w", err)
	}
	return shipment, nil
}

// AddNote appends a timestamped note.
func (s *ShipmentService) AddNote(ctx context.Context, trackingID, text string) (*domain.Shipment, error) {
	shipment, err := s.mutate(ctx, trackingID, func(sh *domain.Shipment) error {
		return sh.AddNote(text)
	})
	if err != nil {
		return nil, fmt.Errorf("add note: %w", err)
	}
	return shipment, nil
}

// ProcessPayment charges the shipment and returns the transaction id.
func (s *ShipmentService) ProcessPayment(ctx context.Context, trackingID string, amount float64) (string, error) {
	var txnID string
	_, err := s.mutate(ctx, trackingID, func(sh *domain.Shipment) error {
		id, err := sh.ProcessPayment(amount)
		if err != nil {
			return err
		}
		txnID = id
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("process payment: %w", err)
	}
	return txnID, nil
}

// Refund reverses part of an earlier charge and returns the refund id.
func (s *ShipmentService) Refund(ctx context.Context, trackingID, transactionID string, amount float64) (string, error) {
	var refundID string
	_, err := s.mutate(ctx, trackingID, func(sh *domain.Shipment) error {
		id, err := sh.Refund(transactionID, amount)
		if err != nil {
			return err
		}
		refundID = id
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("refund: %w", err)
	}
	return refundID, nil
}

// RecordSignature stores the proof-of-delivery signature.
func (s *ShipmentService) RecordSignature(ctx context.Context, trackingID, name string) (*domain.Shipment, error) {
	shipment, err := s.mutate(ctx, trackingID, func(sh *domain.Shipment) error {
		return sh.RecordSignature(name)
	})
	if err != nil {
		return nil, fmt.Errorf("record signature: %w", err)
	}
	return shipment, nil
}

// SetType changes the service level of a PENDING shipment and reprices it.
func (s *ShipmentService) SetType(ctx context.Context, trackingID string, t domain.ShipmentType) (*domain.Shipment, error) {
	shipment, err := s.mutate(ctx, trackingID, func(sh *domain.Shipment) error {
		if err := sh.SetType(t); err != nil {
			return err
		}
		if sh.Cost > 0 {
			sh.ApplyCost(s.strategyFor(ctx, sh))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("set type: %w", err)
	}
	return shipment, nil
}

// SetEstimatedDelivery records the delivery estimate.
func (s *ShipmentService) SetEstimatedDelivery(ctx context.Context, trackingID string, eta time.Time) (*domain.Shipment, error) {
	shipment, err := s.mutate(ctx, trackingID, func(sh *domain.Shipment) error {
		return sh.SetEstimatedDelivery(eta)
	})
	if err != nil {
		return nil, fmt.Errorf("set estimated delivery: %w", err)
	}
	return shipment, nil
}

// mutate loads the shipment under its entity lock, applies fn, persists and
// broadcasts. fn returning an error leaves the stored record untouched.
func (s *ShipmentService) mutate(ctx context.Context, trackingID string, fn func(*domain.Shipment) error) (*domain.Shipment, error) {
	// Resolve the id first so the lock key is stable across tracking lookups.
	probe, err := s.shipments.FindByTrackingID(ctx, trackingID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(probe.ID)
	defer unlock()

	// Reload under the lock: another writer may have advanced the record
	// between the probe and the lock acquisition.
	shipment, err := s.shipments.FindByID(ctx, probe.ID)
	if err != nil {
		return nil, err
	}
	if err := fn(shipment); err != nil {
		return nil, err
	}
	if err := s.shipments.Update(ctx, shipment); err != nil {
		return nil, err
	}

	s.bus.Broadcast(domain.NewRealtimeEvent(domain.EventShipmentUpdate, shipment), domain.ChannelShipments)
	return shipment, nil
}

// strategyFor reprices with the assigned vehicle's strategy, defaulting to
// ground when no vehicle is known.
func (s *ShipmentService) strategyFor(ctx context.Context, sh *domain.Shipment) domain.PricingStrategy {
	if sh.AssignedVehicleID == nil {
		return domain.PricingGround
	}
	vehicle, err := s.vehicles.FindByID(ctx, *sh.AssignedVehicleID)
	if err != nil {
		return domain.PricingGround
	}
	return domain.StrategyForVariant(vehicle.Variant)
}

func toLocation(in ports.LocationInput) domain.Location {
	return domain.Location{
		Lat:     in.Lat,
		Lng:     in.Lng,
		Address: in.Address,
		City:    in.City,
		Country: in.Country,
	}
}
