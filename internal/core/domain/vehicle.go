package domain

import "time"

// VehicleVariant distinguishes the carrier kinds in the fleet.
type VehicleVariant string

const (
	VariantDrone VehicleVariant = "DRONE"
	VariantTruck VehicleVariant = "TRUCK"
	VariantShip  VehicleVariant = "SHIP"
)

// VehicleStatus represents the operational state of a vehicle.
type VehicleStatus string

const (
	VehicleIdle        VehicleStatus = "IDLE"
	VehicleAssigned    VehicleStatus = "ASSIGNED"
	VehicleInTransit   VehicleStatus = "IN_TRANSIT"
	VehicleMaintenance VehicleStatus = "MAINTENANCE"
)

// VariantParams is the per-variant parameter table: defaults for a freshly
// provisioned vehicle and the constants the simulation uses.
type VariantParams struct {
	CapacityKg      float64
	SpeedDegPerTick float64
}

var variantParams = map[VehicleVariant]VariantParams{
	VariantDrone: {CapacityKg: 50, SpeedDegPerTick: 0.5},
	VariantTruck: {CapacityKg: 2000, SpeedDegPerTick: 0.3},
	VariantShip:  {CapacityKg: 50000, SpeedDegPerTick: 0.2},
}

const (
	defaultSpeedDegPerTick = 0.2
	fuelFloorPct           = 10.0
	fullFuelPct            = 100.0
)

// Vehicle is a mobile carrier bound to at most one active shipment.
// CurrentShipmentID is non-nil exactly when status is ASSIGNED or IN_TRANSIT.
type Vehicle struct {
	ID                string         `json:"id" bson:"_id,omitempty"`
	LicenseID         string         `json:"license_id" bson:"license_id"`
	Variant           VehicleVariant `json:"variant" bson:"variant"`
	CapacityKg        float64        `json:"capacity_kg" bson:"capacity_kg"`
	CurrentFuelPct    float64        `json:"current_fuel_pct" bson:"current_fuel_pct"`
	SpeedDegPerTick   float64        `json:"speed_deg_per_tick" bson:"speed_deg_per_tick"`
	Status            VehicleStatus  `json:"status" bson:"status"`
	Position          *Location      `json:"position,omitempty" bson:"position,omitempty"`
	CurrentShipmentID *string        `json:"current_shipment_id,omitempty" bson:"current_shipment_id,omitempty"`
	CreatedAt         time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at" bson:"updated_at"`
}

// ParamsForVariant returns the parameter table entry for a variant.
// Unknown variants fall back to ship-class capacity with the slowest speed.
func ParamsForVariant(v VehicleVariant) VariantParams {
	if p, ok := variantParams[v]; ok {
		return p
	}
	return VariantParams{CapacityKg: variantParams[VariantShip].CapacityKg, SpeedDegPerTick: defaultSpeedDegPerTick}
}

// NewVehicle provisions a vehicle of the given variant with full fuel and
// the variant's default capacity and speed.
func NewVehicle(variant VehicleVariant, licenseID string) *Vehicle {
	now := time.Now().UTC()
	params := ParamsForVariant(variant)
	return &Vehicle{
		LicenseID:       licenseID,
		Variant:         variant,
		CapacityKg:      params.CapacityKg,
		CurrentFuelPct:  fullFuelPct,
		SpeedDegPerTick: params.SpeedDegPerTick,
		Status:          VehicleIdle,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Available reports whether the vehicle can take a new shipment.
func (v *Vehicle) Available() bool {
	return v.Status == VehicleIdle && v.CurrentShipmentID == nil
}

// AssignShipment binds the vehicle to a shipment. The capacity check is the
// shipment's responsibility (it owns the weight); this only guards the
// one-active-shipment invariant.
func (v *Vehicle) AssignShipment(shipmentID string) error {
	if !v.Available() {
		return ErrVehicleUnavailable
	}
	v.CurrentShipmentID = &shipmentID
	v.Status = VehicleAssigned
	v.UpdatedAt = time.Now().UTC()
	return nil
}

// StartTransit moves an assigned vehicle into transit from the given origin.
// The origin only seeds the position when none is known yet.
func (v *Vehicle) StartTransit(origin Location) error {
	if v.Status != VehicleAssigned || v.CurrentShipmentID == nil {
		return ErrVehicleUnavailable
	}
	if v.Position == nil {
		pos := origin.Clone()
		v.Position = &pos
	}
	v.Status = VehicleInTransit
	v.UpdatedAt = time.Now().UTC()
	return nil
}

// MoveTo updates the vehicle's live position.
func (v *Vehicle) MoveTo(pos Location) {
	p := pos.Clone()
	v.Position = &p
	v.UpdatedAt = time.Now().UTC()
}

// CompleteDelivery snaps the vehicle to the destination, frees it for the
// next shipment, and burns the arrival fuel amount.
func (v *Vehicle) CompleteDelivery(destination Location, fuelCostPct float64) {
	dest := destination.Clone()
	v.Position = &dest
	v.Status = VehicleIdle
	v.CurrentShipmentID = nil
	v.ConsumeFuel(fuelCostPct)
}

// ReleaseAssignment frees a vehicle whose shipment was cancelled. The
// vehicle keeps its last known position.
func (v *Vehicle) ReleaseAssignment() {
	v.CurrentShipmentID = nil
	if v.Status == VehicleAssigned || v.Status == VehicleInTransit {
		v.Status = VehicleIdle
	}
	v.UpdatedAt = time.Now().UTC()
}

// ConsumeFuel decrements fuel by pct, never dropping below the floor.
func (v *Vehicle) ConsumeFuel(pct float64) {
	v.CurrentFuelPct -= pct
	if v.CurrentFuelPct < fuelFloorPct {
		v.CurrentFuelPct = fuelFloorPct
	}
	v.UpdatedAt = time.Now().UTC()
}

// Refuel restores the tank to full. Only idle or maintenance vehicles refuel.
func (v *Vehicle) Refuel() error {
	if v.Status != VehicleIdle && v.Status != VehicleMaintenance {
		return ErrVehicleUnavailable
	}
	v.CurrentFuelPct = fullFuelPct
	v.UpdatedAt = time.Now().UTC()
	return nil
}

// EnterMaintenance takes an idle vehicle out of the dispatchable pool.
func (v *Vehicle) EnterMaintenance() error {
	if v.Status != VehicleIdle {
		return ErrVehicleUnavailable
	}
	v.Status = VehicleMaintenance
	v.UpdatedAt = time.Now().UTC()
	return nil
}

// ExitMaintenance returns a vehicle to the idle pool.
func (v *Vehicle) ExitMaintenance() error {
	if v.Status != VehicleMaintenance {
		return ErrVehicleUnavailable
	}
	v.Status = VehicleIdle
	v.UpdatedAt = time.Now().UTC()
	return nil
}
