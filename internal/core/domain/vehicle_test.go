package domain

import (
	"errors"
	"testing"
)

func TestNewVehicle_VariantDefaults(t *testing.T) {
	cases := []struct {
		variant  VehicleVariant
		capacity float64
		speed    float64
	}{
		{VariantDrone, 50, 0.5},
		{VariantTruck, 2000, 0.3},
		{VariantShip, 50000, 0.2},
	}
	for _, tc := range cases {
		v := NewVehicle(tc.variant, "LIC-1")
		if v.CapacityKg != tc.capacity {
			t.Errorf("%s capacity = %v, want %v", tc.variant, v.CapacityKg, tc.capacity)
		}
		if v.SpeedDegPerTick != tc.speed {
			t.Errorf("%s speed = %v, want %v", tc.variant, v.SpeedDegPerTick, tc.speed)
		}
		if v.CurrentFuelPct != 100 {
			t.Errorf("%s fuel = %v, want 100", tc.variant, v.CurrentFuelPct)
		}
		if v.Status != VehicleIdle {
			t.Errorf("%s status = %s, want IDLE", tc.variant, v.Status)
		}
	}
}

func TestParamsForVariant_UnknownFallsBack(t *testing.T) {
	p := ParamsForVariant(VehicleVariant("HOVERCRAFT"))
	if p.SpeedDegPerTick != 0.2 {
		t.Errorf("unknown variant speed = %v, want default 0.2", p.SpeedDegPerTick)
	}
}

func TestAssignShipment_Invariant(t *testing.T) {
	v := NewVehicle(VariantTruck, "LIC-1")
	if err := v.AssignShipment("shp_1"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if v.Status != VehicleAssigned || v.CurrentShipmentID == nil {
		t.Error("assigned vehicle must hold a shipment id")
	}
	if err := v.AssignShipment("shp_2"); !errors.Is(err, ErrVehicleUnavailable) {
		t.Errorf("double assign: got %v, want ErrVehicleUnavailable", err)
	}
}

func TestStartTransit_SeedsPositionFromOrigin(t *testing.T) {
	v := NewVehicle(VariantTruck, "LIC-1")
	origin := Location{Lat: 40, Lng: -74}

	if err := v.StartTransit(origin); !errors.Is(err, ErrVehicleUnavailable) {
		t.Errorf("transit without assignment: got %v", err)
	}

	_ = v.AssignShipment("shp_1")
	if err := v.StartTransit(origin); err != nil {
		t.Fatalf("start transit: %v", err)
	}
	if v.Status != VehicleInTransit {
		t.Errorf("status = %s, want IN_TRANSIT", v.Status)
	}
	if v.Position == nil || !v.Position.SamePoint(origin) {
		t.Error("position must seed from origin")
	}
}

func TestCompleteDelivery_FreesVehicle(t *testing.T) {
	v := NewVehicle(VariantDrone, "DRN-1")
	_ = v.AssignShipment("shp_1")
	_ = v.StartTransit(Location{Lat: 40, Lng: -74})
	dest := Location{Lat: 41, Lng: -73}

	v.CompleteDelivery(dest, 5)

	if v.Status != VehicleIdle {
		t.Errorf("status = %s, want IDLE", v.Status)
	}
	if v.CurrentShipmentID != nil {
		t.Error("shipment reference must clear on delivery")
	}
	if !v.Position.SamePoint(dest) {
		t.Error("vehicle must snap to destination")
	}
	if v.CurrentFuelPct != 95 {
		t.Errorf("fuel = %v, want 95", v.CurrentFuelPct)
	}
}

func TestConsumeFuel_Floor(t *testing.T) {
	v := NewVehicle(VariantTruck, "LIC-1")
	v.CurrentFuelPct = 11
	v.ConsumeFuel(5)
	if v.CurrentFuelPct != 10 {
		t.Errorf("fuel = %v, want floor 10", v.CurrentFuelPct)
	}
	v.ConsumeFuel(50)
	if v.CurrentFuelPct != 10 {
		t.Errorf("fuel below floor: %v", v.CurrentFuelPct)
	}
}

func TestMaintenanceFlow(t *testing.T) {
	v := NewVehicle(VariantTruck, "LIC-1")

	if err := v.EnterMaintenance(); err != nil {
		t.Fatalf("enter maintenance: %v", err)
	}
	if err := v.AssignShipment("shp_1"); !errors.Is(err, ErrVehicleUnavailable) {
		t.Error("maintenance vehicle must not take shipments")
	}
	v.CurrentFuelPct = 40
	if err := v.Refuel(); err != nil {
		t.Fatalf("refuel: %v", err)
	}
	if v.CurrentFuelPct != 100 {
		t.Errorf("fuel = %v after refuel", v.CurrentFuelPct)
	}
	if err := v.ExitMaintenance(); err != nil {
		t.Fatalf("exit maintenance: %v", err)
	}
	if !v.Available() {
		t.Error("vehicle must be available after maintenance")
	}
}
