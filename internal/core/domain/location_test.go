package domain

import (
	"math"
	"testing"
)

func TestDistanceDegrees(t *testing.T) {
	a := Location{Lat: 0, Lng: 0}
	b := Location{Lat: 3, Lng: 4}
	if got := DistanceDegrees(a, b); math.Abs(got-5) > 1e-12 {
		t.Errorf("distance = %v, want 5", got)
	}
	if got := DistanceDegrees(a, a); got != 0 {
		t.Errorf("self distance = %v, want 0", got)
	}
}

func TestDistanceKm_Scaling(t *testing.T) {
	a := Location{Lat: 10, Lng: 20}
	b := Location{Lat: 11, Lng: 20}
	if got := DistanceKm(a, b); math.Abs(got-KmPerDegree) > 1e-9 {
		t.Errorf("one degree = %v km, want %v", got, KmPerDegree)
	}
}

func TestStepToward_Advances(t *testing.T) {
	from := Location{Lat: 0, Lng: 0}
	to := Location{Lat: 10, Lng: 0}

	next, arrived := StepToward(from, to, 2, 0.5)
	if arrived {
		t.Fatal("10 degrees out must not arrive")
	}
	if math.Abs(next.Lat-2) > 1e-12 || next.Lng != 0 {
		t.Errorf("step landed at (%v, %v), want (2, 0)", next.Lat, next.Lng)
	}
}

func TestStepToward_ArrivalRadiusSnaps(t *testing.T) {
	from := Location{Lat: 40, Lng: -74}
	to := Location{Lat: 40, Lng: -74.001}

	next, arrived := StepToward(from, to, 0.3, 0.5)
	if !arrived {
		t.Fatal("within radius must arrive")
	}
	if !next.SamePoint(to) {
		t.Errorf("arrival must snap to destination, got (%v, %v)", next.Lat, next.Lng)
	}
}

func TestStepToward_NeverOvershoots(t *testing.T) {
	from := Location{Lat: 0, Lng: 0}
	to := Location{Lat: 0.6, Lng: 0}

	next, arrived := StepToward(from, to, 5, 0.5)
	if arrived {
		t.Fatal("0.6 degrees out is beyond the arrival radius")
	}
	if next.Lat > to.Lat {
		t.Errorf("step overshot destination: %v", next.Lat)
	}
}

func TestClone_IsDefensive(t *testing.T) {
	original := Location{Lat: 1, Lng: 2, City: "Oslo"}
	clone := original.Clone()
	clone.Lat = 99
	clone.City = "Bergen"
	if original.Lat != 1 || original.City != "Oslo" {
		t.Error("Clone must not alias the original")
	}
}
