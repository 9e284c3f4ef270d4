package domain

import "math"

// KmPerDegree is the approximate length of one degree of latitude in
// kilometers. Distances are planar Euclidean on (lat, lng) scaled by this
// constant rather than geodesic; pricing and simulation outputs depend on
// this simplification, so it must not be "corrected" in isolation.
const KmPerDegree = 111.32

// Location is a geographic point with optional address metadata.
// Once attached to a shipment it is treated as immutable; callers
// receive copies, never shared references.
type Location struct {
	Lat     float64 `json:"lat" bson:"lat"`
	Lng     float64 `json:"lng" bson:"lng"`
	Address string  `json:"address,omitempty" bson:"address,omitempty"`
	City    string  `json:"city,omitempty" bson:"city,omitempty"`
	Country string  `json:"country,omitempty" bson:"country,omitempty"`
}

// Clone returns a defensive copy.
func (l Location) Clone() Location {
	return l
}

// SamePoint reports whether two locations share identical coordinates.
func (l Location) SamePoint(other Location) bool {
	return l.Lat == other.Lat && l.Lng == other.Lng
}

// DistanceDegrees returns the planar Euclidean distance between two points
// in coordinate degrees.
func DistanceDegrees(a, b Location) float64 {
	dLat := b.Lat - a.Lat
	dLng := b.Lng - a.Lng
	return math.Sqrt(dLat*dLat + dLng*dLng)
}

// DistanceKm returns the planar distance scaled to kilometers.
func DistanceKm(a, b Location) float64 {
	return DistanceDegrees(a, b) * KmPerDegree
}

// StepToward advances from toward to by stepDeg degrees along the straight
// line between them. It returns the new position and whether the remaining
// distance was already within arrivalRadius (in which case the returned
// position is exactly to).
func StepToward(from, to Location, stepDeg, arrivalRadius float64) (Location, bool) {
	dist := DistanceDegrees(from, to)
	if dist < arrivalRadius {
		arrived := to.Clone()
		return arrived, true
	}

	fraction := stepDeg / dist
	if fraction > 1 {
		fraction = 1
	}
	next := from.Clone()
	next.Lat += (to.Lat - from.Lat) * fraction
	next.Lng += (to.Lng - from.Lng) * fraction
	return next, false
}
