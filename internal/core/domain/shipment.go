package domain

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ShipmentStatus represents the lifecycle state of a shipment.
type ShipmentStatus string

const (
	StatusPending   ShipmentStatus = "PENDING"
	StatusAssigned  ShipmentStatus = "ASSIGNED"
	StatusInTransit ShipmentStatus = "IN_TRANSIT"
	StatusDelivered ShipmentStatus = "DELIVERED"
	StatusCancelled ShipmentStatus = "CANCELLED"
)

// validTransitions defines the allowed state machine transitions.
// DELIVERED and CANCELLED are terminal: they have no successors.
var validTransitions = map[ShipmentStatus][]ShipmentStatus{
	StatusPending:   {StatusAssigned, StatusCancelled},
	StatusAssigned:  {StatusInTransit, StatusCancelled},
	StatusInTransit: {StatusDelivered, StatusCancelled},
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s ShipmentStatus) CanTransitionTo(next ShipmentStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the status accepts no further transitions.
func (s ShipmentStatus) Terminal() bool {
	return len(validTransitions[s]) == 0
}

// ShipmentType selects the service level applied at pricing time.
type ShipmentType string

const (
	TypeStandard ShipmentType = "STANDARD"
	TypeExpress  ShipmentType = "EXPRESS"
)

// PaymentStatus marks a ledger entry as a charge or a refund.
type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// PaymentEntry is one row of the append-only payment ledger. Refund rows
// carry a negative amount and reference the transaction they reverse.
type PaymentEntry struct {
	TransactionID string        `json:"transaction_id" bson:"transaction_id"`
	Amount        float64       `json:"amount" bson:"amount"`
	Status        PaymentStatus `json:"status" bson:"status"`
	RefundOf      string        `json:"refund_of,omitempty" bson:"refund_of,omitempty"`
	Timestamp     time.Time     `json:"timestamp" bson:"timestamp"`
}

// TrackingEntry records a single status transition with a location snapshot.
type TrackingEntry struct {
	Timestamp   time.Time      `json:"timestamp" bson:"timestamp"`
	Status      ShipmentStatus `json:"status" bson:"status"`
	Location    Location       `json:"location" bson:"location"`
	Description string         `json:"description,omitempty" bson:"description,omitempty"`
}

// Shipment is the core aggregate: a unit of cargo moving from origin to
// destination through a fixed lifecycle, with an append-only tracking
// history and payment ledger.
type Shipment struct {
	ID                string          `json:"id" bson:"_id,omitempty"`
	TrackingID        string          `json:"tracking_id" bson:"tracking_id"`
	CustomerID        string          `json:"customer_id" bson:"customer_id"`
	WeightKg          float64         `json:"weight_kg" bson:"weight_kg"`
	Origin            Location        `json:"origin" bson:"origin"`
	Destination       Location        `json:"destination" bson:"destination"`
	Status            ShipmentStatus  `json:"status" bson:"status"`
	Type              ShipmentType    `json:"type" bson:"type"`
	Cost              float64         `json:"cost" bson:"cost"`
	IsInsured         bool            `json:"is_insured" bson:"is_insured"`
	InsuranceValue    float64         `json:"insurance_value" bson:"insurance_value"`
	Notes             []string        `json:"notes" bson:"notes"`
	TrackingHistory   []TrackingEntry `json:"tracking_history" bson:"tracking_history"`
	PaymentLedger     []PaymentEntry  `json:"payment_ledger" bson:"payment_ledger"`
	AssignedVehicleID *string         `json:"assigned_vehicle_id,omitempty" bson:"assigned_vehicle_id,omitempty"`
	EstimatedDelivery *time.Time      `json:"estimated_delivery,omitempty" bson:"estimated_delivery,omitempty"`
	ActualDelivery    *time.Time      `json:"actual_delivery,omitempty" bson:"actual_delivery,omitempty"`
	Signature         string          `json:"signature,omitempty" bson:"signature,omitempty"`
	CreatedAt         time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" bson:"updated_at"`
}

// NewShipment builds a PENDING shipment and seeds the tracking history, so
// the history is never empty. Input validation happens here, before any
// state exists anywhere else.
func NewShipment(customerID string, weightKg float64, origin, destination Location) (*Shipment, error) {
	if weightKg <= 0 {
		return nil, ErrInvalidWeight
	}
	if (origin.Lat == 0 && origin.Lng == 0) || (destination.Lat == 0 && destination.Lng == 0) {
		return nil, ErrMissingCoordinates
	}
	if origin.SamePoint(destination) {
		return nil, ErrSameOriginDestination
	}

	now := time.Now().UTC()
	s := &Shipment{
		TrackingID:  GenerateTrackingID(),
		CustomerID:  customerID,
		WeightKg:    weightKg,
		Origin:      origin.Clone(),
		Destination: destination.Clone(),
		Status:      StatusPending,
		Type:        TypeStandard,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.TrackingHistory = append(s.TrackingHistory, TrackingEntry{
		Timestamp:   now,
		Status:      StatusPending,
		Location:    s.Origin.Clone(),
		Description: "Shipment created",
	})
	return s, nil
}

// GenerateTrackingID returns a unique tracking id in the format TRK-<digits>.
func GenerateTrackingID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("TRK-%010d", time.Now().UnixNano()%1e10)
	}
	return fmt.Sprintf("TRK-%010d", binary.BigEndian.Uint64(b)%1e10)
}

// UpdateStatus transitions the shipment to next, appending exactly one
// tracking-history entry with the given location snapshot. Invalid
// transitions fail without mutating anything.
func (s *Shipment) UpdateStatus(next ShipmentStatus, loc Location, description string) error {
	if !s.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, next)
	}

	now := time.Now().UTC()
	s.Status = next
	s.UpdatedAt = now
	if next == StatusDelivered {
		s.ActualDelivery = &now
	}
	s.TrackingHistory = append(s.TrackingHistory, TrackingEntry{
		Timestamp:   now,
		Status:      next,
		Location:    loc.Clone(),
		Description: description,
	})
	return nil
}

// AssignVehicle binds a vehicle to a PENDING shipment and transitions it to
// ASSIGNED. The vehicle must carry the shipment's weight; assignment
// happens exactly once per shipment.
func (s *Shipment) AssignVehicle(v *Vehicle) error {
	if s.AssignedVehicleID != nil {
		return ErrVehicleAlreadyAssigned
	}
	if v.CapacityKg < s.WeightKg {
		return fmt.Errorf("%w: capacity %.1fkg < weight %.1fkg", ErrCapacityExceeded, v.CapacityKg, s.WeightKg)
	}
	if !s.Status.CanTransitionTo(StatusAssigned) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, StatusAssigned)
	}
	if err := v.AssignShipment(s.ID); err != nil {
		return err
	}

	vehicleID := v.ID
	s.AssignedVehicleID = &vehicleID
	return s.UpdateStatus(StatusAssigned, s.Origin, fmt.Sprintf("Assigned to %s %s", strings.ToLower(string(v.Variant)), v.LicenseID))
}

// CurrentLocation derives the shipment's position: origin while pending,
// destination once delivered, otherwise the vehicle's live position when
// known. It is computed, never stored.
func (s *Shipment) CurrentLocation(vehiclePos *Location) Location {
	switch s.Status {
	case StatusPending:
		return s.Origin.Clone()
	case StatusDelivered:
		return s.Destination.Clone()
	}
	if vehiclePos != nil {
		return vehiclePos.Clone()
	}
	// No live position yet: fall back to the last history snapshot.
	if n := len(s.TrackingHistory); n > 0 {
		return s.TrackingHistory[n-1].Location.Clone()
	}
	return s.Origin.Clone()
}

// AddInsurance sets the insured value. Only possible while the shipment is
// still PENDING, before any vehicle pickup.
func (s *Shipment) AddInsurance(value float64) error {
	if value < 0 {
		return ErrNegativeInsurance
	}
	if s.Status != StatusPending {
		return ErrAlreadyInTransit
	}
	s.IsInsured = true
	s.InsuranceValue = value
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// AddNote appends a timestamped note.
func (s *Shipment) AddNote(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrEmptyNote
	}
	now := time.Now().UTC()
	s.Notes = append(s.Notes, fmt.Sprintf("[%s] %s", now.Format(time.RFC3339), trimmed))
	s.UpdatedAt = now
	return nil
}

// NoteList returns a read-only copy of the notes.
func (s *Shipment) NoteList() []string {
	out := make([]string, len(s.Notes))
	copy(out, s.Notes)
	return out
}

// ApplyCost prices the shipment with the given strategy and stores the result.
func (s *Shipment) ApplyCost(strategy PricingStrategy) float64 {
	distanceKm := DistanceKm(s.Origin, s.Destination)
	s.Cost = CalculateCost(strategy, s.WeightKg, distanceKm, s.Type, s.IsInsured, s.InsuranceValue)
	s.UpdatedAt = time.Now().UTC()
	return s.Cost
}

// ProcessPayment appends a completed charge to the ledger and returns the
// generated transaction id.
func (s *Shipment) ProcessPayment(amount float64) (string, error) {
	if amount <= 0 {
		return "", ErrNonPositiveAmount
	}
	txnID := "TXN-" + uuid.NewString()
	s.PaymentLedger = append(s.PaymentLedger, PaymentEntry{
		TransactionID: txnID,
		Amount:        amount,
		Status:        PaymentCompleted,
		Timestamp:     time.Now().UTC(),
	})
	s.UpdatedAt = time.Now().UTC()
	return txnID, nil
}

// Refund appends a negative ledger entry against an earlier charge. The
// refund may never drive the transaction's net balance negative.
func (s *Shipment) Refund(transactionID string, amount float64) (string, error) {
	if amount <= 0 {
		return "", ErrNonPositiveAmount
	}

	remaining, found := s.remainingBalance(transactionID)
	if !found {
		return "", ErrPaymentNotFound
	}
	if amount > remaining {
		return "", fmt.Errorf("%w: %.2f > %.2f", ErrRefundExceedsBalance, amount, remaining)
	}

	refundID := "REF-" + uuid.NewString()
	s.PaymentLedger = append(s.PaymentLedger, PaymentEntry{
		TransactionID: refundID,
		Amount:        -amount,
		Status:        PaymentRefunded,
		RefundOf:      transactionID,
		Timestamp:     time.Now().UTC(),
	})
	s.UpdatedAt = time.Now().UTC()
	return refundID, nil
}

// remainingBalance computes the net balance of an original charge after all
// refunds issued against it.
func (s *Shipment) remainingBalance(transactionID string) (float64, bool) {
	var balance float64
	found := false
	for _, entry := range s.PaymentLedger {
		switch {
		case entry.TransactionID == transactionID && entry.Status == PaymentCompleted:
			balance += entry.Amount
			found = true
		case entry.RefundOf == transactionID:
			balance += entry.Amount // refund amounts are negative
		}
	}
	return balance, found
}

// RecordSignature stores the proof-of-delivery signature.
func (s *Shipment) RecordSignature(name string) error {
	if s.Status != StatusDelivered {
		return ErrNotYetDelivered
	}
	s.Signature = name
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// SetType changes the service level. Locked once processing has started.
func (s *Shipment) SetType(t ShipmentType) error {
	if s.Status != StatusPending {
		return ErrProcessingStarted
	}
	s.Type = t
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// SetEstimatedDelivery records the delivery estimate.
func (s *Shipment) SetEstimatedDelivery(t time.Time) error {
	if !t.After(time.Now()) {
		return ErrPastDeliveryTime
	}
	est := t.UTC()
	s.EstimatedDelivery = &est
	s.UpdatedAt = time.Now().UTC()
	return nil
}
