package ports

import (
	"context"
	"time"

	"github.com/fleetline/logistics-platform/internal/core/domain"
)

// Urgency levels accepted on creation requests.
const (
	UrgencyHigh     = "high"
	UrgencyStandard = "standard"
)

// LocationInput holds a geographic point with optional address metadata.
type LocationInput struct {
	Lat     float64
	Lng     float64
	Address string
	City    string
	Country string
}

// CreateShipmentInput carries all data needed to create a new shipment.
type CreateShipmentInput struct {
	CustomerID  string
	WeightKg    float64
	Origin      LocationInput
	Destination LocationInput
	Urgency     string
}

// CreateShipmentResult is returned by the factory after a successful create.
type CreateShipmentResult struct {
	Shipment *domain.Shipment
	Vehicle  *domain.Vehicle
}

// ListShipmentsInput carries all parameters for the list endpoint.
type ListShipmentsInput struct {
	Role       string
	CustomerID string
	Status     string
	Type       string
	Search     string
	DateFrom   time.Time
	DateTo     time.Time
	Page       int
	Limit      int
}

// ListShipmentsResult is returned by ListShipments.
type ListShipmentsResult struct {
	Items      []*domain.Shipment
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ShipmentDetail pairs a shipment with its derived current location.
type ShipmentDetail struct {
	Shipment        *domain.Shipment
	CurrentLocation domain.Location
}

// ShipmentService is the factory plus every lifecycle operation. All
// mutations are serialized per shipment and broadcast to live subscribers.
type ShipmentService interface {
	// CreateShipment is the synchronous factory path: CreatePendingShipment
	// followed immediately by FinalizeShipment.
	CreateShipment(ctx context.Context, input CreateShipmentInput) (*CreateShipmentResult, error)
	// CreatePendingShipment validates the input and persists a PENDING
	// shipment, without vehicle or cost. The async path calls this before
	// handing finalization to a worker.
	CreatePendingShipment(ctx context.Context, input CreateShipmentInput) (*domain.Shipment, error)
	// FinalizeShipment provisions and assigns a vehicle to a PENDING
	// shipment and prices it, leaving it ASSIGNED.
	FinalizeShipment(ctx context.Context, shipmentID, urgency string) (*CreateShipmentResult, error)
	GetShipment(ctx context.Context, trackingID string) (*ShipmentDetail, error)
	ListShipments(ctx context.Context, input ListShipmentsInput) (*ListShipmentsResult, error)

	Dispatch(ctx context.Context, trackingID string) (*domain.Shipment, error)
	Cancel(ctx context.Context, trackingID, reason string) (*domain.Shipment, error)
	AddInsurance(ctx context.Context, trackingID string, value float64) (*domain.Shipment, error)
	AddNote(ctx context.Context, trackingID, text string) (*domain.Shipment, error)
	ProcessPayment(ctx context.Context, trackingID string, amount float64) (string, error)
	Refund(ctx context.Context, trackingID, transactionID string, amount float64) (string, error)
	RecordSignature(ctx context.Context, trackingID, name string) (*domain.Shipment, error)
	SetType(ctx context.Context, trackingID string, t domain.ShipmentType) (*domain.Shipment, error)
	SetEstimatedDelivery(ctx context.Context, trackingID string, eta time.Time) (*domain.Shipment, error)
}
