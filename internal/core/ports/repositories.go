package ports

import (
	"context"
	"time"

	"github.com/fleetline/logistics-platform/internal/core/domain"
)

// ListShipmentsFilter carries all query parameters for listing shipments.
type ListShipmentsFilter struct {
	CustomerID string    // empty = no filter (admin); non-empty = scoped to customer
	Status     string    // optional: filter by shipment status
	Type       string    // optional: filter by shipment type
	Search     string    // optional: partial match on tracking_id
	DateFrom   time.Time // optional: created_at >= DateFrom
	DateTo     time.Time // optional: created_at <= DateTo
	Page       int       // 1-based
	Limit      int       // max rows per page (capped at 100 by service)
}

// ShipmentRepository defines persistence operations for shipments.
type ShipmentRepository interface {
	Create(ctx context.Context, s *domain.Shipment) error
	FindByID(ctx context.Context, id string) (*domain.Shipment, error)
	FindByTrackingID(ctx context.Context, trackingID string) (*domain.Shipment, error)
	// Update replaces the stored shipment document. Callers serialize
	// updates per shipment; the repository does not.
	Update(ctx context.Context, s *domain.Shipment) error
	// List returns a page of shipments matching filter and the total count.
	List(ctx context.Context, filter ListShipmentsFilter) ([]*domain.Shipment, int64, error)
}

// VehicleRepository defines persistence operations for vehicles.
type VehicleRepository interface {
	Create(ctx context.Context, v *domain.Vehicle) error
	FindByID(ctx context.Context, id string) (*domain.Vehicle, error)
	// FindInTransit returns every vehicle currently IN_TRANSIT, the
	// working set of one simulation tick.
	FindInTransit(ctx context.Context) ([]*domain.Vehicle, error)
	Update(ctx context.Context, v *domain.Vehicle) error
	List(ctx context.Context) ([]*domain.Vehicle, error)
}

// CustomerRepository resolves requesting customers.
type CustomerRepository interface {
	// FindCustomerByID returns the user when it exists with the customer
	// role, domain.ErrCustomerNotFound otherwise.
	FindCustomerByID(ctx context.Context, id string) (*domain.User, error)
}

// JobStore persists job records. Terminal records expire after the store's
// housekeeping TTL.
type JobStore interface {
	Save(ctx context.Context, job *domain.Job) error
	Get(ctx context.Context, jobID string) (*domain.Job, error)
}
