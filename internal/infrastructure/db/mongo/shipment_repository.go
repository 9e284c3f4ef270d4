package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fleetline/logistics-platform/internal/core/domain"
	"github.com/fleetline/logistics-platform/internal/core/ports"
	"github.com/fleetline/logistics-platform/internal/infrastructure/db"
)

const collectionShipments = "shipments"

type ShipmentRepository struct {
	col *mongo.Collection
}

func NewShipmentRepository(database *mongo.Database) *ShipmentRepository {
	return &ShipmentRepository{col: database.Collection(collectionShipments)}
}

// Create inserts a new shipment document.
func (r *ShipmentRepository) Create(ctx context.Context, s *domain.Shipment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return db.WithConnRetry(ctx, func(ctx context.Context) error {
		_, err := r.col.InsertOne(ctx, s)
		return err
	})
}

// FindByID retrieves a shipment by its internal id.
func (r *ShipmentRepository) FindByID(ctx context.Context, id string) (*domain.Shipment, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByTrackingID retrieves a shipment by its public tracking id.
func (r *ShipmentRepository) FindByTrackingID(ctx context.Context, trackingID string) (*domain.Shipment, error) {
	return r.findOne(ctx, bson.M{"tracking_id": trackingID})
}

func (r *ShipmentRepository) findOne(ctx context.Context, filter bson.M) (*domain.Shipment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.Shipment
	err := db.WithConnRetry(ctx, func(ctx context.Context) error {
		return r.col.FindOne(ctx, filter).Decode(&s)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrShipmentNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Update replaces the stored document. Concurrent-writer serialization is
// the caller's job; the repository is a plain last-write store.
func (r *ShipmentRepository) Update(ctx context.Context, s *domain.Shipment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return db.WithConnRetry(ctx, func(ctx context.Context) error {
		result, err := r.col.ReplaceOne(ctx, bson.M{"_id": s.ID}, s)
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			return domain.ErrShipmentNotFound
		}
		return nil
	})
}

// List returns one page of shipments matching filter, newest first, plus
// the total match count.
func (r *ShipmentRepository) List(ctx context.Context, filter ports.ListShipmentsFilter) ([]*domain.Shipment, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := buildListQuery(filter)

	var total int64
	err := db.WithConnRetry(ctx, func(ctx context.Context) error {
		var countErr error
		total, countErr = r.col.CountDocuments(ctx, query)
		return countErr
	})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	var items []*domain.Shipment
	err = db.WithConnRetry(ctx, func(ctx context.Context) error {
		cursor, err := r.col.Find(ctx, query, opts)
		if err != nil {
			return err
		}
		defer cursor.Close(ctx)

		items = items[:0]
		return cursor.All(ctx, &items)
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func buildListQuery(filter ports.ListShipmentsFilter) bson.M {
	query := bson.M{}
	if filter.CustomerID != "" {
		query["customer_id"] = filter.CustomerID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.Search != "" {
		query["tracking_id"] = bson.M{"$regex": filter.Search, "$options": "i"}
	}

	created := bson.M{}
	if !filter.DateFrom.IsZero() {
		created["$gte"] = filter.DateFrom
	}
	if !filter.DateTo.IsZero() {
		created["$lte"] = filter.DateTo
	}
	if len(created) > 0 {
		query["created_at"] = created
	}
	return query
}

// EnsureIndexes creates the indexes the query paths depend on.
func (r *ShipmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "tracking_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "customer_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
