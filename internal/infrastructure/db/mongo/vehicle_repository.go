package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fleetline/logistics-platform/internal/core/domain"
	"github.com/fleetline/logistics-platform/internal/infrastructure/db"
)

const collectionVehicles = "vehicles"

type VehicleRepository struct {
	col *mongo.Collection
}

func NewVehicleRepository(database *mongo.Database) *VehicleRepository {
	return &VehicleRepository{col: database.Collection(collectionVehicles)}
}

func (r *VehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return db.WithConnRetry(ctx, func(ctx context.Context) error {
		_, err := r.col.InsertOne(ctx, v)
		return err
	})
}

func (r *VehicleRepository) FindByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var v domain.Vehicle
	err := db.WithConnRetry(ctx, func(ctx context.Context) error {
		return r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&v)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, err
	}
	return &v, nil
}

// FindInTransit returns the working set of one simulation tick.
func (r *VehicleRepository) FindInTransit(ctx context.Context) ([]*domain.Vehicle, error) {
	return r.find(ctx, bson.M{"status": domain.VehicleInTransit})
}

func (r *VehicleRepository) List(ctx context.Context) ([]*domain.Vehicle, error) {
	return r.find(ctx, bson.M{})
}

func (r *VehicleRepository) find(ctx context.Context, filter bson.M) ([]*domain.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	var fleet []*domain.Vehicle
	err := db.WithConnRetry(ctx, func(ctx context.Context) error {
		cursor, err := r.col.Find(ctx, filter, opts)
		if err != nil {
			return err
		}
		defer cursor.Close(ctx)

		fleet = fleet[:0]
		return cursor.All(ctx, &fleet)
	})
	if err != nil {
		return nil, err
	}
	return fleet, nil
}

func (r *VehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return db.WithConnRetry(ctx, func(ctx context.Context) error {
		result, err := r.col.ReplaceOne(ctx, bson.M{"_id": v.ID}, v)
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			return domain.ErrVehicleNotFound
		}
		return nil
	})
}

// EnsureIndexes creates the indexes the tick query depends on.
func (r *VehicleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "license_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
