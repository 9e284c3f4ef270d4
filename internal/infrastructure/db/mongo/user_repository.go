package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fleetline/logistics-platform/internal/core/domain"
	"github.com/fleetline/logistics-platform/internal/infrastructure/db"
)

const collectionUsers = "users"

// UserRepository resolves platform users. The shipment factory only ever
// needs the customer-role lookup.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(database *mongo.Database) *UserRepository {
	return &UserRepository{col: database.Collection(collectionUsers)}
}

// FindCustomerByID returns the user when it exists with the customer role.
func (r *UserRepository) FindCustomerByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var u domain.User
	err := db.WithConnRetry(ctx, func(ctx context.Context) error {
		return r.col.FindOne(ctx, bson.M{"_id": id, "role": domain.RoleCustomer}).Decode(&u)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}
	return &u, nil
}
