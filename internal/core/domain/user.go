package domain

import "time"

// Roles. One User entity with a role tag replaces per-role subtypes;
// capability checks live on the role, not on separate structs.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
	RoleDriver   = "driver"
)

// User models an actor in the system: a customer requesting shipments, a
// driver operating a vehicle, or an admin running the fleet.
type User struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email,omitempty" bson:"email,omitempty"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Role      string    `json:"role" bson:"role"`
	VehicleID string    `json:"vehicle_id,omitempty" bson:"vehicle_id,omitempty"` // drivers only
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// CanCreateShipments reports whether the role may open new shipments.
func CanCreateShipments(role string) bool {
	return role == RoleCustomer || role == RoleAdmin
}

// CanOperateFleet reports whether the role may provision vehicles and
// trigger simulation ticks.
func CanOperateFleet(role string) bool {
	return role == RoleAdmin
}

// CanRecordDelivery reports whether the role may record signatures and
// delivery-side status updates.
func CanRecordDelivery(role string) bool {
	return role == RoleDriver || role == RoleAdmin
}
