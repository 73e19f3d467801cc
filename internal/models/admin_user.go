package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Operator roles. Superadmin additionally manages admin accounts and may
// hard-purge tokens.
const (
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// AdminUser is an operator account for the dashboard. End users redeeming
// tokens have no account at all.
type AdminUser struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Username  string             `bson:"username" json:"username"`
	Password  string             `bson:"password" json:"-"` // bcrypt hash, never serialized
	Role      string             `bson:"role" json:"role"`
	CreatedBy primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
