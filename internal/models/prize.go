package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Prize is a weighted wheel entry. Probability is a relative weight in
// [0, 100]; weights need not sum to 100, the selector normalizes over the
// active set. Position is the fixed wheel slot used for display ordering
// only and never influences selection probability.
type Prize struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Probability float64            `bson:"probability" json:"probability"`
	Color       string             `bson:"color" json:"color"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	Position    int                `bson:"position" json:"position"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DefaultPrizeColor is applied when a prize is created without a color.
const DefaultPrizeColor = "#3B82F6"
