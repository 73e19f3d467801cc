package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SpinResult is one row of the append-only redemption ledger. Prize name and
// color are denormalized so results survive later prize edits or deletion.
// Results are never mutated after creation.
type SpinResult struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	TokenCode  string             `bson:"tokenCode" json:"tokenCode"`
	PrizeID    primitive.ObjectID `bson:"prizeId" json:"prizeId"`
	PrizeName  string             `bson:"prizeName" json:"prizeName"`
	PrizeColor string             `bson:"prizeColor,omitempty" json:"prizeColor,omitempty"`
	UserAgent  string             `bson:"userAgent,omitempty" json:"userAgent,omitempty"`
	IPAddress  string             `bson:"ipAddress,omitempty" json:"ipAddress,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// SpinOutcome is what a completed redemption hands back to the transport
// layer. DisplayIndex is the slot index in wheel order, reproducible from the
// same catalog ordering the selector used. A no-win outcome has Win false,
// a nil Prize and a zero SpinID; nothing is written to the ledger for it.
type SpinOutcome struct {
	Win          bool
	Prize        *Prize
	DisplayIndex int
	TokenCode    string
	UsedAt       time.Time
	SpinID       primitive.ObjectID
}

// ResultStats summarizes the ledger for the dashboard.
type ResultStats struct {
	TotalSpins       int64            `json:"totalSpins"`
	UniqueTokens     int64            `json:"uniqueTokens"`
	PrizeStats       map[string]int64 `json:"prizeStats"`
	MostPopularPrize string           `json:"mostPopularPrize"`
}

// Pagination is the envelope returned alongside paginated listings.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int64 `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	HasMore     bool  `json:"hasMore"`
}
