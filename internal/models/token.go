package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TokenStatus is the effective status derived from a token's flags.
// Precedence: deleted > used > expired > active.
type TokenStatus string

const (
	TokenStatusActive  TokenStatus = "active"
	TokenStatusUsed    TokenStatus = "used"
	TokenStatusExpired TokenStatus = "expired"
	TokenStatusDeleted TokenStatus = "deleted"
)

// UsageContext records opaque client metadata captured when a token is
// consumed or checked.
type UsageContext struct {
	UserAgent string `bson:"userAgent,omitempty" json:"userAgent,omitempty"`
	IPAddress string `bson:"ipAddress,omitempty" json:"ipAddress,omitempty"`
}

// Token represents a single-use redemption code. IsUsed and IsDeleted are
// independent flags, not a single state enum: deletion is an overlay that can
// be applied to both unused and used tokens, and the record is retained after
// deletion so the code can never be reissued.
type Token struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	TokenCode string             `bson:"tokenCode" json:"tokenCode"`
	IsUsed    bool               `bson:"isUsed" json:"isUsed"`
	UsedAt    *time.Time         `bson:"usedAt,omitempty" json:"usedAt,omitempty"`
	UsedBy    *UsageContext      `bson:"usedBy,omitempty" json:"usedBy,omitempty"`
	ExpiresAt time.Time          `bson:"expiresAt" json:"expiresAt"`
	CreatedBy primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	IsDeleted bool               `bson:"isDeleted" json:"isDeleted"`
	DeletedAt *time.Time         `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
	DeletedBy primitive.ObjectID `bson:"deletedBy,omitempty" json:"deletedBy,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Status derives the effective status at time now.
func (t *Token) Status(now time.Time) TokenStatus {
	if t.IsDeleted {
		return TokenStatusDeleted
	}
	if t.IsUsed {
		return TokenStatusUsed
	}
	if now.After(t.ExpiresAt) {
		return TokenStatusExpired
	}
	return TokenStatusActive
}

// TokenStats is the per-status breakdown of the token collection.
type TokenStats struct {
	TotalTokens      int64 `json:"totalTokens"`      // not deleted
	ActiveTokens     int64 `json:"activeTokens"`     // unused, not deleted, not expired
	UsedTokens       int64 `json:"usedTokens"`       // used, not deleted
	ExpiredTokens    int64 `json:"expiredTokens"`    // unused, not deleted, expired
	DeletedTokens    int64 `json:"deletedTokens"`    // soft deleted
	TotalEverCreated int64 `json:"totalEverCreated"` // including deleted
}
