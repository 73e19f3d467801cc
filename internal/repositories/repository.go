package repositories

import (
	"context"
	"time"

	"github.com/spinquest/spinwheel-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TokenBulkSelector names the predicate of an administrative bulk soft delete.
type TokenBulkSelector string

const (
	SelectExpired   TokenBulkSelector = "expired"    // unused and past expiry
	SelectUsed      TokenBulkSelector = "used"       // already redeemed
	SelectAllUnused TokenBulkSelector = "all-unused" // every unused token, expired or not
)

// TokenRepository defines the interface for token data operations.
//
// ClaimByCode is the only entry point that may mark a token used. It must be
// a single atomic conditional update on the unused-and-unexpired predicate so
// that, of any number of concurrent claims on one code, exactly one succeeds.
// A failed claim returns one of the models sentinel errors (ErrTokenNotFound,
// ErrTokenDeleted, ErrTokenUsed, ErrTokenExpired); a claim lost to a
// concurrent request is reported as ErrTokenUsed.
type TokenRepository interface {
	Create(ctx context.Context, token *models.Token) error
	CreateMany(ctx context.Context, tokens []*models.Token) error
	FindByCode(ctx context.Context, code string) (*models.Token, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Token, error)
	FindAll(ctx context.Context) ([]*models.Token, error)
	FindUsed(ctx context.Context, page, limit int) ([]*models.Token, error)
	CountUsed(ctx context.Context) (int64, error)
	CountActive(ctx context.Context, now time.Time) (int64, error)
	Stats(ctx context.Context, now time.Time) (*models.TokenStats, error)
	ClaimByCode(ctx context.Context, code string, usage models.UsageContext) (*models.Token, error)
	SoftDelete(ctx context.Context, id, actor primitive.ObjectID) (*models.Token, error)
	BulkSoftDelete(ctx context.Context, selector TokenBulkSelector, actor primitive.ObjectID) (int64, error)
	HardDeleteExpired(ctx context.Context) (int64, error)
}

// PrizeRepository defines the interface for prize data operations. FindActive
// returns the catalog in wheel order: position ascending, then creation
// order. Both selection and display derive from that one ordering.
type PrizeRepository interface {
	Create(ctx context.Context, prize *models.Prize) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Prize, error)
	FindAll(ctx context.Context) ([]*models.Prize, error)
	FindActive(ctx context.Context) ([]*models.Prize, error)
	CountActive(ctx context.Context) (int64, error)
	Update(ctx context.Context, prize *models.Prize) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// SpinResultRepository defines the interface for the append-only result
// ledger. Results are created once and never updated.
type SpinResultRepository interface {
	Create(ctx context.Context, result *models.SpinResult) error
	FindAll(ctx context.Context, page, limit int) ([]*models.SpinResult, error)
	Count(ctx context.Context) (int64, error)
	DistinctTokenCodes(ctx context.Context) ([]string, error)
	CountByPrizeName(ctx context.Context) (map[string]int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// AdminUserRepository defines the interface for operator account operations
type AdminUserRepository interface {
	Create(ctx context.Context, user *models.AdminUser) error
	FindByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error)
	FindByRole(ctx context.Context, role string) ([]*models.AdminUser, error)
	CountByRole(ctx context.Context, role string) (int64, error)
	DeleteAdmin(ctx context.Context, id primitive.ObjectID) error
}
