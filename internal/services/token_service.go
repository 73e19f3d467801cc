package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spinquest/spinwheel-backend/internal/config"
	"github.com/spinquest/spinwheel-backend/internal/models"
	"github.com/spinquest/spinwheel-backend/internal/repositories"
	"github.com/spinquest/spinwheel-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// maxCodeAttempts bounds the uniqueness retry loop per generated token.
const maxCodeAttempts = 100

// TokenService handles token issuance and administration. It never marks
// tokens used; redemption belongs exclusively to SpinService.
type TokenService interface {
	CreateTokens(ctx context.Context, quantity int, createdBy primitive.ObjectID) ([]*models.Token, error)
	GetAllTokens(ctx context.Context) ([]*models.Token, error)
	GetUsageHistory(ctx context.Context, page, limit int) ([]*models.Token, *models.Pagination, error)
	GetStats(ctx context.Context) (*models.TokenStats, error)
	DeleteToken(ctx context.Context, id, actor primitive.ObjectID) (*models.Token, error)
	BulkDelete(ctx context.Context, selector repositories.TokenBulkSelector, actor primitive.ObjectID) (int64, error)
	HardCleanupExpired(ctx context.Context) (int64, error)
}

// Compile-time check to ensure TokenServiceImpl implements TokenService
var _ TokenService = (*TokenServiceImpl)(nil)

// TokenServiceImpl implements TokenService
type TokenServiceImpl struct {
	tokenRepo repositories.TokenRepository
	cfg       *config.Config
}

// NewTokenService creates a new TokenServiceImpl
func NewTokenService(tokenRepo repositories.TokenRepository, cfg *config.Config) *TokenServiceImpl {
	return &TokenServiceImpl{
		tokenRepo: tokenRepo,
		cfg:       cfg,
	}
}

// CreateTokens issues a batch of fresh tokens. Uniqueness is checked against
// every code ever issued, soft-deleted ones included: a deleted code must
// never come back to life on a new token.
func (s *TokenServiceImpl) CreateTokens(ctx context.Context, quantity int, createdBy primitive.ObjectID) ([]*models.Token, error) {
	if quantity < 1 || quantity > s.cfg.Token.MaxBatchSize {
		return nil, fmt.Errorf("%w: quantity must be between 1 and %d", models.ErrInvalidInput, s.cfg.Token.MaxBatchSize)
	}

	expiresAt := time.Now().Add(time.Duration(s.cfg.Token.ExpiryHours) * time.Hour)
	seen := make(map[string]bool, quantity)
	tokens := make([]*models.Token, 0, quantity)

	for i := 0; i < quantity; i++ {
		code, err := s.uniqueCode(ctx, seen)
		if err != nil {
			return nil, err
		}
		seen[code] = true
		tokens = append(tokens, &models.Token{
			TokenCode: code,
			ExpiresAt: expiresAt,
			CreatedBy: createdBy,
		})
	}

	if err := s.tokenRepo.CreateMany(ctx, tokens); err != nil {
		slog.Error("failed to insert token batch", "quantity", quantity, "error", err)
		return nil, fmt.Errorf("failed to create tokens: %w", err)
	}

	slog.Info("tokens created", "quantity", quantity, "createdBy", createdBy.Hex())
	return tokens, nil
}

// uniqueCode generates a code not present in the batch so far nor anywhere
// in the collection
func (s *TokenServiceImpl) uniqueCode(ctx context.Context, seen map[string]bool) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := utils.GenerateTokenCode(s.cfg.Token.CodeLength)
		if err != nil {
			return "", err
		}
		if seen[code] {
			continue
		}

		_, err = s.tokenRepo.FindByCode(ctx, code)
		if errors.Is(err, models.ErrTokenNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
		// collision with an existing (possibly deleted) token, try again
	}
	return "", fmt.Errorf("cannot generate unique token code after %d attempts", maxCodeAttempts)
}

// GetAllTokens returns all tokens that are not soft-deleted
func (s *TokenServiceImpl) GetAllTokens(ctx context.Context) ([]*models.Token, error) {
	return s.tokenRepo.FindAll(ctx)
}

// GetUsageHistory returns redeemed tokens, paginated
func (s *TokenServiceImpl) GetUsageHistory(ctx context.Context, page, limit int) ([]*models.Token, *models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	tokens, err := s.tokenRepo.FindUsed(ctx, page, limit)
	if err != nil {
		return nil, nil, err
	}
	total, err := s.tokenRepo.CountUsed(ctx)
	if err != nil {
		return nil, nil, err
	}

	pagination := &models.Pagination{
		CurrentPage: page,
		TotalPages:  (total + int64(limit) - 1) / int64(limit),
		TotalItems:  total,
		HasMore:     int64(page*limit) < total,
	}
	return tokens, pagination, nil
}

// GetStats returns the per-status token breakdown
func (s *TokenServiceImpl) GetStats(ctx context.Context) (*models.TokenStats, error) {
	return s.tokenRepo.Stats(ctx, time.Now())
}

// DeleteToken soft-deletes one token; the record is kept so the code stays
// burned
func (s *TokenServiceImpl) DeleteToken(ctx context.Context, id, actor primitive.ObjectID) (*models.Token, error) {
	token, err := s.tokenRepo.SoftDelete(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	slog.Info("token soft-deleted", "tokenCode", token.TokenCode, "actor", actor.Hex())
	return token, nil
}

// BulkDelete soft-deletes every token matching the selector
func (s *TokenServiceImpl) BulkDelete(ctx context.Context, selector repositories.TokenBulkSelector, actor primitive.ObjectID) (int64, error) {
	count, err := s.tokenRepo.BulkSoftDelete(ctx, selector, actor)
	if err != nil {
		return 0, err
	}
	slog.Info("tokens bulk soft-deleted", "selector", string(selector), "count", count, "actor", actor.Hex())
	return count, nil
}

// HardCleanupExpired permanently purges tokens that are both unused and
// expired
func (s *TokenServiceImpl) HardCleanupExpired(ctx context.Context) (int64, error) {
	count, err := s.tokenRepo.HardDeleteExpired(ctx)
	if err != nil {
		return 0, err
	}
	slog.Info("expired tokens hard-deleted", "count", count)
	return count, nil
}
