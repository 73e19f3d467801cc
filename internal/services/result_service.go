package services

import (
	"context"
	"time"

	"github.com/spinquest/spinwheel-backend/internal/models"
	"github.com/spinquest/spinwheel-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// ResultService exposes the redemption ledger to the dashboard
type ResultService interface {
	GetResults(ctx context.Context, page, limit int) ([]*models.SpinResult, *models.Pagination, error)
	GetResultStats(ctx context.Context) (*models.ResultStats, error)
	GetDashboardStats(ctx context.Context) (*models.DashboardStats, error)
	DeleteResult(ctx context.Context, id primitive.ObjectID) error
}

// Compile-time check to ensure ResultServiceImpl implements ResultService
var _ ResultService = (*ResultServiceImpl)(nil)

// ResultServiceImpl implements ResultService
type ResultServiceImpl struct {
	resultRepo repositories.SpinResultRepository
	tokenRepo  repositories.TokenRepository
}

// NewResultService creates a new ResultServiceImpl
func NewResultService(resultRepo repositories.SpinResultRepository, tokenRepo repositories.TokenRepository) *ResultServiceImpl {
	return &ResultServiceImpl{
		resultRepo: resultRepo,
		tokenRepo:  tokenRepo,
	}
}

// GetResults returns ledger entries, paginated and newest first
func (s *ResultServiceImpl) GetResults(ctx context.Context, page, limit int) ([]*models.SpinResult, *models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	results, err := s.resultRepo.FindAll(ctx, page, limit)
	if err != nil {
		return nil, nil, err
	}
	total, err := s.resultRepo.Count(ctx)
	if err != nil {
		return nil, nil, err
	}

	pagination := &models.Pagination{
		CurrentPage: page,
		TotalPages:  (total + int64(limit) - 1) / int64(limit),
		TotalItems:  total,
		HasMore:     int64(page*limit) < total,
	}
	return results, pagination, nil
}

// GetResultStats aggregates the ledger per prize
func (s *ResultServiceImpl) GetResultStats(ctx context.Context) (*models.ResultStats, error) {
	totalSpins, err := s.resultRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	codes, err := s.resultRepo.DistinctTokenCodes(ctx)
	if err != nil {
		return nil, err
	}
	prizeStats, err := s.resultRepo.CountByPrizeName(ctx)
	if err != nil {
		return nil, err
	}

	mostPopular := ""
	var maxCount int64
	for name, count := range prizeStats {
		if count > maxCount {
			maxCount = count
			mostPopular = name
		}
	}

	return &models.ResultStats{
		TotalSpins:       totalSpins,
		UniqueTokens:     int64(len(codes)),
		PrizeStats:       prizeStats,
		MostPopularPrize: mostPopular,
	}, nil
}

// GetDashboardStats combines token and ledger counts for the dashboard
// header
func (s *ResultServiceImpl) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	tokenStats, err := s.tokenRepo.Stats(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	totalSpins, err := s.resultRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &models.DashboardStats{
		TotalTokens:     tokenStats.TotalTokens,
		UsedTokens:      tokenStats.UsedTokens,
		ExpiredTokens:   tokenStats.ExpiredTokens,
		AvailableTokens: tokenStats.ActiveTokens,
		TotalSpins:      totalSpins,
	}, nil
}

// DeleteResult removes one ledger entry
func (s *ResultServiceImpl) DeleteResult(ctx context.Context, id primitive.ObjectID) error {
	if err := s.resultRepo.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("spin result deleted", "id", id.Hex())
	return nil
}
