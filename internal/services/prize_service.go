package services

import (
	"context"
	"fmt"

	"github.com/spinquest/spinwheel-backend/internal/config"
	"github.com/spinquest/spinwheel-backend/internal/models"
	"github.com/spinquest/spinwheel-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// PrizeService handles prize catalog administration. Catalog edits take
// effect on the next spin; there is no per-draw snapshotting.
type PrizeService interface {
	CreatePrize(ctx context.Context, prize *models.Prize) error
	GetAllPrizes(ctx context.Context) ([]*models.Prize, error)
	GetPrizeByID(ctx context.Context, id primitive.ObjectID) (*models.Prize, error)
	UpdatePrize(ctx context.Context, prize *models.Prize) error
	DeletePrize(ctx context.Context, id primitive.ObjectID) error
}

// Compile-time check to ensure PrizeServiceImpl implements PrizeService
var _ PrizeService = (*PrizeServiceImpl)(nil)

// PrizeServiceImpl implements PrizeService
type PrizeServiceImpl struct {
	prizeRepo repositories.PrizeRepository
	cfg       *config.Config
}

// NewPrizeService creates a new PrizeServiceImpl
func NewPrizeService(prizeRepo repositories.PrizeRepository, cfg *config.Config) *PrizeServiceImpl {
	return &PrizeServiceImpl{
		prizeRepo: prizeRepo,
		cfg:       cfg,
	}
}

// validatePrize bounds the weight and slot position
func (s *PrizeServiceImpl) validatePrize(prize *models.Prize) error {
	if prize.Name == "" {
		return fmt.Errorf("%w: prize name is required", models.ErrInvalidInput)
	}
	if prize.Probability < 0 || prize.Probability > 100 {
		return fmt.Errorf("%w: probability must be between 0 and 100", models.ErrInvalidInput)
	}
	if prize.Position < 0 || prize.Position >= s.cfg.Wheel.Slots {
		return fmt.Errorf("%w: position must be between 0 and %d", models.ErrInvalidInput, s.cfg.Wheel.Slots-1)
	}
	return nil
}

// CreatePrize creates a new prize
func (s *PrizeServiceImpl) CreatePrize(ctx context.Context, prize *models.Prize) error {
	if err := s.validatePrize(prize); err != nil {
		return err
	}
	if prize.Color == "" {
		prize.Color = models.DefaultPrizeColor
	}

	if err := s.prizeRepo.Create(ctx, prize); err != nil {
		slog.Error("failed to create prize", "name", prize.Name, "error", err)
		return fmt.Errorf("failed to create prize: %w", err)
	}
	slog.Info("prize created", "name", prize.Name, "probability", prize.Probability, "position", prize.Position)
	return nil
}

// GetAllPrizes returns every prize, newest first
func (s *PrizeServiceImpl) GetAllPrizes(ctx context.Context) ([]*models.Prize, error) {
	return s.prizeRepo.FindAll(ctx)
}

// GetPrizeByID returns one prize
func (s *PrizeServiceImpl) GetPrizeByID(ctx context.Context, id primitive.ObjectID) (*models.Prize, error) {
	return s.prizeRepo.FindByID(ctx, id)
}

// UpdatePrize replaces a prize document
func (s *PrizeServiceImpl) UpdatePrize(ctx context.Context, prize *models.Prize) error {
	if err := s.validatePrize(prize); err != nil {
		return err
	}
	if prize.Color == "" {
		prize.Color = models.DefaultPrizeColor
	}

	if err := s.prizeRepo.Update(ctx, prize); err != nil {
		return err
	}
	slog.Info("prize updated", "id", prize.ID.Hex(), "name", prize.Name)
	return nil
}

// DeletePrize removes a prize from the catalog. Already-recorded results
// keep their denormalized prize fields.
func (s *PrizeServiceImpl) DeletePrize(ctx context.Context, id primitive.ObjectID) error {
	if err := s.prizeRepo.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("prize deleted", "id", id.Hex())
	return nil
}
