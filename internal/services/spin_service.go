package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/spinquest/spinwheel-backend/internal/models"
	"github.com/spinquest/spinwheel-backend/internal/repositories"
	"github.com/spinquest/spinwheel-backend/internal/wheel"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// SpinService owns the redemption transaction: validate a token code, claim
// it atomically, select a prize and record the outcome. It is the only code
// path in the system that marks tokens used.
type SpinService interface {
	Spin(ctx context.Context, rawCode string, client models.UsageContext) (*models.SpinOutcome, error)
	ValidateToken(ctx context.Context, rawCode string) (*models.Token, error)
	CheckTokenHistory(ctx context.Context, rawCode string) (*models.Token, error)
	GetActiveWheel(ctx context.Context) ([]*models.Prize, error)
	GetWheelStats(ctx context.Context) (*models.WheelStats, error)
}

// Compile-time check to ensure SpinServiceImpl implements SpinService
var _ SpinService = (*SpinServiceImpl)(nil)

// SpinServiceImpl implements SpinService over the token, prize and result
// repositories
type SpinServiceImpl struct {
	tokenRepo  repositories.TokenRepository
	prizeRepo  repositories.PrizeRepository
	resultRepo repositories.SpinResultRepository
	slots      int
	rng        wheel.RandFunc
}

// NewSpinService creates a new SpinServiceImpl. slots is the fixed display
// wheel size; rng may be nil, in which case a time-seeded source is used.
func NewSpinService(
	tokenRepo repositories.TokenRepository,
	prizeRepo repositories.PrizeRepository,
	resultRepo repositories.SpinResultRepository,
	slots int,
	rng wheel.RandFunc,
) *SpinServiceImpl {
	if rng == nil {
		src := rand.New(rand.NewSource(time.Now().UnixNano()))
		rng = src.Float64
	}
	return &SpinServiceImpl{
		tokenRepo:  tokenRepo,
		prizeRepo:  prizeRepo,
		resultRepo: resultRepo,
		slots:      slots,
		rng:        rng,
	}
}

// NormalizeCode trims and uppercases a raw token code. Codes are stored
// uppercase, so redemption is case-insensitive.
func NormalizeCode(rawCode string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(rawCode))
	if code == "" {
		return "", fmt.Errorf("%w: token code is required", models.ErrInvalidInput)
	}
	return code, nil
}

// Spin runs the redemption transaction. The claim is a single atomic
// conditional update in the token store; once it succeeds the token is
// durably consumed, and a failure in any later step must never try to
// un-claim it. A consumed token with no recorded prize is acceptable, a
// double-spend is not.
func (s *SpinServiceImpl) Spin(ctx context.Context, rawCode string, client models.UsageContext) (*models.SpinOutcome, error) {
	code, err := NormalizeCode(rawCode)
	if err != nil {
		return nil, err
	}

	token, err := s.tokenRepo.ClaimByCode(ctx, code, client)
	if err != nil {
		slog.Warn("spin claim rejected", "tokenCode", code, "reason", err)
		return nil, err
	}
	slog.Info("token claimed", "tokenCode", token.TokenCode, "usedAt", token.UsedAt)

	prizes, err := s.prizeRepo.FindActive(ctx)
	if err != nil {
		slog.Error("failed to load prize catalog after claim", "tokenCode", code, "error", err)
		return nil, fmt.Errorf("failed to load prize catalog: %w", err)
	}

	slots := wheel.Build(prizes, s.slots)
	idx, err := wheel.Pick(slots, s.rng)
	if err != nil {
		slog.Error("no selectable outcome after claim", "tokenCode", code, "activePrizes", len(prizes))
		return nil, err
	}

	outcome := &models.SpinOutcome{
		TokenCode:    token.TokenCode,
		UsedAt:       *token.UsedAt,
		DisplayIndex: idx,
	}

	slot := slots[idx]
	if slot.NoWin {
		slog.Info("spin resolved to no-win slot", "tokenCode", token.TokenCode, "displayIndex", idx)
		return outcome, nil
	}

	outcome.Win = true
	outcome.Prize = slot.Prize

	result := &models.SpinResult{
		ID:         primitive.NewObjectID(),
		TokenCode:  token.TokenCode,
		PrizeID:    slot.Prize.ID,
		PrizeName:  slot.Prize.Name,
		PrizeColor: slot.Prize.Color,
		UserAgent:  client.UserAgent,
		IPAddress:  client.IPAddress,
	}
	if err := s.resultRepo.Create(ctx, result); err != nil {
		slog.Error("failed to record spin result", "tokenCode", token.TokenCode, "prize", slot.Prize.Name, "error", err)
		return nil, fmt.Errorf("failed to record spin result: %w", err)
	}
	outcome.SpinID = result.ID

	slog.Info("spin resolved", "tokenCode", token.TokenCode, "prize", slot.Prize.Name, "displayIndex", idx)
	return outcome, nil
}

// ValidateToken is the read-only status check. It never mutates the token,
// which makes it the safe probe after a redemption request timed out in an
// indeterminate state: callers query here instead of blindly re-spinning.
func (s *SpinServiceImpl) ValidateToken(ctx context.Context, rawCode string) (*models.Token, error) {
	code, err := NormalizeCode(rawCode)
	if err != nil {
		return nil, err
	}
	return s.tokenRepo.FindByCode(ctx, code)
}

// CheckTokenHistory looks a code up across every lifecycle state, including
// soft-deleted records
func (s *SpinServiceImpl) CheckTokenHistory(ctx context.Context, rawCode string) (*models.Token, error) {
	code, err := NormalizeCode(rawCode)
	if err != nil {
		return nil, err
	}
	return s.tokenRepo.FindByCode(ctx, code)
}

// GetActiveWheel returns the active catalog in wheel order
func (s *SpinServiceImpl) GetActiveWheel(ctx context.Context) ([]*models.Prize, error) {
	return s.prizeRepo.FindActive(ctx)
}

// GetWheelStats returns the public wheel statistics
func (s *SpinServiceImpl) GetWheelStats(ctx context.Context) (*models.WheelStats, error) {
	now := time.Now()

	totalSpins, err := s.resultRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalPrizes, err := s.prizeRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	activeTokens, err := s.tokenRepo.CountActive(ctx, now)
	if err != nil {
		return nil, err
	}

	return &models.WheelStats{
		TotalSpins:        totalSpins,
		TotalPrizes:       totalPrizes,
		TotalActiveTokens: activeTokens,
		Timestamp:         now,
	}, nil
}
