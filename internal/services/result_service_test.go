package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/spinquest/spinwheel-backend/internal/models"
)

func recordedResult(tokenCode, prizeName string) *models.SpinResult {
	return &models.SpinResult{
		ID:        primitive.NewObjectID(),
		TokenCode: tokenCode,
		PrizeName: prizeName,
	}
}

func TestGetResultStats(t *testing.T) {
	resultRepo := newFakeResultRepo()
	for _, r := range []*models.SpinResult{
		recordedResult("TOKEN001", "Gold"),
		recordedResult("TOKEN002", "Gold"),
		recordedResult("TOKEN003", "Silver"),
	} {
		require.NoError(t, resultRepo.Create(context.Background(), r))
	}

	svc := NewResultService(resultRepo, newFakeTokenRepo())

	stats, err := svc.GetResultStats(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 3, stats.TotalSpins)
	assert.EqualValues(t, 3, stats.UniqueTokens)
	assert.Equal(t, "Gold", stats.MostPopularPrize)
	assert.EqualValues(t, 2, stats.PrizeStats["Gold"])
	assert.EqualValues(t, 1, stats.PrizeStats["Silver"])
}

func TestGetDashboardStats(t *testing.T) {
	tokenRepo := newFakeTokenRepo()
	now := time.Now()

	tokenRepo.add(activeToken("ACTIVE01"))
	used := activeToken("USED0001")
	used.IsUsed = true
	used.UsedAt = &now
	tokenRepo.add(used)

	resultRepo := newFakeResultRepo()
	require.NoError(t, resultRepo.Create(context.Background(), recordedResult("USED0001", "Gold")))

	svc := NewResultService(resultRepo, tokenRepo)

	stats, err := svc.GetDashboardStats(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 2, stats.TotalTokens)
	assert.EqualValues(t, 1, stats.UsedTokens)
	assert.EqualValues(t, 1, stats.AvailableTokens)
	assert.EqualValues(t, 1, stats.TotalSpins)
}

func TestGetResults(t *testing.T) {
	resultRepo := newFakeResultRepo()
	for i := 0; i < 5; i++ {
		require.NoError(t, resultRepo.Create(context.Background(), recordedResult("TOKEN00"+string(rune('1'+i)), "Gold")))
	}

	svc := NewResultService(resultRepo, newFakeTokenRepo())

	results, pagination, err := svc.GetResults(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.EqualValues(t, 5, pagination.TotalItems)
	assert.EqualValues(t, 3, pagination.TotalPages)
	assert.True(t, pagination.HasMore)
}
