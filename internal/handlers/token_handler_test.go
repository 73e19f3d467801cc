package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/spinquest/spinwheel-backend/internal/models"
	"github.com/spinquest/spinwheel-backend/internal/repositories"
)

// stubTokenService satisfies services.TokenService for routing tests.
type stubTokenService struct {
	tokens []*models.Token
	err    error
}

func (s *stubTokenService) CreateTokens(context.Context, int, primitive.ObjectID) ([]*models.Token, error) {
	return s.tokens, s.err
}

func (s *stubTokenService) GetAllTokens(context.Context) ([]*models.Token, error) {
	return s.tokens, s.err
}

func (s *stubTokenService) GetUsageHistory(context.Context, int, int) ([]*models.Token, *models.Pagination, error) {
	return s.tokens, &models.Pagination{CurrentPage: 1}, s.err
}

func (s *stubTokenService) GetStats(context.Context) (*models.TokenStats, error) {
	return &models.TokenStats{}, s.err
}

func (s *stubTokenService) DeleteToken(context.Context, primitive.ObjectID, primitive.ObjectID) (*models.Token, error) {
	if len(s.tokens) > 0 {
		return s.tokens[0], s.err
	}
	return nil, s.err
}

func (s *stubTokenService) BulkDelete(context.Context, repositories.TokenBulkSelector, primitive.ObjectID) (int64, error) {
	return int64(len(s.tokens)), s.err
}

func (s *stubTokenService) HardCleanupExpired(context.Context) (int64, error) {
	return int64(len(s.tokens)), s.err
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func validateRouter(spin *stubSpinService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewTokenHandler(&stubTokenService{}, spin)
	router := gin.New()
	router.POST("/tokens/validate", h.Validate)
	router.POST("/tokens/check-history", h.CheckHistory)
	return router
}

func TestValidateEndpoint(t *testing.T) {
	now := time.Now()

	t.Run("active token is valid", func(t *testing.T) {
		router := validateRouter(&stubSpinService{token: &models.Token{
			ID:        primitive.NewObjectID(),
			TokenCode: "ABC12345",
			ExpiresAt: now.Add(time.Hour),
		}})

		w := postJSON(t, router, "/tokens/validate", `{"tokenCode":"ABC12345"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, true, body["valid"])
		assert.Equal(t, "active", body["status"])
	})

	t.Run("unknown token is a 404", func(t *testing.T) {
		router := validateRouter(&stubSpinService{err: models.ErrTokenNotFound})

		w := postJSON(t, router, "/tokens/validate", `{"tokenCode":"MISSING1"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("used expired and deleted tokens are gone with a reason", func(t *testing.T) {
		tests := []struct {
			name       string
			token      *models.Token
			wantReason string
		}{
			{
				"used",
				&models.Token{TokenCode: "T1", IsUsed: true, UsedAt: &now, ExpiresAt: now.Add(time.Hour)},
				"used",
			},
			{
				"expired",
				&models.Token{TokenCode: "T2", ExpiresAt: now.Add(-time.Hour)},
				"expired",
			},
			{
				"deleted",
				&models.Token{TokenCode: "T3", IsDeleted: true, ExpiresAt: now.Add(time.Hour)},
				"deleted",
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				router := validateRouter(&stubSpinService{token: tt.token})

				w := postJSON(t, router, "/tokens/validate", `{"tokenCode":"X"}`)
				assert.Equal(t, http.StatusGone, w.Code)

				var body map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.wantReason, body["reason"])
			})
		}
	})

	t.Run("missing body is a 400", func(t *testing.T) {
		router := validateRouter(&stubSpinService{})

		w := postJSON(t, router, "/tokens/validate", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCheckHistoryEndpoint(t *testing.T) {
	t.Run("never-issued code reports exists false with 200", func(t *testing.T) {
		router := validateRouter(&stubSpinService{err: models.ErrTokenNotFound})

		w := postJSON(t, router, "/tokens/check-history", `{"tokenCode":"GHOST001"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, false, body["exists"])
	})

	t.Run("deleted token surfaces its lifecycle", func(t *testing.T) {
		now := time.Now()
		router := validateRouter(&stubSpinService{token: &models.Token{
			TokenCode: "GONE0001",
			IsDeleted: true,
			DeletedAt: &now,
			ExpiresAt: now.Add(time.Hour),
		}})

		w := postJSON(t, router, "/tokens/check-history", `{"tokenCode":"GONE0001"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, true, body["exists"])
		assert.Equal(t, "deleted", body["status"])
		assert.Equal(t, true, body["isDeleted"])
	})
}

func TestBulkDeleteEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewTokenHandler(&stubTokenService{}, &stubSpinService{})
	router := gin.New()
	// the middleware normally sets userID; inject it directly
	router.DELETE("/tokens/bulk/:type", func(c *gin.Context) {
		c.Set("userID", primitive.NewObjectID().Hex())
		h.BulkDelete(c)
	})

	t.Run("unknown selector is a 400", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/tokens/bulk/everything", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("known selectors pass through", func(t *testing.T) {
		for _, sel := range []string{"expired", "used", "all-unused"} {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/tokens/bulk/"+sel, nil))
			assert.Equal(t, http.StatusOK, w.Code, "selector %s", sel)
		}
	})
}
