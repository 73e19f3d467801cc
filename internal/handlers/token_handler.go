package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spinquest/spinwheel-backend/internal/models"
	"github.com/spinquest/spinwheel-backend/internal/repositories"
	"github.com/spinquest/spinwheel-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TokenHandler handles token issuance, inspection and cleanup
type TokenHandler struct {
	tokenService services.TokenService
	spinService  services.SpinService
}

// NewTokenHandler creates a new TokenHandler
func NewTokenHandler(tokenService services.TokenService, spinService services.SpinService) *TokenHandler {
	return &TokenHandler{
		tokenService: tokenService,
		spinService:  spinService,
	}
}

// tokenView flattens a token with its derived effective status
type tokenView struct {
	*models.Token
	Status models.TokenStatus `json:"status"`
}

func viewTokens(tokens []*models.Token, now time.Time) []tokenView {
	views := make([]tokenView, 0, len(tokens))
	for _, t := range tokens {
		views = append(views, tokenView{Token: t, Status: t.Status(now)})
	}
	return views
}

// CreateTokenRequest is the body of POST /tokens/create
type CreateTokenRequest struct {
	Quantity int `json:"quantity"`
}

// CreateTokens handles POST /tokens/create
func (h *TokenHandler) CreateTokens(c *gin.Context) {
	var req CreateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	actor, ok := actorID(c)
	if !ok {
		return
	}

	tokens, err := h.tokenService.CreateTokens(c.Request.Context(), req.Quantity, actor)
	if err != nil {
		abortWithError(c, err)
		return
	}

	now := time.Now()
	views := make([]gin.H, 0, len(tokens))
	for _, t := range tokens {
		views = append(views, gin.H{
			"id":        t.ID,
			"tokenCode": t.TokenCode,
			"expiresAt": t.ExpiresAt,
			"status":    t.Status(now),
		})
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": strconv.Itoa(len(tokens)) + " token(s) created successfully",
		"tokens":  views,
	})
}

// GetAllTokens handles GET /tokens
func (h *TokenHandler) GetAllTokens(c *gin.Context) {
	tokens, err := h.tokenService.GetAllTokens(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, viewTokens(tokens, time.Now()))
}

// GetHistory handles GET /tokens/history
func (h *TokenHandler) GetHistory(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	tokens, pagination, err := h.tokenService.GetUsageHistory(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tokens":     viewTokens(tokens, time.Now()),
		"pagination": pagination,
	})
}

// GetStats handles GET /tokens/stats
func (h *TokenHandler) GetStats(c *gin.Context) {
	stats, err := h.tokenService.GetStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// SoftCleanupExpired handles DELETE /tokens/soft-cleanup-expired
func (h *TokenHandler) SoftCleanupExpired(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}

	count, err := h.tokenService.BulkDelete(c.Request.Context(), repositories.SelectExpired, actor)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Hidden " + strconv.FormatInt(count, 10) + " expired tokens (soft delete)",
		"deletedCount": count,
		"note":         "Tokens are hidden but remain in database to prevent code reuse",
	})
}

// HardCleanupExpired handles DELETE /tokens/hard-cleanup-expired (superadmin)
func (h *TokenHandler) HardCleanupExpired(c *gin.Context) {
	count, err := h.tokenService.HardCleanupExpired(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Permanently deleted " + strconv.FormatInt(count, 10) + " expired tokens",
		"deletedCount": count,
		"warning":      "These tokens are permanently removed from database",
	})
}

// BulkDelete handles DELETE /tokens/bulk/:type
func (h *TokenHandler) BulkDelete(c *gin.Context) {
	selector := repositories.TokenBulkSelector(c.Param("type"))
	switch selector {
	case repositories.SelectExpired, repositories.SelectUsed, repositories.SelectAllUnused:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid deletion type"})
		return
	}

	actor, ok := actorID(c)
	if !ok {
		return
	}

	count, err := h.tokenService.BulkDelete(c.Request.Context(), selector, actor)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Hidden " + strconv.FormatInt(count, 10) + " tokens (soft delete)",
		"deletedCount": count,
		"type":         string(selector),
		"note":         "Tokens are hidden to prevent code reuse",
	})
}

// DeleteToken handles DELETE /tokens/:tokenId
func (h *TokenHandler) DeleteToken(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("tokenId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid token ID"})
		return
	}

	actor, ok := actorID(c)
	if !ok {
		return
	}

	token, err := h.tokenService.DeleteToken(c.Request.Context(), id, actor)
	if err != nil {
		if errors.Is(err, models.ErrTokenNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Token not found"})
			return
		}
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Token deleted successfully (soft delete)",
		"tokenCode": token.TokenCode,
		"note":      "Token is hidden to prevent code reuse",
	})
}

// TokenCodeRequest is the body of the public validate and check-history
// endpoints
type TokenCodeRequest struct {
	TokenCode string `json:"tokenCode" binding:"required"`
}

// Validate handles POST /tokens/validate (public). Read-only: this is the
// status probe callers should use after an indeterminate spin timeout.
func (h *TokenHandler) Validate(c *gin.Context) {
	var req TokenCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Token code is required"})
		return
	}

	token, err := h.spinService.ValidateToken(c.Request.Context(), req.TokenCode)
	if err != nil {
		if errors.Is(err, models.ErrTokenNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Token not found", "reason": "invalid"})
			return
		}
		abortWithError(c, err)
		return
	}

	switch token.Status(time.Now()) {
	case models.TokenStatusDeleted:
		c.JSON(http.StatusGone, gin.H{"message": "Token has been deactivated", "reason": "deleted"})
	case models.TokenStatusUsed:
		c.JSON(http.StatusGone, gin.H{"message": "Token has already been used", "reason": "used", "usedAt": token.UsedAt})
	case models.TokenStatusExpired:
		c.JSON(http.StatusGone, gin.H{"message": "Token has expired", "reason": "expired", "expiresAt": token.ExpiresAt})
	default:
		c.JSON(http.StatusOK, gin.H{
			"valid":     true,
			"tokenId":   token.ID,
			"expiresAt": token.ExpiresAt,
			"status":    models.TokenStatusActive,
		})
	}
}

// CheckHistory handles POST /tokens/check-history (public)
func (h *TokenHandler) CheckHistory(c *gin.Context) {
	var req TokenCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Token code is required"})
		return
	}

	token, err := h.spinService.CheckTokenHistory(c.Request.Context(), req.TokenCode)
	if err != nil {
		if errors.Is(err, models.ErrTokenNotFound) {
			c.JSON(http.StatusOK, gin.H{"exists": false, "message": "Token code never existed"})
			return
		}
		abortWithError(c, err)
		return
	}

	status := token.Status(time.Now())
	resp := gin.H{
		"exists":    true,
		"status":    status,
		"isUsed":    token.IsUsed,
		"isDeleted": token.IsDeleted,
		"createdAt": token.CreatedAt,
		"expiresAt": token.ExpiresAt,
	}
	switch status {
	case models.TokenStatusUsed:
		resp["usedAt"] = token.UsedAt
		resp["message"] = "This token was already used"
	case models.TokenStatusDeleted:
		resp["deletedAt"] = token.DeletedAt
		resp["message"] = "This token was deleted/deactivated"
	case models.TokenStatusExpired:
		resp["message"] = "This token has expired"
	default:
		resp["message"] = "Token is valid and available"
	}

	c.JSON(http.StatusOK, resp)
}
