package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spinquest/spinwheel-backend/internal/models"
	"github.com/spinquest/spinwheel-backend/internal/services"
)

// WheelHandler handles the public wheel endpoints. Redemption is reachable
// without authentication on purpose: end users holding a token are not
// operators.
type WheelHandler struct {
	spinService services.SpinService
}

// NewWheelHandler creates a new WheelHandler
func NewWheelHandler(spinService services.SpinService) *WheelHandler {
	return &WheelHandler{
		spinService: spinService,
	}
}

// SpinRequest is the body of POST /wheel/spin
type SpinRequest struct {
	TokenCode string `json:"tokenCode" binding:"required"`
}

// GetPrizes handles GET /wheel/prizes
func (h *WheelHandler) GetPrizes(c *gin.Context) {
	prizes, err := h.spinService.GetActiveWheel(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	if prizes == nil {
		prizes = []*models.Prize{}
	}
	c.JSON(http.StatusOK, prizes)
}

// Spin handles POST /wheel/spin
func (h *WheelHandler) Spin(c *gin.Context) {
	var req SpinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Token code is required"})
		return
	}

	client := models.UsageContext{
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	}

	outcome, err := h.spinService.Spin(c.Request.Context(), req.TokenCode, client)
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := gin.H{
		"success":      true,
		"win":          outcome.Win,
		"displayIndex": outcome.DisplayIndex,
		"tokenUsed": gin.H{
			"code":   outcome.TokenCode,
			"usedAt": outcome.UsedAt,
		},
		"message": "Spin successful",
	}
	if outcome.Win {
		resp["prize"] = gin.H{
			"id":          outcome.Prize.ID,
			"name":        outcome.Prize.Name,
			"description": outcome.Prize.Description,
			"color":       outcome.Prize.Color,
			"probability": outcome.Prize.Probability,
		}
		resp["spinId"] = outcome.SpinID
	}

	c.JSON(http.StatusOK, resp)
}

// GetStats handles GET /wheel/stats
func (h *WheelHandler) GetStats(c *gin.Context) {
	stats, err := h.spinService.GetWheelStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Health handles GET /wheel/health
func (h *WheelHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"message":   "Wheel API is running",
		"timestamp": time.Now().UTC(),
	})
}
