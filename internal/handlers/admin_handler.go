package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/spinquest/spinwheel-backend/internal/models"
	"github.com/spinquest/spinwheel-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AdminHandler handles the dashboard surface: prize CRUD, the result ledger
// and headline stats
type AdminHandler struct {
	prizeService  services.PrizeService
	resultService services.ResultService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(prizeService services.PrizeService, resultService services.ResultService) *AdminHandler {
	return &AdminHandler{
		prizeService:  prizeService,
		resultService: resultService,
	}
}

// GetStats handles GET /admin/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.resultService.GetDashboardStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// PrizeRequest is the body of prize create/update requests
type PrizeRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Probability float64 `json:"probability"`
	Color       string  `json:"color"`
	IsActive    *bool   `json:"isActive"`
	Position    int     `json:"position"`
}

func (r *PrizeRequest) toPrize() *models.Prize {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &models.Prize{
		Name:        r.Name,
		Description: r.Description,
		Probability: r.Probability,
		Color:       r.Color,
		IsActive:    active,
		Position:    r.Position,
	}
}

// GetPrizes handles GET /admin/prizes
func (h *AdminHandler) GetPrizes(c *gin.Context) {
	prizes, err := h.prizeService.GetAllPrizes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, prizes)
}

// CreatePrize handles POST /admin/prizes
func (h *AdminHandler) CreatePrize(c *gin.Context) {
	var req PrizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	prize := req.toPrize()
	if err := h.prizeService.CreatePrize(c.Request.Context(), prize); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, prize)
}

// UpdatePrize handles PUT /admin/prizes/:prizeId
func (h *AdminHandler) UpdatePrize(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("prizeId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid prize ID"})
		return
	}

	var req PrizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	existing, err := h.prizeService.GetPrizeByID(c.Request.Context(), id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Prize not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	prize := req.toPrize()
	prize.ID = existing.ID
	prize.CreatedAt = existing.CreatedAt

	if err := h.prizeService.UpdatePrize(c.Request.Context(), prize); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Prize not found"})
			return
		}
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, prize)
}

// DeletePrize handles DELETE /admin/prizes/:prizeId
func (h *AdminHandler) DeletePrize(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("prizeId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid prize ID"})
		return
	}

	if err := h.prizeService.DeletePrize(c.Request.Context(), id); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Prize not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Prize deleted successfully"})
}

// GetResults handles GET /admin/results
func (h *AdminHandler) GetResults(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	results, pagination, err := h.resultService.GetResults(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results":    results,
		"pagination": pagination,
	})
}

// GetResultStats handles GET /admin/results/stats
func (h *AdminHandler) GetResultStats(c *gin.Context) {
	stats, err := h.resultService.GetResultStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// DeleteResult handles DELETE /admin/results/:resultId
func (h *AdminHandler) DeleteResult(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("resultId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid result ID"})
		return
	}

	if err := h.resultService.DeleteResult(c.Request.Context(), id); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Spin result not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Spin result deleted successfully"})
}
