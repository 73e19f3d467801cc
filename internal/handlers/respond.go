package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spinquest/spinwheel-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// reasonForError maps the redemption failure taxonomy onto HTTP statuses and
// stable reason codes for client messaging. Transient storage faults get 503
// so callers know a retry with the same code is safe; everything unknown is
// an opaque 500.
func reasonForError(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest, "invalid-input"
	case errors.Is(err, models.ErrTokenNotFound):
		return http.StatusNotFound, "invalid"
	case errors.Is(err, models.ErrTokenUsed):
		return http.StatusConflict, "used"
	case errors.Is(err, models.ErrTokenDeleted):
		return http.StatusGone, "deleted"
	case errors.Is(err, models.ErrTokenExpired):
		return http.StatusGone, "expired"
	case errors.Is(err, models.ErrNoSelectableOutcome):
		return http.StatusBadRequest, "no-prizes"
	case errors.Is(err, models.ErrTransient):
		return http.StatusServiceUnavailable, "transient"
	default:
		return http.StatusInternalServerError, "server-error"
	}
}

// abortWithError writes the mapped failure response
func abortWithError(c *gin.Context, err error) {
	status, reason := reasonForError(err)
	body := gin.H{"reason": reason}
	if status == http.StatusInternalServerError {
		body["message"] = "Server error"
	} else {
		body["message"] = err.Error()
	}
	c.JSON(status, body)
}

// actorID extracts the authenticated operator's ID set by the JWT middleware
func actorID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authenticated user"})
		return primitive.NilObjectID, false
	}
	return id, true
}
