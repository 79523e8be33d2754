package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/resourcebooking/internal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError maps service errors onto HTTP responses. Anything unrecognised
// is logged and reported as a 500.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	var validationErr *domain.ValidationError
	var conflictErr *domain.ConflictError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Validation failed",
			"details": validationErr.Errors,
		})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{
			"success":             false,
			"error":               "Booking conflict detected",
			"message":             conflictErr.Message,
			"conflictingBookings": conflictErr.ConflictingBookings,
		})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Reservation not found"})
	case errors.Is(err, domain.ErrPastReservation):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Cannot cancel past bookings"})
	case errors.Is(err, domain.ErrResourceBusy):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
	default:
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
	}
}
