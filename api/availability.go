package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/resourcebooking/internal/domain"
	"github.com/Domenick1991/resourcebooking/internal/service/availability"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AvailabilityHandler struct {
	service availability.AvailabilityUseCase
	logger  *zap.Logger
}

func NewAvailabilityHandler(service availability.AvailabilityUseCase, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{service: service, logger: logger}
}

func (h *AvailabilityHandler) Register(router *gin.RouterGroup) {
	router.GET("/resources", h.resources)
	router.GET("/available-slots", h.availableSlots)
}

func (h *AvailabilityHandler) resources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": h.service.Resources()})
}

func (h *AvailabilityHandler) availableSlots(c *gin.Context) {
	query := availability.Query{
		Resource: c.Query("resource"),
		Date:     c.Query("date"),
	}
	if raw := c.Query("duration"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			writeError(c, h.logger, &domain.ValidationError{
				Errors: []string{"Duration must be a positive number of minutes"},
			})
			return
		}
		query.DurationMinutes = minutes
	}

	slots, err := h.service.AvailableSlots(c.Request.Context(), query)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": slots})
}
