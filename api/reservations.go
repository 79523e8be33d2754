package api

import (
	"net/http"

	"github.com/Domenick1991/resourcebooking/internal/domain"
	"github.com/Domenick1991/resourcebooking/internal/scheduling"
	"github.com/Domenick1991/resourcebooking/internal/service/reservation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReservationHandler struct {
	service reservation.ReservationUseCase
	logger  *zap.Logger
}

type listReservationsResponse struct {
	Success bool                     `json:"success"`
	Data    []domain.ReservationView `json:"data"`
	Count   int                      `json:"count"`
}

type reservationResponse struct {
	Success bool                `json:"success"`
	Data    *domain.Reservation `json:"data,omitempty"`
	Message string              `json:"message,omitempty"`
}

type reservationViewResponse struct {
	Success bool                    `json:"success"`
	Data    *domain.ReservationView `json:"data"`
}

func NewReservationHandler(service reservation.ReservationUseCase, logger *zap.Logger) *ReservationHandler {
	return &ReservationHandler{service: service, logger: logger}
}

func (h *ReservationHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("", h.create)
	router.GET("/:id", h.get)
	router.DELETE("/:id", h.cancel)
}

func (h *ReservationHandler) list(c *gin.Context) {
	views, err := h.service.ListReservations(c.Request.Context(), scheduling.Filter{
		Resource: c.Query("resource"),
		Date:     c.Query("date"),
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, listReservationsResponse{Success: true, Data: views, Count: len(views)})
}

func (h *ReservationHandler) create(c *gin.Context) {
	var req reservation.CreateReservationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	res, err := h.service.CreateReservation(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, reservationResponse{
		Success: true,
		Data:    res,
		Message: "Booking created successfully",
	})
}

func (h *ReservationHandler) get(c *gin.Context) {
	view, err := h.service.GetReservation(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, reservationViewResponse{Success: true, Data: view})
}

func (h *ReservationHandler) cancel(c *gin.Context) {
	res, err := h.service.CancelReservation(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, reservationResponse{
		Success: true,
		Data:    res,
		Message: "Booking cancelled successfully",
	})
}
