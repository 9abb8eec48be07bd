package handlers

import (
	"net/http"

	"sudzy/services/booking"
	"sudzy/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the public booking endpoints.
type BookingHandler struct {
	Lifecycle    booking.LifecycleService
	Availability booking.AvailabilityService
	Logger       *zap.Logger
}

func NewBookingHandler(lifecycle booking.LifecycleService, availability booking.AvailabilityService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Lifecycle: lifecycle, Availability: availability, Logger: logger}
}

// CreateBooking creates a pending booking and opens the deposit payment
// intent. The response carries the client secret for the checkout form.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req booking.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid booking request", err.Error())
		return
	}

	result, err := h.Lifecycle.CreateBooking(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case booking.IsNotFound(err):
			status = http.StatusNotFound
		case booking.IsGatewayError(err):
			status = http.StatusBadGateway
		}
		utils.JSONError(c, status, "failed to create booking", err.Error())
		return
	}

	c.JSON(http.StatusCreated, result)
}

// GetBooking returns one booking with its payment.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, p, err := h.Lifecycle.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		if booking.IsNotFound(err) {
			utils.JSONError(c, http.StatusNotFound, "booking not found", err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch booking", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": b, "payment": p})
}

// GetAvailability returns the blocked slots per date for a range.
func (h *BookingHandler) GetAvailability(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		utils.JSONError(c, http.StatusBadRequest, "missing range", "both 'from' and 'to' query params are required (YYYY-MM-DD)")
		return
	}

	blocked, err := h.Availability.BlockedSlots(c.Request.Context(), from, to)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "failed to compute availability", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"unavailableSlots": blocked})
}
