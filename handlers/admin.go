package handlers

import (
	"context"
	"net/http"

	"sudzy/services/booking"
	"sudzy/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler exposes the operator actions: bulk booking lifecycle moves
// and per-payment capture/refund. Bulk actions run each record
// independently; one failure never blocks the rest.
type AdminHandler struct {
	Lifecycle booking.LifecycleService
	Logger    *zap.Logger
}

func NewAdminHandler(lifecycle booking.LifecycleService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{Lifecycle: lifecycle, Logger: logger}
}

type bulkActionRequest struct {
	BookingIDs []string `json:"bookingIds" binding:"required,min=1"`
	Reason     string   `json:"reason"`
}

type bulkOutcome struct {
	BookingID string `json:"bookingId"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
}

func (h *AdminHandler) runBulk(c *gin.Context, action string, fn func(ctx context.Context, id, reason string) error) {
	var req bulkActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid bulk request", err.Error())
		return
	}

	outcomes := make([]bulkOutcome, 0, len(req.BookingIDs))
	succeeded := 0
	for _, id := range req.BookingIDs {
		out := bulkOutcome{BookingID: id, OK: true}
		if err := fn(c.Request.Context(), id, req.Reason); err != nil {
			out.OK = false
			out.Error = err.Error()
			h.Logger.Warn("bulk admin action failed for record",
				zap.String("action", action),
				zap.String("bookingId", id),
				zap.Error(err),
			)
		} else {
			succeeded++
		}
		outcomes = append(outcomes, out)
	}

	c.JSON(http.StatusOK, gin.H{
		"action":    action,
		"succeeded": succeeded,
		"failed":    len(req.BookingIDs) - succeeded,
		"results":   outcomes,
	})
}

// CancelBookings cancels each selected booking, unwinding its payment.
func (h *AdminHandler) CancelBookings(c *gin.Context) {
	h.runBulk(c, "cancel", func(ctx context.Context, id, reason string) error {
		if reason == "" {
			reason = "Cancelled by admin"
		}
		return h.Lifecycle.CancelBooking(ctx, id, reason)
	})
}

// CompleteBookings marks each selected booking completed.
func (h *AdminHandler) CompleteBookings(c *gin.Context) {
	h.runBulk(c, "complete", func(ctx context.Context, id, _ string) error {
		return h.Lifecycle.MarkCompleted(ctx, id)
	})
}

// NoShowBookings marks each selected booking as a no-show.
func (h *AdminHandler) NoShowBookings(c *gin.Context) {
	h.runBulk(c, "no_show", func(ctx context.Context, id, _ string) error {
		return h.Lifecycle.MarkNoShow(ctx, id)
	})
}
