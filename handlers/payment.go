package handlers

import (
	"net/http"

	paymentRepo "sudzy/database/repository/payment"
	"sudzy/services/booking"
	"sudzy/services/payment"
	"sudzy/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentAdminHandler exposes per-payment operator actions.
type PaymentAdminHandler struct {
	Lifecycle booking.LifecycleService
	Payments  paymentRepo.PaymentRepository
	Gateway   payment.Gateway
	Logger    *zap.Logger
}

func NewPaymentAdminHandler(lifecycle booking.LifecycleService, payments paymentRepo.PaymentRepository, gw payment.Gateway, logger *zap.Logger) *PaymentAdminHandler {
	return &PaymentAdminHandler{Lifecycle: lifecycle, Payments: payments, Gateway: gw, Logger: logger}
}

func paymentErrStatus(err error) int {
	switch {
	case booking.IsNotFound(err):
		return http.StatusNotFound
	case booking.IsInvalidStateTransition(err):
		return http.StatusConflict
	case booking.IsGatewayError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// CaptureRemaining charges the balance after the wash is done.
func (h *PaymentAdminHandler) CaptureRemaining(c *gin.Context) {
	if err := h.Lifecycle.CaptureRemaining(c.Request.Context(), c.Param("id")); err != nil {
		utils.JSONError(c, paymentErrStatus(err), "capture failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "fully_captured"})
}

type refundRequest struct {
	Reason string `json:"reason"`
}

// RefundDeposit refunds the deposit for a service issue.
func (h *PaymentAdminHandler) RefundDeposit(c *gin.Context) {
	var req refundRequest
	// Body is optional; an empty reason gets a default.
	_ = c.ShouldBindJSON(&req)
	reason := req.Reason
	if reason == "" {
		reason = "Service issue"
	}

	if err := h.Lifecycle.RefundDeposit(c.Request.Context(), c.Param("id"), reason); err != nil {
		utils.JSONError(c, paymentErrStatus(err), "refund failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deposit_refunded"})
}

// CancelAuthorization releases an uncaptured hold.
func (h *PaymentAdminHandler) CancelAuthorization(c *gin.Context) {
	if err := h.Lifecycle.CancelAuthorization(c.Request.Context(), c.Param("id")); err != nil {
		utils.JSONError(c, paymentErrStatus(err), "cancel authorization failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// PaymentStatus fetches the processor's live view of a payment, for
// operators chasing a discrepancy.
func (h *PaymentAdminHandler) PaymentStatus(c *gin.Context) {
	p, err := h.Payments.GetByID(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch payment", err.Error())
		return
	}
	if p == nil {
		utils.JSONError(c, http.StatusNotFound, "payment not found", c.Param("id"))
		return
	}

	snap, err := h.Gateway.Status(c.Request.Context(), p)
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "failed to fetch gateway status", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": p, "gateway": snap})
}
