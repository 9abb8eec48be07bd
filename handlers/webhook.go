package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"sudzy/services/booking"
	"sudzy/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// webhookMaxBody caps the webhook request body read.
const webhookMaxBody = 65536

// StripeWebhookHandler receives payment processor events and drives the
// pending -> confirmed / failed transitions.
type StripeWebhookHandler struct {
	Lifecycle     booking.LifecycleService
	WebhookSecret string
	Logger        *zap.Logger
}

func NewStripeWebhookHandler(lifecycle booking.LifecycleService, webhookSecret string, logger *zap.Logger) *StripeWebhookHandler {
	return &StripeWebhookHandler{Lifecycle: lifecycle, WebhookSecret: webhookSecret, Logger: logger}
}

func (h *StripeWebhookHandler) Handle(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, webhookMaxBody))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "failed to read webhook body", err.Error())
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), h.WebhookSecret)
	if err != nil {
		h.Logger.Warn("webhook signature verification failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "invalid webhook signature", err.Error())
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid event payload", err.Error())
			return
		}
		if err := h.Lifecycle.ConfirmDeposit(c.Request.Context(), intent.ID); err != nil {
			if booking.IsNotFound(err) {
				// Intents from other flows (e.g. the final off-session
				// charge) have no pending payment record; acknowledge.
				c.JSON(http.StatusOK, gin.H{"received": true})
				return
			}
			h.Logger.Error("webhook deposit confirmation failed",
				zap.String("intentId", intent.ID), zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "failed to confirm deposit", err.Error())
			return
		}

	case "payment_intent.payment_failed":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid event payload", err.Error())
			return
		}
		reason := "payment failed"
		if intent.LastPaymentError != nil && intent.LastPaymentError.Msg != "" {
			reason = intent.LastPaymentError.Msg
		}
		if err := h.Lifecycle.FailDeposit(c.Request.Context(), intent.ID, reason); err != nil && !booking.IsNotFound(err) {
			h.Logger.Error("webhook payment failure handling failed",
				zap.String("intentId", intent.ID), zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "failed to record payment failure", err.Error())
			return
		}

	default:
		h.Logger.Debug("ignoring webhook event", zap.String("type", string(event.Type)))
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
