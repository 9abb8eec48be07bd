package routes

import (
	"net/http"
	"time"

	"sudzy/handlers"
	"sudzy/middleware"
	"sudzy/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the constructed handlers for route registration.
type HandlerBundle struct {
	Booking      *handlers.BookingHandler
	Service      *handlers.ServiceHandler
	Admin        *handlers.AdminHandler
	PaymentAdmin *handlers.PaymentAdminHandler
	Webhook      *handlers.StripeWebhookHandler
	AdminToken   string
}

// RegisterRoutes wires all endpoints onto the router.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})

	api := r.Group("/api")
	{
		api.GET("/services", hb.Service.ListServices)
		api.GET("/availability", hb.Booking.GetAvailability)
		api.POST("/bookings", hb.Booking.CreateBooking)
		api.GET("/bookings/:id", hb.Booking.GetBooking)
	}

	// Processor webhook: authenticated by signature, not by token.
	r.POST("/api/stripe/webhook", hb.Webhook.Handle)

	admin := r.Group("/api/admin")
	admin.Use(middleware.AdminAuthMiddleware(hb.AdminToken))
	{
		admin.POST("/bookings/cancel", hb.Admin.CancelBookings)
		admin.POST("/bookings/complete", hb.Admin.CompleteBookings)
		admin.POST("/bookings/no-show", hb.Admin.NoShowBookings)

		admin.POST("/payments/:id/capture", hb.PaymentAdmin.CaptureRemaining)
		admin.POST("/payments/:id/refund", hb.PaymentAdmin.RefundDeposit)
		admin.POST("/payments/:id/cancel-authorization", hb.PaymentAdmin.CancelAuthorization)
		admin.GET("/payments/:id/status", hb.PaymentAdmin.PaymentStatus)
	}
}
