// File: sudzy/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sudzy/config"
	"sudzy/cron"
	"sudzy/database"
	bookingRepo "sudzy/database/repository/booking"
	paymentRepo "sudzy/database/repository/payment"
	serviceRepo "sudzy/database/repository/service"
	"sudzy/handlers"
	"sudzy/middleware"
	"sudzy/routes"
	"sudzy/services/booking"
	"sudzy/services/notification"
	"sudzy/services/payment"
	"sudzy/services/tasks"
	"sudzy/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	loc, err := time.LoadLocation(config.AppConfig.Timezone)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid timezone %q: %v", config.AppConfig.Timezone, err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	// repositories.
	bookings := bookingRepo.NewMongoBookingRepo()
	payments := paymentRepo.NewMongoPaymentRepo()
	services := serviceRepo.NewMongoServiceRepo()

	if err := bookingRepo.EnsureBookingIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to create booking indexes: %v", err)
	}
	if err := services.Seed(); err != nil {
		logger.Sugar().Fatalf("main: failed to seed service catalog: %v", err)
	}

	// external gateways.
	gateway := payment.NewStripeGateway(config.AppConfig.StripeSecretKey, logger)
	notifier := notification.NewDefaultNotifier(notification.Config{
		MailgunAPIKey:     config.AppConfig.MailgunAPIKey,
		MailgunDomain:     config.AppConfig.MailgunDomain,
		FromEmail:         config.AppConfig.FromEmail,
		TwilioAccountSID:  config.AppConfig.TwilioAccountSID,
		TwilioAuthToken:   config.AppConfig.TwilioAuthToken,
		TwilioPhoneNumber: config.AppConfig.TwilioPhoneNumber,
		DriverEmail:       config.AppConfig.DriverEmail,
		DriverPhone:       config.AppConfig.DriverPhone,
	}, logger)
	dispatcher := notification.NewDispatcher(notifier, logger)

	// deferred reminders.
	asynqClient := asynq.NewClient(tasks.ReminderQueueOpt())
	defer asynqClient.Close()
	reminderScheduler := tasks.NewAsynqReminderScheduler(asynqClient, loc, logger)

	availabilityCache := booking.NewAvailabilityCache(utils.GetCacheClient(), logger)

	// services.
	lifecycle := &booking.DefaultLifecycleService{
		Bookings:  bookings,
		Payments:  payments,
		Services:  services,
		Gateway:   gateway,
		Events:    dispatcher,
		Reminders: reminderScheduler,
		Cache:     availabilityCache,
		Logger:    logger,
	}
	availability := &booking.DefaultAvailabilityService{
		Repo:   bookings,
		Cache:  availabilityCache,
		Logger: logger,
	}

	// handlers.
	handlerBundle := &routes.HandlerBundle{
		Booking:      handlers.NewBookingHandler(lifecycle, availability, logger),
		Service:      handlers.NewServiceHandler(services),
		Admin:        handlers.NewAdminHandler(lifecycle, logger),
		PaymentAdmin: handlers.NewPaymentAdminHandler(lifecycle, payments, gateway, logger),
		Webhook:      handlers.NewStripeWebhookHandler(lifecycle, config.AppConfig.StripeWebhookSecret, logger),
		AdminToken:   config.AppConfig.AdminToken,
	}
	routes.RegisterRoutes(router, handlerBundle)

	// background workers.
	cron.InitReminderWorker(bookings, notifier)
	cron.ResyncReminders(bookings, reminderScheduler, loc)
	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
