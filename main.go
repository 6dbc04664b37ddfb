// File: vendora/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"vendora/config"
	"vendora/cron"
	"vendora/database"
	bookingRepo "vendora/database/repository/booking"
	catalogRepo "vendora/database/repository/catalog"
	clientRepo "vendora/database/repository/client"
	"vendora/handlers"
	"vendora/middleware"
	"vendora/routes"
	"vendora/services/booking"
	"vendora/services/notification"
	"vendora/services/payment"
	"vendora/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitVerifyCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(routes.CORSMiddleware())

	// repositories.
	bookings := bookingRepo.NewMongoBookingRepo()
	catalog := catalogRepo.NewMongoCatalogRepo()
	clients := clientRepo.NewMongoClientRepo()

	if err := bookings.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure booking indexes: %v", err)
	}
	if err := clients.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure client indexes: %v", err)
	}

	// services.
	gateway := payment.NewRESTGatewayClient(
		config.AppConfig.GatewayBaseURL,
		config.AppConfig.GatewaySecretKey,
		config.AppConfig.GatewayTimeout,
	)

	taskClient := cron.NewTaskClient()
	defer taskClient.Close()
	notifier := notification.NewAsynqNotificationService(taskClient)

	bookingService := &booking.DefaultBookingService{
		Repo:     bookings,
		Catalog:  catalog,
		Clients:  clients,
		Gateway:  gateway,
		Notifier: notifier,
		Cache:    utils.GetCacheClient(),
	}

	bookingHandler := handlers.NewBookingHandler(bookingService, logger)

	// Register routes.
	routes.RegisterHealthRoute(router)
	routes.RegisterBookingRoutes(router, bookingHandler)

	// Background worker: email delivery and the completion sweep.
	mailer := notification.NewSMTPMailer()
	cron.InitWorker(mailer, bookings)
	cron.InitCompletionScheduler(bookings)

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
