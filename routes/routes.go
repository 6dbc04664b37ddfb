package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"vendora/handlers"
	"vendora/middleware"
)

// RegisterBookingRoutes registers all endpoints for the booking lifecycle.
func RegisterBookingRoutes(r *gin.Engine, bh *handlers.BookingHandler) {
	api := r.Group("/api/bookings")
	{
		// Public endpoints: creation, verification poll, availability probe,
		// and the gateway webhook.
		api.POST("/create", bh.CreateBooking)
		api.POST("/verify", bh.VerifyPayment)
		api.POST("/webhook", bh.PaymentWebhook)
		api.GET("/available", bh.CheckAvailability)
		api.GET("/:bookingID", bh.GetBooking)

		// Vendor actions.
		vendor := api.Group("")
		vendor.Use(middleware.JWTAuthVendorMiddleware())
		vendor.POST("/accept", bh.AcceptBooking)
		vendor.POST("/reject", bh.RejectBooking)
		vendor.POST("/vendor/cancel", bh.VendorCancelBooking)

		// Client actions.
		client := api.Group("")
		client.Use(middleware.JWTAuthClientMiddleware())
		client.POST("/cancel", bh.ClientCancelBooking)
		client.POST("/complete", bh.CompleteBooking)
		client.POST("/rate", bh.RateBooking)
		client.GET("/client/list", bh.ListClientBookings)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Vendora"})
	})
}

// CORSMiddleware returns the CORS policy shared by all routes.
func CORSMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	})
}
