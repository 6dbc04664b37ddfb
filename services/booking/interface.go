package booking

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	bookingRepo "vendora/database/repository/booking"
	catalogRepo "vendora/database/repository/catalog"
	clientRepo "vendora/database/repository/client"
	"vendora/models"
	"vendora/services/notification"
	"vendora/services/payment"
)

// CreateBookingRequest is the input for a new booking.
type CreateBookingRequest struct {
	ResourceID   string
	RetailPrice  float64
	Duration     int
	StartDate    time.Time
	Address      string
	State        string
	Time         string // "HH:MM"
	ClientName   string
	ClientNumber string
	ClientEmail  string
}

// CreateBookingResult carries the checkout handle back to the client.
type CreateBookingResult struct {
	Booking              *models.Booking
	PaymentURL           string
	PaymentReference     string
	TransactionReference string
}

// VerifyResult reports the outcome of a verification poll. AlreadyProcessed
// marks the idempotent no-op case, which is a success, not an error.
type VerifyResult struct {
	Booking          *models.Booking
	AlreadyProcessed bool
}

// RateBookingRequest is the input for rating a completed booking.
type RateBookingRequest struct {
	BookingID string
	ClientID  string
	Rating    int
	Review    string
}

// BookingService owns the booking lifecycle: creation, payment
// reconciliation, vendor/client transitions, rating, and availability.
type BookingService interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateBookingResult, error)
	VerifyPayment(ctx context.Context, transactionRef string) (*VerifyResult, error)
	HandleWebhook(ctx context.Context, event *models.WebhookEvent) error
	CheckAvailability(ctx context.Context, resourceID string, startDate time.Time, duration int) (*models.Booking, error)

	Accept(ctx context.Context, bookingID, vendorID string) error
	Reject(ctx context.Context, bookingID, vendorID string) error
	CancelByVendor(ctx context.Context, bookingID, vendorID string) error
	CancelByClient(ctx context.Context, bookingID, clientID string) error
	Complete(ctx context.Context, bookingID, clientID string) error
	Rate(ctx context.Context, req RateBookingRequest) error

	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	ListClientBookings(ctx context.Context, clientID string) ([]models.Booking, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo     bookingRepo.BookingRepository
	Catalog  catalogRepo.CatalogRepository
	Clients  clientRepo.ClientRepository
	Gateway  payment.GatewayClient
	Notifier notification.NotificationService
	// Cache deduplicates webhook deliveries. Optional: the conditional
	// updates are idempotent without it; the cache just skips repeat work.
	Cache *redis.Client
}
