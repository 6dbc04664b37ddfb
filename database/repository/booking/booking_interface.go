package bookingRepo

import (
	"context"
	"time"

	"vendora/models"
)

// BookingRepository defines persistence for the booking lifecycle. Every
// multi-actor transition is a conditional update keyed on the expected
// current status; callers get back whether the condition matched rather than
// trusting an in-process read.
type BookingRepository interface {
	// ReserveBooking re-checks availability and inserts the booking inside a
	// single session transaction. A non-nil conflict means the slot was taken.
	ReserveBooking(ctx context.Context, booking *models.Booking) (conflict *models.Booking, err error)
	// ReleaseReservation removes a reservation whose payment initiation failed.
	ReleaseReservation(ctx context.Context, id string) error
	// AttachTransactionReference records the gateway's transaction reference
	// on a freshly reserved booking.
	AttachTransactionReference(ctx context.Context, id, transactionRef string) error

	GetByBookingID(ctx context.Context, bookingID string) (*models.Booking, error)
	GetByPaymentReference(ctx context.Context, paymentRef string) (*models.Booking, error)
	GetByTransactionReference(ctx context.Context, transactionRef string) (*models.Booking, error)
	ListByClient(ctx context.Context, clientID string) ([]models.Booking, error)

	// FindConflict returns the first non-terminal booking on the resource
	// overlapping the half-open [start, end) window, or nil.
	FindConflict(ctx context.Context, resourceID string, start, end time.Time) (*models.Booking, error)

	// Conditional transitions. The bool reports whether the filter matched.
	ConfirmPayment(ctx context.Context, bookingID string) (bool, error)
	FailPayment(ctx context.Context, bookingID string) (bool, error)
	Accept(ctx context.Context, bookingID, vendorID string) (bool, error)
	RejectByVendor(ctx context.Context, bookingID, vendorID string) (bool, error)
	CancelByVendor(ctx context.Context, bookingID, vendorID string) (bool, error)
	CancelByClient(ctx context.Context, bookingID, clientID string) (bool, error)
	Complete(ctx context.Context, bookingID, clientID string) (bool, error)
	Rate(ctx context.Context, bookingID, clientID string, rating int, review string) (bool, error)

	// CompleteElapsed bulk-transitions upcoming/in-progress bookings whose
	// service period has elapsed. Returns the number of bookings completed.
	CompleteElapsed(ctx context.Context, now time.Time) (int64, error)

	// AverageRating recomputes the mean rating over all rated bookings
	// matching the given reference field ("service_id" or "vendor_id").
	AverageRating(ctx context.Context, refField, refID string) (avg float64, count int, err error)
}
