package notification

import (
	"context"

	"vendora/models"
)

// NotificationService defines the transactional emails the booking lifecycle
// triggers. Implementations must be safe to call from reconciliation paths:
// failures are logged by callers, never allowed to block a status transition.
type NotificationService interface {
	// SendBookingCreated tells the client their booking is awaiting payment.
	SendBookingCreated(ctx context.Context, to string, booking *models.Booking) error
	// SendBookingConfirmed tells the client payment settled and the booking
	// is upcoming.
	SendBookingConfirmed(ctx context.Context, to string, booking *models.Booking) error
	// SendVendorBookingAlert tells the owning vendor a new paid booking
	// arrived.
	SendVendorBookingAlert(ctx context.Context, to string, booking *models.Booking) error
	// SendBookingCancelled tells the client the booking was cancelled.
	SendBookingCancelled(ctx context.Context, to string, booking *models.Booking) error
}
