package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"vendora/models"
)

// conditionalUpdate runs a single UpdateOne and reports whether the filter
// matched. Webhook delivery, client polling and vendor actions race on the
// same booking, so every transition goes through here rather than
// read-modify-write.
func (repo *MongoBookingRepo) conditionalUpdate(ctx context.Context, filter, set bson.M) (bool, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.coll.UpdateOne(ctxWithTimeout, filter, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("conditional update failed: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// ConfirmPayment transitions pending → upcoming with payment completed. A
// false return means the booking was not pending anymore (already confirmed,
// cancelled, or failed); the caller decides from its current state.
func (repo *MongoBookingRepo) ConfirmPayment(ctx context.Context, bookingID string) (bool, error) {
	return repo.conditionalUpdate(ctx,
		bson.M{"booking_id": bookingID, "status": models.BookingStatusPending},
		bson.M{
			"status":         models.BookingStatusUpcoming,
			"payment_status": models.PaymentStatusCompleted,
		},
	)
}

// FailPayment transitions pending/upcoming → failed with payment failed.
// Re-applying to an already failed booking matches nothing, keeping the
// operation idempotent.
func (repo *MongoBookingRepo) FailPayment(ctx context.Context, bookingID string) (bool, error) {
	return repo.conditionalUpdate(ctx,
		bson.M{
			"booking_id": bookingID,
			"status":     bson.M{"$in": []string{models.BookingStatusPending, models.BookingStatusUpcoming}},
		},
		bson.M{
			"status":         models.BookingStatusFailed,
			"payment_status": models.PaymentStatusFailed,
		},
	)
}

// Accept transitions a vendor's booking into in_progress. The filter carries
// booking id, vendor ownership and the expected status set in one statement,
// so two concurrent accepts resolve to exactly one match.
func (repo *MongoBookingRepo) Accept(ctx context.Context, bookingID, vendorID string) (bool, error) {
	return repo.conditionalUpdate(ctx,
		bson.M{
			"booking_id": bookingID,
			"vendor_id":  vendorID,
			"status": bson.M{"$nin": []string{
				models.BookingStatusInProgress,
				models.BookingStatusCompleted,
				models.BookingStatusCancelled,
				models.BookingStatusFailed,
			}},
		},
		bson.M{"status": models.BookingStatusInProgress},
	)
}

// RejectByVendor cancels a booking the vendor has not started working on.
func (repo *MongoBookingRepo) RejectByVendor(ctx context.Context, bookingID, vendorID string) (bool, error) {
	return repo.conditionalUpdate(ctx,
		bson.M{
			"booking_id": bookingID,
			"vendor_id":  vendorID,
			"status": bson.M{"$nin": []string{
				models.BookingStatusInProgress,
				models.BookingStatusCompleted,
				models.BookingStatusCancelled,
				models.BookingStatusFailed,
			}},
		},
		bson.M{"status": models.BookingStatusCancelled},
	)
}

// CancelByVendor cancels any of the vendor's non-terminal bookings.
func (repo *MongoBookingRepo) CancelByVendor(ctx context.Context, bookingID, vendorID string) (bool, error) {
	return repo.conditionalUpdate(ctx,
		bson.M{
			"booking_id": bookingID,
			"vendor_id":  vendorID,
			"status": bson.M{"$nin": []string{
				models.BookingStatusCompleted,
				models.BookingStatusCancelled,
				models.BookingStatusFailed,
			}},
		},
		bson.M{"status": models.BookingStatusCancelled},
	)
}

// CancelByClient cancels any of the client's non-terminal bookings.
func (repo *MongoBookingRepo) CancelByClient(ctx context.Context, bookingID, clientID string) (bool, error) {
	return repo.conditionalUpdate(ctx,
		bson.M{
			"booking_id": bookingID,
			"client_id":  clientID,
			"status": bson.M{"$nin": []string{
				models.BookingStatusCompleted,
				models.BookingStatusCancelled,
				models.BookingStatusFailed,
			}},
		},
		bson.M{"status": models.BookingStatusCancelled},
	)
}

// Complete transitions in_progress → completed for the owning client.
func (repo *MongoBookingRepo) Complete(ctx context.Context, bookingID, clientID string) (bool, error) {
	return repo.conditionalUpdate(ctx,
		bson.M{
			"booking_id": bookingID,
			"client_id":  clientID,
			"status":     models.BookingStatusInProgress,
		},
		bson.M{
			"status":       models.BookingStatusCompleted,
			"completed_at": time.Now(),
		},
	)
}

// Rate records a rating exactly once, only on a completed booking owned by
// the client.
func (repo *MongoBookingRepo) Rate(ctx context.Context, bookingID, clientID string, rating int, review string) (bool, error) {
	return repo.conditionalUpdate(ctx,
		bson.M{
			"booking_id": bookingID,
			"client_id":  clientID,
			"status":     models.BookingStatusCompleted,
			"rated":      false,
		},
		bson.M{
			"rated":              true,
			"rating":             rating,
			"review_description": review,
		},
	)
}
