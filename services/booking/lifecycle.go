package booking

import (
	"context"

	"go.uber.org/zap"

	"vendora/models"
	"vendora/utils"
)

// Accept transitions a booking into in_progress on behalf of its vendor. The
// repository filter carries booking id, vendor ownership and status in a
// single conditional update; when two accepts race, exactly one matches.
func (svc *DefaultBookingService) Accept(ctx context.Context, bookingID, vendorID string) error {
	matched, err := svc.Repo.Accept(ctx, bookingID, vendorID)
	if err != nil {
		return err
	}
	if !matched {
		return &AlreadyAcceptedError{BookingID: bookingID}
	}

	booking, err := svc.Repo.GetByBookingID(ctx, bookingID)
	if err != nil {
		utils.GetLogger().Error("accepted booking vanished before stats update",
			zap.String("bookingID", bookingID), zap.Error(err))
		return nil
	}
	if err := svc.Clients.IncrementBookingStats(ctx, booking.ClientID); err != nil {
		utils.GetLogger().Error("failed to increment client booking stats",
			zap.String("bookingID", bookingID), zap.Error(err))
	}
	return nil
}

// Reject cancels a booking the vendor has not started working on.
func (svc *DefaultBookingService) Reject(ctx context.Context, bookingID, vendorID string) error {
	matched, err := svc.Repo.RejectByVendor(ctx, bookingID, vendorID)
	if err != nil {
		return err
	}
	if !matched {
		return &InvalidTransitionError{BookingID: bookingID, Reason: "booking cannot be rejected in its current state"}
	}
	svc.notifyCancelled(ctx, bookingID)
	return nil
}

// CancelByVendor cancels any of the vendor's non-terminal bookings.
func (svc *DefaultBookingService) CancelByVendor(ctx context.Context, bookingID, vendorID string) error {
	matched, err := svc.Repo.CancelByVendor(ctx, bookingID, vendorID)
	if err != nil {
		return err
	}
	if !matched {
		return &InvalidTransitionError{BookingID: bookingID, Reason: "booking cannot be cancelled in its current state"}
	}
	svc.notifyCancelled(ctx, bookingID)
	return nil
}

// CancelByClient cancels any of the client's non-terminal bookings.
func (svc *DefaultBookingService) CancelByClient(ctx context.Context, bookingID, clientID string) error {
	matched, err := svc.Repo.CancelByClient(ctx, bookingID, clientID)
	if err != nil {
		return err
	}
	if !matched {
		return &InvalidTransitionError{BookingID: bookingID, Reason: "booking cannot be cancelled in its current state"}
	}
	svc.notifyCancelled(ctx, bookingID)
	return nil
}

// Complete finalizes an in-progress booking on behalf of its client.
func (svc *DefaultBookingService) Complete(ctx context.Context, bookingID, clientID string) error {
	matched, err := svc.Repo.Complete(ctx, bookingID, clientID)
	if err != nil {
		return err
	}
	if !matched {
		return &InvalidTransitionError{BookingID: bookingID, Reason: "only in-progress bookings can be completed"}
	}
	return nil
}

// GetBooking returns a booking by its human-readable id.
func (svc *DefaultBookingService) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := svc.Repo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, &BookingNotFoundError{Ref: bookingID}
	}
	return booking, nil
}

// ListClientBookings returns a client's bookings, newest first.
func (svc *DefaultBookingService) ListClientBookings(ctx context.Context, clientID string) ([]models.Booking, error) {
	return svc.Repo.ListByClient(ctx, clientID)
}

func (svc *DefaultBookingService) notifyCancelled(ctx context.Context, bookingID string) {
	logger := utils.GetLogger()

	booking, err := svc.Repo.GetByBookingID(ctx, bookingID)
	if err != nil {
		logger.Error("cancelled booking not found for notification",
			zap.String("bookingID", bookingID), zap.Error(err))
		return
	}
	client, err := svc.Clients.GetByID(ctx, booking.ClientID)
	if err != nil {
		logger.Error("cannot notify client of cancelled booking",
			zap.String("bookingID", bookingID), zap.Error(err))
		return
	}
	if err := svc.Notifier.SendBookingCancelled(ctx, client.Email, booking); err != nil {
		logger.Warn("failed to enqueue booking-cancelled email",
			zap.String("bookingID", bookingID), zap.Error(err))
	}
}
