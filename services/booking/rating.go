package booking

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"vendora/models"
	"vendora/utils"
)

// Rate records a one-time rating on a completed booking, then recomputes the
// resource's and vendor's averages over all rated bookings referencing them.
// Full recompute rather than incremental: O(n) per rating event, but immune
// to drift.
func (svc *DefaultBookingService) Rate(ctx context.Context, req RateBookingRequest) error {
	if req.Rating < 1 || req.Rating > 5 {
		return &ValidationError{Field: "rating", Reason: "must be between 1 and 5"}
	}

	matched, err := svc.Repo.Rate(ctx, req.BookingID, req.ClientID, req.Rating, req.Review)
	if err != nil {
		return err
	}
	if !matched {
		current, err := svc.Repo.GetByBookingID(ctx, req.BookingID)
		if err != nil {
			return &BookingNotFoundError{Ref: req.BookingID}
		}
		if current.Rated {
			return &InvalidTransitionError{BookingID: req.BookingID, Reason: "booking is already rated"}
		}
		return &InvalidTransitionError{
			BookingID: req.BookingID,
			Reason:    fmt.Sprintf("only completed bookings can be rated (status %q)", current.Status),
		}
	}

	booking, err := svc.Repo.GetByBookingID(ctx, req.BookingID)
	if err != nil {
		return fmt.Errorf("rated booking lookup failed: %w", err)
	}
	svc.recomputeRatings(ctx, booking)
	return nil
}

// recomputeRatings refreshes the stored averages for the booked resource and
// its owning vendor. Aggregate failures are logged, not surfaced: the rating
// itself is already durably recorded.
func (svc *DefaultBookingService) recomputeRatings(ctx context.Context, booking *models.Booking) {
	logger := utils.GetLogger()

	if booking.BookingType == models.BookingTypeService {
		avg, count, err := svc.Repo.AverageRating(ctx, "service_id", booking.ServiceID)
		if err != nil {
			logger.Error("service rating recompute failed",
				zap.String("serviceID", booking.ServiceID), zap.Error(err))
		} else if err := svc.Catalog.SetServiceRating(ctx, booking.ServiceID, avg, count); err != nil {
			logger.Error("service rating write failed",
				zap.String("serviceID", booking.ServiceID), zap.Error(err))
		}
	}

	avg, count, err := svc.Repo.AverageRating(ctx, "vendor_id", booking.VendorID)
	if err != nil {
		logger.Error("vendor rating recompute failed",
			zap.String("vendorID", booking.VendorID), zap.Error(err))
		return
	}
	if err := svc.Catalog.SetVendorRating(ctx, booking.VendorID, avg, count); err != nil {
		logger.Error("vendor rating write failed",
			zap.String("vendorID", booking.VendorID), zap.Error(err))
	}
}
