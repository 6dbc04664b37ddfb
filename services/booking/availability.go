package booking

import (
	"context"
	"time"

	"vendora/models"
)

// Overlaps reports whether two half-open [start, end) windows intersect.
// Touching endpoints do not conflict: a booking ending on the 13th leaves the
// 13th free.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// CheckAvailability returns the conflicting booking occupying the requested
// window, or nil when the resource is free. The check is a single query
// against current state; the authoritative guard is the reservation
// transaction at creation time.
func (svc *DefaultBookingService) CheckAvailability(ctx context.Context, resourceID string, startDate time.Time, duration int) (*models.Booking, error) {
	if duration <= 0 {
		return nil, &ValidationError{Field: "duration", Reason: "must be at least 1"}
	}
	end := startDate.AddDate(0, 0, duration)
	return svc.Repo.FindConflict(ctx, resourceID, startDate, end)
}
