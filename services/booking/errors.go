package booking

import (
	"fmt"

	"vendora/models"
)

// ValidationError is malformed or inconsistent input. Never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PricingMismatchError means the caller-supplied price does not equal the
// computed price. Exact equality, no tolerance: the mismatch message carries
// both figures so the client can resubmit correctly.
type PricingMismatchError struct {
	Expected  float64
	Submitted float64
}

func (e *PricingMismatchError) Error() string {
	return fmt.Sprintf("price mismatch: expected %.2f, submitted %.2f", e.Expected, e.Submitted)
}

// AvailabilityConflictError carries the booking already occupying the window.
type AvailabilityConflictError struct {
	Conflict *models.Booking
}

func (e *AvailabilityConflictError) Error() string {
	return fmt.Sprintf("resource unavailable: conflicts with booking %s (%s to %s)",
		e.Conflict.BookingID,
		e.Conflict.StartDate.Format("2006-01-02"),
		e.Conflict.EndDate.Format("2006-01-02"))
}

// ResourceNotFoundError means no service or driver vendor matched the id.
type ResourceNotFoundError struct {
	ResourceID string
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("no bookable resource found for id %s", e.ResourceID)
}

// InvalidResourceTypeError means a non-driver vendor was requested directly
// as a bookable resource.
type InvalidResourceTypeError struct {
	ResourceID string
}

func (e *InvalidResourceTypeError) Error() string {
	return fmt.Sprintf("vendor %s is not bookable as a resource", e.ResourceID)
}

// BookingNotFoundError means no booking matched the given reference.
type BookingNotFoundError struct {
	Ref string
}

func (e *BookingNotFoundError) Error() string {
	return fmt.Sprintf("no booking found for reference %s", e.Ref)
}

// InvalidTransitionError is a lifecycle action attempted from a state that
// forbids it.
type InvalidTransitionError struct {
	BookingID string
	Reason    string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition on booking %s: %s", e.BookingID, e.Reason)
}

// AlreadyAcceptedError means the conditional accept matched zero documents:
// another vendor action won the race or the booking is past acceptance.
type AlreadyAcceptedError struct {
	BookingID string
}

func (e *AlreadyAcceptedError) Error() string {
	return fmt.Sprintf("booking %s already accepted or not acceptable", e.BookingID)
}
