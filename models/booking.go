package models

import "time"

// Booking lifecycle statuses. Completed, cancelled and failed are terminal.
const (
	BookingStatusPending    = "pending"
	BookingStatusUpcoming   = "upcoming"
	BookingStatusInProgress = "in_progress"
	BookingStatusCompleted  = "completed"
	BookingStatusCancelled  = "cancelled"
	BookingStatusFailed     = "failed"
)

// Payment settlement statuses.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Booking types discriminate which resource reference is populated.
const (
	BookingTypeService = "service"
	BookingTypeDriver  = "driver"
)

// Booking is the central record of a reservation and its payment settlement.
type Booking struct {
	ID          string `bson:"id" json:"id"`                   // Internal surrogate id (UUID)
	BookingID   string `bson:"booking_id" json:"bookingId"`    // Human-readable identifier, immutable
	BookingType string `bson:"booking_type" json:"bookingType"`

	ClientID  string `bson:"client_id" json:"clientId"`
	ServiceID string `bson:"service_id,omitempty" json:"serviceId,omitempty"` // Set when BookingType == service
	VendorID  string `bson:"vendor_id" json:"vendorId"`                       // Owning vendor, always resolved

	Price     float64   `bson:"price" json:"price"` // Agreed total, immutable once set
	Duration  int       `bson:"duration" json:"duration"`
	StartDate time.Time `bson:"start_date" json:"startDate"`
	EndDate   time.Time `bson:"end_date" json:"endDate"` // StartDate + Duration days
	Address   string    `bson:"address,omitempty" json:"address,omitempty"`
	State     string    `bson:"state,omitempty" json:"state,omitempty"`
	Time      string    `bson:"time,omitempty" json:"time,omitempty"` // "HH:MM"

	PaymentReference     string `bson:"payment_reference" json:"paymentReference"`
	TransactionReference string `bson:"transaction_reference,omitempty" json:"transactionReference,omitempty"`
	PaymentStatus        string `bson:"payment_status" json:"paymentStatus"`

	Status string `bson:"status" json:"status"`

	Rated             bool   `bson:"rated" json:"rated"`
	Rating            int    `bson:"rating,omitempty" json:"rating,omitempty"`
	ReviewDescription string `bson:"review_description,omitempty" json:"reviewDescription,omitempty"`

	CreatedAt   time.Time  `bson:"created_at" json:"createdAt"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
}

// ResourceID returns the identifier of the booked resource for availability checks.
func (b *Booking) ResourceID() string {
	if b.BookingType == BookingTypeService {
		return b.ServiceID
	}
	return b.VendorID
}

// IsTerminal reports whether no further status transitions are permitted.
func (b *Booking) IsTerminal() bool {
	switch b.Status {
	case BookingStatusCompleted, BookingStatusCancelled, BookingStatusFailed:
		return true
	}
	return false
}

// NonViableStatuses lists the statuses excluded from availability conflict
// checks: a cancelled or failed booking frees its slot.
func NonViableStatuses() []string {
	return []string{BookingStatusCancelled, BookingStatusFailed}
}
