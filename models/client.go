package models

import "time"

// Client is a lightweight record of a booking customer, created on first
// contact. Full account management lives outside this core.
type Client struct {
	ID            string     `bson:"id" json:"id"`
	Name          string     `bson:"name" json:"name"`
	Email         string     `bson:"email" json:"email"` // Unique
	Phone         string     `bson:"phone" json:"phone"`
	BookingCount  int        `bson:"booking_count" json:"bookingCount"`
	LastBookingAt *time.Time `bson:"last_booking_at,omitempty" json:"lastBookingAt,omitempty"`
	CreatedAt     time.Time  `bson:"created_at" json:"createdAt"`
}
