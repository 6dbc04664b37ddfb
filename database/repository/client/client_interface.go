package clientRepo

import (
	"context"

	"vendora/models"
)

// ClientRepository manages the lightweight client records created on first
// booking contact.
type ClientRepository interface {
	GetByID(ctx context.Context, id string) (*models.Client, error)
	GetByEmail(ctx context.Context, email string) (*models.Client, error)
	GetByPhone(ctx context.Context, phone string) (*models.Client, error)
	Create(ctx context.Context, client *models.Client) error
	// IncrementBookingStats atomically bumps the booking counter and
	// last-booking timestamp.
	IncrementBookingStats(ctx context.Context, clientID string) error
}
