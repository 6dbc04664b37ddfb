package cron

import (
	"context"
	"testing"
	"time"

	"github.com/hibiken/asynq"

	"vendora/models"
)

// sweepOnlyRepo stubs the repository; only CompleteElapsed carries behavior.
type sweepOnlyRepo struct {
	sweepCalls int
	lastNow    time.Time
}

func (r *sweepOnlyRepo) CompleteElapsed(ctx context.Context, now time.Time) (int64, error) {
	r.sweepCalls++
	r.lastNow = now
	return 2, nil
}

func (r *sweepOnlyRepo) ReserveBooking(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	return nil, nil
}
func (r *sweepOnlyRepo) ReleaseReservation(ctx context.Context, id string) error { return nil }
func (r *sweepOnlyRepo) AttachTransactionReference(ctx context.Context, id, ref string) error {
	return nil
}
func (r *sweepOnlyRepo) GetByBookingID(ctx context.Context, id string) (*models.Booking, error) {
	return nil, nil
}
func (r *sweepOnlyRepo) GetByPaymentReference(ctx context.Context, ref string) (*models.Booking, error) {
	return nil, nil
}
func (r *sweepOnlyRepo) GetByTransactionReference(ctx context.Context, ref string) (*models.Booking, error) {
	return nil, nil
}
func (r *sweepOnlyRepo) ListByClient(ctx context.Context, id string) ([]models.Booking, error) {
	return nil, nil
}
func (r *sweepOnlyRepo) FindConflict(ctx context.Context, id string, start, end time.Time) (*models.Booking, error) {
	return nil, nil
}
func (r *sweepOnlyRepo) ConfirmPayment(ctx context.Context, id string) (bool, error) {
	return false, nil
}
func (r *sweepOnlyRepo) FailPayment(ctx context.Context, id string) (bool, error) {
	return false, nil
}
func (r *sweepOnlyRepo) Accept(ctx context.Context, id, vendorID string) (bool, error) {
	return false, nil
}
func (r *sweepOnlyRepo) RejectByVendor(ctx context.Context, id, vendorID string) (bool, error) {
	return false, nil
}
func (r *sweepOnlyRepo) CancelByVendor(ctx context.Context, id, vendorID string) (bool, error) {
	return false, nil
}
func (r *sweepOnlyRepo) CancelByClient(ctx context.Context, id, clientID string) (bool, error) {
	return false, nil
}
func (r *sweepOnlyRepo) Complete(ctx context.Context, id, clientID string) (bool, error) {
	return false, nil
}
func (r *sweepOnlyRepo) Rate(ctx context.Context, id, clientID string, rating int, review string) (bool, error) {
	return false, nil
}
func (r *sweepOnlyRepo) AverageRating(ctx context.Context, field, id string) (float64, int, error) {
	return 0, 0, nil
}

func TestSweepTaskRunsCompletion(t *testing.T) {
	repo := &sweepOnlyRepo{}
	handler := handleSweepTask(repo)

	task := asynq.NewTask(TypeCompletionSweep, nil)
	if err := handler(context.Background(), task); err != nil {
		t.Fatalf("sweep handler: %v", err)
	}
	if repo.sweepCalls != 1 {
		t.Errorf("CompleteElapsed called %d times, want 1", repo.sweepCalls)
	}
	if repo.lastNow.IsZero() {
		t.Error("sweep must pass the current clock")
	}
}
