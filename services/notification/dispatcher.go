package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"vendora/models"
	"vendora/utils"
)

// TypeEmailSend is the asynq task type for queued transactional emails.
const TypeEmailSend = "notify:email"

// AsynqNotificationService enqueues email tasks on the redis-backed queue so
// request and webhook handlers never wait on SMTP.
type AsynqNotificationService struct {
	Client *asynq.Client
}

func NewAsynqNotificationService(client *asynq.Client) *AsynqNotificationService {
	return &AsynqNotificationService{Client: client}
}

func (s *AsynqNotificationService) enqueue(ctx context.Context, payload models.EmailPayload) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode email payload: %w", err)
	}
	task := asynq.NewTask(TypeEmailSend, encoded)
	if _, err := s.Client.EnqueueContext(ctx, task, asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("failed to enqueue email task: %w", err)
	}
	utils.GetLogger().Debug("email task enqueued",
		zap.String("template", payload.Template), zap.String("to", payload.To))
	return nil
}

func bookingData(b *models.Booking) map[string]string {
	return map[string]string{
		"bookingID": b.BookingID,
		"startDate": b.StartDate.Format("2006-01-02"),
		"endDate":   b.EndDate.Format("2006-01-02"),
		"price":     fmt.Sprintf("%.2f", b.Price),
		"status":    b.Status,
	}
}

func (s *AsynqNotificationService) SendBookingCreated(ctx context.Context, to string, booking *models.Booking) error {
	return s.enqueue(ctx, models.EmailPayload{
		To:       to,
		Subject:  fmt.Sprintf("Booking %s received", booking.BookingID),
		Template: "booking_created",
		Data:     bookingData(booking),
	})
}

func (s *AsynqNotificationService) SendBookingConfirmed(ctx context.Context, to string, booking *models.Booking) error {
	return s.enqueue(ctx, models.EmailPayload{
		To:       to,
		Subject:  fmt.Sprintf("Booking %s confirmed", booking.BookingID),
		Template: "booking_confirmed",
		Data:     bookingData(booking),
	})
}

func (s *AsynqNotificationService) SendVendorBookingAlert(ctx context.Context, to string, booking *models.Booking) error {
	return s.enqueue(ctx, models.EmailPayload{
		To:       to,
		Subject:  fmt.Sprintf("New booking %s", booking.BookingID),
		Template: "vendor_booking_alert",
		Data:     bookingData(booking),
	})
}

func (s *AsynqNotificationService) SendBookingCancelled(ctx context.Context, to string, booking *models.Booking) error {
	return s.enqueue(ctx, models.EmailPayload{
		To:       to,
		Subject:  fmt.Sprintf("Booking %s cancelled", booking.BookingID),
		Template: "booking_cancelled",
		Data:     bookingData(booking),
	})
}
