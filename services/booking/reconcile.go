package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"vendora/models"
	"vendora/utils"
)

// Normalized payment outcomes. The gateway's status strings are matched
// case-insensitively.
const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
	outcomeUnknown = "unknown"
)

const webhookDedupTTL = 24 * time.Hour

func normalizeGatewayStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "successful", "success":
		return outcomeSuccess
	case "failed", "declined":
		return outcomeFailure
	default:
		return outcomeUnknown
	}
}

// VerifyPayment is the synchronous, client-initiated reconciliation path: it
// looks the booking up by transaction reference, polls the gateway, and
// applies the same reconciliation as the webhook path.
func (svc *DefaultBookingService) VerifyPayment(ctx context.Context, transactionRef string) (*VerifyResult, error) {
	if transactionRef == "" {
		return nil, &ValidationError{Field: "reference", Reason: "required"}
	}

	booking, err := svc.Repo.GetByTransactionReference(ctx, transactionRef)
	if err != nil {
		return nil, &BookingNotFoundError{Ref: transactionRef}
	}

	verification, err := svc.Gateway.Verify(ctx, transactionRef)
	if err != nil {
		return nil, err
	}

	outcome := normalizeGatewayStatus(verification.Status)
	if outcome == outcomeUnknown {
		return nil, fmt.Errorf("gateway returned unrecognized status %q for %s", verification.Status, transactionRef)
	}

	updated, alreadyProcessed, err := svc.reconcile(ctx, booking, outcome)
	if err != nil {
		return nil, err
	}
	return &VerifyResult{Booking: updated, AlreadyProcessed: alreadyProcessed}, nil
}

// HandleWebhook is the asynchronous, gateway-initiated reconciliation path.
// Callers always acknowledge with 200 regardless of the outcome here;
// returned errors exist so the handler can log them.
func (svc *DefaultBookingService) HandleWebhook(ctx context.Context, event *models.WebhookEvent) error {
	logger := utils.GetLogger()

	paymentRef := event.PaymentReference()
	if paymentRef == "" {
		return fmt.Errorf("webhook event carries no payment reference")
	}

	outcome := normalizeGatewayStatus(event.NormalizedStatus())
	if outcome == outcomeUnknown {
		return fmt.Errorf("webhook event for %s carries unrecognized status %q", paymentRef, event.NormalizedStatus())
	}

	// Short-circuit redeliveries of an already handled event. The conditional
	// updates below are idempotent regardless; the key only skips repeat work.
	dedupKey := "webhook:" + paymentRef + ":" + outcome
	if svc.Cache != nil {
		if exists, err := svc.Cache.Exists(ctx, dedupKey).Result(); err == nil && exists > 0 {
			logger.Debug("duplicate webhook delivery skipped", zap.String("paymentReference", paymentRef))
			return nil
		}
	}

	booking, err := svc.Repo.GetByPaymentReference(ctx, paymentRef)
	if err != nil {
		return fmt.Errorf("webhook reconciliation: %w", &BookingNotFoundError{Ref: paymentRef})
	}

	if _, _, err := svc.reconcile(ctx, booking, outcome); err != nil {
		return fmt.Errorf("webhook reconciliation for %s: %w", paymentRef, err)
	}

	if svc.Cache != nil {
		if err := svc.Cache.Set(ctx, dedupKey, 1, webhookDedupTTL).Err(); err != nil {
			logger.Warn("failed to record webhook dedup key", zap.String("key", dedupKey), zap.Error(err))
		}
	}
	return nil
}

// reconcile converts a normalized payment outcome into a status transition.
// Shared verbatim between the webhook and polling paths so a race between
// them resolves to a single transition and a single notification dispatch.
func (svc *DefaultBookingService) reconcile(ctx context.Context, booking *models.Booking, outcome string) (*models.Booking, bool, error) {
	if booking.Status == models.BookingStatusCancelled {
		return nil, false, &InvalidTransitionError{BookingID: booking.BookingID, Reason: "booking is cancelled"}
	}

	if outcome == outcomeFailure {
		return svc.reconcileFailure(ctx, booking)
	}
	return svc.reconcileSuccess(ctx, booking)
}

func (svc *DefaultBookingService) reconcileFailure(ctx context.Context, booking *models.Booking) (*models.Booking, bool, error) {
	matched, err := svc.Repo.FailPayment(ctx, booking.BookingID)
	if err != nil {
		return nil, false, err
	}
	if matched {
		booking.Status = models.BookingStatusFailed
		booking.PaymentStatus = models.PaymentStatusFailed
		return booking, false, nil
	}

	current, err := svc.Repo.GetByBookingID(ctx, booking.BookingID)
	if err != nil {
		return nil, false, err
	}
	if current.Status == models.BookingStatusFailed {
		// Redelivered failure event; nothing left to do.
		return current, true, nil
	}
	return nil, false, &InvalidTransitionError{
		BookingID: booking.BookingID,
		Reason:    fmt.Sprintf("cannot fail payment from status %q", current.Status),
	}
}

func (svc *DefaultBookingService) reconcileSuccess(ctx context.Context, booking *models.Booking) (*models.Booking, bool, error) {
	if booking.Status == models.BookingStatusUpcoming {
		return booking, true, nil
	}

	matched, err := svc.Repo.ConfirmPayment(ctx, booking.BookingID)
	if err != nil {
		return nil, false, err
	}
	if !matched {
		current, err := svc.Repo.GetByBookingID(ctx, booking.BookingID)
		if err != nil {
			return nil, false, err
		}
		if current.Status == models.BookingStatusUpcoming {
			// The other reconciliation path won the race; it also sent the
			// notifications.
			return current, true, nil
		}
		return nil, false, &InvalidTransitionError{
			BookingID: booking.BookingID,
			Reason:    fmt.Sprintf("cannot confirm payment from status %q", current.Status),
		}
	}

	booking.Status = models.BookingStatusUpcoming
	booking.PaymentStatus = models.PaymentStatusCompleted

	// The CAS matched, so this path owns the exactly-once notifications.
	svc.notifyConfirmed(ctx, booking)

	return booking, false, nil
}

// notifyConfirmed dispatches the client confirmation and vendor alert.
// Notification failures never unwind a committed transition.
func (svc *DefaultBookingService) notifyConfirmed(ctx context.Context, booking *models.Booking) {
	logger := utils.GetLogger()

	client, err := svc.Clients.GetByID(ctx, booking.ClientID)
	if err != nil {
		logger.Error("cannot notify client of confirmed booking",
			zap.String("bookingID", booking.BookingID), zap.Error(err))
	} else if err := svc.Notifier.SendBookingConfirmed(ctx, client.Email, booking); err != nil {
		logger.Error("failed to enqueue booking-confirmed email",
			zap.String("bookingID", booking.BookingID), zap.Error(err))
	}

	vendor, err := svc.Catalog.GetVendorByID(ctx, booking.VendorID)
	if err != nil {
		logger.Error("cannot notify vendor of confirmed booking",
			zap.String("bookingID", booking.BookingID), zap.Error(err))
	} else if err := svc.Notifier.SendVendorBookingAlert(ctx, vendor.Email, booking); err != nil {
		logger.Error("failed to enqueue vendor-alert email",
			zap.String("bookingID", booking.BookingID), zap.Error(err))
	}
}
