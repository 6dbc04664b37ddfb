package booking

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vendora/config"
	clientRepo "vendora/database/repository/client"
	"vendora/models"
	"vendora/utils"
)

var timeOfDayRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// CreateBooking validates the request, reserves the availability window
// transactionally, initiates payment, and returns the checkout handle. The
// reservation is released if the gateway declines or cannot be reached, so a
// failed initiation leaves no booking behind.
func (svc *DefaultBookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateBookingResult, error) {
	logger := utils.GetLogger()

	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	client, err := svc.resolveClient(ctx, req)
	if err != nil {
		return nil, err
	}

	resource, err := svc.resolveAndPrice(ctx, req.ResourceID, req.Duration, req.RetailPrice)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	booking := &models.Booking{
		ID:               uuid.New().String(),
		BookingID:        newBookingID(),
		BookingType:      resource.Kind,
		ClientID:         client.ID,
		VendorID:         resource.OwnerVendorID(),
		Price:            req.RetailPrice,
		Duration:         req.Duration,
		StartDate:        req.StartDate,
		EndDate:          req.StartDate.AddDate(0, 0, req.Duration),
		Address:          req.Address,
		State:            req.State,
		Time:             req.Time,
		PaymentReference: newPaymentReference(),
		PaymentStatus:    models.PaymentStatusPending,
		Status:           models.BookingStatusPending,
		CreatedAt:        now,
	}
	if resource.Kind == models.BookingTypeService {
		booking.ServiceID = resource.Service.ID
	}

	conflict, err := svc.Repo.ReserveBooking(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve booking: %w", err)
	}
	if conflict != nil {
		return nil, &AvailabilityConflictError{Conflict: conflict}
	}

	initiation, err := svc.Gateway.Initiate(ctx, models.InitiatePaymentRequest{
		Amount:           booking.Price,
		Currency:         config.AppConfig.Currency,
		PaymentReference: booking.PaymentReference,
		CustomerName:     client.Name,
		CustomerEmail:    client.Email,
		CustomerPhone:    client.Phone,
		RedirectURL:      config.AppConfig.PaymentRedirect,
		Metadata: map[string]string{
			"bookingID":        booking.BookingID,
			"paymentReference": booking.PaymentReference,
		},
	})
	if err != nil {
		// The slot must free up immediately when initiation fails.
		if relErr := svc.Repo.ReleaseReservation(ctx, booking.ID); relErr != nil {
			logger.Error("failed to release reservation after gateway failure",
				zap.String("bookingID", booking.BookingID), zap.Error(relErr))
		}
		return nil, err
	}

	if err := svc.Repo.AttachTransactionReference(ctx, booking.ID, initiation.TransactionReference); err != nil {
		// Payment was initiated; the webhook can still locate the booking by
		// payment reference, so log loudly rather than fail the request.
		logger.Error("failed to attach transaction reference",
			zap.String("bookingID", booking.BookingID),
			zap.String("transactionReference", initiation.TransactionReference),
			zap.Error(err))
	} else {
		booking.TransactionReference = initiation.TransactionReference
	}

	if err := svc.Notifier.SendBookingCreated(ctx, client.Email, booking); err != nil {
		logger.Warn("failed to enqueue booking-created email",
			zap.String("bookingID", booking.BookingID), zap.Error(err))
	}

	logger.Info("booking created",
		zap.String("bookingID", booking.BookingID),
		zap.String("paymentReference", booking.PaymentReference),
		zap.Float64("price", booking.Price))

	return &CreateBookingResult{
		Booking:              booking,
		PaymentURL:           initiation.CheckoutURL,
		PaymentReference:     booking.PaymentReference,
		TransactionReference: initiation.TransactionReference,
	}, nil
}

func validateCreateRequest(req CreateBookingRequest) error {
	if req.ResourceID == "" {
		return &ValidationError{Field: "serviceID", Reason: "required"}
	}
	if req.Duration < 1 {
		return &ValidationError{Field: "duration", Reason: "must be at least 1"}
	}
	if req.RetailPrice <= 0 {
		return &ValidationError{Field: "retailPrice", Reason: "must be positive"}
	}
	if req.StartDate.IsZero() {
		return &ValidationError{Field: "startDate", Reason: "required"}
	}
	if req.Time != "" && !timeOfDayRe.MatchString(req.Time) {
		return &ValidationError{Field: "time", Reason: "must match HH:MM"}
	}
	if req.ClientEmail == "" {
		return &ValidationError{Field: "clientEmail", Reason: "required"}
	}
	if req.ClientNumber == "" {
		return &ValidationError{Field: "clientNumber", Reason: "required"}
	}
	return nil
}

// resolveClient finds or creates the lightweight client record. A phone
// number already tied to a different email is rejected to keep client
// identity unambiguous.
func (svc *DefaultBookingService) resolveClient(ctx context.Context, req CreateBookingRequest) (*models.Client, error) {
	email := strings.ToLower(strings.TrimSpace(req.ClientEmail))

	byPhone, err := svc.Clients.GetByPhone(ctx, req.ClientNumber)
	if err != nil && !errors.Is(err, clientRepo.ErrClientNotFound) {
		return nil, fmt.Errorf("client phone lookup failed: %w", err)
	}
	if byPhone != nil && !strings.EqualFold(byPhone.Email, email) {
		return nil, &ValidationError{Field: "clientNumber", Reason: "phone number is registered to a different email"}
	}

	existing, err := svc.Clients.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, clientRepo.ErrClientNotFound) {
		return nil, fmt.Errorf("client email lookup failed: %w", err)
	}

	client := &models.Client{
		ID:        uuid.New().String(),
		Name:      req.ClientName,
		Email:     email,
		Phone:     req.ClientNumber,
		CreatedAt: time.Now(),
	}
	if err := svc.Clients.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client record: %w", err)
	}
	return client, nil
}

// newBookingID produces the human-readable booking identifier.
func newBookingID() string {
	return "BK-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:10])
}

// newPaymentReference produces the locally generated gateway reference.
func newPaymentReference() string {
	return "VD-PAY-" + uuid.New().String()
}
