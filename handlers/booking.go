package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vendora/services/booking"
	"vendora/services/payment"
)

// BookingHandler exposes the booking lifecycle over HTTP.
type BookingHandler struct {
	svc    booking.BookingService
	logger *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, logger: logger}
}

type createBookingInput struct {
	ServiceID    string  `json:"serviceID" binding:"required"`
	RetailPrice  float64 `json:"retailPrice" binding:"required"`
	Duration     int     `json:"duration" binding:"required"`
	StartDate    string  `json:"startDate" binding:"required"`
	Address      string  `json:"address"`
	State        string  `json:"state"`
	Time         string  `json:"time"`
	ClientName   string  `json:"clientName" binding:"required"`
	ClientNumber string  `json:"clientNumber" binding:"required"`
	ClientEmail  string  `json:"clientEmail" binding:"required,email"`
}

// CreateBooking handles POST /api/bookings/create.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var input createBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid input", "details": err.Error()})
		return
	}

	startDate, err := time.Parse("2006-01-02", input.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "startDate must be YYYY-MM-DD"})
		return
	}

	result, err := h.svc.CreateBooking(c.Request.Context(), booking.CreateBookingRequest{
		ResourceID:   input.ServiceID,
		RetailPrice:  input.RetailPrice,
		Duration:     input.Duration,
		StartDate:    startDate,
		Address:      input.Address,
		State:        input.State,
		Time:         input.Time,
		ClientName:   input.ClientName,
		ClientNumber: input.ClientNumber,
		ClientEmail:  input.ClientEmail,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":               "success",
		"paymentUrl":           result.PaymentURL,
		"paymentReference":     result.PaymentReference,
		"transactionReference": result.TransactionReference,
	})
}

// VerifyPayment handles POST /api/bookings/verify.
func (h *BookingHandler) VerifyPayment(c *gin.Context) {
	var input struct {
		Reference string `json:"reference" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid input", "details": err.Error()})
		return
	}

	result, err := h.svc.VerifyPayment(c.Request.Context(), input.Reference)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"alreadyProcessed": result.AlreadyProcessed,
		"booking":          result.Booking,
	})
}

// CheckAvailability handles GET /api/bookings/available.
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	resourceID := c.Query("serviceId")
	if resourceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "serviceId is required"})
		return
	}
	startDate, err := time.Parse("2006-01-02", c.Query("startDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "startDate must be YYYY-MM-DD"})
		return
	}
	duration, err := strconv.Atoi(c.Query("duration"))
	if err != nil || duration < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "duration must be a positive integer"})
		return
	}

	conflict, err := h.svc.CheckAvailability(c.Request.Context(), resourceID, startDate, duration)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if conflict != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":   "error",
			"message":  "resource is not available for the requested window",
			"conflict": conflict,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "available": true})
}

// GetBooking handles GET /api/bookings/:bookingID.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.svc.GetBooking(c.Request.Context(), c.Param("bookingID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "booking": b})
}

// ListClientBookings handles GET /api/bookings/client for the authenticated client.
func (h *BookingHandler) ListClientBookings(c *gin.Context) {
	clientID := c.GetString("clientID")
	bookings, err := h.svc.ListClientBookings(c.Request.Context(), clientID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "bookings": bookings})
}

// respondError maps service errors onto the HTTP taxonomy. Pricing and
// availability failures carry actionable detail so clients can self-correct.
func (h *BookingHandler) respondError(c *gin.Context, err error) {
	var (
		validationErr   *booking.ValidationError
		pricingErr      *booking.PricingMismatchError
		conflictErr     *booking.AvailabilityConflictError
		notFoundErr     *booking.ResourceNotFoundError
		resourceTypeErr *booking.InvalidResourceTypeError
		bookingMissing  *booking.BookingNotFoundError
		transitionErr   *booking.InvalidTransitionError
		acceptedErr     *booking.AlreadyAcceptedError
		unreachableErr  *payment.GatewayUnreachableError
		initiationErr   *payment.PaymentInitiationError
		verifyErr       *payment.PaymentVerificationError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": validationErr.Error()})
	case errors.As(err, &pricingErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"status":         "error",
			"message":        pricingErr.Error(),
			"expectedPrice":  pricingErr.Expected,
			"submittedPrice": pricingErr.Submitted,
		})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"status":   "error",
			"message":  conflictErr.Error(),
			"conflict": conflictErr.Conflict,
		})
	case errors.As(err, &resourceTypeErr):
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": resourceTypeErr.Error()})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": notFoundErr.Error()})
	case errors.As(err, &bookingMissing):
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": bookingMissing.Error()})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": transitionErr.Error()})
	case errors.As(err, &acceptedErr):
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": acceptedErr.Error()})
	case errors.As(err, &unreachableErr), errors.As(err, &initiationErr), errors.As(err, &verifyErr):
		h.logger.Error("payment gateway failure", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
	default:
		h.logger.Error("booking handler internal error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "internal server error"})
	}
}
