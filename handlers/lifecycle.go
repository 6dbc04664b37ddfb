package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vendora/services/booking"
)

type bookingActionInput struct {
	BookingID string `json:"bookingID" binding:"required"`
}

func bindBookingAction(c *gin.Context) (string, bool) {
	var input bookingActionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "bookingID is required"})
		return "", false
	}
	return input.BookingID, true
}

// AcceptBooking handles POST /api/bookings/accept for the authenticated vendor.
func (h *BookingHandler) AcceptBooking(c *gin.Context) {
	bookingID, ok := bindBookingAction(c)
	if !ok {
		return
	}
	if err := h.svc.Accept(c.Request.Context(), bookingID, c.GetString("vendorID")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "booking accepted"})
}

// RejectBooking handles POST /api/bookings/reject for the authenticated vendor.
func (h *BookingHandler) RejectBooking(c *gin.Context) {
	bookingID, ok := bindBookingAction(c)
	if !ok {
		return
	}
	if err := h.svc.Reject(c.Request.Context(), bookingID, c.GetString("vendorID")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "booking rejected"})
}

// VendorCancelBooking handles POST /api/bookings/vendor/cancel.
func (h *BookingHandler) VendorCancelBooking(c *gin.Context) {
	bookingID, ok := bindBookingAction(c)
	if !ok {
		return
	}
	if err := h.svc.CancelByVendor(c.Request.Context(), bookingID, c.GetString("vendorID")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "booking cancelled"})
}

// ClientCancelBooking handles POST /api/bookings/cancel for the authenticated client.
func (h *BookingHandler) ClientCancelBooking(c *gin.Context) {
	bookingID, ok := bindBookingAction(c)
	if !ok {
		return
	}
	if err := h.svc.CancelByClient(c.Request.Context(), bookingID, c.GetString("clientID")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "booking cancelled"})
}

// CompleteBooking handles POST /api/bookings/complete for the authenticated client.
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	bookingID, ok := bindBookingAction(c)
	if !ok {
		return
	}
	if err := h.svc.Complete(c.Request.Context(), bookingID, c.GetString("clientID")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "booking completed"})
}

// RateBooking handles POST /api/bookings/rate for the authenticated client.
func (h *BookingHandler) RateBooking(c *gin.Context) {
	var input struct {
		BookingID string `json:"bookingID" binding:"required"`
		Rating    int    `json:"rating" binding:"required"`
		Review    string `json:"review"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid input", "details": err.Error()})
		return
	}

	err := h.svc.Rate(c.Request.Context(), booking.RateBookingRequest{
		BookingID: input.BookingID,
		ClientID:  c.GetString("clientID"),
		Rating:    input.Rating,
		Review:    input.Review,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "rating recorded"})
}
