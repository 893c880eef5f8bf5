package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fitforge/fitforge-backend/internal/http/response"
	"github.com/fitforge/fitforge-backend/internal/services"
)

type BookingHandler struct {
	bookings services.BookingService
	ledger   services.LedgerService
}

func NewBookingHandler(bookings services.BookingService, ledger services.LedgerService) *BookingHandler {
	return &BookingHandler{bookings: bookings, ledger: ledger}
}

// POST /bookings
func (bh *BookingHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req services.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	booking, err := bh.bookings.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	newBalance, err := bh.ledger.GetBalance(c.Request.Context(), nil, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"success":    true,
		"booking":    booking,
		"newBalance": newBalance,
	})
}

// GET /bookings
func (bh *BookingHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	bookings, err := bh.bookings.GetUserBookings(c.Request.Context(), nil, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"bookings": bookings})
}

// POST /bookings/:id/cancel
func (bh *BookingHandler) Cancel(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	booking, err := bh.bookings.CancelBooking(c.Request.Context(), userID, bookingID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	newBalance, err := bh.ledger.GetBalance(c.Request.Context(), nil, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"success":    true,
		"booking":    booking,
		"newBalance": newBalance,
	})
}
