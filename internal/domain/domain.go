package domain

import (
	"github.com/fitforge/fitforge-backend/internal/domain/billing"
	"github.com/fitforge/fitforge-backend/internal/domain/booking"
	"github.com/fitforge/fitforge-backend/internal/domain/plan"
	"github.com/fitforge/fitforge-backend/internal/domain/user"
)

type (
	User = user.User

	TokenTransaction = billing.TokenTransaction

	Coach   = booking.Coach
	Booking = booking.Booking

	CoachRequest = plan.CoachRequest
	Course       = plan.Course
)

const (
	TxTypeTopup  = billing.TxTypeTopup
	TxTypeSpend  = billing.TxTypeSpend
	TxTypeRefund = billing.TxTypeRefund

	BookingStatusConfirmed = booking.BookingStatusConfirmed
	BookingStatusCancelled = booking.BookingStatusCancelled

	RequestStatusPending    = plan.RequestStatusPending
	RequestStatusProcessing = plan.RequestStatusProcessing
	RequestStatusDone       = plan.RequestStatusDone
	RequestStatusFailed     = plan.RequestStatusFailed
)
