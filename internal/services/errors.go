package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InsufficientTokensError is returned when a spend would drive the user's
// balance below zero. Balance and Required let callers show the shortfall.
type InsufficientTokensError struct {
	Balance  int64
	Required int64
}

func (e *InsufficientTokensError) Error() string {
	return fmt.Sprintf("insufficient tokens: balance %d, required %d", e.Balance, e.Required)
}

// SlotConflictError is returned when a requested booking window overlaps an
// existing confirmed booking for the same coach.
type SlotConflictError struct {
	CoachSlug     string
	BookingID     uuid.UUID
	ConflictStart time.Time
	ConflictEnd   time.Time
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("slot conflict with coach %s: %s until %s",
		e.CoachSlug, e.ConflictStart.Format(time.RFC3339), e.ConflictEnd.Format(time.RFC3339))
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}
