package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitforge/fitforge-backend/internal/data/repos"
	types "github.com/fitforge/fitforge-backend/internal/domain"
	"github.com/fitforge/fitforge-backend/internal/platform/logger"
	"github.com/fitforge/fitforge-backend/internal/pricing"
)

type CreateBookingInput struct {
	CoachSlug     string    `json:"coachSlug"`
	Date          time.Time `json:"date"`
	DurationHours int       `json:"durationHours"`
	Notes         string    `json:"notes"`
}

// BookingService books live sessions against coach calendars. All writes for
// one coach are serialized through an advisory lock so the overlap check and
// the insert see a consistent calendar.
type BookingService interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, in CreateBookingInput) (*types.Booking, error)
	GetUserBookings(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Booking, error)
	CancelBooking(ctx context.Context, userID, bookingID uuid.UUID) (*types.Booking, error)
}

type bookingService struct {
	db          *gorm.DB
	log         *logger.Logger
	engine      *pricing.Engine
	bookingRepo repos.BookingRepo
	coachRepo   repos.CoachRepo
	ledger      LedgerService
}

func NewBookingService(
	db *gorm.DB,
	baseLog *logger.Logger,
	engine *pricing.Engine,
	bookingRepo repos.BookingRepo,
	coachRepo repos.CoachRepo,
	ledger LedgerService,
) BookingService {
	serviceLog := baseLog.With("service", "BookingService")
	return &bookingService{
		db:          db,
		log:         serviceLog,
		engine:      engine,
		bookingRepo: bookingRepo,
		coachRepo:   coachRepo,
		ledger:      ledger,
	}
}

func (bs *bookingService) CreateBooking(ctx context.Context, userID uuid.UUID, in CreateBookingInput) (*types.Booking, error) {
	cost, err := bs.engine.SessionCost(in.DurationHours)
	if err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		return nil, &ValidationError{Field: "date", Msg: "date is required"}
	}
	if !in.Date.After(time.Now()) {
		return nil, &ValidationError{Field: "date", Msg: "date must be in the future"}
	}

	coaches, err := bs.coachRepo.GetBySlugs(ctx, nil, []string{in.CoachSlug})
	if err != nil {
		return nil, fmt.Errorf("load coach: %w", err)
	}
	if len(coaches) == 0 {
		return nil, &NotFoundError{Resource: "coach", ID: in.CoachSlug}
	}
	coach := coaches[0]

	newStart := in.Date.UTC()
	newEnd := newStart.Add(time.Duration(in.DurationHours) * time.Hour)

	booking := &types.Booking{
		ID:            uuid.New(),
		UserID:        userID,
		CoachID:       coach.ID,
		CoachSlug:     coach.Slug,
		CoachName:     coach.Name,
		Date:          newStart,
		DurationHours: in.DurationHours,
		Status:        types.BookingStatusConfirmed,
		TokensCharged: cost,
		Notes:         in.Notes,
	}

	err = bs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repos.AdvisoryXactLock(ctx, tx, "booking:coach", coach.ID); err != nil {
			return fmt.Errorf("acquire coach lock: %w", err)
		}

		// Any booking starting before the window lower bound has ended by
		// newStart, so the fetch stays bounded without missing a conflict.
		windowFrom := newStart.Add(-bs.engine.MaxSessionDuration())
		existing, err := bs.bookingRepo.GetConfirmedInWindow(ctx, tx, coach.ID, windowFrom, newEnd)
		if err != nil {
			return fmt.Errorf("load coach calendar: %w", err)
		}
		for _, b := range existing {
			if b.Start().Before(newEnd) && b.End().After(newStart) {
				return &SlotConflictError{
					CoachSlug:     coach.Slug,
					BookingID:     b.ID,
					ConflictStart: b.Start(),
					ConflictEnd:   b.End(),
				}
			}
		}

		if _, err := bs.ledger.RecordSpend(ctx, tx, userID, cost, types.TxTypeSpend, map[string]interface{}{
			"reason":    "booking",
			"bookingId": booking.ID.String(),
			"coachSlug": coach.Slug,
		}); err != nil {
			return err
		}

		if _, err := bs.bookingRepo.Create(ctx, tx, []*types.Booking{booking}); err != nil {
			return fmt.Errorf("create booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	bs.log.Info("booking created",
		"bookingId", booking.ID,
		"coach", coach.Slug,
		"start", newStart,
		"hours", in.DurationHours,
		"tokens", cost)
	return booking, nil
}

func (bs *bookingService) GetUserBookings(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Booking, error) {
	transaction := tx
	if transaction == nil {
		transaction = bs.db
	}
	bookings, err := bs.bookingRepo.GetByUserIDs(ctx, transaction, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	return bookings, nil
}

func (bs *bookingService) CancelBooking(ctx context.Context, userID, bookingID uuid.UUID) (*types.Booking, error) {
	var cancelled *types.Booking
	err := bs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookings, err := bs.bookingRepo.GetByIDs(ctx, tx, []uuid.UUID{bookingID})
		if err != nil {
			return fmt.Errorf("load booking: %w", err)
		}
		if len(bookings) == 0 || bookings[0].UserID != userID {
			return &NotFoundError{Resource: "booking", ID: bookingID.String()}
		}
		b := bookings[0]
		if b.Status != types.BookingStatusConfirmed {
			return &ValidationError{Field: "status", Msg: "booking is not confirmed"}
		}
		if !b.Start().After(time.Now()) {
			return &ValidationError{Field: "date", Msg: "booking has already started"}
		}

		flipped, err := bs.bookingRepo.SetStatus(ctx, tx, b.ID, types.BookingStatusConfirmed, types.BookingStatusCancelled)
		if err != nil {
			return fmt.Errorf("cancel booking: %w", err)
		}
		if !flipped {
			return &ValidationError{Field: "status", Msg: "booking is not confirmed"}
		}

		if _, err := bs.ledger.RecordRefund(ctx, tx, userID, b.TokensCharged, map[string]interface{}{
			"reason":    "booking_cancelled",
			"bookingId": b.ID.String(),
		}); err != nil {
			return err
		}

		b.Status = types.BookingStatusCancelled
		cancelled = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	bs.log.Info("booking cancelled", "bookingId", bookingID, "refund", cancelled.TokensCharged)
	return cancelled, nil
}
