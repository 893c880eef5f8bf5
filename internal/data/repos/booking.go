package repos

import (
	"context"
	"time"

	types "github.com/fitforge/fitforge-backend/internal/domain"
	"github.com/fitforge/fitforge-backend/internal/platform/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepo interface {
	Create(ctx context.Context, tx *gorm.DB, bookings []*types.Booking) ([]*types.Booking, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, bookingIDs []uuid.UUID) ([]*types.Booking, error)
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.Booking, error)
	// GetConfirmedInWindow returns confirmed bookings for the coach whose
	// start instant lies in [from, to). The caller sizes the window so every
	// booking that could overlap a new interval is included.
	GetConfirmedInWindow(ctx context.Context, tx *gorm.DB, coachID uuid.UUID, from, to time.Time) ([]*types.Booking, error)
	SetStatus(ctx context.Context, tx *gorm.DB, bookingID uuid.UUID, fromStatus, toStatus string) (bool, error)
}

type bookingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBookingRepo(db *gorm.DB, baseLog *logger.Logger) BookingRepo {
	return &bookingRepo{db: db, log: baseLog.With("repo", "BookingRepo")}
}

func (r *bookingRepo) Create(ctx context.Context, tx *gorm.DB, bookings []*types.Booking) ([]*types.Booking, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(bookings) == 0 {
		return []*types.Booking{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepo) GetByIDs(ctx context.Context, tx *gorm.DB, bookingIDs []uuid.UUID) ([]*types.Booking, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Booking
	if len(bookingIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", bookingIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *bookingRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.Booking, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Booking
	if len(userIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *bookingRepo) GetConfirmedInWindow(ctx context.Context, tx *gorm.DB, coachID uuid.UUID, from, to time.Time) ([]*types.Booking, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Booking
	if err := transaction.WithContext(ctx).
		Where("coach_id = ? AND status = ? AND date >= ? AND date < ?",
			coachID, types.BookingStatusConfirmed, from, to).
		Order("date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// SetStatus flips a booking's status only when it currently has fromStatus.
// Returns false when no row matched, so callers can distinguish "already
// cancelled" from "cancelled now".
func (r *bookingRepo) SetStatus(ctx context.Context, tx *gorm.DB, bookingID uuid.UUID, fromStatus, toStatus string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Booking{}).
		Where("id = ? AND status = ?", bookingID, fromStatus).
		Updates(map[string]any{"status": toStatus, "updated_at": time.Now()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
