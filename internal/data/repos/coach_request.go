package repos

import (
	"context"
	"time"

	types "github.com/fitforge/fitforge-backend/internal/domain"
	"github.com/fitforge/fitforge-backend/internal/platform/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CoachRequestRepo interface {
	Create(ctx context.Context, tx *gorm.DB, requests []*types.CoachRequest) ([]*types.CoachRequest, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, requestIDs []uuid.UUID) ([]*types.CoachRequest, error)
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.CoachRequest, error)
	MarkProcessing(ctx context.Context, tx *gorm.DB, requestID uuid.UUID) error
	// LinkCourse sets course_id exactly once. Re-running with any course id
	// after the first link is a no-op, which makes the orchestrator's link
	// step safely retryable.
	LinkCourse(ctx context.Context, tx *gorm.DB, requestID, courseID uuid.UUID) error
	MarkDone(ctx context.Context, tx *gorm.DB, requestID uuid.UUID) error
	MarkFailed(ctx context.Context, tx *gorm.DB, requestID uuid.UUID, errMsg string) error
}

type coachRequestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCoachRequestRepo(db *gorm.DB, baseLog *logger.Logger) CoachRequestRepo {
	return &coachRequestRepo{db: db, log: baseLog.With("repo", "CoachRequestRepo")}
}

func (r *coachRequestRepo) Create(ctx context.Context, tx *gorm.DB, requests []*types.CoachRequest) ([]*types.CoachRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(requests) == 0 {
		return []*types.CoachRequest{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *coachRequestRepo) GetByIDs(ctx context.Context, tx *gorm.DB, requestIDs []uuid.UUID) ([]*types.CoachRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.CoachRequest
	if len(requestIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", requestIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *coachRequestRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.CoachRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.CoachRequest
	if len(userIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *coachRequestRepo) MarkProcessing(ctx context.Context, tx *gorm.DB, requestID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	// Forward-only: never demote a terminal status back to processing.
	return transaction.WithContext(ctx).
		Model(&types.CoachRequest{}).
		Where("id = ? AND status = ?", requestID, types.RequestStatusPending).
		Updates(map[string]any{"status": types.RequestStatusProcessing, "updated_at": time.Now()}).Error
}

func (r *coachRequestRepo) LinkCourse(ctx context.Context, tx *gorm.DB, requestID, courseID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.CoachRequest{}).
		Where("id = ? AND course_id IS NULL", requestID).
		Updates(map[string]any{"course_id": courseID, "updated_at": time.Now()}).Error
}

func (r *coachRequestRepo) MarkDone(ctx context.Context, tx *gorm.DB, requestID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.CoachRequest{}).
		Where("id = ? AND status = ?", requestID, types.RequestStatusProcessing).
		Updates(map[string]any{"status": types.RequestStatusDone, "updated_at": time.Now()}).Error
}

func (r *coachRequestRepo) MarkFailed(ctx context.Context, tx *gorm.DB, requestID uuid.UUID, errMsg string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.CoachRequest{}).
		Where("id = ? AND status IN ?", requestID, []string{types.RequestStatusPending, types.RequestStatusProcessing}).
		Updates(map[string]any{"status": types.RequestStatusFailed, "error": errMsg, "updated_at": time.Now()}).Error
}
