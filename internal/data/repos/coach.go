package repos

import (
	"context"

	types "github.com/fitforge/fitforge-backend/internal/domain"
	"github.com/fitforge/fitforge-backend/internal/platform/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CoachRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, coaches []*types.Coach) ([]*types.Coach, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, coachIDs []uuid.UUID) ([]*types.Coach, error)
	GetBySlugs(ctx context.Context, tx *gorm.DB, slugs []string) ([]*types.Coach, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Coach, error)
}

type coachRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCoachRepo(db *gorm.DB, baseLog *logger.Logger) CoachRepo {
	return &coachRepo{db: db, log: baseLog.With("repo", "CoachRepo")}
}

func (r *coachRepo) Upsert(ctx context.Context, tx *gorm.DB, coaches []*types.Coach) ([]*types.Coach, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(coaches) == 0 {
		return []*types.Coach{}, nil
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "headline", "bio", "avatar_url", "updated_at"}),
		}).
		Create(&coaches).Error; err != nil {
		return nil, err
	}
	return coaches, nil
}

func (r *coachRepo) GetByIDs(ctx context.Context, tx *gorm.DB, coachIDs []uuid.UUID) ([]*types.Coach, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Coach
	if len(coachIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", coachIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *coachRepo) GetBySlugs(ctx context.Context, tx *gorm.DB, slugs []string) ([]*types.Coach, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Coach
	if len(slugs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("slug IN ?", slugs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *coachRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Coach, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Coach
	if err := transaction.WithContext(ctx).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
