package repos

import (
	"context"
	"time"

	types "github.com/fitforge/fitforge-backend/internal/domain"
	"github.com/fitforge/fitforge-backend/internal/platform/logger"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CourseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, courses []*types.Course) ([]*types.Course, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) ([]*types.Course, error)
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.Course, error)
	SetPDFURL(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, pdfURL string) error
	// ReplaceContent swaps generated content in after a regeneration, adds
	// the regeneration spend to tokens_spent and clears pdf_url until the
	// next render.
	ReplaceContent(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, content datatypes.JSON, extraTokens int64) error
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func (r *courseRepo) Create(ctx context.Context, tx *gorm.DB, courses []*types.Course) ([]*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(courses) == 0 {
		return []*types.Course{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepo) GetByIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) ([]*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Course
	if len(courseIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", courseIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *courseRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Course
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

func (r *courseRepo) SetPDFURL(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, pdfURL string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Course{}).
		Where("id = ?", courseID).
		Updates(map[string]any{"pdf_url": pdfURL, "updated_at": time.Now()}).Error
}

func (r *courseRepo) ReplaceContent(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, content datatypes.JSON, extraTokens int64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Course{}).
		Where("id = ?", courseID).
		Updates(map[string]any{
			"content":      content,
			"tokens_spent": gorm.Expr("tokens_spent + ?", extraTokens),
			"pdf_url":      "",
			"updated_at":   time.Now(),
		}).Error
}
