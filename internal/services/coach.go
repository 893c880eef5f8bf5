package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/fitforge/fitforge-backend/internal/data/repos"
	types "github.com/fitforge/fitforge-backend/internal/domain"
	"github.com/fitforge/fitforge-backend/internal/platform/logger"
)

type CoachService interface {
	List(ctx context.Context, tx *gorm.DB) ([]*types.Coach, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Coach, error)
}

type coachService struct {
	db        *gorm.DB
	log       *logger.Logger
	coachRepo repos.CoachRepo
}

func NewCoachService(db *gorm.DB, baseLog *logger.Logger, coachRepo repos.CoachRepo) CoachService {
	return &coachService{
		db:        db,
		log:       baseLog.With("service", "CoachService"),
		coachRepo: coachRepo,
	}
}

func (cs *coachService) List(ctx context.Context, tx *gorm.DB) ([]*types.Coach, error) {
	transaction := tx
	if transaction == nil {
		transaction = cs.db
	}
	coaches, err := cs.coachRepo.List(ctx, transaction)
	if err != nil {
		return nil, fmt.Errorf("list coaches: %w", err)
	}
	return coaches, nil
}

func (cs *coachService) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Coach, error) {
	transaction := tx
	if transaction == nil {
		transaction = cs.db
	}
	coaches, err := cs.coachRepo.GetBySlugs(ctx, transaction, []string{slug})
	if err != nil {
		return nil, fmt.Errorf("load coach: %w", err)
	}
	if len(coaches) == 0 {
		return nil, &NotFoundError{Resource: "coach", ID: slug}
	}
	return coaches[0], nil
}
