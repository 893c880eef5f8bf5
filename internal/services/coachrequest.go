package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitforge/fitforge-backend/internal/data/repos"
	types "github.com/fitforge/fitforge-backend/internal/domain"
	"github.com/fitforge/fitforge-backend/internal/platform/logger"
	"github.com/fitforge/fitforge-backend/internal/pricing"
)

type CoachRequestInput struct {
	CoachSlug    string               `json:"coachSlug"`
	Goal         string               `json:"goal"`
	Level        pricing.Level        `json:"level"`
	TrainingType pricing.TrainingType `json:"trainingType"`
	Equipment    pricing.Equipment    `json:"equipment"`
	DaysPerWeek  int                  `json:"daysPerWeek"`
	Notes        string               `json:"notes"`
}

// PlanRunStarter dispatches the durable run that carries a coach request from
// pending to done. Dispatch happens strictly after the submit transaction
// commits; a missed dispatch leaves a pending row that can be re-dispatched.
type PlanRunStarter interface {
	StartPlanRun(ctx context.Context, requestID uuid.UUID) error
}

type CoachRequestService interface {
	// Quote prices a request without side effects.
	Quote(sel pricing.CoachRequestSelections) (pricing.CostBreakdown, error)
	Submit(ctx context.Context, userID uuid.UUID, in CoachRequestInput) (*types.CoachRequest, error)
	GetRequest(ctx context.Context, tx *gorm.DB, userID, requestID uuid.UUID) (*types.CoachRequest, error)
	GetUserRequests(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.CoachRequest, error)
}

type coachRequestService struct {
	db          *gorm.DB
	log         *logger.Logger
	engine      *pricing.Engine
	requestRepo repos.CoachRequestRepo
	coachRepo   repos.CoachRepo
	ledger      LedgerService
	starter     PlanRunStarter
	releaseWait time.Duration
}

func NewCoachRequestService(
	db *gorm.DB,
	baseLog *logger.Logger,
	engine *pricing.Engine,
	requestRepo repos.CoachRequestRepo,
	coachRepo repos.CoachRepo,
	ledger LedgerService,
	starter PlanRunStarter,
	releaseWait time.Duration,
) CoachRequestService {
	serviceLog := baseLog.With("service", "CoachRequestService")
	if releaseWait <= 0 {
		releaseWait = 24 * time.Hour
	}
	return &coachRequestService{
		db:          db,
		log:         serviceLog,
		engine:      engine,
		requestRepo: requestRepo,
		coachRepo:   coachRepo,
		ledger:      ledger,
		starter:     starter,
		releaseWait: releaseWait,
	}
}

func (crs *coachRequestService) Quote(sel pricing.CoachRequestSelections) (pricing.CostBreakdown, error) {
	if err := sel.Validate(crs.engine.Table()); err != nil {
		return pricing.CostBreakdown{}, err
	}
	return crs.engine.CalcCoachRequestTokens(sel), nil
}

func (crs *coachRequestService) Submit(ctx context.Context, userID uuid.UUID, in CoachRequestInput) (*types.CoachRequest, error) {
	sel := pricing.CoachRequestSelections{
		Level:        in.Level,
		TrainingType: in.TrainingType,
		Equipment:    in.Equipment,
		DaysPerWeek:  in.DaysPerWeek,
	}
	breakdown, err := crs.Quote(sel)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Goal) == "" {
		return nil, &ValidationError{Field: "goal", Msg: "goal is required"}
	}

	coaches, err := crs.coachRepo.GetBySlugs(ctx, nil, []string{in.CoachSlug})
	if err != nil {
		return nil, fmt.Errorf("load coach: %w", err)
	}
	if len(coaches) == 0 {
		return nil, &NotFoundError{Resource: "coach", ID: in.CoachSlug}
	}
	coach := coaches[0]

	req := &types.CoachRequest{
		ID:           uuid.New(),
		UserID:       userID,
		CoachID:      coach.ID,
		CoachSlug:    coach.Slug,
		Goal:         strings.TrimSpace(in.Goal),
		Level:        string(in.Level),
		TrainingType: string(in.TrainingType),
		Equipment:    string(in.Equipment),
		DaysPerWeek:  in.DaysPerWeek,
		Notes:        strings.TrimSpace(in.Notes),
		Status:       types.RequestStatusPending,
		TokensSpent:  breakdown.Total,
		AvailableAt:  time.Now().UTC().Add(crs.releaseWait),
	}

	err = crs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := crs.ledger.RecordSpend(ctx, tx, userID, breakdown.Total, types.TxTypeSpend, map[string]interface{}{
			"reason":    "coach_request",
			"requestId": req.ID.String(),
			"coachSlug": coach.Slug,
		}); err != nil {
			return err
		}
		if _, err := crs.requestRepo.Create(ctx, tx, []*types.CoachRequest{req}); err != nil {
			return fmt.Errorf("create coach request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if crs.starter != nil {
		if err := crs.starter.StartPlanRun(ctx, req.ID); err != nil {
			// The debit and the pending row are already committed. The run
			// can be re-dispatched; the request must not be rolled back.
			crs.log.Error("plan run dispatch failed", "requestId", req.ID, "error", err)
		}
	}

	crs.log.Info("coach request submitted",
		"requestId", req.ID,
		"coach", coach.Slug,
		"tokens", breakdown.Total,
		"availableAt", req.AvailableAt)
	return req, nil
}

func (crs *coachRequestService) GetRequest(ctx context.Context, tx *gorm.DB, userID, requestID uuid.UUID) (*types.CoachRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = crs.db
	}
	reqs, err := crs.requestRepo.GetByIDs(ctx, transaction, []uuid.UUID{requestID})
	if err != nil {
		return nil, fmt.Errorf("load coach request: %w", err)
	}
	if len(reqs) == 0 || reqs[0].UserID != userID {
		return nil, &NotFoundError{Resource: "coach request", ID: requestID.String()}
	}
	return reqs[0], nil
}

func (crs *coachRequestService) GetUserRequests(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.CoachRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = crs.db
	}
	reqs, err := crs.requestRepo.GetByUserIDs(ctx, transaction, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load coach requests: %w", err)
	}
	return reqs, nil
}
