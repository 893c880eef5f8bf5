package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fitforge/fitforge-backend/internal/data/repos"
	types "github.com/fitforge/fitforge-backend/internal/domain"
	"github.com/fitforge/fitforge-backend/internal/platform/gcp"
	"github.com/fitforge/fitforge-backend/internal/platform/logger"
	"github.com/fitforge/fitforge-backend/internal/pricing"
)

// CourseService is the direct AI generation path: quote, debit, persist the
// generated plan, then render the PDF artifact off the money path.
type CourseService interface {
	GenerateCourse(ctx context.Context, userID uuid.UUID, opts pricing.GeneratorOptions) (*types.Course, error)
	GetUserCourses(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Course, error)
	GetCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*types.Course, error)
	RegenerateDay(ctx context.Context, userID, courseID uuid.UUID, week, day int) (*types.Course, error)
	RegenerateWeek(ctx context.Context, userID, courseID uuid.UUID, week int) (*types.Course, error)
	// RenderAndStorePDF renders the course document, uploads it and records
	// the public URL. Failures leave pdf_url empty; callers treat that as
	// retryable, not fatal.
	RenderAndStorePDF(ctx context.Context, courseID uuid.UUID) (string, error)
}

type courseService struct {
	db         *gorm.DB
	log        *logger.Logger
	engine     *pricing.Engine
	courseRepo repos.CourseRepo
	ledger     LedgerService
	generator  PlanGenerator
	renderer   PDFRenderer
	bucket     gcp.BucketService
}

func NewCourseService(
	db *gorm.DB,
	baseLog *logger.Logger,
	engine *pricing.Engine,
	courseRepo repos.CourseRepo,
	ledger LedgerService,
	generator PlanGenerator,
	renderer PDFRenderer,
	bucket gcp.BucketService,
) CourseService {
	serviceLog := baseLog.With("service", "CourseService")
	return &courseService{
		db:         db,
		log:        serviceLog,
		engine:     engine,
		courseRepo: courseRepo,
		ledger:     ledger,
		generator:  generator,
		renderer:   renderer,
		bucket:     bucket,
	}
}

func (cs *courseService) GenerateCourse(ctx context.Context, userID uuid.UUID, opts pricing.GeneratorOptions) (*types.Course, error) {
	if err := opts.Validate(cs.engine.Table()); err != nil {
		return nil, err
	}
	breakdown := cs.engine.CalcFullCourseTokens(opts)

	plan, err := cs.generator.GenerateFromOptions(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("generate plan: %w", err)
	}

	optsJSON, err := json.Marshal(opts)
	if err != nil {
		return nil, fmt.Errorf("marshal options: %w", err)
	}
	contentJSON, err := json.Marshal(map[string]interface{}{"weeks": plan.Weeks})
	if err != nil {
		return nil, fmt.Errorf("marshal content: %w", err)
	}
	imagesJSON, err := json.Marshal(plan.Images)
	if err != nil {
		return nil, fmt.Errorf("marshal images: %w", err)
	}

	course := &types.Course{
		ID:              uuid.New(),
		UserID:          userID,
		Title:           plan.Title,
		Options:         datatypes.JSON(optsJSON),
		Content:         datatypes.JSON(contentJSON),
		Images:          datatypes.JSON(imagesJSON),
		NutritionAdvice: plan.NutritionAdvice,
		TokensSpent:     breakdown.Total,
	}

	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := cs.ledger.RecordSpend(ctx, tx, userID, breakdown.Total, types.TxTypeSpend, map[string]interface{}{
			"reason":   "course_generation",
			"courseId": course.ID.String(),
			"subtotal": breakdown.Subtotal,
			"margin":   breakdown.Margin,
		}); err != nil {
			return err
		}
		if _, err := cs.courseRepo.Create(ctx, tx, []*types.Course{course}); err != nil {
			return fmt.Errorf("create course: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if url, err := cs.RenderAndStorePDF(ctx, course.ID); err != nil {
		cs.log.Warn("course pdf render failed", "courseId", course.ID, "error", err)
	} else {
		course.PDFURL = url
	}

	cs.log.Info("course generated", "courseId", course.ID, "tokens", breakdown.Total)
	return course, nil
}

func (cs *courseService) GetUserCourses(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = cs.db
	}
	courses, err := cs.courseRepo.GetByUserIDs(ctx, transaction, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}
	return courses, nil
}

func (cs *courseService) GetCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = cs.db
	}
	courses, err := cs.courseRepo.GetByIDs(ctx, transaction, []uuid.UUID{courseID})
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if len(courses) == 0 || courses[0].UserID != userID {
		return nil, &NotFoundError{Resource: "course", ID: courseID.String()}
	}
	return courses[0], nil
}

func (cs *courseService) RegenerateDay(ctx context.Context, userID, courseID uuid.UUID, week, day int) (*types.Course, error) {
	return cs.regenerate(ctx, userID, courseID, cs.engine.RegenerateDayCost(), "regenerate_day",
		func(course *types.Course) (map[string]interface{}, int, error) {
			replacement, err := cs.generator.RegenerateDay(ctx, course, week, day)
			return replacement, week, err
		}, func(weekContent, replacement map[string]interface{}) error {
			sessions, ok := weekContent["sessions"].([]interface{})
			if !ok || day < 1 || day > len(sessions) {
				return &ValidationError{Field: "day", Msg: "no such day in week"}
			}
			sessions[day-1] = replacement
			weekContent["sessions"] = sessions
			return nil
		})
}

func (cs *courseService) RegenerateWeek(ctx context.Context, userID, courseID uuid.UUID, week int) (*types.Course, error) {
	return cs.regenerate(ctx, userID, courseID, cs.engine.RegenerateWeekCost(), "regenerate_week",
		func(course *types.Course) (map[string]interface{}, int, error) {
			replacement, err := cs.generator.RegenerateWeek(ctx, course, week)
			return replacement, week, err
		}, func(weekContent, replacement map[string]interface{}) error {
			for k := range weekContent {
				delete(weekContent, k)
			}
			for k, v := range replacement {
				weekContent[k] = v
			}
			return nil
		})
}

// regenerate funnels both regeneration shapes through one debit+swap path:
// load owned course, produce replacement content, patch the stored weeks,
// charge the fixed cost and clear the stale pdf_url in a single transaction.
func (cs *courseService) regenerate(
	ctx context.Context,
	userID, courseID uuid.UUID,
	cost int64,
	reason string,
	produce func(*types.Course) (map[string]interface{}, int, error),
	patch func(weekContent, replacement map[string]interface{}) error,
) (*types.Course, error) {
	course, err := cs.GetCourse(ctx, nil, userID, courseID)
	if err != nil {
		return nil, err
	}

	replacement, week, err := produce(course)
	if err != nil {
		return nil, fmt.Errorf("generate replacement: %w", err)
	}

	var content map[string]interface{}
	if err := json.Unmarshal(course.Content, &content); err != nil {
		return nil, fmt.Errorf("decode course content: %w", err)
	}
	weeks, ok := content["weeks"].([]interface{})
	if !ok || week < 1 || week > len(weeks) {
		return nil, &ValidationError{Field: "week", Msg: "no such week in course"}
	}
	weekContent, ok := weeks[week-1].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("malformed week %d in course %s", week, courseID)
	}
	if err := patch(weekContent, replacement); err != nil {
		return nil, err
	}
	newContent, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("marshal content: %w", err)
	}

	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := cs.ledger.RecordSpend(ctx, tx, userID, cost, types.TxTypeSpend, map[string]interface{}{
			"reason":   reason,
			"courseId": courseID.String(),
			"week":     week,
		}); err != nil {
			return err
		}
		if err := cs.courseRepo.ReplaceContent(ctx, tx, courseID, datatypes.JSON(newContent), cost); err != nil {
			return fmt.Errorf("replace content: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	course.Content = datatypes.JSON(newContent)
	course.TokensSpent += cost
	course.PDFURL = ""
	cs.log.Info("course regenerated", "courseId", courseID, "scope", reason, "tokens", cost)
	return course, nil
}

func (cs *courseService) RenderAndStorePDF(ctx context.Context, courseID uuid.UUID) (string, error) {
	if cs.renderer == nil || cs.bucket == nil {
		return "", fmt.Errorf("pdf rendering not configured")
	}
	courses, err := cs.courseRepo.GetByIDs(ctx, nil, []uuid.UUID{courseID})
	if err != nil {
		return "", fmt.Errorf("load course: %w", err)
	}
	if len(courses) == 0 {
		return "", &NotFoundError{Resource: "course", ID: courseID.String()}
	}
	course := courses[0]

	raw, err := cs.renderer.Render(ctx, course)
	if err != nil {
		return "", fmt.Errorf("render pdf: %w", err)
	}
	key := fmt.Sprintf("courses/%s.pdf", course.ID)
	if err := cs.bucket.UploadFile(ctx, key, bytes.NewReader(raw), "application/pdf"); err != nil {
		return "", fmt.Errorf("upload pdf: %w", err)
	}
	url := cs.bucket.GetPublicURL(key)
	if err := cs.courseRepo.SetPDFURL(ctx, nil, course.ID, url); err != nil {
		return "", fmt.Errorf("record pdf url: %w", err)
	}
	return url, nil
}
