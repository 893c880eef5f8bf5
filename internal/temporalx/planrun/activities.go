package planrun

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fitforge/fitforge-backend/internal/data/repos"
	types "github.com/fitforge/fitforge-backend/internal/domain"
	"github.com/fitforge/fitforge-backend/internal/platform/logger"
	"github.com/fitforge/fitforge-backend/internal/services"
)

type Activities struct {
	Log       *logger.Logger
	DB        *gorm.DB
	Requests  repos.CoachRequestRepo
	Users     repos.UserRepo
	Courses   repos.CourseRepo
	Generator services.PlanGenerator
	CourseSvc services.CourseService
	Notify    services.PlanNotifier
}

// courseIDForRequest maps a request to exactly one course id.
func courseIDForRequest(requestID uuid.UUID) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("plan-run-course:"+requestID.String()))
}

func (a *Activities) check() error {
	if a == nil || a.DB == nil || a.Requests == nil || a.Courses == nil || a.Generator == nil {
		return fmt.Errorf("planrun: activities not configured")
	}
	return nil
}

func (a *Activities) loadRequest(ctx context.Context, requestID string) (*types.CoachRequest, error) {
	id, err := uuid.Parse(strings.TrimSpace(requestID))
	if err != nil || id == uuid.Nil {
		return nil, fmt.Errorf("planrun: invalid request_id %q", requestID)
	}
	rows, err := a.Requests.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || rows[0] == nil {
		return nil, fmt.Errorf("planrun: request %s not found", id)
	}
	return rows[0], nil
}

func (a *Activities) MarkProcessing(ctx context.Context, requestID string) error {
	if err := a.check(); err != nil {
		return err
	}
	req, err := a.loadRequest(ctx, requestID)
	if err != nil {
		return err
	}
	return a.Requests.MarkProcessing(ctx, nil, req.ID)
}

// Generate creates the course for a request. Re-runs are no-ops: a request
// that already carries a course returns the same result again, and the course
// id is derived from the request id so a retry after an unreported commit
// finds the existing row instead of inserting a second one.
func (a *Activities) Generate(ctx context.Context, requestID string) (GenerateResult, error) {
	var res GenerateResult
	if err := a.check(); err != nil {
		return res, err
	}
	req, err := a.loadRequest(ctx, requestID)
	if err != nil {
		return res, err
	}

	res.AvailableAt = req.AvailableAt
	if req.CourseID != nil {
		res.CourseID = req.CourseID.String()
		return res, nil
	}

	courseID := courseIDForRequest(req.ID)
	existing, err := a.Courses.GetByIDs(ctx, nil, []uuid.UUID{courseID})
	if err != nil {
		return res, fmt.Errorf("load course: %w", err)
	}
	if len(existing) > 0 {
		res.CourseID = courseID.String()
		return res, nil
	}

	plan, err := a.Generator.GenerateFromRequest(ctx, req)
	if err != nil {
		return res, fmt.Errorf("generate plan: %w", err)
	}
	contentJSON, err := json.Marshal(map[string]interface{}{"weeks": plan.Weeks})
	if err != nil {
		return res, fmt.Errorf("marshal content: %w", err)
	}
	optsJSON, err := json.Marshal(map[string]interface{}{
		"goal":         req.Goal,
		"level":        req.Level,
		"trainingType": req.TrainingType,
		"equipment":    req.Equipment,
		"daysPerWeek":  req.DaysPerWeek,
	})
	if err != nil {
		return res, fmt.Errorf("marshal options: %w", err)
	}

	course := &types.Course{
		ID:              courseID,
		UserID:          req.UserID,
		Title:           plan.Title,
		Options:         datatypes.JSON(optsJSON),
		Content:         datatypes.JSON(contentJSON),
		NutritionAdvice: plan.NutritionAdvice,
		TokensSpent:     req.TokensSpent,
	}
	if _, err := a.Courses.Create(ctx, nil, []*types.Course{course}); err != nil {
		return res, fmt.Errorf("create course: %w", err)
	}
	res.CourseID = course.ID.String()
	return res, nil
}

func (a *Activities) LinkCourse(ctx context.Context, requestID, courseID string) error {
	if err := a.check(); err != nil {
		return err
	}
	req, err := a.loadRequest(ctx, requestID)
	if err != nil {
		return err
	}
	cid, err := uuid.Parse(strings.TrimSpace(courseID))
	if err != nil || cid == uuid.Nil {
		return fmt.Errorf("planrun: invalid course_id %q", courseID)
	}
	return a.Requests.LinkCourse(ctx, nil, req.ID, cid)
}

func (a *Activities) RenderPDF(ctx context.Context, courseID string) error {
	if a == nil || a.CourseSvc == nil {
		return fmt.Errorf("planrun: course service not configured")
	}
	cid, err := uuid.Parse(strings.TrimSpace(courseID))
	if err != nil || cid == uuid.Nil {
		return fmt.Errorf("planrun: invalid course_id %q", courseID)
	}
	_, err = a.CourseSvc.RenderAndStorePDF(ctx, cid)
	return err
}

func (a *Activities) MarkDone(ctx context.Context, requestID string) error {
	if err := a.check(); err != nil {
		return err
	}
	req, err := a.loadRequest(ctx, requestID)
	if err != nil {
		return err
	}
	return a.Requests.MarkDone(ctx, nil, req.ID)
}

func (a *Activities) MarkFailed(ctx context.Context, requestID, errMsg string) error {
	if err := a.check(); err != nil {
		return err
	}
	req, err := a.loadRequest(ctx, requestID)
	if err != nil {
		return err
	}
	return a.Requests.MarkFailed(ctx, nil, req.ID, errMsg)
}

// Notify emails the requester. A request without a linked course has no
// artifact to announce; that is logged and skipped, never an error.
func (a *Activities) NotifyUser(ctx context.Context, requestID string) error {
	if err := a.check(); err != nil {
		return err
	}
	req, err := a.loadRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req.CourseID == nil {
		if a.Log != nil {
			a.Log.Warn("no course linked, skipping notification", "request_id", req.ID)
		}
		return nil
	}
	if a.Notify == nil || a.Users == nil {
		if a.Log != nil {
			a.Log.Warn("notifier not configured, skipping notification", "request_id", req.ID)
		}
		return nil
	}

	users, err := a.Users.GetByIDs(ctx, nil, []uuid.UUID{req.UserID})
	if err != nil {
		return fmt.Errorf("load user %s: %w", req.UserID, err)
	}
	if len(users) == 0 {
		return fmt.Errorf("user %s not found", req.UserID)
	}
	courses, err := a.Courses.GetByIDs(ctx, nil, []uuid.UUID{*req.CourseID})
	if err != nil {
		return fmt.Errorf("load course %s: %w", *req.CourseID, err)
	}
	if len(courses) == 0 {
		return fmt.Errorf("course %s not found", *req.CourseID)
	}
	return a.Notify.PlanReady(ctx, users[0], courses[0])
}
