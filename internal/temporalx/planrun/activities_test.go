package planrun

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fitforge/fitforge-backend/internal/data/repos"
	"github.com/fitforge/fitforge-backend/internal/data/repos/testutil"
	types "github.com/fitforge/fitforge-backend/internal/domain"
	"github.com/fitforge/fitforge-backend/internal/services"
)

func TestGenerateRetryReusesCourse(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)

	u := testutil.SeedUser(t, ctx, db, fmt.Sprintf("planrun-%s@example.com", uuid.New()))
	c := testutil.SeedCoach(t, ctx, db, fmt.Sprintf("planrun-%s", uuid.New()))
	t.Cleanup(func() {
		db.Exec(`DELETE FROM course WHERE user_id = ?`, u.ID)
		db.Exec(`DELETE FROM coach_request WHERE user_id = ?`, u.ID)
		db.Exec(`DELETE FROM coach WHERE id = ?`, c.ID)
		db.Exec(`DELETE FROM "user" WHERE id = ?`, u.ID)
	})

	req := &types.CoachRequest{
		ID:           uuid.New(),
		UserID:       u.ID,
		CoachID:      c.ID,
		CoachSlug:    c.Slug,
		Goal:         "drop 5kg before summer",
		Level:        "Beginner",
		TrainingType: "Home",
		Equipment:    "None",
		DaysPerWeek:  3,
		Status:       types.RequestStatusProcessing,
		TokensSpent:  9000,
		AvailableAt:  time.Now().Add(24 * time.Hour),
	}
	if err := db.WithContext(ctx).Create(req).Error; err != nil {
		t.Fatalf("seed request: %v", err)
	}

	acts := &Activities{
		Log:       log,
		DB:        db,
		Requests:  repos.NewCoachRequestRepo(db, log),
		Users:     repos.NewUserRepo(db, log),
		Courses:   repos.NewCourseRepo(db, log),
		Generator: services.NewStubPlanGenerator(log),
	}

	first, err := acts.Generate(ctx, req.ID.String())
	if err != nil {
		t.Fatalf("first Generate: %v", err)
	}

	// The course row is committed but the request was never linked: the
	// state a worker crash leaves behind before the activity result lands.
	second, err := acts.Generate(ctx, req.ID.String())
	if err != nil {
		t.Fatalf("retried Generate: %v", err)
	}
	if first.CourseID != second.CourseID {
		t.Fatalf("retry created a different course: %s vs %s", first.CourseID, second.CourseID)
	}

	var count int64
	if err := db.Model(&types.Course{}).Where("user_id = ?", u.ID).Count(&count).Error; err != nil {
		t.Fatalf("count courses: %v", err)
	}
	if count != 1 {
		t.Fatalf("course rows = %d, want 1", count)
	}

	// After linking, re-runs short-circuit on the request itself.
	if err := acts.LinkCourse(ctx, req.ID.String(), first.CourseID); err != nil {
		t.Fatalf("LinkCourse: %v", err)
	}
	third, err := acts.Generate(ctx, req.ID.String())
	if err != nil {
		t.Fatalf("Generate after link: %v", err)
	}
	if third.CourseID != first.CourseID {
		t.Fatalf("post-link Generate returned %s, want %s", third.CourseID, first.CourseID)
	}
}
