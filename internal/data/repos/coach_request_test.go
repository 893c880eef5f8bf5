package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitforge/fitforge-backend/internal/data/repos/testutil"
	types "github.com/fitforge/fitforge-backend/internal/domain"
)

func seedRequest(t *testing.T, ctx context.Context, tx *gorm.DB, status string) *types.CoachRequest {
	t.Helper()

	u := testutil.SeedUser(t, ctx, tx, uuid.NewString()+"@test.local")
	c := testutil.SeedCoach(t, ctx, tx, "req-"+uuid.NewString())

	req := &types.CoachRequest{
		ID:           uuid.New(),
		UserID:       u.ID,
		CoachID:      c.ID,
		CoachSlug:    c.Slug,
		Goal:         "build strength",
		Level:        "Intermediate",
		TrainingType: "Gym",
		Equipment:    "Full gym",
		DaysPerWeek:  3,
		Status:       status,
		TokensSpent:  12000,
		AvailableAt:  time.Now().Add(24 * time.Hour),
	}
	if err := tx.WithContext(ctx).Create(req).Error; err != nil {
		t.Fatalf("seed request: %v", err)
	}
	return req
}

func requestStatus(t *testing.T, ctx context.Context, repo CoachRequestRepo, tx *gorm.DB, id uuid.UUID) *types.CoachRequest {
	t.Helper()
	got, err := repo.GetByIDs(ctx, tx, []uuid.UUID{id})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 request, got %d", len(got))
	}
	return got[0]
}

func TestCoachRequestStatusTransitions(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewCoachRequestRepo(db, testutil.Logger(t))

	req := seedRequest(t, ctx, tx, types.RequestStatusPending)

	if err := repo.MarkProcessing(ctx, tx, req.ID); err != nil {
		t.Fatalf("MarkProcessing: %v", err)
	}
	if got := requestStatus(t, ctx, repo, tx, req.ID); got.Status != types.RequestStatusProcessing {
		t.Fatalf("expected processing, got %q", got.Status)
	}

	if err := repo.MarkDone(ctx, tx, req.ID); err != nil {
		t.Fatalf("MarkDone: %v", err)
	}
	if got := requestStatus(t, ctx, repo, tx, req.ID); got.Status != types.RequestStatusDone {
		t.Fatalf("expected done, got %q", got.Status)
	}

	// Terminal: a done request can be neither demoted nor failed.
	if err := repo.MarkProcessing(ctx, tx, req.ID); err != nil {
		t.Fatalf("MarkProcessing on done: %v", err)
	}
	if err := repo.MarkFailed(ctx, tx, req.ID, "late failure"); err != nil {
		t.Fatalf("MarkFailed on done: %v", err)
	}
	got := requestStatus(t, ctx, repo, tx, req.ID)
	if got.Status != types.RequestStatusDone {
		t.Fatalf("done request mutated to %q", got.Status)
	}
	if got.Error != "" {
		t.Fatalf("done request picked up error %q", got.Error)
	}
}

func TestCoachRequestMarkDoneRequiresProcessing(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewCoachRequestRepo(db, testutil.Logger(t))

	req := seedRequest(t, ctx, tx, types.RequestStatusPending)

	if err := repo.MarkDone(ctx, tx, req.ID); err != nil {
		t.Fatalf("MarkDone: %v", err)
	}
	if got := requestStatus(t, ctx, repo, tx, req.ID); got.Status != types.RequestStatusPending {
		t.Fatalf("pending request jumped to %q", got.Status)
	}
}

func TestCoachRequestMarkFailedFromPendingAndProcessing(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewCoachRequestRepo(db, testutil.Logger(t))

	pending := seedRequest(t, ctx, tx, types.RequestStatusPending)
	if err := repo.MarkFailed(ctx, tx, pending.ID, "generator down"); err != nil {
		t.Fatalf("MarkFailed pending: %v", err)
	}
	got := requestStatus(t, ctx, repo, tx, pending.ID)
	if got.Status != types.RequestStatusFailed || got.Error != "generator down" {
		t.Fatalf("expected failed with message, got %q / %q", got.Status, got.Error)
	}

	processing := seedRequest(t, ctx, tx, types.RequestStatusProcessing)
	if err := repo.MarkFailed(ctx, tx, processing.ID, "timeout"); err != nil {
		t.Fatalf("MarkFailed processing: %v", err)
	}
	if got := requestStatus(t, ctx, repo, tx, processing.ID); got.Status != types.RequestStatusFailed {
		t.Fatalf("expected failed, got %q", got.Status)
	}
}

func TestCoachRequestLinkCourseIsWriteOnce(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewCoachRequestRepo(db, testutil.Logger(t))

	req := seedRequest(t, ctx, tx, types.RequestStatusProcessing)

	first := uuid.New()
	if err := repo.LinkCourse(ctx, tx, req.ID, first); err != nil {
		t.Fatalf("LinkCourse: %v", err)
	}
	got := requestStatus(t, ctx, repo, tx, req.ID)
	if got.CourseID == nil || *got.CourseID != first {
		t.Fatalf("expected course %s linked, got %v", first, got.CourseID)
	}

	// A retried link with a different id must not overwrite the first.
	if err := repo.LinkCourse(ctx, tx, req.ID, uuid.New()); err != nil {
		t.Fatalf("LinkCourse retry: %v", err)
	}
	got = requestStatus(t, ctx, repo, tx, req.ID)
	if got.CourseID == nil || *got.CourseID != first {
		t.Fatalf("link overwritten: got %v, want %s", got.CourseID, first)
	}
}
