package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fitforge/fitforge-backend/internal/data/repos/testutil"
	types "github.com/fitforge/fitforge-backend/internal/domain"
)

func TestGetConfirmedInWindow(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewBookingRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, uuid.NewString()+"@test.local")
	coach := testutil.SeedCoach(t, ctx, tx, "win-"+uuid.NewString())
	other := testutil.SeedCoach(t, ctx, tx, "win-"+uuid.NewString())

	base := time.Date(2027, 3, 1, 9, 0, 0, 0, time.UTC)

	inside := testutil.SeedBooking(t, ctx, tx, u.ID, coach.ID, base.Add(1*time.Hour), 1)
	atFrom := testutil.SeedBooking(t, ctx, tx, u.ID, coach.ID, base, 1)
	testutil.SeedBooking(t, ctx, tx, u.ID, coach.ID, base.Add(-1*time.Hour), 1)  // before window
	testutil.SeedBooking(t, ctx, tx, u.ID, coach.ID, base.Add(4*time.Hour), 1)   // at to, excluded
	testutil.SeedBooking(t, ctx, tx, u.ID, other.ID, base.Add(1*time.Hour), 1)   // other coach

	cancelled := testutil.SeedBooking(t, ctx, tx, u.ID, coach.ID, base.Add(2*time.Hour), 1)
	if _, err := repo.SetStatus(ctx, tx, cancelled.ID, types.BookingStatusConfirmed, types.BookingStatusCancelled); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	got, err := repo.GetConfirmedInWindow(ctx, tx, coach.ID, base, base.Add(4*time.Hour))
	if err != nil {
		t.Fatalf("GetConfirmedInWindow: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 bookings in window, got %d", len(got))
	}
	if got[0].ID != atFrom.ID || got[1].ID != inside.ID {
		t.Fatalf("unexpected window contents: %s, %s", got[0].ID, got[1].ID)
	}
}

func TestSetStatusReportsNoMatch(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewBookingRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, uuid.NewString()+"@test.local")
	coach := testutil.SeedCoach(t, ctx, tx, "st-"+uuid.NewString())
	b := testutil.SeedBooking(t, ctx, tx, u.ID, coach.ID, time.Date(2027, 4, 1, 10, 0, 0, 0, time.UTC), 2)

	flipped, err := repo.SetStatus(ctx, tx, b.ID, types.BookingStatusConfirmed, types.BookingStatusCancelled)
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if !flipped {
		t.Fatal("expected first cancel to flip the row")
	}

	flipped, err = repo.SetStatus(ctx, tx, b.ID, types.BookingStatusConfirmed, types.BookingStatusCancelled)
	if err != nil {
		t.Fatalf("SetStatus repeat: %v", err)
	}
	if flipped {
		t.Fatal("second cancel should not match any row")
	}
}
