package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitforge/fitforge-backend/internal/data/repos"
	"github.com/fitforge/fitforge-backend/internal/data/repos/testutil"
	types "github.com/fitforge/fitforge-backend/internal/domain"
	"github.com/fitforge/fitforge-backend/internal/pricing"
)

func newBookingForTest(tb testing.TB, db *gorm.DB) (BookingService, LedgerService) {
	tb.Helper()
	log := testutil.Logger(tb)
	ledger := NewLedgerService(db, log, repos.NewTokenTransactionRepo(db, log), nil)
	svc := NewBookingService(db, log, pricing.NewDefaultEngine(),
		repos.NewBookingRepo(db, log), repos.NewCoachRepo(db, log), ledger)
	return svc, ledger
}

func seedBookingFixtures(tb testing.TB, db *gorm.DB, tokens int64) (*types.User, *types.Coach) {
	tb.Helper()
	ctx := context.Background()
	u := testutil.SeedUser(tb, ctx, db, fmt.Sprintf("booking-%s@example.com", uuid.New()))
	cleanupUser(tb, db, u.ID)
	slug := fmt.Sprintf("coach-%s", uuid.New())
	c := testutil.SeedCoach(tb, ctx, db, slug)
	tb.Cleanup(func() {
		db.Exec(`DELETE FROM booking WHERE coach_id = ?`, c.ID)
		db.Exec(`DELETE FROM coach WHERE id = ?`, c.ID)
	})
	if tokens > 0 {
		testutil.SeedTopup(tb, ctx, db, u.ID, tokens)
	}
	return u, c
}

func TestCreateBookingOverlapTruthTable(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	svc, _ := newBookingForTest(t, db)
	u, c := seedBookingFixtures(t, db, 100000)

	base := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)

	// Existing session 10:00-12:00.
	if _, err := svc.CreateBooking(ctx, u.ID, CreateBookingInput{
		CoachSlug: c.Slug, Date: base, DurationHours: 2,
	}); err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	cases := []struct {
		name     string
		offset   time.Duration
		hours    int
		conflict bool
	}{
		{"identical window", 0, 2, true},
		{"starts inside", time.Hour, 1, true},
		{"starts inside runs past", time.Hour, 2, true},
		{"covers existing", -time.Hour, 3, true},
		{"ends inside", -time.Hour, 2, true},
		{"touches start", -2 * time.Hour, 2, false},
		{"touches end", 2 * time.Hour, 1, false},
		{"clear before", -3 * time.Hour, 1, false},
		{"clear after", 3 * time.Hour, 1, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateBooking(ctx, u.ID, CreateBookingInput{
				CoachSlug: c.Slug, Date: base.Add(tc.offset), DurationHours: tc.hours,
			})
			var conflict *SlotConflictError
			if tc.conflict {
				if !errors.As(err, &conflict) {
					t.Fatalf("err = %v, want SlotConflictError", err)
				}
				if conflict.ConflictStart.IsZero() || !conflict.ConflictEnd.After(conflict.ConflictStart) {
					t.Fatalf("conflict window not populated: %+v", conflict)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCreateBookingConflictLeavesNoDebit(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	svc, ledger := newBookingForTest(t, db)
	u, c := seedBookingFixtures(t, db, 50000)

	base := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Hour)
	if _, err := svc.CreateBooking(ctx, u.ID, CreateBookingInput{
		CoachSlug: c.Slug, Date: base, DurationHours: 2,
	}); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	before, err := ledger.GetBalance(ctx, nil, u.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}

	_, err = svc.CreateBooking(ctx, u.ID, CreateBookingInput{
		CoachSlug: c.Slug, Date: base.Add(time.Hour), DurationHours: 1,
	})
	var conflict *SlotConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want SlotConflictError", err)
	}

	after, err := ledger.GetBalance(ctx, nil, u.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if after != before {
		t.Fatalf("rejected booking moved balance %d -> %d", before, after)
	}
}

func TestCreateBookingInsufficientTokensLeavesNoBooking(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	svc, _ := newBookingForTest(t, db)
	u, c := seedBookingFixtures(t, db, 100)

	_, err := svc.CreateBooking(ctx, u.ID, CreateBookingInput{
		CoachSlug: c.Slug, Date: time.Now().UTC().Add(24 * time.Hour), DurationHours: 1,
	})
	var insufficient *InsufficientTokensError
	if !errors.As(err, &insufficient) {
		t.Fatalf("err = %v, want InsufficientTokensError", err)
	}
	if insufficient.Required != 5000 {
		t.Fatalf("required = %d, want 5000", insufficient.Required)
	}

	bookings, err := svc.GetUserBookings(ctx, nil, u.ID)
	if err != nil {
		t.Fatalf("list bookings: %v", err)
	}
	if len(bookings) != 0 {
		t.Fatalf("rejected booking persisted: %d rows", len(bookings))
	}
}

func TestCreateBookingValidation(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	svc, _ := newBookingForTest(t, db)
	u, c := seedBookingFixtures(t, db, 100000)

	future := time.Now().UTC().Add(24 * time.Hour)

	_, err := svc.CreateBooking(ctx, u.ID, CreateBookingInput{CoachSlug: c.Slug, Date: future, DurationHours: 4})
	var pv *pricing.ValidationError
	if !errors.As(err, &pv) {
		t.Fatalf("duration 4: err = %v, want pricing.ValidationError", err)
	}

	_, err = svc.CreateBooking(ctx, u.ID, CreateBookingInput{CoachSlug: c.Slug, Date: time.Now().Add(-time.Hour), DurationHours: 1})
	var v *ValidationError
	if !errors.As(err, &v) {
		t.Fatalf("past date: err = %v, want ValidationError", err)
	}

	_, err = svc.CreateBooking(ctx, u.ID, CreateBookingInput{CoachSlug: "no-such-coach", Date: future, DurationHours: 1})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("unknown coach: err = %v, want NotFoundError", err)
	}
}

func TestCreateBookingChargesSessionCost(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	svc, ledger := newBookingForTest(t, db)
	u, c := seedBookingFixtures(t, db, 20000)

	b, err := svc.CreateBooking(ctx, u.ID, CreateBookingInput{
		CoachSlug: c.Slug, Date: time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour), DurationHours: 3,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if b.TokensCharged != 15000 {
		t.Fatalf("charged %d, want 15000", b.TokensCharged)
	}
	if b.CoachName != c.Name || b.CoachSlug != c.Slug {
		t.Fatalf("coach snapshot not denormalized: %+v", b)
	}

	balance, err := ledger.GetBalance(ctx, nil, u.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 5000 {
		t.Fatalf("balance = %d, want 5000", balance)
	}
}

func TestCancelBookingRefunds(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	svc, ledger := newBookingForTest(t, db)
	u, c := seedBookingFixtures(t, db, 10000)

	b, err := svc.CreateBooking(ctx, u.ID, CreateBookingInput{
		CoachSlug: c.Slug, Date: time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour), DurationHours: 1,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	cancelled, err := svc.CancelBooking(ctx, u.ID, b.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != types.BookingStatusCancelled {
		t.Fatalf("status = %q, want cancelled", cancelled.Status)
	}

	balance, err := ledger.GetBalance(ctx, nil, u.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 10000 {
		t.Fatalf("balance = %d, want full refund back to 10000", balance)
	}

	if _, err := svc.CancelBooking(ctx, u.ID, b.ID); err == nil {
		t.Fatal("second cancel should fail")
	}
}

func TestCancelledSlotBecomesBookable(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	svc, _ := newBookingForTest(t, db)
	u, c := seedBookingFixtures(t, db, 50000)

	date := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)
	b, err := svc.CreateBooking(ctx, u.ID, CreateBookingInput{CoachSlug: c.Slug, Date: date, DurationHours: 2})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if _, err := svc.CancelBooking(ctx, u.ID, b.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := svc.CreateBooking(ctx, u.ID, CreateBookingInput{CoachSlug: c.Slug, Date: date, DurationHours: 2}); err != nil {
		t.Fatalf("rebooking a cancelled slot should succeed: %v", err)
	}
}

func TestConcurrentBookingsSingleWinner(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	svc, ledger := newBookingForTest(t, db)

	// Two separate users racing for the same coach: the per-user ledger lock
	// cannot serialize them, only the per-coach lock can.
	u1, c := seedBookingFixtures(t, db, 100000)
	u2 := testutil.SeedUser(t, ctx, db, fmt.Sprintf("booking-race-%s@example.com", uuid.New()))
	cleanupUser(t, db, u2.ID)
	testutil.SeedTopup(t, ctx, db, u2.ID, 100000)

	date := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Hour)
	users := []uuid.UUID{u1.ID, u2.ID}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Overlapping windows: [date, date+2h) vs [date+1h, date+3h).
			_, errs[i] = svc.CreateBooking(ctx, users[i], CreateBookingInput{
				CoachSlug: c.Slug, Date: date.Add(time.Duration(i) * time.Hour), DurationHours: 2,
			})
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	winner := -1
	for i, err := range errs {
		switch {
		case err == nil:
			wins++
			winner = i
		default:
			var conflict *SlotConflictError
			if !errors.As(err, &conflict) {
				t.Fatalf("unexpected error: %v", err)
			}
			conflicts++
		}
	}
	if wins != 1 || conflicts != 1 {
		t.Fatalf("wins=%d conflicts=%d, want exactly one of each", wins, conflicts)
	}

	confirmed, err := repos.NewBookingRepo(db, testutil.Logger(t)).
		GetConfirmedInWindow(ctx, nil, c.ID, date.Add(-time.Hour), date.Add(4*time.Hour))
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	if len(confirmed) != 1 {
		t.Fatalf("confirmed bookings = %d, want 1", len(confirmed))
	}

	loser := users[1-winner]
	balance, err := ledger.GetBalance(ctx, nil, loser)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 100000 {
		t.Fatalf("loser balance = %d, want untouched 100000", balance)
	}
}
