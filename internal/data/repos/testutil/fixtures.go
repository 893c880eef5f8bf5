package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/fitforge/fitforge-backend/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCoach(tb testing.TB, ctx context.Context, tx *gorm.DB, slug string) *types.Coach {
	tb.Helper()
	c := &types.Coach{
		ID:   uuid.New(),
		Slug: slug,
		Name: "Coach " + slug,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed coach: %v", err)
	}
	return c
}

func SeedTopup(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int64) *types.TokenTransaction {
	tb.Helper()
	t := &types.TokenTransaction{
		ID:     uuid.New(),
		UserID: userID,
		Type:   types.TxTypeTopup,
		Amount: amount,
		Meta:   datatypes.JSON([]byte(`{}`)),
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed topup: %v", err)
	}
	return t
}

func SeedBooking(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, coachID uuid.UUID, date time.Time, hours int) *types.Booking {
	tb.Helper()
	b := &types.Booking{
		ID:            uuid.New(),
		UserID:        userID,
		CoachID:       coachID,
		CoachSlug:     "slug",
		CoachName:     "name",
		Date:          date,
		DurationHours: hours,
		Status:        types.BookingStatusConfirmed,
		TokensCharged: 5000,
	}
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed booking: %v", err)
	}
	return b
}
