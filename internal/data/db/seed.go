package db

import (
	"context"

	types "github.com/fitforge/fitforge-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// defaultCoaches is the built-in catalog. Re-running the seed updates
// profile fields in place instead of duplicating rows.
var defaultCoaches = []*types.Coach{
	{
		Slug:     "lena-hartmann",
		Name:     "Lena Hartmann",
		Headline: "Strength and conditioning, 10+ years",
		Bio:      "Former competitive powerlifter. Builds no-nonsense barbell programs for busy people.",
	},
	{
		Slug:     "marco-silva",
		Name:     "Marco Silva",
		Headline: "Endurance and hybrid training",
		Bio:      "Triathlon coach focused on sustainable volume and injury-free progression.",
	},
	{
		Slug:     "aisha-okafor",
		Name:     "Aisha Okafor",
		Headline: "Bodyweight and mobility specialist",
		Bio:      "Calisthenics coach. Minimal equipment, maximal control.",
	},
	{
		Slug:     "tom-keller",
		Name:     "Tom Keller",
		Headline: "Nutrition-first body recomposition",
		Bio:      "Pairs training blocks with practical meal structure. No crash diets.",
	},
}

func SeedCoaches(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "headline", "bio", "updated_at"}),
		}).
		Create(&defaultCoaches).Error
}
