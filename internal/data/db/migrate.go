package db

import (
	types "github.com/fitforge/fitforge-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Identity
		&types.User{},

		// Token economy
		&types.TokenTransaction{},

		// Coaching
		&types.Coach{},
		&types.Booking{},

		// Plans
		&types.CoachRequest{},
		&types.Course{},
	)
}
