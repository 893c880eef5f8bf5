package booking

import (
	"time"

	"github.com/fitforge/fitforge-backend/internal/domain/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking is one paid coach session. For a given coach, confirmed bookings'
// half-open intervals [Date, Date+DurationHours) must never overlap.
type Booking struct {
	ID      uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User    *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	CoachID uuid.UUID  `gorm:"type:uuid;not null;index" json:"coach_id"`
	Coach   *Coach     `gorm:"constraint:OnDelete:CASCADE;foreignKey:CoachID;references:ID" json:"coach,omitempty"`

	// Snapshot of the coach at booking time; survives coach renames.
	CoachSlug string `gorm:"not null;column:coach_slug" json:"coach_slug"`
	CoachName string `gorm:"not null;column:coach_name" json:"coach_name"`

	Date          time.Time `gorm:"column:date;not null;index" json:"date"`
	DurationHours int       `gorm:"column:duration_hours;not null" json:"duration_hours"`
	Status        string    `gorm:"column:status;not null;default:'confirmed';index" json:"status"`
	TokensCharged int64     `gorm:"column:tokens_charged;not null" json:"tokens_charged"`
	Notes         string    `gorm:"column:notes;type:text" json:"notes,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Booking) TableName() string { return "booking" }

// Start and End expose the half-open occupancy interval [Start, End).
func (b *Booking) Start() time.Time { return b.Date }
func (b *Booking) End() time.Time {
	return b.Date.Add(time.Duration(b.DurationHours) * time.Hour)
}
