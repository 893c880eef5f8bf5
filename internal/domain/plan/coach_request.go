package plan

import (
	"time"

	"github.com/fitforge/fitforge-backend/internal/domain/booking"
	"github.com/fitforge/fitforge-backend/internal/domain/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RequestStatusPending    = "pending"
	RequestStatusProcessing = "processing"
	RequestStatusDone       = "done"
	RequestStatusFailed     = "failed"
)

// CoachRequest is a paid request for a coach-built training plan. Status is
// monotonic (pending -> processing -> done) except for the absorbing failed
// state; CourseID is set exactly once, before the transition to done.
type CoachRequest struct {
	ID      uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User    *user.User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	CoachID uuid.UUID      `gorm:"type:uuid;not null;index" json:"coach_id"`
	Coach   *booking.Coach `gorm:"constraint:OnDelete:CASCADE;foreignKey:CoachID;references:ID" json:"coach,omitempty"`

	CoachSlug string `gorm:"not null;column:coach_slug" json:"coach_slug"`

	Goal         string `gorm:"column:goal;not null" json:"goal"`
	Level        string `gorm:"column:level;not null" json:"level"`
	TrainingType string `gorm:"column:training_type;not null" json:"training_type"`
	Equipment    string `gorm:"column:equipment;not null" json:"equipment"`
	DaysPerWeek  int    `gorm:"column:days_per_week;not null" json:"days_per_week"`
	Notes        string `gorm:"column:notes;type:text" json:"notes,omitempty"`

	Status      string     `gorm:"column:status;not null;default:'pending';index" json:"status"`
	TokensSpent int64      `gorm:"column:tokens_spent;not null" json:"tokens_spent"`
	CourseID    *uuid.UUID `gorm:"type:uuid;column:course_id;index" json:"course_id,omitempty"`
	AvailableAt time.Time  `gorm:"column:available_at;not null" json:"available_at"`
	Error       string     `gorm:"column:error;type:text" json:"error,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (CoachRequest) TableName() string { return "coach_request" }
