package plan

import (
	"time"

	"github.com/fitforge/fitforge-backend/internal/domain/user"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course is a generated training plan, either coach-built (via CoachRequest)
// or produced by the AI generator directly. TokensSpent accumulates the
// initial generation cost plus any regenerations.
type Course struct {
	ID     uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	Title   string         `gorm:"column:title;not null" json:"title"`
	Options datatypes.JSON `gorm:"column:options;type:jsonb" json:"options"`
	Content datatypes.JSON `gorm:"column:content;type:jsonb" json:"content"`
	Images  datatypes.JSON `gorm:"column:images;type:jsonb" json:"images,omitempty"`

	NutritionAdvice string `gorm:"column:nutrition_advice;type:text" json:"nutrition_advice,omitempty"`
	TokensSpent     int64  `gorm:"column:tokens_spent;not null" json:"tokens_spent"`

	// Set at most once per generation cycle; a regeneration clears it until
	// the next render completes.
	PDFURL string `gorm:"column:pdf_url" json:"pdf_url,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Course) TableName() string { return "course" }
