package booking

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Coach struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Slug      string    `gorm:"uniqueIndex;not null;column:slug" json:"slug"`
	Name      string    `gorm:"not null;column:name" json:"name"`
	Headline  string    `gorm:"column:headline" json:"headline"`
	Bio       string    `gorm:"column:bio;type:text" json:"bio,omitempty"`
	AvatarURL string    `gorm:"column:avatar_url" json:"avatar_url,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Coach) TableName() string { return "coach" }
