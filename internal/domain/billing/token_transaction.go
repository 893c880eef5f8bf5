package billing

import (
	"time"

	"github.com/fitforge/fitforge-backend/internal/domain/user"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	TxTypeTopup  = "topup"
	TxTypeSpend  = "spend"
	TxTypeRefund = "refund"
)

// TokenTransaction is one signed, immutable ledger row. The row is never
// updated after insert; corrections are new offsetting rows. A user's balance
// is the sum of all their amounts.
type TokenTransaction struct {
	ID     uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	// Type is "topup", "spend" or "refund"; Amount's sign must match
	// (negative for spend, positive otherwise).
	Type   string `gorm:"column:type;not null;index" json:"type"`
	Amount int64  `gorm:"column:amount;not null" json:"amount"`

	Meta datatypes.JSON `gorm:"column:meta;type:jsonb" json:"meta"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (TokenTransaction) TableName() string { return "token_transaction" }
