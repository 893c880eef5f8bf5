package repos

import (
	"context"

	types "github.com/fitforge/fitforge-backend/internal/domain"
	"github.com/fitforge/fitforge-backend/internal/platform/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenTransactionRepo is append-only on purpose: the ledger has no update or
// delete operations, corrections are written as new offsetting rows.
type TokenTransactionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, txns []*types.TokenTransaction) ([]*types.TokenTransaction, error)
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.TokenTransaction, error)
	SumAmountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type tokenTransactionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTokenTransactionRepo(db *gorm.DB, baseLog *logger.Logger) TokenTransactionRepo {
	return &tokenTransactionRepo{db: db, log: baseLog.With("repo", "TokenTransactionRepo")}
}

func (r *tokenTransactionRepo) Create(ctx context.Context, tx *gorm.DB, txns []*types.TokenTransaction) ([]*types.TokenTransaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(txns) == 0 {
		return []*types.TokenTransaction{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *tokenTransactionRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.TokenTransaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TokenTransaction
	if len(userIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *tokenTransactionRepo) SumAmountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var sum *int64
	if err := transaction.WithContext(ctx).
		Model(&types.TokenTransaction{}).
		Select("SUM(amount)").
		Where("user_id = ?", userID).
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}
