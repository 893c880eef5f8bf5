package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fitforge/fitforge-backend/internal/clients/redis"
	"github.com/fitforge/fitforge-backend/internal/data/repos"
	types "github.com/fitforge/fitforge-backend/internal/domain"
	"github.com/fitforge/fitforge-backend/internal/platform/logger"
)

// LedgerService owns the append-only token ledger. Balances are always the
// sum of a user's transaction rows; nothing ever updates or deletes a row.
type LedgerService interface {
	GetBalance(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	GetTransactions(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.TokenTransaction, error)
	RecordTopup(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int64, meta map[string]interface{}) (*types.TokenTransaction, error)
	// RecordSpend debits the user inside a single transaction, serialized
	// per user via an advisory lock so concurrent spends cannot both pass
	// the balance check. Returns InsufficientTokensError when the balance
	// cannot cover the amount.
	RecordSpend(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int64, txType string, meta map[string]interface{}) (*types.TokenTransaction, error)
	RecordRefund(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int64, meta map[string]interface{}) (*types.TokenTransaction, error)
}

type ledgerService struct {
	db     *gorm.DB
	log    *logger.Logger
	txRepo repos.TokenTransactionRepo
	cache  redis.BalanceCache
}

func NewLedgerService(
	db *gorm.DB,
	baseLog *logger.Logger,
	txRepo repos.TokenTransactionRepo,
	cache redis.BalanceCache,
) LedgerService {
	serviceLog := baseLog.With("service", "LedgerService")
	return &ledgerService{
		db:     db,
		log:    serviceLog,
		txRepo: txRepo,
		cache:  cache,
	}
}

func (ls *ledgerService) GetBalance(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ls.db
	}
	// Cache is only consulted outside an explicit transaction: inside one,
	// the caller needs the transactional view.
	if tx == nil && ls.cache != nil {
		if balance, ok := ls.cache.Get(ctx, userID); ok {
			return balance, nil
		}
	}
	balance, err := ls.txRepo.SumAmountByUserID(ctx, transaction, userID)
	if err != nil {
		return 0, fmt.Errorf("sum balance: %w", err)
	}
	if tx == nil && ls.cache != nil {
		ls.cache.Set(ctx, userID, balance)
	}
	return balance, nil
}

func (ls *ledgerService) GetTransactions(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.TokenTransaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = ls.db
	}
	txs, err := ls.txRepo.GetByUserIDs(ctx, transaction, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return txs, nil
}

func (ls *ledgerService) RecordTopup(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int64, meta map[string]interface{}) (*types.TokenTransaction, error) {
	if amount <= 0 {
		return nil, &ValidationError{Field: "amount", Msg: "topup amount must be positive"}
	}
	row := &types.TokenTransaction{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      types.TxTypeTopup,
		Amount:    amount,
		Meta:      marshalMeta(meta),
		CreatedAt: time.Now().UTC(),
	}
	run := func(transaction *gorm.DB) error {
		if _, err := ls.txRepo.Create(ctx, transaction, []*types.TokenTransaction{row}); err != nil {
			return fmt.Errorf("create topup: %w", err)
		}
		return nil
	}
	if tx != nil {
		if err := run(tx); err != nil {
			return nil, err
		}
	} else {
		if err := ls.db.WithContext(ctx).Transaction(run); err != nil {
			return nil, err
		}
	}
	ls.invalidate(ctx, userID)
	return row, nil
}

func (ls *ledgerService) RecordSpend(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int64, txType string, meta map[string]interface{}) (*types.TokenTransaction, error) {
	if amount <= 0 {
		return nil, &ValidationError{Field: "amount", Msg: "spend amount must be positive"}
	}
	if txType == "" {
		txType = types.TxTypeSpend
	}
	row := &types.TokenTransaction{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      txType,
		Amount:    -amount,
		Meta:      marshalMeta(meta),
		CreatedAt: time.Now().UTC(),
	}
	run := func(transaction *gorm.DB) error {
		if err := repos.AdvisoryXactLock(ctx, transaction, "ledger:user", userID); err != nil {
			return fmt.Errorf("acquire ledger lock: %w", err)
		}
		balance, err := ls.txRepo.SumAmountByUserID(ctx, transaction, userID)
		if err != nil {
			return fmt.Errorf("sum balance: %w", err)
		}
		if balance < amount {
			return &InsufficientTokensError{Balance: balance, Required: amount}
		}
		if _, err := ls.txRepo.Create(ctx, transaction, []*types.TokenTransaction{row}); err != nil {
			return fmt.Errorf("create spend: %w", err)
		}
		return nil
	}
	if tx != nil {
		if err := run(tx); err != nil {
			return nil, err
		}
	} else {
		if err := ls.db.WithContext(ctx).Transaction(run); err != nil {
			return nil, err
		}
	}
	ls.invalidate(ctx, userID)
	return row, nil
}

func (ls *ledgerService) RecordRefund(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int64, meta map[string]interface{}) (*types.TokenTransaction, error) {
	if amount <= 0 {
		return nil, &ValidationError{Field: "amount", Msg: "refund amount must be positive"}
	}
	row := &types.TokenTransaction{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      types.TxTypeRefund,
		Amount:    amount,
		Meta:      marshalMeta(meta),
		CreatedAt: time.Now().UTC(),
	}
	run := func(transaction *gorm.DB) error {
		if _, err := ls.txRepo.Create(ctx, transaction, []*types.TokenTransaction{row}); err != nil {
			return fmt.Errorf("create refund: %w", err)
		}
		return nil
	}
	if tx != nil {
		if err := run(tx); err != nil {
			return nil, err
		}
	} else {
		if err := ls.db.WithContext(ctx).Transaction(run); err != nil {
			return nil, err
		}
	}
	ls.invalidate(ctx, userID)
	return row, nil
}

func (ls *ledgerService) invalidate(ctx context.Context, userID uuid.UUID) {
	if ls.cache != nil {
		ls.cache.Invalidate(ctx, userID)
	}
}

func marshalMeta(meta map[string]interface{}) datatypes.JSON {
	if meta == nil {
		return datatypes.JSON([]byte(`{}`))
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return datatypes.JSON([]byte(`{}`))
	}
	return datatypes.JSON(raw)
}
