package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitforge/fitforge-backend/internal/data/repos"
	"github.com/fitforge/fitforge-backend/internal/data/repos/testutil"
	types "github.com/fitforge/fitforge-backend/internal/domain"
)

func newLedgerForTest(tb testing.TB, db *gorm.DB) LedgerService {
	tb.Helper()
	log := testutil.Logger(tb)
	return NewLedgerService(db, log, repos.NewTokenTransactionRepo(db, log), nil)
}

func cleanupUser(tb testing.TB, db *gorm.DB, userID uuid.UUID) {
	tb.Helper()
	tb.Cleanup(func() {
		db.Exec(`DELETE FROM token_transaction WHERE user_id = ?`, userID)
		db.Exec(`DELETE FROM booking WHERE user_id = ?`, userID)
		db.Exec(`DELETE FROM coach_request WHERE user_id = ?`, userID)
		db.Exec(`DELETE FROM course WHERE user_id = ?`, userID)
		db.Exec(`DELETE FROM "user" WHERE id = ?`, userID)
	})
}

func TestBalanceIsSumOfTransactions(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	ledger := newLedgerForTest(t, db)

	u := testutil.SeedUser(t, ctx, tx, "ledger-sum@example.com")

	if _, err := ledger.RecordTopup(ctx, tx, u.ID, 10000, nil); err != nil {
		t.Fatalf("topup: %v", err)
	}
	if _, err := ledger.RecordTopup(ctx, tx, u.ID, 2500, nil); err != nil {
		t.Fatalf("topup: %v", err)
	}
	if _, err := ledger.RecordSpend(ctx, tx, u.ID, 4000, types.TxTypeSpend, nil); err != nil {
		t.Fatalf("spend: %v", err)
	}

	balance, err := ledger.GetBalance(ctx, tx, u.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 8500 {
		t.Fatalf("balance = %d, want 8500", balance)
	}

	txs, err := ledger.GetTransactions(ctx, tx, u.ID)
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("got %d transactions, want 3", len(txs))
	}
	var sum int64
	for _, row := range txs {
		sum += row.Amount
	}
	if sum != balance {
		t.Fatalf("sum of rows %d != balance %d", sum, balance)
	}
}

func TestRecordSpendInsufficient(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	ledger := newLedgerForTest(t, db)

	u := testutil.SeedUser(t, ctx, tx, "ledger-short@example.com")
	if _, err := ledger.RecordTopup(ctx, tx, u.ID, 100, nil); err != nil {
		t.Fatalf("topup: %v", err)
	}

	_, err := ledger.RecordSpend(ctx, tx, u.ID, 200, types.TxTypeSpend, nil)
	var insufficient *InsufficientTokensError
	if !errors.As(err, &insufficient) {
		t.Fatalf("err = %v, want InsufficientTokensError", err)
	}
	if insufficient.Balance != 100 || insufficient.Required != 200 {
		t.Fatalf("error carries balance=%d required=%d, want 100/200", insufficient.Balance, insufficient.Required)
	}

	balance, err := ledger.GetBalance(ctx, tx, u.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 100 {
		t.Fatalf("failed spend changed balance: %d", balance)
	}
}

func TestRecordSpendToZero(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	ledger := newLedgerForTest(t, db)

	u := testutil.SeedUser(t, ctx, tx, "ledger-zero@example.com")
	if _, err := ledger.RecordTopup(ctx, tx, u.ID, 300, nil); err != nil {
		t.Fatalf("topup: %v", err)
	}
	if _, err := ledger.RecordSpend(ctx, tx, u.ID, 300, types.TxTypeSpend, nil); err != nil {
		t.Fatalf("spend to zero should succeed: %v", err)
	}
	balance, err := ledger.GetBalance(ctx, tx, u.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 0 {
		t.Fatalf("balance = %d, want 0", balance)
	}
}

func TestRecordSpendRejectsNonPositive(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	ledger := newLedgerForTest(t, db)

	u := testutil.SeedUser(t, ctx, tx, "ledger-nonpos@example.com")
	for _, amount := range []int64{0, -50} {
		_, err := ledger.RecordSpend(ctx, tx, u.ID, amount, types.TxTypeSpend, nil)
		var v *ValidationError
		if !errors.As(err, &v) {
			t.Fatalf("spend %d: err = %v, want ValidationError", amount, err)
		}
	}
}

// Two goroutines race to spend more than the balance supports together.
// Exactly one may win; the advisory lock serializes the check-then-insert.
func TestConcurrentSpendsSingleWinner(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	ledger := newLedgerForTest(t, db)

	email := fmt.Sprintf("ledger-race-%s@example.com", uuid.New())
	u := testutil.SeedUser(t, ctx, db, email)
	cleanupUser(t, db, u.ID)

	if _, err := ledger.RecordTopup(ctx, nil, u.ID, 1000, nil); err != nil {
		t.Fatalf("topup: %v", err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = ledger.RecordSpend(ctx, nil, u.ID, 700, types.TxTypeSpend, nil)
		}(i)
	}
	wg.Wait()

	var wins, shortfalls int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		default:
			var insufficient *InsufficientTokensError
			if !errors.As(err, &insufficient) {
				t.Fatalf("unexpected error: %v", err)
			}
			shortfalls++
		}
	}
	if wins != 1 || shortfalls != 1 {
		t.Fatalf("wins=%d shortfalls=%d, want exactly one of each", wins, shortfalls)
	}

	balance, err := ledger.GetBalance(ctx, nil, u.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 300 {
		t.Fatalf("balance = %d, want 300", balance)
	}
}
