package repos

import (
	"context"
	"hash/fnv"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdvisoryXactLock takes a Postgres transaction-scoped advisory lock keyed on
// (scope, id). The lock is released automatically at commit/rollback. Both
// check-then-act sites (per-user spends, per-coach overlap checks) serialize
// through this. On non-Postgres drivers it is a no-op and serialization falls
// back to the surrounding transaction.
func AdvisoryXactLock(ctx context.Context, tx *gorm.DB, scope string, id uuid.UUID) error {
	if tx == nil || tx.Dialector.Name() != "postgres" {
		return nil
	}
	return tx.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(?)", advisoryKey(scope, id)).Error
}

func advisoryKey(scope string, id uuid.UUID) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(scope))
	_, _ = h.Write(id[:])
	return int64(h.Sum64())
}
