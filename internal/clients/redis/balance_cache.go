package redis

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/google/uuid"

	"github.com/fitforge/fitforge-backend/internal/platform/logger"
)

// BalanceCache is a read-through projection of ledger balances. It is never
// authoritative: the ledger sum in Postgres is, and every write path
// invalidates the cached value.
type BalanceCache interface {
	Get(ctx context.Context, userID uuid.UUID) (int64, bool)
	Set(ctx context.Context, userID uuid.UUID, balance int64)
	Invalidate(ctx context.Context, userID uuid.UUID)
	Close() error
}

type balanceCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewBalanceCache(log *logger.Logger) (BalanceCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &balanceCache{
		log: log.With("service", "RedisBalanceCache"),
		rdb: rdb,
		ttl: 5 * time.Minute,
	}, nil
}

func balanceKey(userID uuid.UUID) string {
	return "balance:" + userID.String()
}

func (c *balanceCache) Get(ctx context.Context, userID uuid.UUID) (int64, bool) {
	if c == nil || c.rdb == nil {
		return 0, false
	}
	raw, err := c.rdb.Get(ctx, balanceKey(userID)).Result()
	if err != nil {
		if err != goredis.Nil {
			c.log.Debug("balance cache get failed", "error", err)
		}
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (c *balanceCache) Set(ctx context.Context, userID uuid.UUID, balance int64) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, balanceKey(userID), strconv.FormatInt(balance, 10), c.ttl).Err(); err != nil {
		c.log.Debug("balance cache set failed", "error", err)
	}
}

func (c *balanceCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, balanceKey(userID)).Err(); err != nil {
		c.log.Debug("balance cache invalidate failed", "error", err)
	}
}

func (c *balanceCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
