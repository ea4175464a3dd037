// Package quota tracks local spend against the billed places API.
package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"reviewhunter/internal/domain"
	"reviewhunter/pkg/errcodes"
)

const (
	keyPrefix = "reviewhunter:quota:"

	// Day buckets are kept around long enough to survive clock skew between
	// instances, then expire on their own.
	bucketTTL = 48 * time.Hour
)

// Budget enforces a daily cap on upstream API calls using a redis day-bucket
// counter shared by all instances.
type Budget struct {
	rdb      *redis.Client
	dailyCap int
}

func NewBudget(rdb *redis.Client, dailyCap int) *Budget {
	return &Budget{
		rdb:      rdb,
		dailyCap: dailyCap,
	}
}

// Spend consumes calls from today's bucket. It fails with QuotaExceeded once
// the daily cap is passed; the call that crossed the cap is already counted,
// so retries keep failing until the next UTC day.
func (b *Budget) Spend(ctx context.Context, calls int) error {
	if b == nil || b.dailyCap <= 0 {
		return nil
	}

	key := keyPrefix + time.Now().UTC().Format("20060102")

	pipe := b.rdb.TxPipeline()
	total := pipe.IncrBy(ctx, key, int64(calls))
	pipe.Expire(ctx, key, bucketTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis incr %s: %w", key, err)
	}

	if total.Val() > int64(b.dailyCap) {
		return domain.NewError(errcodes.QuotaExceeded,
			fmt.Sprintf("daily places api budget of %d calls spent", b.dailyCap))
	}

	return nil
}
