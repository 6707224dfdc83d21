package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/densitymap/densitymap/internal/repository"
	"github.com/redis/go-redis/v9"
)

const tallyTTL = 7 * 24 * time.Hour

// TallyCache keeps per-cell vote value counts in a Redis hash so the
// hex detail endpoint doesn't hit the ledger on every hover. A nil
// Redis client disables the cache; reads fall through to the database.
type TallyCache struct {
	rdb  *redis.Client
	repo repository.VoteRepository
}

func NewTallyCache(rdb *redis.Client, repo repository.VoteRepository) *TallyCache {
	return &TallyCache{rdb: rdb, repo: repo}
}

func tallyKey(mode, hexID string) string {
	return fmt.Sprintf("tallies:%s:%s", mode, hexID)
}

// Increment bumps the count for one vote value after a committed
// submission.
func (t *TallyCache) Increment(ctx context.Context, hexID, mode string, voteValue int) error {
	if t.rdb == nil {
		return nil
	}

	key := tallyKey(mode, hexID)
	pipe := t.rdb.Pipeline()
	pipe.HIncrBy(ctx, key, strconv.Itoa(voteValue), 1)
	pipe.Expire(ctx, key, tallyTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// Counts returns the vote value distribution for a cell, rebuilding
// the cache from the ledger on a miss.
func (t *TallyCache) Counts(ctx context.Context, hexID, mode string) (map[int]int64, error) {
	if t.rdb != nil {
		key := tallyKey(mode, hexID)
		val, err := t.rdb.HGetAll(ctx, key).Result()
		if err == nil && len(val) > 0 {
			counts := make(map[int]int64, len(val))
			for field, raw := range val {
				value, err := strconv.Atoi(field)
				if err != nil {
					continue
				}
				count, _ := strconv.ParseInt(raw, 10, 64)
				if count > 0 {
					counts[value] = count
				}
			}
			return counts, nil
		}
	}

	counts, err := t.repo.ValueCounts(ctx, hexID, mode)
	if err != nil {
		return nil, err
	}

	if t.rdb != nil {
		key := tallyKey(mode, hexID)
		pipe := t.rdb.Pipeline()
		pipe.Del(ctx, key)
		for value, count := range counts {
			pipe.HSet(ctx, key, strconv.Itoa(value), count)
		}
		pipe.Expire(ctx, key, tallyTTL)
		_, _ = pipe.Exec(ctx)
	}

	return counts, nil
}
