package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"cyberquiz_backend/internals/features/progress/leaderboard/dto"
)

const (
	// generationKey is bumped on every score change. Rendered leaderboards
	// live under a hash named after the generation they were read in, one
	// field per requested limit.
	generationKey = "leaderboard:gen"
	entriesPrefix = "leaderboard:top:"
)

// LeaderboardCache keeps rendered leaderboards in Redis. A nil cache is valid
// and behaves as always-miss.
type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLeaderboardCache(client *redis.Client, ttl time.Duration) *LeaderboardCache {
	if client == nil {
		return nil
	}
	return &LeaderboardCache{client: client, ttl: ttl}
}

// Generation identifies the cache state a reader observed. Entries computed
// after observing it must be stored with Set under the same Generation.
type Generation struct {
	n     int64
	valid bool
}

func entriesKey(gen int64) string {
	return entriesPrefix + strconv.FormatInt(gen, 10)
}

// Get returns the cached entries for limit, or ok=false on a miss, together
// with the generation that was current when the lookup ran.
func (c *LeaderboardCache) Get(ctx context.Context, limit int) ([]dto.LeaderboardEntry, Generation, bool, error) {
	if c == nil {
		return nil, Generation{}, false, nil
	}
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		gen, err = 0, nil
	}
	if err != nil {
		return nil, Generation{}, false, err
	}
	g := Generation{n: gen, valid: true}

	data, err := c.client.HGet(ctx, entriesKey(gen), strconv.Itoa(limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, g, false, nil
	}
	if err != nil {
		return nil, g, false, err
	}
	var entries []dto.LeaderboardEntry
	if err := sonic.Unmarshal(data, &entries); err != nil {
		return nil, g, false, err
	}
	return entries, g, true, nil
}

// Set stores entries under gen. Once Invalidate has moved past gen the write
// lands in a hash no reader looks at and expires with the TTL.
func (c *LeaderboardCache) Set(ctx context.Context, gen Generation, limit int, entries []dto.LeaderboardEntry) error {
	if c == nil || !gen.valid {
		return nil
	}
	data, err := sonic.Marshal(entries)
	if err != nil {
		return err
	}
	key := entriesKey(gen.n)
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, strconv.Itoa(limit), data)
	pipe.Expire(ctx, key, c.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// Invalidate retires every cached leaderboard by starting a new generation.
func (c *LeaderboardCache) Invalidate(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Incr(ctx, generationKey).Err()
}
