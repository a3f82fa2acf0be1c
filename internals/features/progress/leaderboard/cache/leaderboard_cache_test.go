package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"cyberquiz_backend/internals/features/progress/leaderboard/dto"
)

func newTestCache(t *testing.T, ttl time.Duration) (*LeaderboardCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewLeaderboardCache(client, ttl), mr
}

func TestNilCacheIsAlwaysMiss(t *testing.T) {
	c := NewLeaderboardCache(nil, time.Minute)
	if c != nil {
		t.Fatalf("cache without client = %v, want nil", c)
	}
	ctx := context.Background()

	entries, gen, ok, err := c.Get(ctx, 10)
	if err != nil || ok || entries != nil {
		t.Fatalf("get = %v %v %v, want miss", entries, ok, err)
	}
	if err := c.Set(ctx, gen, 10, []dto.LeaderboardEntry{{Rank: 1, Name: "Ava"}}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
}

func TestCacheRoundTripPerLimit(t *testing.T) {
	c, mr := newTestCache(t, 30*time.Second)
	ctx := context.Background()
	top := []dto.LeaderboardEntry{{Rank: 1, UserID: 7, Name: "Ava", TotalPoints: 40, BestStreak: 3, BadgeCount: 2}}

	_, gen, ok, err := c.Get(ctx, 10)
	if err != nil || ok {
		t.Fatalf("first get: ok=%v err=%v, want miss", ok, err)
	}
	if err := c.Set(ctx, gen, 10, top); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, _, ok, err := c.Get(ctx, 10)
	if err != nil || !ok {
		t.Fatalf("second get: ok=%v err=%v, want hit", ok, err)
	}
	if len(got) != 1 || got[0] != top[0] {
		t.Fatalf("entries = %+v, want %+v", got, top)
	}
	if _, _, ok, _ := c.Get(ctx, 5); ok {
		t.Fatal("limit 5 hit although only limit 10 was stored")
	}
	if ttl := mr.TTL(entriesKey(0)); ttl <= 0 || ttl > 30*time.Second {
		t.Fatalf("ttl = %v, want within 30s", ttl)
	}

	mr.FastForward(31 * time.Second)
	if _, _, ok, _ := c.Get(ctx, 10); ok {
		t.Fatal("entry survived its ttl")
	}
}

func TestInvalidateDropsCachedEntries(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	_, gen, _, _ := c.Get(ctx, 10)
	if err := c.Set(ctx, gen, 10, []dto.LeaderboardEntry{{Rank: 1, Name: "Ava"}}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, _, ok, err := c.Get(ctx, 10); err != nil || ok {
		t.Fatalf("get after invalidate: ok=%v err=%v, want miss", ok, err)
	}
}

func TestSetFromBeforeInvalidateIsNeverServed(t *testing.T) {
	c, _ := newTestCache(t, 30*time.Second)
	ctx := context.Background()

	// reader misses and computes from the database before the answer commits
	_, gen, ok, err := c.Get(ctx, 10)
	if err != nil || ok {
		t.Fatalf("reader get: ok=%v err=%v, want miss", ok, err)
	}
	stale := []dto.LeaderboardEntry{{Rank: 1, UserID: 1, Name: "Ava", TotalPoints: 0}}

	// the answer commits and invalidates before the reader stores its rows
	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if err := c.Set(ctx, gen, 10, stale); err != nil {
		t.Fatalf("late set: %v", err)
	}

	got, next, ok, err := c.Get(ctx, 10)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("served %+v stored before the invalidation", got)
	}

	fresh := []dto.LeaderboardEntry{{Rank: 1, UserID: 1, Name: "Ava", TotalPoints: 10}}
	if err := c.Set(ctx, next, 10, fresh); err != nil {
		t.Fatalf("fresh set: %v", err)
	}
	got, _, ok, err = c.Get(ctx, 10)
	if err != nil || !ok || got[0].TotalPoints != 10 {
		t.Fatalf("get = %+v ok=%v err=%v, want fresh entries", got, ok, err)
	}
}

func TestGetFailureSkipsSet(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	if err := c.client.Ping(ctx).Err(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	mr.SetError("ERR server unavailable")
	_, gen, ok, err := c.Get(ctx, 10)
	if err == nil || ok {
		t.Fatalf("get with failing redis: ok=%v err=%v, want error", ok, err)
	}
	mr.SetError("")

	if err := c.Set(ctx, gen, 10, []dto.LeaderboardEntry{{Rank: 1, Name: "Ava"}}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if mr.Exists(entriesKey(0)) {
		t.Fatal("set stored entries without a known generation")
	}
}
