package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"cyberquiz_backend/internals/features/progress/leaderboard/cache"
	"cyberquiz_backend/internals/features/progress/leaderboard/service"
	helper "cyberquiz_backend/internals/helpers"
)

type LeaderboardController struct {
	DB    *gorm.DB
	Cache *cache.LeaderboardCache
}

func NewLeaderboardController(db *gorm.DB, lb *cache.LeaderboardCache) *LeaderboardController {
	return &LeaderboardController{DB: db, Cache: lb}
}

// GET /api/leaderboard?limit=
// Cache failures fall back to the database.
func (lc *LeaderboardController) Top(c *fiber.Ctx) error {
	limit := helper.ResolveLimit(c, service.DefaultLimit, service.MaxLimit)
	ctx := c.UserContext()

	// gen is read before the database so a submission committed meanwhile
	// retires whatever this request stores.
	entries, gen, ok, err := lc.Cache.Get(ctx, limit)
	if err != nil {
		log.Printf("[WARN] leaderboard cache get: %v", err)
	}
	if ok {
		return helper.JsonList(c, "leaderboard", entries, len(entries))
	}

	entries, err = service.Top(ctx, lc.DB, limit)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if err := lc.Cache.Set(ctx, gen, limit, entries); err != nil {
		log.Printf("[WARN] leaderboard cache set: %v", err)
	}
	return helper.JsonList(c, "leaderboard", entries, len(entries))
}
