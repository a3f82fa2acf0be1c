package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"cyberquiz_backend/internals/features/progress/leaderboard/cache"
	leaderboardController "cyberquiz_backend/internals/features/progress/leaderboard/controller"
)

func LeaderboardRoutes(router fiber.Router, db *gorm.DB, lb *cache.LeaderboardCache) {
	ctrl := leaderboardController.NewLeaderboardController(db, lb)

	router.Get("/leaderboard", ctrl.Top)
}
