package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"cyberquiz_backend/internals/features/progress/leaderboard/cache"
	progressController "cyberquiz_backend/internals/features/progress/progress/controller"
)

func UserProgressRoutes(router fiber.Router, db *gorm.DB, lb *cache.LeaderboardCache) {
	ctrl := progressController.NewUserProgressController(db, lb)

	router.Get("/progress/:userId", ctrl.Dashboard)
	router.Post("/reset-progress", ctrl.Reset)
}
