package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"cyberquiz_backend/internals/features/progress/leaderboard/cache"
	answerController "cyberquiz_backend/internals/features/quiz/answers/controller"
)

// AnswerRoutes mounts answer submission. handlers run before the controller,
// typically a stricter rate limiter.
func AnswerRoutes(router fiber.Router, db *gorm.DB, lb *cache.LeaderboardCache, handlers ...fiber.Handler) {
	ctrl := answerController.NewAnswerController(db, lb)

	router.Post("/answers", append(handlers, ctrl.Submit)...)
}
