package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	badgeRoute "cyberquiz_backend/internals/features/progress/badges/route"
	"cyberquiz_backend/internals/features/progress/leaderboard/cache"
	leaderboardRoute "cyberquiz_backend/internals/features/progress/leaderboard/route"
	progressRoute "cyberquiz_backend/internals/features/progress/progress/route"
	answerRoute "cyberquiz_backend/internals/features/quiz/answers/route"
	categoryRoute "cyberquiz_backend/internals/features/quiz/categories/route"
	questionRoute "cyberquiz_backend/internals/features/quiz/questions/route"
	userRoute "cyberquiz_backend/internals/features/users/user/route"
	rateLimiter "cyberquiz_backend/internals/middlewares"
)

// QuizRoutes mounts the learner-facing API under /api.
func QuizRoutes(app *fiber.App, db *gorm.DB, lb *cache.LeaderboardCache, rateLimitMax int) {
	api := app.Group("/api",
		rateLimiter.GlobalRateLimiter(rateLimitMax),
	)

	userRoute.UserRoutes(api, db)
	categoryRoute.CategoryRoutes(api, db)
	questionRoute.QuestionRoutes(api, db)
	answerRoute.AnswerRoutes(api, db, lb, rateLimiter.AnswerRateLimiter(rateLimitMax))
	progressRoute.UserProgressRoutes(api, db, lb)
	leaderboardRoute.LeaderboardRoutes(api, db, lb)
	badgeRoute.BadgeRoutes(api, db)
}
