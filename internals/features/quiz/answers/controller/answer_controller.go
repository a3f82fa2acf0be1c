package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"cyberquiz_backend/internals/features/progress/leaderboard/cache"
	"cyberquiz_backend/internals/features/quiz/answers/dto"
	"cyberquiz_backend/internals/features/quiz/answers/service"
	helper "cyberquiz_backend/internals/helpers"
)

type AnswerController struct {
	DB    *gorm.DB
	Cache *cache.LeaderboardCache
}

func NewAnswerController(db *gorm.DB, lb *cache.LeaderboardCache) *AnswerController {
	return &AnswerController{DB: db, Cache: lb}
}

// POST /api/answers
func (ac *AnswerController) Submit(c *fiber.Ctx) error {
	var req dto.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := helper.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	ctx := c.UserContext()
	res, err := service.SubmitAnswer(ctx, ac.DB, req.ToSubmission())
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	if err := ac.Cache.Invalidate(ctx); err != nil {
		log.Printf("[WARN] leaderboard cache invalidate: %v", err)
	}

	return helper.JsonOK(c, "answer recorded", dto.FromResult(res))
}
