package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	badgeDTO "cyberquiz_backend/internals/features/progress/badges/dto"
	"cyberquiz_backend/internals/features/progress/leaderboard/cache"
	"cyberquiz_backend/internals/features/progress/progress/dto"
	"cyberquiz_backend/internals/features/progress/progress/service"
	categoryDTO "cyberquiz_backend/internals/features/quiz/categories/dto"
	userDTO "cyberquiz_backend/internals/features/users/user/dto"
	helper "cyberquiz_backend/internals/helpers"
)

type UserProgressController struct {
	DB    *gorm.DB
	Cache *cache.LeaderboardCache
}

func NewUserProgressController(db *gorm.DB, lb *cache.LeaderboardCache) *UserProgressController {
	return &UserProgressController{DB: db, Cache: lb}
}

// GET /api/progress/:userId
func (ctrl *UserProgressController) Dashboard(c *fiber.Ctx) error {
	userID, err := helper.ParseUintParam(c, "userId")
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	d, err := service.LoadDashboard(c.UserContext(), ctrl.DB, userID)
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	return helper.JsonOK(c, "dashboard", dto.DashboardResponse{
		User:         userDTO.FromModel(d.User),
		Progress:     categoryDTO.FromCategoryProgress(d.Progress),
		EarnedBadges: badgeDTO.FromEarned(d.EarnedBadges),
		AllBadges:    badgeDTO.FromModels(d.AllBadges),
		Performance:  dto.FromTypeStats(d.Performance),
	})
}

// POST /api/reset-progress
func (ctrl *UserProgressController) Reset(c *fiber.Ctx) error {
	var req dto.ResetProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := helper.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	ctx := c.UserContext()
	res, err := service.ResetCategoryProgress(ctx, ctrl.DB, req.UserID, req.CategoryID)
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	if err := ctrl.Cache.Invalidate(ctx); err != nil {
		log.Printf("[WARN] leaderboard cache invalidate: %v", err)
	}

	return helper.JsonOK(c, "progress reset", dto.ResetProgressResponse{
		UserID:          req.UserID,
		CategoryID:      req.CategoryID,
		DeletedAttempts: res.DeletedAttempts,
		TotalPoints:     res.TotalPoints,
	})
}
