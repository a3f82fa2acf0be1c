package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"cyberquiz_backend/internals/features/quiz/categories/dto"
	"cyberquiz_backend/internals/features/quiz/categories/service"
	userService "cyberquiz_backend/internals/features/users/user/service"
	helper "cyberquiz_backend/internals/helpers"
)

type CategoryController struct {
	DB *gorm.DB
}

func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{DB: db}
}

// GET /api/categories/:userId
func (cc *CategoryController) ListWithProgress(c *fiber.Ctx) error {
	userID, err := helper.ParseUintParam(c, "userId")
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	ctx := c.UserContext()
	if _, err := userService.GetByID(ctx, cc.DB, userID); err != nil {
		return helper.FromServiceError(c, err)
	}

	rows, err := service.ListWithProgress(ctx, cc.DB, userID)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonList(c, "categories", dto.FromCategoryProgress(rows), len(rows))
}
