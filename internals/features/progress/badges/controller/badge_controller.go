package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"cyberquiz_backend/internals/features/progress/badges/dto"
	"cyberquiz_backend/internals/features/progress/badges/service"
	helper "cyberquiz_backend/internals/helpers"
)

type BadgeController struct {
	DB *gorm.DB
}

func NewBadgeController(db *gorm.DB) *BadgeController {
	return &BadgeController{DB: db}
}

// GET /api/badges
func (bc *BadgeController) List(c *fiber.Ctx) error {
	badges, err := service.ListAll(c.UserContext(), bc.DB)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonList(c, "badges", dto.FromModels(badges), len(badges))
}
