package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	badgeController "cyberquiz_backend/internals/features/progress/badges/controller"
)

func BadgeRoutes(router fiber.Router, db *gorm.DB) {
	ctrl := badgeController.NewBadgeController(db)

	router.Get("/badges", ctrl.List)
}
