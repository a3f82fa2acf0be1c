package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	categoryController "cyberquiz_backend/internals/features/quiz/categories/controller"
)

func CategoryRoutes(router fiber.Router, db *gorm.DB) {
	ctrl := categoryController.NewCategoryController(db)

	router.Get("/categories/:userId", ctrl.ListWithProgress)
}
