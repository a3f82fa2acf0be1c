package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userController "cyberquiz_backend/internals/features/users/user/controller"
)

func UserRoutes(router fiber.Router, db *gorm.DB) {
	ctrl := userController.NewUserController(db)
	users := router.Group("/users")

	users.Post("/", ctrl.CreateOrFetch)
	users.Get("/:userId", ctrl.GetByID)
}
