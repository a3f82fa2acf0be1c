package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	questionController "cyberquiz_backend/internals/features/quiz/questions/controller"
)

func QuestionRoutes(router fiber.Router, db *gorm.DB) {
	ctrl := questionController.NewQuestionController(db, nil)

	router.Get("/questions/:userId/:categoryId", ctrl.Next)
}
