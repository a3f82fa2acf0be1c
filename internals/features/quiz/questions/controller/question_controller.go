package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	categoryModel "cyberquiz_backend/internals/features/quiz/categories/model"
	"cyberquiz_backend/internals/features/quiz/questions/dto"
	"cyberquiz_backend/internals/features/quiz/questions/service"
	helper "cyberquiz_backend/internals/helpers"
)

type QuestionController struct {
	DB   *gorm.DB
	Rand service.Rand
}

func NewQuestionController(db *gorm.DB, rng service.Rand) *QuestionController {
	if rng == nil {
		rng = service.DefaultRand
	}
	return &QuestionController{DB: db, Rand: rng}
}

// GET /api/questions/:userId/:categoryId
// data is null once the learner has attempted every active question.
func (qc *QuestionController) Next(c *fiber.Ctx) error {
	userID, err := helper.ParseUintParam(c, "userId")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	categoryID, err := helper.ParseUintParam(c, "categoryId")
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	ctx := c.UserContext()
	q, err := service.SelectNextQuestion(ctx, qc.DB, qc.Rand, userID, categoryID)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if q == nil {
		return helper.JsonOK(c, "no more questions in this category", nil)
	}

	var qt categoryModel.QuestionTypeModel
	if err := qc.DB.WithContext(ctx).First(&qt, "question_type_id = ?", q.QuestionTypeID).Error; err != nil {
		log.Printf("[WARN] question=%d: load type %d: %v", q.QuestionID, q.QuestionTypeID, err)
		return helper.JsonOK(c, "next question", dto.FromModel(q, nil))
	}
	return helper.JsonOK(c, "next question", dto.FromModel(q, &qt))
}
