package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"cyberquiz_backend/internals/features/users/user/dto"
	"cyberquiz_backend/internals/features/users/user/service"
	helper "cyberquiz_backend/internals/helpers"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// POST /api/users
// Returns 201 for a new learner and 200 when the name already exists.
func (uc *UserController) CreateOrFetch(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := helper.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	user, created, err := service.CreateOrFetch(c.UserContext(), uc.DB, req.Name)
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	if created {
		log.Printf("[INFO] created user=%d name=%q", user.UserID, user.UserName)
		return helper.JsonCreated(c, "user created", dto.FromModel(user))
	}
	return helper.JsonOK(c, "user found", dto.FromModel(user))
}

// GET /api/users/:userId
func (uc *UserController) GetByID(c *fiber.Ctx) error {
	userID, err := helper.ParseUintParam(c, "userId")
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	user, err := service.GetByID(c.UserContext(), uc.DB, userID)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "user found", dto.FromModel(user))
}
