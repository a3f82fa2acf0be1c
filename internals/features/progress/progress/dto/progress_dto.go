package dto

import (
	badgeDTO "cyberquiz_backend/internals/features/progress/badges/dto"
	perfService "cyberquiz_backend/internals/features/progress/performance/service"
	categoryDTO "cyberquiz_backend/internals/features/quiz/categories/dto"
	userDTO "cyberquiz_backend/internals/features/users/user/dto"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

type ResetProgressRequest struct {
	UserID     uint `json:"userId" validate:"required,gt=0"`
	CategoryID uint `json:"categoryId" validate:"required,gt=0"`
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type TypePerformanceResponse struct {
	QuestionTypeID uint    `json:"questionTypeId"`
	QuestionType   string  `json:"questionType"`
	SuccessRate    float64 `json:"successRate"`
	TotalAttempts  int     `json:"totalAttempts"`
	AvgTimeTaken   float64 `json:"avgTimeTaken"`
	Struggling     bool    `json:"struggling"`
}

func FromTypeStats(stats []perfService.TypeStat) []TypePerformanceResponse {
	out := make([]TypePerformanceResponse, 0, len(stats))
	for _, s := range stats {
		out = append(out, TypePerformanceResponse{
			QuestionTypeID: s.QuestionType.QuestionTypeID,
			QuestionType:   s.QuestionType.QuestionTypeName,
			SuccessRate:    s.SuccessRate,
			TotalAttempts:  s.TotalAttempts,
			AvgTimeTaken:   s.AvgTimeTaken,
			Struggling:     s.Struggling(),
		})
	}
	return out
}

type DashboardResponse struct {
	User         userDTO.UserResponse                   `json:"user"`
	Progress     []categoryDTO.CategoryProgressResponse `json:"progress"`
	EarnedBadges []badgeDTO.EarnedBadgeResponse         `json:"earnedBadges"`
	AllBadges    []badgeDTO.BadgeResponse               `json:"allBadges"`
	Performance  []TypePerformanceResponse              `json:"performance"`
}

type ResetProgressResponse struct {
	UserID          uint  `json:"userId"`
	CategoryID      uint  `json:"categoryId"`
	DeletedAttempts int64 `json:"deletedAttempts"`
	TotalPoints     int   `json:"totalPoints"`
}
