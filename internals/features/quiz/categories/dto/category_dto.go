package dto

import "cyberquiz_backend/internals/features/quiz/categories/service"

type CategoryProgressResponse struct {
	ID                uint   `json:"id"`
	Name              string `json:"name"`
	Icon              string `json:"icon"`
	Description       string `json:"description"`
	TotalQuestions    int    `json:"totalQuestions"`
	QuestionsAnswered int    `json:"questionsAnswered"`
	CorrectAnswers    int    `json:"correctAnswers"`
	PointsEarned      int    `json:"pointsEarned"`
	IsCompleted       bool   `json:"isCompleted"`
}

func FromCategoryProgress(rows []service.CategoryProgress) []CategoryProgressResponse {
	out := make([]CategoryProgressResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, CategoryProgressResponse{
			ID:                r.CategoryID,
			Name:              r.CategoryName,
			Icon:              r.CategoryIcon,
			Description:       r.CategoryDescription,
			TotalQuestions:    r.CategoryTotalQuestions,
			QuestionsAnswered: r.QuestionsAnswered,
			CorrectAnswers:    r.CorrectAnswers,
			PointsEarned:      r.PointsEarned,
			IsCompleted:       r.IsCompleted,
		})
	}
	return out
}
