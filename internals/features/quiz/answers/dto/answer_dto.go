package dto

import (
	badgeDTO "cyberquiz_backend/internals/features/progress/badges/dto"
	"cyberquiz_backend/internals/features/quiz/answers/service"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

type SubmitAnswerRequest struct {
	UserID           uint `json:"userId" validate:"required,gt=0"`
	QuestionID       uint `json:"questionId" validate:"required,gt=0"`
	SelectedAnswerID uint `json:"selectedAnswerId" validate:"required,gt=0"`
	TimeTaken        int  `json:"timeTaken" validate:"gte=0,max=86400"`
	HintUsed         bool `json:"hintUsed"`
}

func (r *SubmitAnswerRequest) ToSubmission() service.Submission {
	return service.Submission{
		UserID:           r.UserID,
		QuestionID:       r.QuestionID,
		SelectedOptionID: r.SelectedAnswerID,
		TimeTaken:        r.TimeTaken,
		HintUsed:         r.HintUsed,
	}
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type ProgressSnapshot struct {
	CategoryID        uint `json:"categoryId"`
	QuestionsAnswered int  `json:"questionsAnswered"`
	CorrectAnswers    int  `json:"correctAnswers"`
	PointsEarned      int  `json:"pointsEarned"`
	IsCompleted       bool `json:"isCompleted"`
}

type SubmitAnswerResponse struct {
	IsCorrect       bool                     `json:"isCorrect"`
	PointsEarned    int                      `json:"pointsEarned"`
	Explanation     string                   `json:"explanation"`
	CorrectAnswer   string                   `json:"correctAnswer"`
	CorrectAnswerID uint                     `json:"correctAnswerId"`
	NewBadges       []badgeDTO.BadgeResponse `json:"newBadges"`
	TotalPoints     int                      `json:"totalPoints"`
	CurrentStreak   int                      `json:"currentStreak"`
	BestStreak      int                      `json:"bestStreak"`
	Progress        ProgressSnapshot         `json:"progress"`
}

func FromResult(r *service.SubmitResult) SubmitAnswerResponse {
	ev := r.Evaluation
	user := r.Applied.User
	p := r.Applied.Progress
	return SubmitAnswerResponse{
		IsCorrect:       ev.IsCorrect,
		PointsEarned:    ev.PointsEarned,
		Explanation:     ev.Question.QuestionExplanation,
		CorrectAnswer:   ev.CorrectOption.AnswerOptionText,
		CorrectAnswerID: ev.CorrectOption.AnswerOptionID,
		NewBadges:       badgeDTO.FromModels(r.NewBadges),
		TotalPoints:     user.UserTotalPoints,
		CurrentStreak:   user.UserCurrentStreak,
		BestStreak:      user.UserBestStreak,
		Progress: ProgressSnapshot{
			CategoryID:        p.UserProgressCategoryID,
			QuestionsAnswered: p.UserProgressQuestionsAnswered,
			CorrectAnswers:    p.UserProgressCorrectAnswers,
			PointsEarned:      p.UserProgressPointsEarned,
			IsCompleted:       p.UserProgressIsCompleted,
		},
	}
}
