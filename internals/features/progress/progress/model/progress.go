package model

import "time"

// UserProgressModel is the per-(user, category) aggregate over the attempt log.
type UserProgressModel struct {
	UserProgressID                uint       `gorm:"column:user_progress_id;primaryKey" json:"id"`
	UserProgressUserID            uint       `gorm:"column:user_progress_user_id;not null;uniqueIndex:uq_user_progress_user_category,priority:1" json:"userId"`
	UserProgressCategoryID        uint       `gorm:"column:user_progress_category_id;not null;uniqueIndex:uq_user_progress_user_category,priority:2" json:"categoryId"`
	UserProgressQuestionsAnswered int        `gorm:"column:user_progress_questions_answered;not null;default:0" json:"questionsAnswered"`
	UserProgressCorrectAnswers    int        `gorm:"column:user_progress_correct_answers;not null;default:0" json:"correctAnswers"`
	UserProgressPointsEarned      int        `gorm:"column:user_progress_points_earned;not null;default:0" json:"pointsEarned"`
	UserProgressIsCompleted       bool       `gorm:"column:user_progress_is_completed;not null;default:false" json:"isCompleted"`
	UserProgressCompletedAt       *time.Time `gorm:"column:user_progress_completed_at" json:"completedAt,omitempty"`
	LastUpdated                   time.Time  `gorm:"column:last_updated;autoUpdateTime" json:"lastUpdated"`
}

func (UserProgressModel) TableName() string {
	return "user_progress"
}

// Apply counts one more answer in the category and refreshes the completion
// flag against totalQuestions. Completion is sticky.
func (p *UserProgressModel) Apply(isCorrect bool, points, totalQuestions int, now time.Time) {
	p.UserProgressQuestionsAnswered++
	if isCorrect {
		p.UserProgressCorrectAnswers++
	}
	p.UserProgressPointsEarned += points
	p.RefreshCompletion(totalQuestions, now)
}

// RefreshCompletion sets the completion flag once the answered count reaches
// totalQuestions. It never clears it.
func (p *UserProgressModel) RefreshCompletion(totalQuestions int, now time.Time) {
	if p.UserProgressIsCompleted {
		return
	}
	if p.UserProgressQuestionsAnswered >= totalQuestions {
		p.UserProgressIsCompleted = true
		p.UserProgressCompletedAt = &now
	}
}
