package model

import "time"

// QuestionAttemptModel is one append-only answer record. Rows are removed only
// by a category reset.
type QuestionAttemptModel struct {
	QuestionAttemptID               uint      `gorm:"column:question_attempt_id;primaryKey" json:"id"`
	QuestionAttemptUserID           uint      `gorm:"column:question_attempt_user_id;not null;index:idx_attempts_user_question,priority:1" json:"userId"`
	QuestionAttemptQuestionID       uint      `gorm:"column:question_attempt_question_id;not null;index:idx_attempts_user_question,priority:2" json:"questionId"`
	QuestionAttemptQuestionTypeID   uint      `gorm:"column:question_attempt_question_type_id;not null" json:"questionTypeId"`
	QuestionAttemptSelectedOptionID uint      `gorm:"column:question_attempt_selected_option_id;not null" json:"selectedOptionId"`
	QuestionAttemptIsCorrect        bool      `gorm:"column:question_attempt_is_correct;not null" json:"isCorrect"`
	QuestionAttemptPointsEarned     int       `gorm:"column:question_attempt_points_earned;not null;default:0" json:"pointsEarned"`
	QuestionAttemptTimeTaken        int       `gorm:"column:question_attempt_time_taken;not null;default:0" json:"timeTaken"`
	QuestionAttemptHintUsed         bool      `gorm:"column:question_attempt_hint_used;not null;default:false" json:"hintUsed"`
	CreatedAt                       time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (QuestionAttemptModel) TableName() string {
	return "question_attempts"
}
