package model

import (
	"time"

	"gorm.io/datatypes"
)

type QuestionModel struct {
	QuestionID          uint           `gorm:"column:question_id;primaryKey" json:"id"`
	QuestionCategoryID  uint           `gorm:"column:question_category_id;not null;index:idx_questions_category_type,priority:1" json:"categoryId"`
	QuestionTypeID      uint           `gorm:"column:question_type_id;not null;index:idx_questions_category_type,priority:2" json:"questionTypeId"`
	QuestionText        string         `gorm:"column:question_text;type:text;not null" json:"questionText"`
	QuestionExplanation string         `gorm:"column:question_explanation;type:text" json:"explanation"`
	QuestionHint        string         `gorm:"column:question_hint;type:text" json:"hint"`
	QuestionPoints      int            `gorm:"column:question_points;not null" json:"points"`
	QuestionIsActive    bool           `gorm:"column:question_is_active;not null" json:"isActive"`
	QuestionMedia       datatypes.JSON `gorm:"column:question_media" json:"media,omitempty"`
	CreatedAt           time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`

	AnswerOptions []AnswerOptionModel `gorm:"foreignKey:AnswerOptionQuestionID;references:QuestionID" json:"options,omitempty"`
}

func (QuestionModel) TableName() string {
	return "questions"
}
