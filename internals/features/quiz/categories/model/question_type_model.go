package model

import "cyberquiz_backend/internals/constants"

// QuestionTypeModel buckets questions by answer format for performance tracking.
type QuestionTypeModel struct {
	QuestionTypeID         uint   `gorm:"column:question_type_id;primaryKey" json:"id"`
	QuestionTypeName       string `gorm:"column:question_type_name;size:50;uniqueIndex;not null" json:"name"`
	QuestionTypeDifficulty string `gorm:"column:question_type_difficulty;size:10;not null;default:'medium'" json:"difficulty"`
}

func (QuestionTypeModel) TableName() string {
	return "question_types"
}

// IsEasierFormat reports whether a struggling learner may be steered to this type.
func (t QuestionTypeModel) IsEasierFormat() bool {
	if t.QuestionTypeDifficulty != constants.DifficultyEasy {
		return false
	}
	for _, name := range constants.EasierQuestionTypes {
		if t.QuestionTypeName == name {
			return true
		}
	}
	return false
}
