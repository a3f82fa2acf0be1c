package model

type AnswerOptionModel struct {
	AnswerOptionID         uint   `gorm:"column:answer_option_id;primaryKey" json:"id"`
	AnswerOptionQuestionID uint   `gorm:"column:answer_option_question_id;not null;index" json:"questionId"`
	AnswerOptionText       string `gorm:"column:answer_option_text;type:text;not null" json:"text"`
	AnswerOptionIsCorrect  bool   `gorm:"column:answer_option_is_correct;not null;default:false" json:"-"`
	AnswerOptionPosition   int    `gorm:"column:answer_option_position;not null;default:0" json:"position"`
}

func (AnswerOptionModel) TableName() string {
	return "answer_options"
}
