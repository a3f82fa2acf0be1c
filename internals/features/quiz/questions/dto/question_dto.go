package dto

import (
	"gorm.io/datatypes"

	categoryModel "cyberquiz_backend/internals/features/quiz/categories/model"
	"cyberquiz_backend/internals/features/quiz/questions/model"
)

type OptionResponse struct {
	ID       uint   `json:"id"`
	Text     string `json:"text"`
	Position int    `json:"position"`
}

// QuestionResponse is a served question. Correctness and the explanation are
// only revealed after answering.
type QuestionResponse struct {
	ID             uint             `json:"id"`
	CategoryID     uint             `json:"categoryId"`
	QuestionTypeID uint             `json:"questionTypeId"`
	QuestionType   string           `json:"questionType"`
	Difficulty     string           `json:"difficulty"`
	QuestionText   string           `json:"questionText"`
	Hint           string           `json:"hint,omitempty"`
	Points         int              `json:"points"`
	Media          datatypes.JSON   `json:"media,omitempty"`
	Options        []OptionResponse `json:"options"`
}

func FromModel(q *model.QuestionModel, qt *categoryModel.QuestionTypeModel) QuestionResponse {
	res := QuestionResponse{
		ID:             q.QuestionID,
		CategoryID:     q.QuestionCategoryID,
		QuestionTypeID: q.QuestionTypeID,
		QuestionText:   q.QuestionText,
		Hint:           q.QuestionHint,
		Points:         q.QuestionPoints,
		Media:          q.QuestionMedia,
		Options:        make([]OptionResponse, 0, len(q.AnswerOptions)),
	}
	if qt != nil {
		res.QuestionType = qt.QuestionTypeName
		res.Difficulty = qt.QuestionTypeDifficulty
	}
	for _, o := range q.AnswerOptions {
		res.Options = append(res.Options, OptionResponse{
			ID:       o.AnswerOptionID,
			Text:     o.AnswerOptionText,
			Position: o.AnswerOptionPosition,
		})
	}
	return res
}
