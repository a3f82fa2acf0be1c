package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	badgeModel "cyberquiz_backend/internals/features/progress/badges/model"
	badgeService "cyberquiz_backend/internals/features/progress/badges/service"
	progressService "cyberquiz_backend/internals/features/progress/progress/service"
	questionModel "cyberquiz_backend/internals/features/quiz/questions/model"
	userService "cyberquiz_backend/internals/features/users/user/service"
	helper "cyberquiz_backend/internals/helpers"
)

// Evaluation is the scoring of one selected option.
type Evaluation struct {
	Question      questionModel.QuestionModel
	IsCorrect     bool
	PointsEarned  int
	CorrectOption questionModel.AnswerOptionModel
}

// Evaluate scores selectedOptionID against the question without side effects.
// A question without a correct option cannot be scored and yields
// ErrDataIntegrity. With several correct options the selected option's own
// flag decides and the first correct one by position is reported.
func Evaluate(ctx context.Context, db *gorm.DB, questionID, selectedOptionID uint) (*Evaluation, error) {
	var q questionModel.QuestionModel
	err := db.WithContext(ctx).
		Preload("AnswerOptions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("answer_option_position ASC, answer_option_id ASC")
		}).
		First(&q, "question_id = ?", questionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("question %d: %w", questionID, helper.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load question %d: %w", questionID, err)
	}

	var (
		selected *questionModel.AnswerOptionModel
		correct  []questionModel.AnswerOptionModel
	)
	for i := range q.AnswerOptions {
		opt := q.AnswerOptions[i]
		if opt.AnswerOptionID == selectedOptionID {
			selected = &q.AnswerOptions[i]
		}
		if opt.AnswerOptionIsCorrect {
			correct = append(correct, opt)
		}
	}
	if selected == nil {
		return nil, fmt.Errorf("answer option %d of question %d: %w", selectedOptionID, questionID, helper.ErrNotFound)
	}

	switch len(correct) {
	case 0:
		log.Printf("[ERROR] question=%d has no correct option", questionID)
		return nil, fmt.Errorf("question %d has no correct option: %w", questionID, helper.ErrDataIntegrity)
	case 1:
	default:
		log.Printf("[WARN] question=%d has %d correct options", questionID, len(correct))
	}

	ev := &Evaluation{
		Question:      q,
		IsCorrect:     selected.AnswerOptionIsCorrect,
		CorrectOption: correct[0],
	}
	if ev.IsCorrect {
		ev.PointsEarned = q.QuestionPoints
	}
	return ev, nil
}

// Submission is one answer as sent by the client.
type Submission struct {
	UserID           uint
	QuestionID       uint
	SelectedOptionID uint
	TimeTaken        int
	HintUsed         bool
}

// SubmitResult is what the client learns after answering.
type SubmitResult struct {
	Evaluation *Evaluation
	Applied    *progressService.Applied
	NewBadges  []badgeModel.BadgeModel
}

// SubmitAnswer scores the answer and records it with all derived aggregates
// and badge awards in one transaction. The user row is locked first, so
// answers of the same user are applied one at a time.
func SubmitAnswer(ctx context.Context, db *gorm.DB, s Submission) (*SubmitResult, error) {
	var out SubmitResult
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := userService.LockForUpdate(tx, s.UserID)
		if err != nil {
			return err
		}

		ev, err := Evaluate(ctx, tx, s.QuestionID, s.SelectedOptionID)
		if err != nil {
			return err
		}

		applied, err := progressService.ApplyResult(tx, user, &ev.Question, progressService.Outcome{
			SelectedOptionID: s.SelectedOptionID,
			IsCorrect:        ev.IsCorrect,
			PointsEarned:     ev.PointsEarned,
			TimeTaken:        s.TimeTaken,
			HintUsed:         s.HintUsed,
		})
		if err != nil {
			return err
		}

		badges, err := badgeService.AwardEligibleBadges(tx, s.UserID)
		if err != nil {
			return err
		}

		out = SubmitResult{Evaluation: ev, Applied: applied, NewBadges: badges}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
