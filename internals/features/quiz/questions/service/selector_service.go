package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"

	"gorm.io/gorm"

	attemptModel "cyberquiz_backend/internals/features/progress/attempts/model"
	perfService "cyberquiz_backend/internals/features/progress/performance/service"
	categoryModel "cyberquiz_backend/internals/features/quiz/categories/model"
	"cyberquiz_backend/internals/features/quiz/questions/model"
	userModel "cyberquiz_backend/internals/features/users/user/model"
	helper "cyberquiz_backend/internals/helpers"
)

// Rand picks an index in [0, n). *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand draws from the process-wide source, safe for concurrent use.
var DefaultRand Rand = globalRand{}

// SelectNextQuestion picks an active question in the category the user has
// never attempted, preferring the user's weakest question type. A user who is
// struggling with any type is steered to an easier format that still has
// questions left. Returns nil when the category is exhausted.
func SelectNextQuestion(ctx context.Context, db *gorm.DB, rng Rand, userID, categoryID uint) (*model.QuestionModel, error) {
	if rng == nil {
		rng = DefaultRand
	}
	db = db.WithContext(ctx)

	if err := mustExist(db, &userModel.UserModel{}, "user_id", userID, "user"); err != nil {
		return nil, err
	}
	if err := mustExist(db, &categoryModel.CategoryModel{}, "category_id", categoryID, "category"); err != nil {
		return nil, err
	}

	stats, err := perfService.UserTypeStats(ctx, db, userID)
	if err != nil {
		return nil, err
	}

	var targetTypeID uint
	if len(stats) > 0 {
		targetTypeID = stats[0].QuestionType.QuestionTypeID
	}

	if anyStruggling(stats) {
		available, err := availableTypeIDs(db, userID, categoryID)
		if err != nil {
			return nil, err
		}
		var easier []uint
		for _, st := range stats {
			if st.QuestionType.IsEasierFormat() && available[st.QuestionType.QuestionTypeID] {
				easier = append(easier, st.QuestionType.QuestionTypeID)
			}
		}
		if len(easier) > 0 {
			targetTypeID = easier[rng.IntN(len(easier))]
		}
	}

	var candidates []uint
	if targetTypeID != 0 {
		candidates, err = unattemptedIDs(db, userID, categoryID, targetTypeID)
		if err != nil {
			return nil, err
		}
	}
	if len(candidates) == 0 {
		candidates, err = unattemptedIDs(db, userID, categoryID, 0)
		if err != nil {
			return nil, err
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	pick := candidates[rng.IntN(len(candidates))]
	return LoadQuestion(ctx, db, pick)
}

// LoadQuestion fetches a question with its options in display order.
func LoadQuestion(ctx context.Context, db *gorm.DB, questionID uint) (*model.QuestionModel, error) {
	var q model.QuestionModel
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
	return &q, nil
}

func anyStruggling(stats []perfService.TypeStat) bool {
	for _, st := range stats {
		if st.Struggling() {
			log.Printf("[INFO] struggling with %s (%.1f%% over %d)",
				st.QuestionType.QuestionTypeName, st.SuccessRate, st.TotalAttempts)
			return true
		}
	}
	return false
}

func mustExist(db *gorm.DB, m any, column string, id uint, what string) error {
	var n int64
	if err := db.Model(m).Where(column+" = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("check %s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, helper.ErrNotFound)
	}
	return nil
}

// unattemptedQuery scopes to active questions of the category that the user
// has no attempt row for.
func unattemptedQuery(db *gorm.DB, userID, categoryID uint) *gorm.DB {
	attempted := db.Model(&attemptModel.QuestionAttemptModel{}).
		Select("question_attempt_question_id").
		Where("question_attempt_user_id = ?", userID)

	return db.Model(&model.QuestionModel{}).
		Where("question_category_id = ? AND question_is_active = ?", categoryID, true).
		Where("question_id NOT IN (?)", attempted)
}

func unattemptedIDs(db *gorm.DB, userID, categoryID, typeID uint) ([]uint, error) {
	q := unattemptedQuery(db, userID, categoryID)
	if typeID != 0 {
		q = q.Where("question_type_id = ?", typeID)
	}
	var ids []uint
	if err := q.Order("question_id ASC").Pluck("question_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list unattempted questions: %w", err)
	}
	return ids, nil
}

func availableTypeIDs(db *gorm.DB, userID, categoryID uint) (map[uint]bool, error) {
	var ids []uint
	if err := unattemptedQuery(db, userID, categoryID).
		Distinct("question_type_id").
		Pluck("question_type_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list available types: %w", err)
	}
	out := make(map[uint]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
