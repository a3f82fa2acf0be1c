package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	attemptModel "cyberquiz_backend/internals/features/progress/attempts/model"
	perfModel "cyberquiz_backend/internals/features/progress/performance/model"
	perfService "cyberquiz_backend/internals/features/progress/performance/service"
	"cyberquiz_backend/internals/features/progress/progress/model"
	categoryModel "cyberquiz_backend/internals/features/quiz/categories/model"
	questionModel "cyberquiz_backend/internals/features/quiz/questions/model"
	userModel "cyberquiz_backend/internals/features/users/user/model"
	userService "cyberquiz_backend/internals/features/users/user/service"
	helper "cyberquiz_backend/internals/helpers"
)

// Outcome is one evaluated answer ready to be recorded.
type Outcome struct {
	SelectedOptionID uint
	IsCorrect        bool
	PointsEarned     int
	TimeTaken        int
	HintUsed         bool
}

// Applied holds the aggregates after ApplyResult.
type Applied struct {
	Attempt     attemptModel.QuestionAttemptModel
	User        userModel.UserModel
	Progress    model.UserProgressModel
	Performance perfModel.UserQuestionTypePerformanceModel
}

// ApplyResult records an answer and updates every aggregate derived from it:
// the attempt log, the user's points and streaks, the category progress and
// the question-type performance. user must have been loaded with
// userService.LockForUpdate on tx. Any error leaves tx for rollback.
func ApplyResult(tx *gorm.DB, user *userModel.UserModel, q *questionModel.QuestionModel, out Outcome) (*Applied, error) {
	now := time.Now()

	attempt := attemptModel.QuestionAttemptModel{
		QuestionAttemptUserID:           user.UserID,
		QuestionAttemptQuestionID:       q.QuestionID,
		QuestionAttemptQuestionTypeID:   q.QuestionTypeID,
		QuestionAttemptSelectedOptionID: out.SelectedOptionID,
		QuestionAttemptIsCorrect:        out.IsCorrect,
		QuestionAttemptPointsEarned:     out.PointsEarned,
		QuestionAttemptTimeTaken:        out.TimeTaken,
		QuestionAttemptHintUsed:         out.HintUsed,
	}
	if err := tx.Create(&attempt).Error; err != nil {
		return nil, fmt.Errorf("insert attempt: %w", err)
	}

	user.RecordAnswer(out.IsCorrect, out.PointsEarned)
	if err := userService.SaveCounters(tx, user); err != nil {
		return nil, err
	}

	// The category total and the progress row are locked so a concurrent
	// RecalculateTotalQuestions either finishes first or waits for this
	// answer; completion set by it is never overwritten.
	var category categoryModel.CategoryModel
	if err := tx.Clauses(clause.Locking{Strength: "SHARE"}).
		First(&category, "category_id = ?", q.QuestionCategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %d of question %d: %w", q.QuestionCategoryID, q.QuestionID, helper.ErrDataIntegrity)
		}
		return nil, fmt.Errorf("load category: %w", err)
	}

	var progress model.UserProgressModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_progress_user_id = ? AND user_progress_category_id = ?", user.UserID, category.CategoryID).
		Limit(1).Find(&progress).Error; err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	if progress.UserProgressID == 0 {
		progress = model.UserProgressModel{
			UserProgressUserID:     user.UserID,
			UserProgressCategoryID: category.CategoryID,
		}
	}
	progress.Apply(out.IsCorrect, out.PointsEarned, category.CategoryTotalQuestions, now)
	if err := tx.Save(&progress).Error; err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}

	perf, err := perfService.Record(tx, user.UserID, q.QuestionTypeID, out.IsCorrect, out.TimeTaken)
	if err != nil {
		return nil, err
	}

	return &Applied{
		Attempt:     attempt,
		User:        *user,
		Progress:    progress,
		Performance: *perf,
	}, nil
}

// ResetResult summarises a category reset.
type ResetResult struct {
	DeletedAttempts int64 `json:"deletedAttempts"`
	TotalPoints     int   `json:"totalPoints"`
}

// ResetCategoryProgress forgets everything the user did in one category: the
// attempts, the progress row and their share of the type performance.
// total_points becomes the sum over the remaining categories. Streaks stay.
func ResetCategoryProgress(ctx context.Context, db *gorm.DB, userID, categoryID uint) (*ResetResult, error) {
	var res ResetResult
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := userService.LockForUpdate(tx, userID)
		if err != nil {
			return err
		}

		var n int64
		if err := tx.Model(&categoryModel.CategoryModel{}).Where("category_id = ?", categoryID).Count(&n).Error; err != nil {
			return fmt.Errorf("check category: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("category %d: %w", categoryID, helper.ErrNotFound)
		}

		inCategory := tx.Model(&questionModel.QuestionModel{}).
			Select("question_id").
			Where("question_category_id = ?", categoryID)

		var typeIDs []uint
		if err := tx.Model(&attemptModel.QuestionAttemptModel{}).
			Where("question_attempt_user_id = ? AND question_attempt_question_id IN (?)", userID, inCategory).
			Distinct("question_attempt_question_type_id").
			Pluck("question_attempt_question_type_id", &typeIDs).Error; err != nil {
			return fmt.Errorf("list affected types: %w", err)
		}

		del := tx.Where("question_attempt_user_id = ? AND question_attempt_question_id IN (?)", userID, inCategory).
			Delete(&attemptModel.QuestionAttemptModel{})
		if del.Error != nil {
			return fmt.Errorf("delete attempts: %w", del.Error)
		}
		res.DeletedAttempts = del.RowsAffected

		if err := tx.Where("user_progress_user_id = ? AND user_progress_category_id = ?", userID, categoryID).
			Delete(&model.UserProgressModel{}).Error; err != nil {
			return fmt.Errorf("delete progress: %w", err)
		}

		if len(typeIDs) > 0 {
			if err := perfService.Recompute(tx, userID, typeIDs); err != nil {
				return err
			}
		}

		total, err := sumProgressPoints(tx, userID)
		if err != nil {
			return err
		}
		user.UserTotalPoints = total
		if err := userService.SaveCounters(tx, user); err != nil {
			return err
		}
		res.TotalPoints = total
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] reset user=%d category=%d attempts=%d total_points=%d",
		userID, categoryID, res.DeletedAttempts, res.TotalPoints)
	return &res, nil
}

func sumProgressPoints(tx *gorm.DB, userID uint) (int, error) {
	var total int
	err := tx.Model(&model.UserProgressModel{}).
		Select("COALESCE(SUM(user_progress_points_earned), 0)").
		Where("user_progress_user_id = ?", userID).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("sum progress points: %w", err)
	}
	return total, nil
}

type categoryAggregate struct {
	CategoryID uint
	Answered   int
	Correct    int
	Points     int
}

// RebuildUserAggregates recomputes the user's progress rows, performance rows
// and total points from the attempt log. Completion flags already set are
// kept. Streaks are not derivable after a reset and are left as they are.
func RebuildUserAggregates(ctx context.Context, db *gorm.DB, userID uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := userService.LockForUpdate(tx, userID)
		if err != nil {
			return err
		}

		var aggs []categoryAggregate
		if err := tx.Table("question_attempts AS a").
			Select(`q.question_category_id AS category_id,
				COUNT(*) AS answered,
				COALESCE(SUM(CASE WHEN a.question_attempt_is_correct THEN 1 ELSE 0 END), 0) AS correct,
				COALESCE(SUM(a.question_attempt_points_earned), 0) AS points`).
			Joins("JOIN questions AS q ON q.question_id = a.question_attempt_question_id").
			Where("a.question_attempt_user_id = ?", userID).
			Group("q.question_category_id").
			Scan(&aggs).Error; err != nil {
			return fmt.Errorf("aggregate attempts: %w", err)
		}

		// categories before progress rows, the order RecalculateTotalQuestions locks them in
		var categories []categoryModel.CategoryModel
		if err := tx.Clauses(clause.Locking{Strength: "SHARE"}).
			Order("category_id ASC").Find(&categories).Error; err != nil {
			return fmt.Errorf("load categories: %w", err)
		}
		totals := make(map[uint]int, len(categories))
		for _, c := range categories {
			totals[c.CategoryID] = c.CategoryTotalQuestions
		}

		var existing []model.UserProgressModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_progress_user_id = ?", userID).Find(&existing).Error; err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		byCategory := make(map[uint]model.UserProgressModel, len(existing))
		for _, p := range existing {
			byCategory[p.UserProgressCategoryID] = p
		}

		now := time.Now()
		keep := make([]uint, 0, len(aggs))
		points := 0
		for _, a := range aggs {
			p, ok := byCategory[a.CategoryID]
			if !ok {
				p = model.UserProgressModel{UserProgressUserID: userID, UserProgressCategoryID: a.CategoryID}
			}
			p.UserProgressQuestionsAnswered = a.Answered
			p.UserProgressCorrectAnswers = a.Correct
			p.UserProgressPointsEarned = a.Points
			p.RefreshCompletion(totals[a.CategoryID], now)
			if err := tx.Save(&p).Error; err != nil {
				return fmt.Errorf("save progress: %w", err)
			}
			keep = append(keep, a.CategoryID)
			points += a.Points
		}

		stale := tx.Where("user_progress_user_id = ?", userID)
		if len(keep) > 0 {
			stale = stale.Where("user_progress_category_id NOT IN ?", keep)
		}
		if err := stale.Delete(&model.UserProgressModel{}).Error; err != nil {
			return fmt.Errorf("delete stale progress: %w", err)
		}

		if err := perfService.Recompute(tx, userID, nil); err != nil {
			return err
		}

		if user.UserTotalPoints != points {
			log.Printf("[WARN] user=%d total_points drifted %d -> %d", userID, user.UserTotalPoints, points)
			user.UserTotalPoints = points
		}
		return userService.SaveCounters(tx, user)
	})
}
