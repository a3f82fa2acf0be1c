package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	progressModel "cyberquiz_backend/internals/features/progress/progress/model"
	"cyberquiz_backend/internals/features/quiz/categories/model"
	questionModel "cyberquiz_backend/internals/features/quiz/questions/model"
)

// CategoryProgress is a category joined with one user's progress in it.
// Progress fields are zero when the user has not started the category.
type CategoryProgress struct {
	model.CategoryModel
	QuestionsAnswered int
	CorrectAnswers    int
	PointsEarned      int
	IsCompleted       bool
}

func ListWithProgress(ctx context.Context, db *gorm.DB, userID uint) ([]CategoryProgress, error) {
	var rows []CategoryProgress
	err := db.WithContext(ctx).
		Table("categories AS c").
		Select(`c.*,
			COALESCE(p.user_progress_questions_answered, 0) AS questions_answered,
			COALESCE(p.user_progress_correct_answers, 0) AS correct_answers,
			COALESCE(p.user_progress_points_earned, 0) AS points_earned,
			COALESCE(p.user_progress_is_completed, ?) AS is_completed`, false).
		Joins("LEFT JOIN user_progress AS p ON p.user_progress_category_id = c.category_id AND p.user_progress_user_id = ?", userID).
		Order("c.category_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return rows, nil
}

// RecalculateTotalQuestions sets every category's total to its number of
// active questions, then marks progress rows that now meet the total as
// completed. Returns the number of categories whose total changed.
func RecalculateTotalQuestions(ctx context.Context, db *gorm.DB) (int, error) {
	changed := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var categories []model.CategoryModel
		if err := tx.Order("category_id ASC").Find(&categories).Error; err != nil {
			return fmt.Errorf("load categories: %w", err)
		}

		for _, c := range categories {
			var active int64
			if err := tx.Model(&questionModel.QuestionModel{}).
				Where("question_category_id = ? AND question_is_active = ?", c.CategoryID, true).
				Count(&active).Error; err != nil {
				return fmt.Errorf("count questions of category %d: %w", c.CategoryID, err)
			}
			if int(active) != c.CategoryTotalQuestions {
				if err := tx.Model(&model.CategoryModel{}).
					Where("category_id = ?", c.CategoryID).
					Update("category_total_questions", active).Error; err != nil {
					return fmt.Errorf("update category %d: %w", c.CategoryID, err)
				}
				log.Printf("[INFO] category=%d total_questions %d -> %d", c.CategoryID, c.CategoryTotalQuestions, active)
				changed++
			}

			if err := tx.Model(&progressModel.UserProgressModel{}).
				Where("user_progress_category_id = ? AND user_progress_is_completed = ? AND user_progress_questions_answered >= ?",
					c.CategoryID, false, active).
				Updates(map[string]interface{}{
					"user_progress_is_completed": true,
					"user_progress_completed_at": time.Now(),
				}).Error; err != nil {
				return fmt.Errorf("refresh completion of category %d: %w", c.CategoryID, err)
			}
		}
		return nil
	})
	return changed, err
}
