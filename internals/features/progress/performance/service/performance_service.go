package service

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"cyberquiz_backend/internals/constants"
	attemptModel "cyberquiz_backend/internals/features/progress/attempts/model"
	"cyberquiz_backend/internals/features/progress/performance/model"
	typeModel "cyberquiz_backend/internals/features/quiz/categories/model"
)

// TypeStat is one question type with the user's statistics on it. Types the
// user never attempted carry zero counters.
type TypeStat struct {
	QuestionType  typeModel.QuestionTypeModel
	SuccessRate   float64
	TotalAttempts int
	AvgTimeTaken  float64
}

// Struggling reports a type with a low success rate over enough attempts.
func (s TypeStat) Struggling() bool {
	return s.TotalAttempts >= constants.StrugglingMinAttempts &&
		s.SuccessRate < constants.StrugglingSuccessRate
}

// UserTypeStats returns every question type with the user's statistics,
// ordered by success rate, then attempts, then type id.
func UserTypeStats(ctx context.Context, db *gorm.DB, userID uint) ([]TypeStat, error) {
	var types []typeModel.QuestionTypeModel
	if err := db.WithContext(ctx).Order("question_type_id ASC").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("load question types: %w", err)
	}

	var perfs []model.UserQuestionTypePerformanceModel
	if err := db.WithContext(ctx).
		Where("performance_user_id = ?", userID).
		Find(&perfs).Error; err != nil {
		return nil, fmt.Errorf("load performance: %w", err)
	}
	byType := make(map[uint]model.UserQuestionTypePerformanceModel, len(perfs))
	for _, p := range perfs {
		byType[p.PerformanceQuestionTypeID] = p
	}

	stats := make([]TypeStat, 0, len(types))
	for _, t := range types {
		st := TypeStat{QuestionType: t}
		if p, ok := byType[t.QuestionTypeID]; ok {
			st.SuccessRate = p.PerformanceSuccessRate
			st.TotalAttempts = p.PerformanceTotalAttempts
			st.AvgTimeTaken = p.PerformanceAvgTimeTaken
		}
		stats = append(stats, st)
	}
	SortStats(stats)
	return stats, nil
}

// SortStats orders weakest first: lower success rate, then fewer attempts, so
// untried types surface ahead of tried ones with the same rate.
func SortStats(stats []TypeStat) {
	sort.SliceStable(stats, func(i, j int) bool {
		a, b := stats[i], stats[j]
		if a.SuccessRate != b.SuccessRate {
			return a.SuccessRate < b.SuccessRate
		}
		if a.TotalAttempts != b.TotalAttempts {
			return a.TotalAttempts < b.TotalAttempts
		}
		return a.QuestionType.QuestionTypeID < b.QuestionType.QuestionTypeID
	})
}

// Record folds one attempt into the (user, type) row, creating it on first use.
// Must run inside the submission transaction after the user row is locked.
func Record(tx *gorm.DB, userID, questionTypeID uint, isCorrect bool, timeTaken int) (*model.UserQuestionTypePerformanceModel, error) {
	var perf model.UserQuestionTypePerformanceModel
	err := tx.Where("performance_user_id = ? AND performance_question_type_id = ?", userID, questionTypeID).
		Limit(1).Find(&perf).Error
	if err != nil {
		return nil, fmt.Errorf("load performance: %w", err)
	}

	if perf.PerformanceID == 0 {
		perf = model.UserQuestionTypePerformanceModel{
			PerformanceUserID:         userID,
			PerformanceQuestionTypeID: questionTypeID,
		}
	}
	perf.Record(isCorrect, timeTaken)

	if err := tx.Save(&perf).Error; err != nil {
		return nil, fmt.Errorf("save performance: %w", err)
	}
	return &perf, nil
}

type typeAggregate struct {
	TypeID  uint
	Total   int
	Correct int
	AvgTime float64
}

// Recompute rebuilds the (user, type) rows for typeIDs from the attempt log.
// Types left without attempts lose their row. An empty typeIDs rebuilds all
// of the user's types.
func Recompute(tx *gorm.DB, userID uint, typeIDs []uint) error {
	q := tx.Model(&attemptModel.QuestionAttemptModel{}).
		Select(`question_attempt_question_type_id AS type_id,
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN question_attempt_is_correct THEN 1 ELSE 0 END), 0) AS correct,
			COALESCE(AVG(question_attempt_time_taken), 0) AS avg_time`).
		Where("question_attempt_user_id = ?", userID).
		Group("question_attempt_question_type_id")
	if len(typeIDs) > 0 {
		q = q.Where("question_attempt_question_type_id IN ?", typeIDs)
	}

	var aggs []typeAggregate
	if err := q.Scan(&aggs).Error; err != nil {
		return fmt.Errorf("aggregate attempts: %w", err)
	}

	del := tx.Where("performance_user_id = ?", userID)
	if len(typeIDs) > 0 {
		del = del.Where("performance_question_type_id IN ?", typeIDs)
	}
	if err := del.Delete(&model.UserQuestionTypePerformanceModel{}).Error; err != nil {
		return fmt.Errorf("clear performance: %w", err)
	}

	for _, a := range aggs {
		row := model.UserQuestionTypePerformanceModel{
			PerformanceUserID:          userID,
			PerformanceQuestionTypeID:  a.TypeID,
			PerformanceTotalAttempts:   a.Total,
			PerformanceCorrectAttempts: a.Correct,
			PerformanceSuccessRate:     model.SuccessRate(a.Correct, a.Total),
			PerformanceAvgTimeTaken:    a.AvgTime,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("insert performance: %w", err)
		}
	}
	return nil
}
