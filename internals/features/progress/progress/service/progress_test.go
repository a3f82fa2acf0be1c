package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cyberquiz_backend/internals/constants"
	"cyberquiz_backend/internals/databases/dbtest"
	attemptModel "cyberquiz_backend/internals/features/progress/attempts/model"
	perfModel "cyberquiz_backend/internals/features/progress/performance/model"
	progressModel "cyberquiz_backend/internals/features/progress/progress/model"
	"cyberquiz_backend/internals/features/progress/progress/service"
	answerService "cyberquiz_backend/internals/features/quiz/answers/service"
	categoryService "cyberquiz_backend/internals/features/quiz/categories/service"
	questionModel "cyberquiz_backend/internals/features/quiz/questions/model"
	userModel "cyberquiz_backend/internals/features/users/user/model"
	helper "cyberquiz_backend/internals/helpers"
)

func submit(t *testing.T, db *gorm.DB, userID uint, q questionModel.QuestionModel, correct bool, timeTaken int) {
	t.Helper()
	opt := dbtest.CorrectOption(q)
	if !correct {
		opt = dbtest.WrongOption(q)
	}
	if _, err := answerService.SubmitAnswer(context.Background(), db, answerService.Submission{
		UserID: userID, QuestionID: q.QuestionID, SelectedOptionID: opt.AnswerOptionID, TimeTaken: timeTaken,
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}
}

func TestResetCategoryProgress(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	mc := dbtest.Type(t, db, constants.QuestionTypeMultipleChoice, constants.DifficultyMedium)
	tf := dbtest.Type(t, db, constants.QuestionTypeTrueFalse, constants.DifficultyEasy)
	passwords := dbtest.Category(t, db, "Passwords", 2)
	phishing := dbtest.Category(t, db, "Phishing", 2)
	p1 := dbtest.Question(t, db, passwords.CategoryID, mc.QuestionTypeID, 10, 2, 0)
	p2 := dbtest.Question(t, db, passwords.CategoryID, tf.QuestionTypeID, 20, 2, 0)
	f1 := dbtest.Question(t, db, phishing.CategoryID, mc.QuestionTypeID, 5, 2, 0)
	u := dbtest.User(t, db, "Ava")

	submit(t, db, u.UserID, p1, true, 10)
	submit(t, db, u.UserID, p2, true, 20)
	submit(t, db, u.UserID, f1, true, 30)

	res, err := service.ResetCategoryProgress(ctx, db, u.UserID, passwords.CategoryID)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if res.DeletedAttempts != 2 || res.TotalPoints != 5 {
		t.Errorf("result = %+v, want 2 deleted and 5 points", res)
	}

	var user userModel.UserModel
	db.First(&user, "user_id = ?", u.UserID)
	if user.UserTotalPoints != 5 {
		t.Errorf("total points = %d, want 5", user.UserTotalPoints)
	}
	if user.UserCurrentStreak != 3 || user.UserBestStreak != 3 {
		t.Errorf("streaks changed by reset: %+v", user)
	}

	var progress []progressModel.UserProgressModel
	db.Find(&progress)
	if len(progress) != 1 || progress[0].UserProgressCategoryID != phishing.CategoryID {
		t.Errorf("progress rows = %+v, want only phishing", progress)
	}

	var attempts int64
	db.Model(&attemptModel.QuestionAttemptModel{}).Count(&attempts)
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}

	var perfs []perfModel.UserQuestionTypePerformanceModel
	db.Order("performance_question_type_id").Find(&perfs)
	if len(perfs) != 1 {
		t.Fatalf("performance rows = %+v, want only multiple_choice", perfs)
	}
	if p := perfs[0]; p.PerformanceQuestionTypeID != mc.QuestionTypeID || p.PerformanceTotalAttempts != 1 ||
		p.PerformanceCorrectAttempts != 1 || p.PerformanceAvgTimeTaken != 30 {
		t.Errorf("multiple_choice performance = %+v", p)
	}

	// the category can be played again from scratch
	submit(t, db, u.UserID, p1, false, 5)
	var again progressModel.UserProgressModel
	db.Where("user_progress_user_id = ? AND user_progress_category_id = ?", u.UserID, passwords.CategoryID).First(&again)
	if again.UserProgressQuestionsAnswered != 1 || again.UserProgressIsCompleted {
		t.Errorf("progress after replay = %+v", again)
	}
}

func TestResetCategoryProgressRollsBack(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	mc := dbtest.Type(t, db, constants.QuestionTypeMultipleChoice, constants.DifficultyMedium)
	cat := dbtest.Category(t, db, "Passwords", 2)
	q := dbtest.Question(t, db, cat.CategoryID, mc.QuestionTypeID, 10, 2, 0)
	u := dbtest.User(t, db, "Ben")
	submit(t, db, u.UserID, q, true, 10)

	errInjected := errors.New("injected")
	db.Callback().Delete().Before("gorm:delete").Register("test:fail_progress_delete", func(tx *gorm.DB) {
		if tx.Statement.Table == "user_progress" {
			tx.AddError(errInjected)
		}
	})

	if _, err := service.ResetCategoryProgress(ctx, db, u.UserID, cat.CategoryID); !errors.Is(err, errInjected) {
		t.Fatalf("err = %v, want injected", err)
	}

	var attempts int64
	db.Model(&attemptModel.QuestionAttemptModel{}).Count(&attempts)
	if attempts != 1 {
		t.Errorf("attempts = %d after failed reset, want 1", attempts)
	}
	var user userModel.UserModel
	db.First(&user, "user_id = ?", u.UserID)
	if user.UserTotalPoints != 10 {
		t.Errorf("total points = %d after failed reset, want 10", user.UserTotalPoints)
	}
}

func TestResetCategoryProgressNotFound(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	cat := dbtest.Category(t, db, "Passwords", 1)
	u := dbtest.User(t, db, "Cy")

	if _, err := service.ResetCategoryProgress(ctx, db, 999, cat.CategoryID); !errors.Is(err, helper.ErrNotFound) {
		t.Errorf("unknown user: err = %v", err)
	}
	if _, err := service.ResetCategoryProgress(ctx, db, u.UserID, 999); !errors.Is(err, helper.ErrNotFound) {
		t.Errorf("unknown category: err = %v", err)
	}
}

func TestRebuildUserAggregatesRepairsDrift(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	mc := dbtest.Type(t, db, constants.QuestionTypeMultipleChoice, constants.DifficultyMedium)
	cat := dbtest.Category(t, db, "Passwords", 2)
	q1 := dbtest.Question(t, db, cat.CategoryID, mc.QuestionTypeID, 10, 2, 0)
	q2 := dbtest.Question(t, db, cat.CategoryID, mc.QuestionTypeID, 10, 2, 0)
	u := dbtest.User(t, db, "Dee")
	submit(t, db, u.UserID, q1, true, 4)
	submit(t, db, u.UserID, q2, false, 8)

	// corrupt the cached aggregates
	db.Model(&progressModel.UserProgressModel{}).Where("1 = 1").
		Updates(map[string]interface{}{"user_progress_questions_answered": 7, "user_progress_points_earned": 99})
	db.Model(&perfModel.UserQuestionTypePerformanceModel{}).Where("1 = 1").
		Update("performance_total_attempts", 42)
	db.Model(&userModel.UserModel{}).Where("user_id = ?", u.UserID).Update("user_total_points", 1)

	if err := service.RebuildUserAggregates(ctx, db, u.UserID); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	var p progressModel.UserProgressModel
	db.First(&p)
	if p.UserProgressQuestionsAnswered != 2 || p.UserProgressCorrectAnswers != 1 ||
		p.UserProgressPointsEarned != 10 || !p.UserProgressIsCompleted {
		t.Errorf("progress = %+v", p)
	}
	var perf perfModel.UserQuestionTypePerformanceModel
	db.First(&perf)
	if perf.PerformanceTotalAttempts != 2 || perf.PerformanceSuccessRate != 50 || perf.PerformanceAvgTimeTaken != 6 {
		t.Errorf("performance = %+v", perf)
	}
	var user userModel.UserModel
	db.First(&user, "user_id = ?", u.UserID)
	if user.UserTotalPoints != 10 {
		t.Errorf("total points = %d, want 10", user.UserTotalPoints)
	}
}

func TestApplyResultLocksCategoryThenProgress(t *testing.T) {
	db := dbtest.Open(t)
	mc := dbtest.Type(t, db, constants.QuestionTypeMultipleChoice, constants.DifficultyMedium)
	cat := dbtest.Category(t, db, "Passwords", 2)
	q1 := dbtest.Question(t, db, cat.CategoryID, mc.QuestionTypeID, 10, 2, 0)
	q2 := dbtest.Question(t, db, cat.CategoryID, mc.QuestionTypeID, 10, 2, 0)
	u := dbtest.User(t, db, "Ava")
	submit(t, db, u.UserID, q1, true, 5)

	var (
		mu    sync.Mutex
		locks []string
	)
	if err := db.Callback().Query().Before("gorm:query").Register("test:record_locks", func(tx *gorm.DB) {
		c, ok := tx.Statement.Clauses["FOR"]
		if !ok {
			return
		}
		if l, ok := c.Expression.(clause.Locking); ok {
			mu.Lock()
			locks = append(locks, tx.Statement.Table+" "+l.Strength)
			mu.Unlock()
		}
	}); err != nil {
		t.Fatalf("register callback: %v", err)
	}

	submit(t, db, u.UserID, q2, true, 5)

	want := []string{"users UPDATE", "categories SHARE", "user_progress UPDATE"}
	mu.Lock()
	defer mu.Unlock()
	if len(locks) < len(want) {
		t.Fatalf("locks = %v, want prefix %v", locks, want)
	}
	for i, w := range want {
		if locks[i] != w {
			t.Fatalf("locks = %v, want prefix %v", locks, want)
		}
	}
}

func TestCompletionFromRecalculationSurvivesNextAnswer(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	mc := dbtest.Type(t, db, constants.QuestionTypeMultipleChoice, constants.DifficultyMedium)
	cat := dbtest.Category(t, db, "Phishing", 6)
	var qs []questionModel.QuestionModel
	for i := 0; i < 4; i++ {
		qs = append(qs, dbtest.Question(t, db, cat.CategoryID, mc.QuestionTypeID, 10, 2, 0))
	}
	u := dbtest.User(t, db, "Ben")
	for _, q := range qs[:3] {
		submit(t, db, u.UserID, q, true, 5)
	}

	setActive := func(id uint, active bool) {
		t.Helper()
		if err := db.Model(&questionModel.QuestionModel{}).
			Where("question_id = ?", id).
			Update("question_is_active", active).Error; err != nil {
			t.Fatalf("set active: %v", err)
		}
	}
	setActive(qs[3].QuestionID, false)
	if _, err := categoryService.RecalculateTotalQuestions(ctx, db); err != nil {
		t.Fatalf("recalculate: %v", err)
	}

	var before progressModel.UserProgressModel
	db.Where("user_progress_user_id = ?", u.UserID).First(&before)
	if !before.UserProgressIsCompleted || before.UserProgressCompletedAt == nil {
		t.Fatalf("progress after recalculation = %+v, want completed", before)
	}

	// the total stays at 3 until the next recalculation
	setActive(qs[3].QuestionID, true)
	submit(t, db, u.UserID, qs[3], false, 5)

	var after progressModel.UserProgressModel
	db.Where("user_progress_user_id = ?", u.UserID).First(&after)
	if after.UserProgressQuestionsAnswered != 4 {
		t.Errorf("answered = %d, want 4", after.UserProgressQuestionsAnswered)
	}
	if !after.UserProgressIsCompleted || after.UserProgressCompletedAt == nil ||
		!after.UserProgressCompletedAt.Equal(*before.UserProgressCompletedAt) {
		t.Errorf("completion changed: before %+v after %+v", before, after)
	}
}

func TestLoadDashboardReadsInOneTransaction(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	mc := dbtest.Type(t, db, constants.QuestionTypeMultipleChoice, constants.DifficultyMedium)
	cat := dbtest.Category(t, db, "Passwords", 1)
	q := dbtest.Question(t, db, cat.CategoryID, mc.QuestionTypeID, 10, 2, 0)
	dbtest.Badge(t, db, "First Step", constants.BadgeRequirementQuestionsAnswered, 1, nil)
	dbtest.Badge(t, db, "Centurion", constants.BadgeRequirementPoints, 100, nil)
	u := dbtest.User(t, db, "Ava")
	submit(t, db, u.UserID, q, true, 5)

	var (
		mu      sync.Mutex
		queries int
		outside []string
	)
	if err := db.Callback().Query().Before("gorm:query").Register("test:record_pool", func(tx *gorm.DB) {
		mu.Lock()
		defer mu.Unlock()
		queries++
		if _, ok := tx.Statement.ConnPool.(gorm.TxCommitter); !ok {
			outside = append(outside, tx.Statement.Table)
		}
	}); err != nil {
		t.Fatalf("register callback: %v", err)
	}

	d, err := service.LoadDashboard(ctx, db, u.UserID)
	if err != nil {
		t.Fatalf("load dashboard: %v", err)
	}
	mu.Lock()
	if queries == 0 || len(outside) > 0 {
		t.Errorf("queries=%d, outside a transaction: %v", queries, outside)
	}
	mu.Unlock()

	if d.User.UserID != u.UserID || d.User.UserTotalPoints != 10 {
		t.Errorf("user = %+v", d.User)
	}
	if len(d.Progress) != 1 || d.Progress[0].QuestionsAnswered != 1 {
		t.Errorf("progress = %+v", d.Progress)
	}
	if len(d.EarnedBadges) != 1 || len(d.AllBadges) != 2 {
		t.Errorf("earned=%d all=%d, want 1 and 2", len(d.EarnedBadges), len(d.AllBadges))
	}
	if len(d.Performance) != 1 {
		t.Errorf("performance = %+v", d.Performance)
	}
}

func TestLoadDashboardUnknownUser(t *testing.T) {
	db := dbtest.Open(t)
	if _, err := service.LoadDashboard(context.Background(), db, 404); !errors.Is(err, helper.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
