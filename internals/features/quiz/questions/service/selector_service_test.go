package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"cyberquiz_backend/internals/constants"
	"cyberquiz_backend/internals/databases/dbtest"
	perfModel "cyberquiz_backend/internals/features/progress/performance/model"
	answerService "cyberquiz_backend/internals/features/quiz/answers/service"
	"cyberquiz_backend/internals/features/quiz/questions/model"
	helper "cyberquiz_backend/internals/helpers"
)

func TestSelectNextQuestionNeverRepeats(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	mc := dbtest.Type(t, db, constants.QuestionTypeMultipleChoice, constants.DifficultyMedium)
	tf := dbtest.Type(t, db, constants.QuestionTypeTrueFalse, constants.DifficultyEasy)
	sc := dbtest.Type(t, db, constants.QuestionTypeScenario, constants.DifficultyHard)
	cat := dbtest.Category(t, db, "Passwords", 60)
	other := dbtest.Category(t, db, "Phishing", 1)
	otherQ := dbtest.Question(t, db, other.CategoryID, mc.QuestionTypeID, 10, 2, 0)

	typeIDs := []uint{mc.QuestionTypeID, tf.QuestionTypeID, sc.QuestionTypeID}
	byID := map[uint]model.QuestionModel{}
	for i := 0; i < 60; i++ {
		q := dbtest.Question(t, db, cat.CategoryID, typeIDs[i%3], 10, 3, i%3)
		byID[q.QuestionID] = q
	}
	u := dbtest.User(t, db, "Ava")
	rng := rand.New(rand.NewPCG(1, 2))

	seen := map[uint]bool{}
	for draw := 0; draw < 60; draw++ {
		q, err := SelectNextQuestion(ctx, db, rng, u.UserID, cat.CategoryID)
		if err != nil {
			t.Fatalf("draw %d: %v", draw, err)
		}
		if q == nil {
			t.Fatalf("draw %d: category exhausted early after %d questions", draw, len(seen))
		}
		if q.QuestionCategoryID != cat.CategoryID {
			t.Fatalf("draw %d: question %d from category %d", draw, q.QuestionID, q.QuestionCategoryID)
		}
		if seen[q.QuestionID] {
			t.Fatalf("draw %d: question %d served twice", draw, q.QuestionID)
		}
		seen[q.QuestionID] = true

		// mix right and wrong answers so the type ordering keeps changing
		opt := dbtest.CorrectOption(byID[q.QuestionID])
		if rng.IntN(2) == 0 {
			opt = dbtest.WrongOption(byID[q.QuestionID])
		}
		if _, err := answerService.SubmitAnswer(ctx, db, answerService.Submission{
			UserID: u.UserID, QuestionID: q.QuestionID, SelectedOptionID: opt.AnswerOptionID, TimeTaken: 5,
		}); err != nil {
			t.Fatalf("draw %d: submit: %v", draw, err)
		}
	}

	q, err := SelectNextQuestion(ctx, db, rng, u.UserID, cat.CategoryID)
	if err != nil {
		t.Fatalf("exhausted draw: %v", err)
	}
	if q != nil {
		t.Fatalf("expected no question after exhaustion, got %d", q.QuestionID)
	}

	// the other category is unaffected
	q, err = SelectNextQuestion(ctx, db, rng, u.UserID, other.CategoryID)
	if err != nil || q == nil || q.QuestionID != otherQ.QuestionID {
		t.Fatalf("other category: q=%v err=%v", q, err)
	}
}

func TestSelectNextQuestionRetargetsStrugglingUser(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	// scenario is created first so it wins the default tie among untried types
	sc := dbtest.Type(t, db, constants.QuestionTypeScenario, constants.DifficultyHard)
	mc := dbtest.Type(t, db, constants.QuestionTypeMultipleChoice, constants.DifficultyMedium)
	tf := dbtest.Type(t, db, constants.QuestionTypeTrueFalse, constants.DifficultyEasy)
	cat := dbtest.Category(t, db, "Phishing", 6)
	for _, typeID := range []uint{sc.QuestionTypeID, mc.QuestionTypeID, tf.QuestionTypeID} {
		dbtest.Question(t, db, cat.CategoryID, typeID, 10, 2, 0)
		dbtest.Question(t, db, cat.CategoryID, typeID, 10, 2, 0)
	}
	u := dbtest.User(t, db, "Ben")

	// without struggling the weakest untried type is served
	q, err := SelectNextQuestion(ctx, db, rand.New(rand.NewPCG(3, 4)), u.UserID, cat.CategoryID)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if q.QuestionTypeID != sc.QuestionTypeID {
		t.Fatalf("default target = type %d, want scenario %d", q.QuestionTypeID, sc.QuestionTypeID)
	}

	struggling := perfModel.UserQuestionTypePerformanceModel{
		PerformanceUserID:          u.UserID,
		PerformanceQuestionTypeID:  mc.QuestionTypeID,
		PerformanceTotalAttempts:   4,
		PerformanceCorrectAttempts: 1,
		PerformanceSuccessRate:     25,
		PerformanceAvgTimeTaken:    12,
	}
	if err := db.Create(&struggling).Error; err != nil {
		t.Fatalf("seed performance: %v", err)
	}

	for seed := uint64(0); seed < 50; seed++ {
		q, err := SelectNextQuestion(ctx, db, rand.New(rand.NewPCG(seed, seed+1)), u.UserID, cat.CategoryID)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if q.QuestionTypeID != tf.QuestionTypeID {
			t.Fatalf("seed %d: got type %d, want easier type %d", seed, q.QuestionTypeID, tf.QuestionTypeID)
		}
	}
}

func TestSelectNextQuestionKeepsDefaultWithoutEasierQuestions(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	sc := dbtest.Type(t, db, constants.QuestionTypeScenario, constants.DifficultyHard)
	mc := dbtest.Type(t, db, constants.QuestionTypeMultipleChoice, constants.DifficultyMedium)
	dbtest.Type(t, db, constants.QuestionTypeTrueFalse, constants.DifficultyEasy)
	cat := dbtest.Category(t, db, "Privacy", 2)
	dbtest.Question(t, db, cat.CategoryID, sc.QuestionTypeID, 10, 2, 0)
	dbtest.Question(t, db, cat.CategoryID, mc.QuestionTypeID, 10, 2, 0)
	u := dbtest.User(t, db, "Cy")

	if err := db.Create(&perfModel.UserQuestionTypePerformanceModel{
		PerformanceUserID:          u.UserID,
		PerformanceQuestionTypeID:  mc.QuestionTypeID,
		PerformanceTotalAttempts:   3,
		PerformanceCorrectAttempts: 0,
	}).Error; err != nil {
		t.Fatalf("seed performance: %v", err)
	}

	q, err := SelectNextQuestion(ctx, db, rand.New(rand.NewPCG(5, 6)), u.UserID, cat.CategoryID)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	// true_false is the only easier format and has nothing left here
	if q == nil || q.QuestionTypeID != sc.QuestionTypeID {
		t.Fatalf("got %+v, want the default scenario question", q)
	}
}

func TestSelectNextQuestionSkipsInactive(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	mc := dbtest.Type(t, db, constants.QuestionTypeMultipleChoice, constants.DifficultyMedium)
	cat := dbtest.Category(t, db, "Browsing", 1)
	active := dbtest.Question(t, db, cat.CategoryID, mc.QuestionTypeID, 10, 2, 0)
	inactive := dbtest.Question(t, db, cat.CategoryID, mc.QuestionTypeID, 10, 2, 0)
	if err := db.Model(&model.QuestionModel{}).
		Where("question_id = ?", inactive.QuestionID).
		Update("question_is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	u := dbtest.User(t, db, "Dee")

	for seed := uint64(0); seed < 20; seed++ {
		q, err := SelectNextQuestion(ctx, db, rand.New(rand.NewPCG(seed, 7)), u.UserID, cat.CategoryID)
		if err != nil {
			t.Fatalf("select: %v", err)
		}
		if q.QuestionID != active.QuestionID {
			t.Fatalf("served question %d, want only active %d", q.QuestionID, active.QuestionID)
		}
		if len(q.AnswerOptions) != 2 || q.AnswerOptions[0].AnswerOptionPosition != 0 {
			t.Fatalf("options not loaded in order: %+v", q.AnswerOptions)
		}
	}
}

func TestSelectNextQuestionUnknownIDs(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	cat := dbtest.Category(t, db, "Passwords", 0)
	u := dbtest.User(t, db, "Eve")

	if _, err := SelectNextQuestion(ctx, db, nil, 999, cat.CategoryID); !errors.Is(err, helper.ErrNotFound) {
		t.Errorf("unknown user: err = %v, want ErrNotFound", err)
	}
	if _, err := SelectNextQuestion(ctx, db, nil, u.UserID, 999); !errors.Is(err, helper.ErrNotFound) {
		t.Errorf("unknown category: err = %v, want ErrNotFound", err)
	}
}
