// Package dbtest opens throwaway SQLite stores with the quiz schema and
// builds catalog fixtures for package tests.
package dbtest

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	database "cyberquiz_backend/internals/databases"
	badgeModel "cyberquiz_backend/internals/features/progress/badges/model"
	categoryModel "cyberquiz_backend/internals/features/quiz/categories/model"
	questionModel "cyberquiz_backend/internals/features/quiz/questions/model"
	userModel "cyberquiz_backend/internals/features/users/user/model"
)

// Open returns a migrated database backed by a file in t.TempDir().
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "quiz.db") +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	// single connection, as database.TunePool does for sqlite
	sqlDB.SetMaxOpenConns(1)
	if err := database.RegisterErrorTagging(db); err != nil {
		t.Fatalf("error tagging: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })
	return db
}

func Type(t testing.TB, db *gorm.DB, name, difficulty string) categoryModel.QuestionTypeModel {
	t.Helper()
	qt := categoryModel.QuestionTypeModel{QuestionTypeName: name, QuestionTypeDifficulty: difficulty}
	if err := db.Create(&qt).Error; err != nil {
		t.Fatalf("create type %s: %v", name, err)
	}
	return qt
}

// Category creates a category whose total is fixed to totalQuestions.
func Category(t testing.TB, db *gorm.DB, name string, totalQuestions int) categoryModel.CategoryModel {
	t.Helper()
	c := categoryModel.CategoryModel{CategoryName: name, CategoryIcon: "🔒", CategoryTotalQuestions: totalQuestions}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("create category %s: %v", name, err)
	}
	return c
}

// Question creates an active question with options "A", "B", ... and the
// options at the correct positions flagged correct.
func Question(t testing.TB, db *gorm.DB, categoryID, typeID uint, points, options int, correct ...int) questionModel.QuestionModel {
	t.Helper()
	q := questionModel.QuestionModel{
		QuestionCategoryID:  categoryID,
		QuestionTypeID:      typeID,
		QuestionText:        fmt.Sprintf("question %d/%d", categoryID, typeID),
		QuestionExplanation: "because",
		QuestionHint:        "think",
		QuestionPoints:      points,
		QuestionIsActive:    true,
	}
	if err := db.Create(&q).Error; err != nil {
		t.Fatalf("create question: %v", err)
	}
	isCorrect := make(map[int]bool, len(correct))
	for _, c := range correct {
		isCorrect[c] = true
	}
	for i := 0; i < options; i++ {
		opt := questionModel.AnswerOptionModel{
			AnswerOptionQuestionID: q.QuestionID,
			AnswerOptionText:       string(rune('A' + i)),
			AnswerOptionIsCorrect:  isCorrect[i],
			AnswerOptionPosition:   i,
		}
		if err := db.Create(&opt).Error; err != nil {
			t.Fatalf("create option: %v", err)
		}
		q.AnswerOptions = append(q.AnswerOptions, opt)
	}
	return q
}

func User(t testing.TB, db *gorm.DB, name string) userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{UserName: name}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func Badge(t testing.TB, db *gorm.DB, name, requirementType string, value int, categoryID *uint) badgeModel.BadgeModel {
	t.Helper()
	b := badgeModel.BadgeModel{
		BadgeName:             name,
		BadgeRequirementType:  requirementType,
		BadgeRequirementValue: value,
		BadgeCategoryID:       categoryID,
	}
	if err := db.Create(&b).Error; err != nil {
		t.Fatalf("create badge %s: %v", name, err)
	}
	return b
}

// CorrectOption returns the first option flagged correct.
func CorrectOption(q questionModel.QuestionModel) questionModel.AnswerOptionModel {
	for _, o := range q.AnswerOptions {
		if o.AnswerOptionIsCorrect {
			return o
		}
	}
	return questionModel.AnswerOptionModel{}
}

// WrongOption returns the first option not flagged correct.
func WrongOption(q questionModel.QuestionModel) questionModel.AnswerOptionModel {
	for _, o := range q.AnswerOptions {
		if !o.AnswerOptionIsCorrect {
			return o
		}
	}
	return questionModel.AnswerOptionModel{}
}
