package quiz

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"

	"github.com/bytedance/sonic"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"cyberquiz_backend/internals/constants"
	badgeModel "cyberquiz_backend/internals/features/progress/badges/model"
	categoryModel "cyberquiz_backend/internals/features/quiz/categories/model"
	categoryService "cyberquiz_backend/internals/features/quiz/categories/service"
	questionModel "cyberquiz_backend/internals/features/quiz/questions/model"
)

const defaultPoints = 10

type OptionSeed struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

type QuestionSeed struct {
	Type        string         `json:"type"`
	Text        string         `json:"text"`
	Explanation string         `json:"explanation"`
	Hint        string         `json:"hint"`
	Points      int            `json:"points"`
	Media       datatypes.JSON `json:"media,omitempty"`
	Options     []OptionSeed   `json:"options"`
}

type CategorySeed struct {
	Name        string         `json:"name"`
	Icon        string         `json:"icon"`
	Description string         `json:"description"`
	Questions   []QuestionSeed `json:"questions"`
}

type QuestionTypeSeed struct {
	Name       string `json:"name"`
	Difficulty string `json:"difficulty"`
}

type BadgeSeed struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	Icon             string `json:"icon"`
	RequirementType  string `json:"requirement_type"`
	RequirementValue int    `json:"requirement_value"`
	Category         string `json:"category,omitempty"`
}

type QuizSeed struct {
	QuestionTypes []QuestionTypeSeed `json:"question_types"`
	Categories    []CategorySeed     `json:"categories"`
	Badges        []BadgeSeed        `json:"badges"`
}

// Summary counts the rows inserted by one seeding run.
type Summary struct {
	QuestionTypes int
	Categories    int
	Questions     int
	Badges        int
}

func SeedQuizFromJSON(ctx context.Context, db *gorm.DB, filePath string) (*Summary, error) {
	log.Println("[INFO] reading seed file:", filePath)
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return SeedQuiz(ctx, db, content)
}

// SeedQuiz inserts whatever part of the catalog is missing. Rows are matched
// by name (questions by category and text) and never updated, so running it
// again is a no-op. Category totals are recalculated afterwards.
func SeedQuiz(ctx context.Context, db *gorm.DB, content []byte) (*Summary, error) {
	var data QuizSeed
	if err := sonic.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	if err := data.validate(); err != nil {
		return nil, err
	}

	var sum Summary
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		typeIDs := make(map[string]uint, len(data.QuestionTypes))
		for _, item := range data.QuestionTypes {
			row := categoryModel.QuestionTypeModel{
				QuestionTypeName:       item.Name,
				QuestionTypeDifficulty: item.Difficulty,
			}
			created, err := firstOrCreate(tx, &row, "question_type_name = ?", item.Name)
			if err != nil {
				return fmt.Errorf("question type %q: %w", item.Name, err)
			}
			if created {
				sum.QuestionTypes++
			}
			typeIDs[item.Name] = row.QuestionTypeID
		}

		categoryIDs := make(map[string]uint, len(data.Categories))
		for _, cat := range data.Categories {
			row := categoryModel.CategoryModel{
				CategoryName:        cat.Name,
				CategoryIcon:        cat.Icon,
				CategoryDescription: cat.Description,
			}
			created, err := firstOrCreate(tx, &row, "category_name = ?", cat.Name)
			if err != nil {
				return fmt.Errorf("category %q: %w", cat.Name, err)
			}
			if created {
				sum.Categories++
			}
			categoryIDs[cat.Name] = row.CategoryID

			for _, q := range cat.Questions {
				created, err := seedQuestion(tx, row.CategoryID, typeIDs[q.Type], q)
				if err != nil {
					return fmt.Errorf("category %q question %q: %w", cat.Name, q.Text, err)
				}
				if created {
					sum.Questions++
				}
			}
		}

		for _, b := range data.Badges {
			row := badgeModel.BadgeModel{
				BadgeName:             b.Name,
				BadgeDescription:      b.Description,
				BadgeIcon:             b.Icon,
				BadgeRequirementType:  b.RequirementType,
				BadgeRequirementValue: b.RequirementValue,
			}
			if b.Category != "" {
				id, ok := categoryIDs[b.Category]
				if !ok {
					return fmt.Errorf("badge %q: unknown category %q", b.Name, b.Category)
				}
				row.BadgeCategoryID = &id
			}
			created, err := firstOrCreate(tx, &row, "badge_name = ?", b.Name)
			if err != nil {
				return fmt.Errorf("badge %q: %w", b.Name, err)
			}
			if created {
				sum.Badges++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, err := categoryService.RecalculateTotalQuestions(ctx, db); err != nil {
		return nil, err
	}
	log.Printf("[INFO] seeded types=%d categories=%d questions=%d badges=%d",
		sum.QuestionTypes, sum.Categories, sum.Questions, sum.Badges)
	return &sum, nil
}

func firstOrCreate(tx *gorm.DB, row any, query string, args ...any) (bool, error) {
	err := tx.Where(query, args...).First(row).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if err := tx.Create(row).Error; err != nil {
		return false, err
	}
	return true, nil
}

func seedQuestion(tx *gorm.DB, categoryID, typeID uint, item QuestionSeed) (bool, error) {
	var n int64
	if err := tx.Model(&questionModel.QuestionModel{}).
		Where("question_category_id = ? AND question_text = ?", categoryID, item.Text).
		Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	points := item.Points
	if points <= 0 {
		points = defaultPoints
	}
	q := questionModel.QuestionModel{
		QuestionCategoryID:  categoryID,
		QuestionTypeID:      typeID,
		QuestionText:        item.Text,
		QuestionExplanation: item.Explanation,
		QuestionHint:        item.Hint,
		QuestionPoints:      points,
		QuestionIsActive:    true,
		QuestionMedia:       item.Media,
	}
	for i, o := range item.Options {
		q.AnswerOptions = append(q.AnswerOptions, questionModel.AnswerOptionModel{
			AnswerOptionText:      o.Text,
			AnswerOptionIsCorrect: o.Correct,
			AnswerOptionPosition:  i,
		})
	}
	if err := tx.Create(&q).Error; err != nil {
		return false, err
	}
	return true, nil
}

// validate rejects seeds that would produce unscorable questions.
func (s QuizSeed) validate() error {
	types := map[string]bool{}
	for _, t := range s.QuestionTypes {
		if strings.TrimSpace(t.Name) == "" {
			return errors.New("question type without name")
		}
		types[t.Name] = true
	}
	for _, c := range s.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return errors.New("category without name")
		}
		for _, q := range c.Questions {
			if !types[q.Type] {
				return fmt.Errorf("question %q: unknown type %q", q.Text, q.Type)
			}
			if len(q.Options) < 2 {
				return fmt.Errorf("question %q: needs at least two options", q.Text)
			}
			correct := 0
			for _, o := range q.Options {
				if o.Correct {
					correct++
				}
			}
			if correct != 1 {
				return fmt.Errorf("question %q: has %d correct options, want 1", q.Text, correct)
			}
		}
	}
	for _, b := range s.Badges {
		if !slices.Contains(constants.BadgeRequirementTypes, b.RequirementType) {
			return fmt.Errorf("badge %q: unknown requirement type %q", b.Name, b.RequirementType)
		}
	}
	return nil
}
