package seeds

import (
	"context"

	"gorm.io/gorm"

	"cyberquiz_backend/internals/seeds/quiz"
)

func RunAllSeeds(ctx context.Context, db *gorm.DB, quizFile string) error {
	//* Quiz catalog: question types, categories, questions, badges
	if _, err := quiz.SeedQuizFromJSON(ctx, db, quizFile); err != nil {
		return err
	}
	return nil
}
