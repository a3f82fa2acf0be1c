package constants

// Question type names stored in question_types.question_type_name
const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeTrueFalse      = "true_false"
	QuestionTypeVisualChoice   = "visual_choice"
	QuestionTypeScenario       = "scenario"
)

// Catalog difficulty of a question type
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// EasierQuestionTypes are the formats a struggling learner is steered to.
var EasierQuestionTypes = []string{
	QuestionTypeVisualChoice,
	QuestionTypeTrueFalse,
}

// Struggling-type thresholds
const (
	StrugglingSuccessRate = 60.0
	StrugglingMinAttempts = 3
)

// Badge requirement types
const (
	BadgeRequirementPoints            = "points"
	BadgeRequirementStreak            = "streak"
	BadgeRequirementQuestionsAnswered = "questions_answered"
	BadgeRequirementCategoryComplete  = "category_complete"
)

var BadgeRequirementTypes = []string{
	BadgeRequirementPoints,
	BadgeRequirementStreak,
	BadgeRequirementQuestionsAnswered,
	BadgeRequirementCategoryComplete,
}
