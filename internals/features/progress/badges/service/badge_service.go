package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cyberquiz_backend/internals/constants"
	attemptModel "cyberquiz_backend/internals/features/progress/attempts/model"
	"cyberquiz_backend/internals/features/progress/badges/model"
	progressModel "cyberquiz_backend/internals/features/progress/progress/model"
	userModel "cyberquiz_backend/internals/features/users/user/model"
)

// userState is everything badge requirements are evaluated against.
type userState struct {
	TotalPoints       int
	CurrentStreak     int
	AttemptCount      int64
	CompletedCategory map[uint]bool
}

func (s userState) satisfies(b model.BadgeModel) bool {
	switch b.BadgeRequirementType {
	case constants.BadgeRequirementPoints:
		return s.TotalPoints >= b.BadgeRequirementValue
	case constants.BadgeRequirementStreak:
		return s.CurrentStreak >= b.BadgeRequirementValue
	case constants.BadgeRequirementQuestionsAnswered:
		return s.AttemptCount >= int64(b.BadgeRequirementValue)
	case constants.BadgeRequirementCategoryComplete:
		return b.BadgeCategoryID != nil && s.CompletedCategory[*b.BadgeCategoryID]
	default:
		log.Printf("[WARN] badge=%d has unknown requirement type %q", b.BadgeID, b.BadgeRequirementType)
		return false
	}
}

func loadState(tx *gorm.DB, userID uint) (*userState, error) {
	var u userModel.UserModel
	if err := tx.First(&u, "user_id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	st := &userState{
		TotalPoints:       u.UserTotalPoints,
		CurrentStreak:     u.UserCurrentStreak,
		CompletedCategory: map[uint]bool{},
	}
	if err := tx.Model(&attemptModel.QuestionAttemptModel{}).
		Where("question_attempt_user_id = ?", userID).
		Count(&st.AttemptCount).Error; err != nil {
		return nil, fmt.Errorf("count attempts: %w", err)
	}

	var completed []uint
	if err := tx.Model(&progressModel.UserProgressModel{}).
		Where("user_progress_user_id = ? AND user_progress_is_completed = ?", userID, true).
		Pluck("user_progress_category_id", &completed).Error; err != nil {
		return nil, fmt.Errorf("list completed categories: %w", err)
	}
	for _, id := range completed {
		st.CompletedCategory[id] = true
	}
	return st, nil
}

// AwardEligibleBadges grants every badge whose requirement the user now meets
// and does not hold yet. It returns only badges inserted by this call, so a
// second call with unchanged state returns nothing.
func AwardEligibleBadges(tx *gorm.DB, userID uint) ([]model.BadgeModel, error) {
	var unheld []model.BadgeModel
	held := tx.Model(&model.UserBadgeModel{}).
		Select("user_badge_badge_id").
		Where("user_badge_user_id = ?", userID)
	if err := tx.Where("badge_id NOT IN (?)", held).
		Order("badge_id ASC").
		Find(&unheld).Error; err != nil {
		return nil, fmt.Errorf("list unheld badges: %w", err)
	}
	if len(unheld) == 0 {
		return []model.BadgeModel{}, nil
	}

	st, err := loadState(tx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	awarded := make([]model.BadgeModel, 0)
	for _, b := range unheld {
		if !st.satisfies(b) {
			continue
		}
		ub := model.UserBadgeModel{
			UserBadgeUserID:   userID,
			UserBadgeBadgeID:  b.BadgeID,
			UserBadgeEarnedAt: now,
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_badge_user_id"}, {Name: "user_badge_badge_id"}},
			DoNothing: true,
		}).Create(&ub)
		if res.Error != nil {
			return nil, fmt.Errorf("award badge %d: %w", b.BadgeID, res.Error)
		}
		if res.RowsAffected == 1 {
			awarded = append(awarded, b)
			log.Printf("[INFO] user=%d earned badge=%d (%s)", userID, b.BadgeID, b.BadgeName)
		}
	}
	return awarded, nil
}

func ListAll(ctx context.Context, db *gorm.DB) ([]model.BadgeModel, error) {
	var badges []model.BadgeModel
	if err := db.WithContext(ctx).Order("badge_id ASC").Find(&badges).Error; err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	return badges, nil
}

// EarnedBadge is a badge with the time the user earned it.
type EarnedBadge struct {
	model.BadgeModel
	EarnedAt time.Time `gorm:"column:user_badge_earned_at"`
}

func ListEarned(ctx context.Context, db *gorm.DB, userID uint) ([]EarnedBadge, error) {
	var out []EarnedBadge
	err := db.WithContext(ctx).
		Table("user_badges AS ub").
		Select("b.*, ub.user_badge_earned_at").
		Joins("JOIN badges AS b ON b.badge_id = ub.user_badge_badge_id").
		Where("ub.user_badge_user_id = ?", userID).
		Order("ub.user_badge_earned_at ASC, b.badge_id ASC").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list earned badges: %w", err)
	}
	return out, nil
}
