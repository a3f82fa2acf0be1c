package service

import (
	"context"

	"gorm.io/gorm"

	badgeModel "cyberquiz_backend/internals/features/progress/badges/model"
	badgeService "cyberquiz_backend/internals/features/progress/badges/service"
	perfService "cyberquiz_backend/internals/features/progress/performance/service"
	categoryService "cyberquiz_backend/internals/features/quiz/categories/service"
	userModel "cyberquiz_backend/internals/features/users/user/model"
	userService "cyberquiz_backend/internals/features/users/user/service"
)

// Dashboard is everything the progress page shows for one user.
type Dashboard struct {
	User         *userModel.UserModel
	Progress     []categoryService.CategoryProgress
	EarnedBadges []badgeService.EarnedBadge
	AllBadges    []badgeModel.BadgeModel
	Performance  []perfService.TypeStat
}

// LoadDashboard reads the dashboard in one transaction, so a request holds a
// single connection and the parts agree with each other.
func LoadDashboard(ctx context.Context, db *gorm.DB, userID uint) (*Dashboard, error) {
	var d Dashboard
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if d.User, err = userService.GetByID(ctx, tx, userID); err != nil {
			return err
		}
		if d.Progress, err = categoryService.ListWithProgress(ctx, tx, userID); err != nil {
			return err
		}
		if d.EarnedBadges, err = badgeService.ListEarned(ctx, tx, userID); err != nil {
			return err
		}
		if d.AllBadges, err = badgeService.ListAll(ctx, tx); err != nil {
			return err
		}
		d.Performance, err = perfService.UserTypeStats(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}
