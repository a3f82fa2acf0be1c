package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cyberquiz_backend/internals/features/users/user/model"
	helper "cyberquiz_backend/internals/helpers"
)

// NormalizeName trims the name and folds it to NFC so visually equal names
// map to one user.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// CreateOrFetch returns the user with this name, creating it on first use.
// Concurrent first calls for one name converge on a single row.
func CreateOrFetch(ctx context.Context, db *gorm.DB, name string) (*model.UserModel, bool, error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, false, fmt.Errorf("name is required: %w", helper.ErrValidation)
	}

	db = db.WithContext(ctx)
	u := model.UserModel{UserName: name}
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_name"}},
		DoNothing: true,
	}).Create(&u)
	if res.Error != nil {
		return nil, false, fmt.Errorf("create user: %w", res.Error)
	}
	created := res.RowsAffected == 1

	var out model.UserModel
	if err := db.Where("user_name = ?", name).First(&out).Error; err != nil {
		return nil, false, fmt.Errorf("fetch user: %w", err)
	}
	if created {
		log.Printf("[INFO] user created id=%d name=%q", out.UserID, out.UserName)
	}
	return &out, created, nil
}

func GetByID(ctx context.Context, db *gorm.DB, userID uint) (*model.UserModel, error) {
	var u model.UserModel
	err := db.WithContext(ctx).First(&u, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", userID, helper.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}
	return &u, nil
}

// LockForUpdate loads the user row with a write lock. Every multi-row update
// of a user's aggregates takes this lock first, which serialises them.
// SQLite has no row locks; its single writer gives the same ordering.
func LockForUpdate(tx *gorm.DB, userID uint) (*model.UserModel, error) {
	var u model.UserModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&u, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", userID, helper.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lock user %d: %w", userID, err)
	}
	return &u, nil
}

// SaveCounters writes back the global counters of a locked user.
func SaveCounters(tx *gorm.DB, u *model.UserModel) error {
	err := tx.Model(&model.UserModel{}).
		Where("user_id = ?", u.UserID).
		Updates(map[string]interface{}{
			"user_total_points":   u.UserTotalPoints,
			"user_current_streak": u.UserCurrentStreak,
			"user_best_streak":    u.UserBestStreak,
		}).Error
	if err != nil {
		return fmt.Errorf("update user %d: %w", u.UserID, err)
	}
	return nil
}
