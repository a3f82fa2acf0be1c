package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel is a learner identified by a client-chosen name.
type UserModel struct {
	UserID            uint      `gorm:"column:user_id;primaryKey" json:"id"`
	UserPublicID      uuid.UUID `gorm:"column:user_public_id;type:varchar(36);uniqueIndex;not null" json:"publicId"`
	UserName          string    `gorm:"column:user_name;size:100;uniqueIndex;not null" json:"name"`
	UserTotalPoints   int       `gorm:"column:user_total_points;not null;default:0" json:"totalPoints"`
	UserCurrentStreak int       `gorm:"column:user_current_streak;not null;default:0" json:"currentStreak"`
	UserBestStreak    int       `gorm:"column:user_best_streak;not null;default:0" json:"bestStreak"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.UserPublicID == uuid.Nil {
		u.UserPublicID = uuid.New()
	}
	return nil
}

// RecordAnswer applies one answer outcome to the global counters.
// A correct answer extends the streak and adds points; a miss only breaks the
// streak. BestStreak never decreases.
func (u *UserModel) RecordAnswer(isCorrect bool, points int) {
	if !isCorrect {
		u.UserCurrentStreak = 0
		return
	}
	u.UserTotalPoints += points
	u.UserCurrentStreak++
	if u.UserCurrentStreak > u.UserBestStreak {
		u.UserBestStreak = u.UserCurrentStreak
	}
}
