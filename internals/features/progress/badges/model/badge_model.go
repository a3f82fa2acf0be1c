package model

import "time"

type BadgeModel struct {
	BadgeID               uint      `gorm:"column:badge_id;primaryKey" json:"id"`
	BadgeName             string    `gorm:"column:badge_name;size:100;uniqueIndex;not null" json:"name"`
	BadgeDescription      string    `gorm:"column:badge_description;type:text" json:"description"`
	BadgeIcon             string    `gorm:"column:badge_icon;size:50" json:"icon"`
	BadgeRequirementType  string    `gorm:"column:badge_requirement_type;size:30;not null" json:"requirementType"`
	BadgeRequirementValue int       `gorm:"column:badge_requirement_value;not null;default:0" json:"requirementValue"`
	BadgeCategoryID       *uint     `gorm:"column:badge_category_id" json:"categoryId,omitempty"`
	CreatedAt             time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (BadgeModel) TableName() string {
	return "badges"
}

type UserBadgeModel struct {
	UserBadgeID       uint      `gorm:"column:user_badge_id;primaryKey" json:"id"`
	UserBadgeUserID   uint      `gorm:"column:user_badge_user_id;not null;uniqueIndex:uq_user_badges_user_badge,priority:1" json:"userId"`
	UserBadgeBadgeID  uint      `gorm:"column:user_badge_badge_id;not null;uniqueIndex:uq_user_badges_user_badge,priority:2" json:"badgeId"`
	UserBadgeEarnedAt time.Time `gorm:"column:user_badge_earned_at;not null" json:"earnedAt"`
}

func (UserBadgeModel) TableName() string {
	return "user_badges"
}
