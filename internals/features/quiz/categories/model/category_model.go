package model

import "time"

type CategoryModel struct {
	CategoryID             uint      `gorm:"column:category_id;primaryKey" json:"id"`
	CategoryName           string    `gorm:"column:category_name;size:100;uniqueIndex;not null" json:"name"`
	CategoryIcon           string    `gorm:"column:category_icon;size:50" json:"icon"`
	CategoryDescription    string    `gorm:"column:category_description;type:text" json:"description"`
	CategoryTotalQuestions int       `gorm:"column:category_total_questions;not null;default:0" json:"totalQuestions"`
	CreatedAt              time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (CategoryModel) TableName() string {
	return "categories"
}
