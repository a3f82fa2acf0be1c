package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"cyberquiz_backend/internals/features/progress/leaderboard/dto"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Top ranks users by total points, then best streak, then id.
func Top(ctx context.Context, db *gorm.DB, limit int) ([]dto.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	var rows []dto.LeaderboardEntry
	err := db.WithContext(ctx).
		Table("users AS u").
		Select(`u.user_id AS user_id,
			u.user_name AS name,
			u.user_total_points AS total_points,
			u.user_best_streak AS best_streak,
			COUNT(ub.user_badge_id) AS badge_count`).
		Joins("LEFT JOIN user_badges AS ub ON ub.user_badge_user_id = u.user_id").
		Group("u.user_id, u.user_name, u.user_total_points, u.user_best_streak").
		Order("u.user_total_points DESC, u.user_best_streak DESC, u.user_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	if rows == nil {
		rows = []dto.LeaderboardEntry{}
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}
