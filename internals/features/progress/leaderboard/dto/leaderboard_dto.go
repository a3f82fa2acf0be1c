package dto

type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      uint   `json:"userId"`
	Name        string `json:"name"`
	TotalPoints int    `json:"totalPoints"`
	BestStreak  int    `json:"bestStreak"`
	BadgeCount  int    `json:"badgeCount"`
}
