package dto

import (
	"time"

	"cyberquiz_backend/internals/features/progress/badges/model"
	"cyberquiz_backend/internals/features/progress/badges/service"
)

type BadgeResponse struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Icon             string `json:"icon"`
	RequirementType  string `json:"requirementType"`
	RequirementValue int    `json:"requirementValue"`
	CategoryID       *uint  `json:"categoryId,omitempty"`
}

type EarnedBadgeResponse struct {
	BadgeResponse
	EarnedAt time.Time `json:"earnedAt"`
}

func FromModel(b model.BadgeModel) BadgeResponse {
	return BadgeResponse{
		ID:               b.BadgeID,
		Name:             b.BadgeName,
		Description:      b.BadgeDescription,
		Icon:             b.BadgeIcon,
		RequirementType:  b.BadgeRequirementType,
		RequirementValue: b.BadgeRequirementValue,
		CategoryID:       b.BadgeCategoryID,
	}
}

// FromModels never returns nil so an empty list encodes as [].
func FromModels(badges []model.BadgeModel) []BadgeResponse {
	out := make([]BadgeResponse, 0, len(badges))
	for _, b := range badges {
		out = append(out, FromModel(b))
	}
	return out
}

func FromEarned(earned []service.EarnedBadge) []EarnedBadgeResponse {
	out := make([]EarnedBadgeResponse, 0, len(earned))
	for _, e := range earned {
		out = append(out, EarnedBadgeResponse{BadgeResponse: FromModel(e.BadgeModel), EarnedAt: e.EarnedAt})
	}
	return out
}
