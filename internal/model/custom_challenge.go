package model

import "time"

// CustomChallenge 用户自定义挑战，存放于 KV
// swagger:model CustomChallenge
type CustomChallenge struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Category       string     `json:"category"`
	Difficulty     Difficulty `json:"difficulty"`
	Points         int        `json:"points"`
	CreatedBy      string     `json:"createdBy"`
	IsActive       bool       `json:"isActive"`
	TimesCompleted int        `json:"timesCompleted"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}
