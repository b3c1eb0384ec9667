package model

import "time"

// swagger:model MonthlyStat
type MonthlyStat struct {
	Month               string `json:"month"` // 2006-01
	Label               string `json:"label"` // January 2006
	ChallengesCompleted int    `json:"challengesCompleted"`
	PointsEarned        int    `json:"pointsEarned"`
}

// ProgressSummary 由已完成记录推导，不是独立的事实来源
// swagger:model ProgressSummary
type ProgressSummary struct {
	CurrentStreak       int           `json:"currentStreak"`
	LongestStreak       int           `json:"longestStreak"`
	TotalPoints         int           `json:"totalPoints"`
	ChallengesCompleted int           `json:"challengesCompleted"`
	WeeklyProgress      [7]int        `json:"weeklyProgress"` // 周一为 0
	MonthlyStats        []MonthlyStat `json:"monthlyStats"`
	Level               int           `json:"level"`
	PointsToNextLevel   int           `json:"pointsToNextLevel"`
	LastCompletedDate   string        `json:"lastCompletedDate,omitempty"`
	ComputedAt          time.Time     `json:"computedAt"`
	Stale               bool          `json:"stale,omitempty"`
}
