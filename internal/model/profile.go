package model

import "time"

type NotificationSettings struct {
	DailyReminders bool `json:"dailyReminders"`
	WeeklyProgress bool `json:"weeklyProgress"`
	Achievements   bool `json:"achievements"`
}

// swagger:model Profile
type Profile struct {
	UserID        string               `json:"userId"`
	Name          string               `json:"name"`
	Email         string               `json:"email"`
	Notifications NotificationSettings `json:"notifications"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}
