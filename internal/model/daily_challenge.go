package model

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// DailyChallenge 用户每日挑战记录，(user_id, challenge_date) 唯一
// swagger:model DailyChallenge
type DailyChallenge struct {
	UUIDBase
	UserID      string                        `gorm:"size:64;not null;uniqueIndex:idx_user_challenge_date" json:"userId"`
	Date        string                        `gorm:"column:challenge_date;size:10;not null;uniqueIndex:idx_user_challenge_date" json:"date"` // UTC, 2006-01-02
	Challenge   datatypes.JSONType[Challenge] `json:"challenge"`
	Completed   bool                          `gorm:"default:false;index" json:"completed"`
	CompletedAt *time.Time                    `json:"completedAt,omitempty"`
	SkipsUsed   int                           `gorm:"default:0" json:"skipsUsed"`
}

func (DailyChallenge) TableName() string {
	return "user_challenges"
}

// Validate 存储边界校验
func (d *DailyChallenge) Validate() error {
	if d.UserID == "" {
		return errors.New("daily challenge: user id is required")
	}
	if _, err := time.Parse("2006-01-02", d.Date); err != nil {
		return fmt.Errorf("daily challenge: invalid date %q", d.Date)
	}
	ch := d.Challenge.Data()
	if ch.ID == "" {
		return errors.New("daily challenge: challenge snapshot is empty")
	}
	if !ch.Difficulty.Valid() {
		return fmt.Errorf("daily challenge: invalid difficulty %q", ch.Difficulty)
	}
	if d.SkipsUsed < 0 {
		return fmt.Errorf("daily challenge: negative skip count %d", d.SkipsUsed)
	}
	return nil
}
