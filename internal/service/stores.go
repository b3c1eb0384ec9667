package service

import (
	"context"
	"time"

	"skillstreak_backend/internal/model"
)

// AssessmentStore 查不到时返回 (nil, nil)
type AssessmentStore interface {
	Create(ctx context.Context, a *model.SkillAssessment) error
	FindLatestByUser(ctx context.Context, userID string) (*model.SkillAssessment, error)
}

// DailyChallengeStore 每日挑战记录，按 (userID, date) 唯一
type DailyChallengeStore interface {
	// FindByUserAndDate 查不到时返回 (nil, nil)
	FindByUserAndDate(ctx context.Context, userID, date string) (*model.DailyChallenge, error)
	// CreateIfAbsent 已存在时不覆盖，返回库中的记录；created 表示本次是否新建
	CreateIfAbsent(ctx context.Context, rec *model.DailyChallenge) (stored *model.DailyChallenge, created bool, err error)
	// UpdateSkip 仅当记录未完成且 skips_used 仍为 prevSkips 时替换挑战并加一
	UpdateSkip(ctx context.Context, userID, date string, prevSkips int, challenge model.Challenge) (bool, error)
	// MarkCompleted 仅当记录未完成时生效
	MarkCompleted(ctx context.Context, userID, date string, at time.Time) (bool, error)
	ListCompletedByUser(ctx context.Context, userID string) ([]model.DailyChallenge, error)
}
