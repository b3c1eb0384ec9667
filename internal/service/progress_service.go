package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"skillstreak_backend/internal/model"
	"skillstreak_backend/internal/util"
	"skillstreak_backend/pkg/kv"
	"skillstreak_backend/pkg/logger"
	"skillstreak_backend/pkg/tracing"

	"go.uber.org/zap"
)

// ProgressService 进度以完成日志为准，KV 中只保存最近一次计算结果
type ProgressService struct {
	Challenges DailyChallengeStore
	KV         kv.Store
	Rules      *RuleSet
	Now        func() time.Time
}

func NewProgressService(challenges DailyChallengeStore, store kv.Store, rules *RuleSet) *ProgressService {
	return &ProgressService{
		Challenges: challenges,
		KV:         store,
		Rules:      rules,
		Now:        time.Now,
	}
}

func progressKey(userID string) string {
	return util.KeyProgress + userID
}

func (s *ProgressService) compute(ctx context.Context, userID string) (*model.ProgressSummary, error) {
	records, err := s.Challenges.ListCompletedByUser(ctx, userID)
	if err != nil {
		return nil, util.StorageError(err)
	}
	summary := Summarize(records, s.Now(), s.Rules.Load().LevelPoints)
	return &summary, nil
}

// Summary 关系库不可用时退回 KV 快照并标记 stale
func (s *ProgressService) Summary(ctx context.Context, userID string) (summary *model.ProgressSummary, err error) {
	ctx, span := tracing.StartSpan(ctx, "progress.summary", userID)
	defer func() { tracing.EndSpan(span, err) }()

	summary, err = s.compute(ctx, userID)
	if err == nil {
		return summary, nil
	}

	snap, snapErr := s.snapshot(ctx, userID)
	if snapErr != nil {
		logger.Log.Warn("Progress snapshot unavailable",
			zap.String("user_id", userID),
			zap.Error(snapErr),
		)
		return nil, err
	}
	logger.Log.Warn("Serving stale progress snapshot",
		zap.String("user_id", userID),
		zap.Error(err),
	)
	snap.Stale = true
	return snap, nil
}

// Refresh 重算并写入快照。写快照失败时仍返回已算出的结果和错误
func (s *ProgressService) Refresh(ctx context.Context, userID string) (*model.ProgressSummary, error) {
	summary, err := s.compute(ctx, userID)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return summary, err
	}
	if err := s.KV.Set(ctx, progressKey(userID), data); err != nil {
		return summary, util.StorageError(err)
	}
	return summary, nil
}

func (s *ProgressService) snapshot(ctx context.Context, userID string) (*model.ProgressSummary, error) {
	data, err := s.KV.Get(ctx, progressKey(userID))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, util.NotFoundError("progress snapshot")
		}
		return nil, err
	}
	var summary model.ProgressSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
