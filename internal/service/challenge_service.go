package service

import (
	"context"
	"time"

	"skillstreak_backend/internal/model"
	"skillstreak_backend/internal/util"
	"skillstreak_backend/pkg/logger"
	"skillstreak_backend/pkg/monitoring"
	"skillstreak_backend/pkg/tracing"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// TodayChallenge GET /daily-challenge 响应
type TodayChallenge struct {
	Challenge      model.Challenge `json:"challenge"`
	Completed      bool            `json:"completed"`
	SkipsUsed      int             `json:"skipsUsed"`
	SkipsRemaining int             `json:"skipsRemaining"`
}

type SkipResult struct {
	Challenge      model.Challenge `json:"challenge"`
	SkipsUsed      int             `json:"skipsUsed"`
	SkipsRemaining int             `json:"skipsRemaining"`
}

type CompletionResult struct {
	Success             bool   `json:"success"`
	Message             string `json:"message"`
	CurrentStreak       int    `json:"currentStreak"`
	LongestStreak       int    `json:"longestStreak"`
	TotalPoints         int    `json:"totalPoints"`
	ChallengesCompleted int    `json:"challengesCompleted"`
	Level               int    `json:"level"`
	PointsToNextLevel   int    `json:"pointsToNextLevel"`
}

// ChallengeService 每日挑战状态机：未选 -> 已选 -> 已完成
type ChallengeService struct {
	Challenges  DailyChallengeStore
	Assessments AssessmentStore
	Catalog     *Catalog
	Rules       *RuleSet
	Progress    *ProgressService
	Rand        Randomizer
	Now         func() time.Time
}

func NewChallengeService(
	challenges DailyChallengeStore,
	assessments AssessmentStore,
	catalog *Catalog,
	rules *RuleSet,
	progress *ProgressService,
) *ChallengeService {
	return &ChallengeService{
		Challenges:  challenges,
		Assessments: assessments,
		Catalog:     catalog,
		Rules:       rules,
		Progress:    progress,
		Rand:        DefaultRandomizer(),
		Now:         time.Now,
	}
}

func (s *ChallengeService) today() string {
	return s.Now().UTC().Format(util.DateFormat)
}

// weakSkills 读取自评失败不阻塞选题，退化为无偏选择
func (s *ChallengeService) weakSkills(ctx context.Context, userID string) []string {
	a, err := s.Assessments.FindLatestByUser(ctx, userID)
	if err != nil {
		logger.Log.Warn("Failed to load assessment, selecting without bias",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil
	}
	return WeakestSkills(a)
}

// Today 返回今天的挑战，不存在时按弱项选一个并落库
func (s *ChallengeService) Today(ctx context.Context, userID string) (view *TodayChallenge, err error) {
	ctx, span := tracing.StartSpan(ctx, "challenge.today", userID)
	defer func() { tracing.EndSpan(span, err) }()

	rules := s.Rules.Load()
	date := s.today()

	rec, err := s.Challenges.FindByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, util.StorageError(err)
	}

	if rec == nil {
		entry, source, err := Pick(s.Catalog, s.weakSkills(ctx, userID), "", s.Rand)
		if err != nil {
			return nil, err
		}

		candidate := &model.DailyChallenge{
			UserID:    userID,
			Date:      date,
			Challenge: datatypes.NewJSONType(entry.Snapshot(rules)),
		}
		stored, created, err := s.Challenges.CreateIfAbsent(ctx, candidate)
		if err != nil {
			return nil, util.StorageError(err)
		}
		if created {
			monitoring.ChallengeSelections.WithLabelValues(string(source)).Inc()
			logger.Log.Info("Daily challenge selected",
				zap.String("user_id", userID),
				zap.String("challenge_id", entry.ID),
				zap.String("source", string(source)),
			)
		}
		rec = stored
	}

	return &TodayChallenge{
		Challenge:      rec.Challenge.Data(),
		Completed:      rec.Completed,
		SkipsUsed:      rec.SkipsUsed,
		SkipsRemaining: rules.SkipsRemaining(rec.SkipsUsed),
	}, nil
}

// Skip 消耗一次跳过机会并换一个不同的挑战
func (s *ChallengeService) Skip(ctx context.Context, userID string) (result *SkipResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "challenge.skip", userID)
	defer func() { tracing.EndSpan(span, err) }()

	rules := s.Rules.Load()
	date := s.today()

	rec, err := s.Challenges.FindByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, util.StorageError(err)
	}
	if rec == nil {
		return nil, util.NotFoundError("no active challenge for today")
	}
	if err := checkSkippable(rec, rules); err != nil {
		return nil, err
	}

	current := rec.Challenge.Data()
	entry, source, err := Pick(s.Catalog, s.weakSkills(ctx, userID), current.ID, s.Rand)
	if err != nil {
		return nil, err
	}
	next := entry.Snapshot(rules)

	ok, err := s.Challenges.UpdateSkip(ctx, userID, date, rec.SkipsUsed, next)
	if err != nil {
		return nil, util.StorageError(err)
	}
	if !ok {
		// 记录在读取之后被修改，重新读取以给出准确的错误
		latest, err := s.Challenges.FindByUserAndDate(ctx, userID, date)
		if err != nil {
			return nil, util.StorageError(err)
		}
		if latest != nil {
			if err := checkSkippable(latest, rules); err != nil {
				return nil, err
			}
		}
		monitoring.ChallengeSkips.WithLabelValues("conflict").Inc()
		return nil, util.ErrConflict
	}

	used := rec.SkipsUsed + 1
	monitoring.ChallengeSkips.WithLabelValues("ok").Inc()
	monitoring.ChallengeSelections.WithLabelValues(string(source)).Inc()
	logger.Log.Info("Daily challenge skipped",
		zap.String("user_id", userID),
		zap.String("previous_challenge_id", current.ID),
		zap.String("challenge_id", next.ID),
		zap.Int("skips_used", used),
	)

	return &SkipResult{
		Challenge:      next,
		SkipsUsed:      used,
		SkipsRemaining: rules.SkipsRemaining(used),
	}, nil
}

func checkSkippable(rec *model.DailyChallenge, rules Rules) error {
	if rec.Completed {
		monitoring.ChallengeSkips.WithLabelValues("completed").Inc()
		return util.ErrChallengeCompleted
	}
	if rec.SkipsUsed >= rules.DailySkipLimit {
		monitoring.ChallengeSkips.WithLabelValues("exhausted").Inc()
		return util.ErrBudgetExhausted
	}
	return nil
}

// Complete 完成今天的挑战，重复调用不改变状态。
// 进度快照更新失败只记日志，不影响完成结果。
func (s *ChallengeService) Complete(ctx context.Context, userID, challengeID string) (result *CompletionResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "challenge.complete", userID)
	defer func() { tracing.EndSpan(span, err) }()

	date := s.today()
	rec, err := s.Challenges.FindByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, util.StorageError(err)
	}
	if rec == nil {
		return nil, util.NotFoundError("no active challenge for today")
	}

	current := rec.Challenge.Data()
	if challengeID != "" && challengeID != current.ID {
		return nil, util.ValidationError("challengeId", "does not match today's challenge")
	}

	result = &CompletionResult{Success: true, Message: "Challenge already completed"}
	if !rec.Completed {
		changed, err := s.Challenges.MarkCompleted(ctx, userID, date, s.Now().UTC())
		if err != nil {
			return nil, util.StorageError(err)
		}
		if changed {
			result.Message = "Challenge completed"
			monitoring.ChallengeCompletions.Inc()
			logger.Log.Info("Daily challenge completed",
				zap.String("user_id", userID),
				zap.String("challenge_id", current.ID),
				zap.Int("points", current.Points),
			)
		}
	}

	summary, err := s.Progress.Refresh(ctx, userID)
	if err != nil {
		logger.Log.Warn("Failed to refresh progress after completion",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
	if summary != nil {
		result.CurrentStreak = summary.CurrentStreak
		result.LongestStreak = summary.LongestStreak
		result.TotalPoints = summary.TotalPoints
		result.ChallengesCompleted = summary.ChallengesCompleted
		result.Level = summary.Level
		result.PointsToNextLevel = summary.PointsToNextLevel
	}
	return result, nil
}
