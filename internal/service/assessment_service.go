package service

import (
	"context"

	"skillstreak_backend/internal/model"
	"skillstreak_backend/internal/util"
	"skillstreak_backend/pkg/logger"
	"skillstreak_backend/pkg/monitoring"
	"skillstreak_backend/pkg/tracing"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type AssessmentService struct {
	Assessments AssessmentStore
}

func NewAssessmentService(assessments AssessmentStore) *AssessmentService {
	return &AssessmentService{Assessments: assessments}
}

func (s *AssessmentService) Questions() []Question {
	return Questions()
}

// GetCurrent 最新一次自评，没有时返回 nil
func (s *AssessmentService) GetCurrent(ctx context.Context, userID string) (*model.SkillAssessment, error) {
	a, err := s.Assessments.FindLatestByUser(ctx, userID)
	if err != nil {
		return nil, util.StorageError(err)
	}
	return a, nil
}

// Save 服务端按答案重新计分后追加一条自评，客户端提交的结果不采信
func (s *AssessmentService) Save(ctx context.Context, userID string, answers map[int]int) (a *model.SkillAssessment, err error) {
	ctx, span := tracing.StartSpan(ctx, "assessment.save", userID)
	defer func() { tracing.EndSpan(span, err) }()

	results, err := ScoreAssessment(answers)
	if err != nil {
		return nil, err
	}

	a = &model.SkillAssessment{
		UserID:  userID,
		Results: datatypes.NewJSONSlice(results),
		Answers: datatypes.NewJSONType(answers),
	}
	if err = s.Assessments.Create(ctx, a); err != nil {
		return nil, util.StorageError(err)
	}

	monitoring.AssessmentsScored.Inc()
	logger.Log.Info("Assessment saved",
		zap.String("user_id", userID),
		zap.Strings("weakest_skills", weakestOf(results)),
	)
	return a, nil
}
