package repository

import (
	"context"
	"errors"

	"skillstreak_backend/internal/model"

	"gorm.io/gorm"
)

type AssessmentRepository struct {
	DB *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{DB: db}
}

// Create 追加一条自评记录，历史保留
func (r *AssessmentRepository) Create(ctx context.Context, a *model.SkillAssessment) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

// FindLatestByUser 按创建时间取最新一条，没有时返回 nil
func (r *AssessmentRepository) FindLatestByUser(ctx context.Context, userID string) (*model.SkillAssessment, error) {
	var a model.SkillAssessment
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
