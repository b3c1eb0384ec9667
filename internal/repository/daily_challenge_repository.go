package repository

import (
	"context"
	"errors"
	"time"

	"skillstreak_backend/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DailyChallengeRepository struct {
	DB *gorm.DB
}

func NewDailyChallengeRepository(db *gorm.DB) *DailyChallengeRepository {
	return &DailyChallengeRepository{DB: db}
}

// FindByUserAndDate 查询用户某天的挑战记录，没有时返回 nil
func (r *DailyChallengeRepository) FindByUserAndDate(ctx context.Context, userID, date string) (*model.DailyChallenge, error) {
	var rec model.DailyChallenge
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND challenge_date = ?", userID, date).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateIfAbsent 依赖 (user_id, challenge_date) 唯一索引，并发首次请求只会落库一条
func (r *DailyChallengeRepository) CreateIfAbsent(ctx context.Context, rec *model.DailyChallenge) (*model.DailyChallenge, bool, error) {
	if err := rec.Validate(); err != nil {
		return nil, false, err
	}

	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "challenge_date"}},
			DoNothing: true,
		}).
		Create(rec)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return rec, true, nil
	}

	existing, err := r.FindByUserAndDate(ctx, rec.UserID, rec.Date)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, errors.New("daily challenge vanished after conflicting insert")
	}
	return existing, false, nil
}

// UpdateSkip 条件更新：未完成且跳过次数未被他人修改时才替换挑战
func (r *DailyChallengeRepository) UpdateSkip(ctx context.Context, userID, date string, prevSkips int, challenge model.Challenge) (bool, error) {
	res := r.DB.WithContext(ctx).
		Model(&model.DailyChallenge{}).
		Where("user_id = ? AND challenge_date = ? AND completed = ? AND skips_used = ?", userID, date, false, prevSkips).
		Updates(map[string]interface{}{
			"challenge":  datatypes.NewJSONType(challenge),
			"skips_used": gorm.Expr("skips_used + ?", 1),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// MarkCompleted 完成状态不可逆
func (r *DailyChallengeRepository) MarkCompleted(ctx context.Context, userID, date string, at time.Time) (bool, error) {
	res := r.DB.WithContext(ctx).
		Model(&model.DailyChallenge{}).
		Where("user_id = ? AND challenge_date = ? AND completed = ?", userID, date, false).
		Updates(map[string]interface{}{
			"completed":    true,
			"completed_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *DailyChallengeRepository) ListCompletedByUser(ctx context.Context, userID string) ([]model.DailyChallenge, error) {
	var records []model.DailyChallenge
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND completed = ?", userID, true).
		Order("challenge_date ASC").
		Find(&records).Error
	return records, err
}
