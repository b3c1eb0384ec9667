package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"skillstreak_backend/internal/model"
	"skillstreak_backend/internal/util"
	"skillstreak_backend/pkg/kv"
	"skillstreak_backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxTitleLength       = 100
	maxDescriptionLength = 1000
)

var CustomChallengeCategories = []string{
	"Communication",
	"Leadership",
	"Collaboration",
	"Emotional Intelligence",
	"Self-Awareness",
	"Adaptability",
	"Problem Solving",
	"Time Management",
	"Networking",
	"Other",
}

type CustomChallengeInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Difficulty  string `json:"difficulty"`
}

// CustomChallengeUpdate 部分更新，nil 字段保持不变
type CustomChallengeUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Difficulty  *string `json:"difficulty"`
	IsActive    *bool   `json:"isActive"`
}

// CustomChallengeService 自定义挑战按用户前缀存放于 KV，跨用户访问表现为不存在
type CustomChallengeService struct {
	KV    kv.Store
	Rules *RuleSet
	Now   func() time.Time
}

func NewCustomChallengeService(store kv.Store, rules *RuleSet) *CustomChallengeService {
	return &CustomChallengeService{KV: store, Rules: rules, Now: time.Now}
}

func customChallengePrefix(userID string) string {
	return util.KeyCustomChallenge + userID + ":"
}

func customChallengeKey(userID, id string) string {
	return customChallengePrefix(userID) + id
}

func (s *CustomChallengeService) List(ctx context.Context, userID string) ([]model.CustomChallenge, error) {
	items, err := s.KV.GetByPrefix(ctx, customChallengePrefix(userID))
	if err != nil {
		return nil, util.StorageError(err)
	}

	out := make([]model.CustomChallenge, 0, len(items))
	for key, data := range items {
		var ch model.CustomChallenge
		if err := json.Unmarshal(data, &ch); err != nil {
			logger.Log.Warn("Skipping unreadable custom challenge",
				zap.String("key", key),
				zap.Error(err),
			)
			continue
		}
		out = append(out, ch)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *CustomChallengeService) Create(ctx context.Context, userID string, in CustomChallengeInput) (*model.CustomChallenge, error) {
	title, err := validateTitle(in.Title)
	if err != nil {
		return nil, err
	}
	category, err := validateCategory(in.Category)
	if err != nil {
		return nil, err
	}
	difficulty, err := validateDifficulty(in.Difficulty)
	if err != nil {
		return nil, err
	}
	description, err := validateDescription(in.Description)
	if err != nil {
		return nil, err
	}

	now := s.Now().UTC()
	ch := &model.CustomChallenge{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		Category:    category,
		Difficulty:  difficulty,
		Points:      s.Rules.Load().PointsFor(difficulty),
		CreatedBy:   userID,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.put(ctx, ch); err != nil {
		return nil, err
	}

	logger.Log.Info("Custom challenge created",
		zap.String("user_id", userID),
		zap.String("challenge_id", ch.ID),
	)
	return ch, nil
}

func (s *CustomChallengeService) Update(ctx context.Context, userID, id string, upd CustomChallengeUpdate) (*model.CustomChallenge, error) {
	ch, err := s.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		if ch.Title, err = validateTitle(*upd.Title); err != nil {
			return nil, err
		}
	}
	if upd.Description != nil {
		if ch.Description, err = validateDescription(*upd.Description); err != nil {
			return nil, err
		}
	}
	if upd.Category != nil {
		if ch.Category, err = validateCategory(*upd.Category); err != nil {
			return nil, err
		}
	}
	if upd.Difficulty != nil {
		if ch.Difficulty, err = validateDifficulty(*upd.Difficulty); err != nil {
			return nil, err
		}
		ch.Points = s.Rules.Load().PointsFor(ch.Difficulty)
	}
	if upd.IsActive != nil {
		ch.IsActive = *upd.IsActive
	}
	ch.UpdatedAt = s.Now().UTC()

	if err := s.put(ctx, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

func (s *CustomChallengeService) Delete(ctx context.Context, userID, id string) error {
	if err := s.KV.Delete(ctx, customChallengeKey(userID, id)); err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return util.NotFoundError("custom challenge")
		}
		return util.StorageError(err)
	}
	logger.Log.Info("Custom challenge deleted",
		zap.String("user_id", userID),
		zap.String("challenge_id", id),
	)
	return nil
}

// Complete 仅启用状态的挑战计入完成次数
func (s *CustomChallengeService) Complete(ctx context.Context, userID, id string) (*model.CustomChallenge, error) {
	ch, err := s.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !ch.IsActive {
		return nil, util.ValidationError("isActive", "challenge is inactive")
	}
	ch.TimesCompleted++
	ch.UpdatedAt = s.Now().UTC()
	if err := s.put(ctx, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

func (s *CustomChallengeService) get(ctx context.Context, userID, id string) (*model.CustomChallenge, error) {
	data, err := s.KV.Get(ctx, customChallengeKey(userID, id))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, util.NotFoundError("custom challenge")
		}
		return nil, util.StorageError(err)
	}
	var ch model.CustomChallenge
	if err := json.Unmarshal(data, &ch); err != nil {
		return nil, util.StorageError(err)
	}
	return &ch, nil
}

func (s *CustomChallengeService) put(ctx context.Context, ch *model.CustomChallenge) error {
	data, err := json.Marshal(ch)
	if err != nil {
		return err
	}
	if err := s.KV.Set(ctx, customChallengeKey(ch.CreatedBy, ch.ID), data); err != nil {
		return util.StorageError(err)
	}
	return nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", util.ValidationError("title", "is required")
	}
	if len([]rune(title)) > maxTitleLength {
		return "", util.ValidationError("title", "must be at most %d characters", maxTitleLength)
	}
	return title, nil
}

func validateDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if len([]rune(description)) > maxDescriptionLength {
		return "", util.ValidationError("description", "must be at most %d characters", maxDescriptionLength)
	}
	return description, nil
}

func validateCategory(category string) (string, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return "", util.ValidationError("category", "is required")
	}
	for _, c := range CustomChallengeCategories {
		if strings.EqualFold(c, category) {
			return c, nil
		}
	}
	return "", util.ValidationError("category", "must be one of %s", strings.Join(CustomChallengeCategories, ", "))
}

func validateDifficulty(difficulty string) (model.Difficulty, error) {
	d, ok := model.ParseDifficulty(difficulty)
	if !ok {
		return "", util.ValidationError("difficulty", "must be Easy, Medium or Hard")
	}
	return d, nil
}
