package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"skillstreak_backend/internal/model"
	"skillstreak_backend/internal/util"
	"skillstreak_backend/pkg/kv"
	"skillstreak_backend/pkg/logger"

	"go.uber.org/zap"
)

const maxNameLength = 100

type ProfileInput struct {
	Name          string                      `json:"name"`
	Notifications *model.NotificationSettings `json:"notifications"`
}

type ProfileService struct {
	KV  kv.Store
	Now func() time.Time
}

func NewProfileService(store kv.Store) *ProfileService {
	return &ProfileService{KV: store, Now: time.Now}
}

func profileKey(userID string) string {
	return util.KeyProfile + userID
}

func defaultProfile(userID, email, name string) *model.Profile {
	if name == "" {
		name = email
	}
	return &model.Profile{
		UserID: userID,
		Name:   name,
		Email:  email,
		Notifications: model.NotificationSettings{
			DailyReminders: true,
			WeeklyProgress: true,
			Achievements:   true,
		},
	}
}

// Get 未保存过资料时按令牌信息返回默认值
func (s *ProfileService) Get(ctx context.Context, userID, email, name string) (*model.Profile, error) {
	data, err := s.KV.Get(ctx, profileKey(userID))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return defaultProfile(userID, email, name), nil
		}
		return nil, util.StorageError(err)
	}
	var p model.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, util.StorageError(err)
	}
	return &p, nil
}

func (s *ProfileService) Update(ctx context.Context, userID, email string, in ProfileInput) (*model.Profile, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, util.ValidationError("name", "is required")
	}
	if len([]rune(name)) > maxNameLength {
		return nil, util.ValidationError("name", "must be at most %d characters", maxNameLength)
	}

	p, err := s.Get(ctx, userID, email, name)
	if err != nil {
		return nil, err
	}
	p.Name = name
	if email != "" {
		p.Email = email
	}
	if in.Notifications != nil {
		p.Notifications = *in.Notifications
	}
	p.UpdatedAt = s.Now().UTC()

	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	if err := s.KV.Set(ctx, profileKey(userID), data); err != nil {
		return nil, util.StorageError(err)
	}

	logger.Log.Info("Profile updated", zap.String("user_id", userID))
	return p, nil
}
