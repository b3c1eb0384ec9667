package service

import (
	"sync/atomic"

	"skillstreak_backend/internal/config"
	"skillstreak_backend/internal/model"
)

const (
	defaultPoints      = 10
	defaultSkipLimit   = 2
	defaultLevelPoints = 100
)

// Rules 挑战规则：难度积分、每日跳过次数、每级所需积分
type Rules struct {
	Points         map[model.Difficulty]int
	DailySkipLimit int
	LevelPoints    int
}

func DefaultRules() Rules {
	return Rules{
		Points: map[model.Difficulty]int{
			model.Easy:   10,
			model.Medium: 15,
			model.Hard:   25,
		},
		DailySkipLimit: defaultSkipLimit,
		LevelPoints:    defaultLevelPoints,
	}
}

func RulesFromConfig(cfg config.ChallengeConfig) Rules {
	return Rules{
		Points: map[model.Difficulty]int{
			model.Easy:   cfg.Points.Easy,
			model.Medium: cfg.Points.Medium,
			model.Hard:   cfg.Points.Hard,
		},
		DailySkipLimit: cfg.DailySkipLimit,
		LevelPoints:    cfg.LevelPoints,
	}
}

func (r Rules) PointsFor(d model.Difficulty) int {
	if p, ok := r.Points[d]; ok && p > 0 {
		return p
	}
	return defaultPoints
}

// SkipsRemaining 规则热更新后上限可能低于已用次数，最小为 0
func (r Rules) SkipsRemaining(used int) int {
	if left := r.DailySkipLimit - used; left > 0 {
		return left
	}
	return 0
}

// RuleSet 可并发读取、整体替换的规则
type RuleSet struct {
	v atomic.Pointer[Rules]
}

func NewRuleSet(r Rules) *RuleSet {
	rs := &RuleSet{}
	rs.Store(r)
	return rs
}

func (rs *RuleSet) Load() Rules {
	return *rs.v.Load()
}

func (rs *RuleSet) Store(r Rules) {
	rs.v.Store(&r)
}
