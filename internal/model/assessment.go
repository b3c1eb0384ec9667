package model

import "gorm.io/datatypes"

type SkillLevel string

const (
	LevelStrong           SkillLevel = "Strong"
	LevelAverage          SkillLevel = "Average"
	LevelNeedsImprovement SkillLevel = "Needs Improvement"
)

// swagger:model SkillResult
type SkillResult struct {
	Skill string     `json:"skill"`
	Score int        `json:"score"` // 0-100
	Level SkillLevel `json:"level"`
}

// SkillAssessment 用户的技能自评，保留历史，按创建时间取最新一次
// swagger:model SkillAssessment
type SkillAssessment struct {
	UUIDBase
	UserID  string                           `gorm:"size:64;not null;index" json:"userId"`
	Results datatypes.JSONSlice[SkillResult] `json:"results"`
	Answers datatypes.JSONType[map[int]int]  `json:"answers"`
}

func (SkillAssessment) TableName() string {
	return "user_assessments"
}
