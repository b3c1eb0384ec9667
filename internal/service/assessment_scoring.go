package service

import (
	"fmt"
	"math"
	"sort"

	"skillstreak_backend/internal/model"
	"skillstreak_backend/internal/util"
)

const (
	minAnswer = 1
	maxAnswer = 5
)

// Question 自评问卷题目，答案为 1-5 的李克特量表
type Question struct {
	ID    int    `json:"id"`
	Text  string `json:"question"`
	Skill string `json:"skill"`
}

var assessmentQuestions = []Question{
	{ID: 1, Skill: "Communication", Text: "How comfortable are you with public speaking?"},
	{ID: 2, Skill: "Communication", Text: "How well do you handle conflict resolution?"},
	{ID: 3, Skill: "Collaboration", Text: "How effectively do you work in teams?"},
	{ID: 4, Skill: "Emotional Intelligence", Text: "How well do you manage your emotions under pressure?"},
	{ID: 5, Skill: "Emotional Intelligence", Text: "How good are you at understanding others' emotions?"},
	{ID: 6, Skill: "Leadership", Text: "How well do you motivate and inspire others?"},
	{ID: 7, Skill: "Self-Awareness", Text: "How aware are you of your own strengths and weaknesses?"},
	{ID: 8, Skill: "Adaptability", Text: "How well do you adapt to change?"},
	{ID: 9, Skill: "Non-Verbal Communication", Text: "How consistently do you maintain eye contact during conversations?"},
	{ID: 10, Skill: "Non-Verbal Communication", Text: "How aware are you of your facial expressions when interacting with others?"},
	{ID: 11, Skill: "Non-Verbal Communication", Text: "How often do you use gestures or body language to emphasize your points?"},
	{ID: 12, Skill: "Non-Verbal Communication", Text: "How well do you control your tone of voice to match the situation?"},
}

func Questions() []Question {
	out := make([]Question, len(assessmentQuestions))
	copy(out, assessmentQuestions)
	return out
}

// ScoreAssessment 按技能分组求平均：得分 = round(avg*20)，avg>=4 为 Strong，>=3 为 Average
func ScoreAssessment(answers map[int]int) ([]model.SkillResult, error) {
	known := make(map[int]bool, len(assessmentQuestions))
	for _, q := range assessmentQuestions {
		known[q.ID] = true
	}

	ids := make([]int, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if !known[id] {
			return nil, util.ValidationError("answers", "contains unknown question %d", id)
		}
	}

	type acc struct {
		sum, n int
	}
	var order []string
	groups := make(map[string]*acc)

	for _, q := range assessmentQuestions {
		v, ok := answers[q.ID]
		if !ok {
			return nil, fmt.Errorf("%w: answers question %d is unanswered", util.ErrIncompleteAssessment, q.ID)
		}
		if v < minAnswer || v > maxAnswer {
			return nil, util.ValidationError("answers", "question %d must be between %d and %d, got %d", q.ID, minAnswer, maxAnswer, v)
		}
		g, ok := groups[q.Skill]
		if !ok {
			g = &acc{}
			groups[q.Skill] = g
			order = append(order, q.Skill)
		}
		g.sum += v
		g.n++
	}

	results := make([]model.SkillResult, 0, len(order))
	for _, skill := range order {
		g := groups[skill]
		avg := float64(g.sum) / float64(g.n)
		results = append(results, model.SkillResult{
			Skill: skill,
			Score: int(math.Round(avg * 20)),
			Level: levelFor(avg),
		})
	}
	return results, nil
}

func levelFor(avg float64) model.SkillLevel {
	switch {
	case avg >= 4:
		return model.LevelStrong
	case avg >= 3:
		return model.LevelAverage
	default:
		return model.LevelNeedsImprovement
	}
}

// WeakestSkills 返回所有并列最低分的技能，不做平局裁决
func WeakestSkills(a *model.SkillAssessment) []string {
	if a == nil {
		return nil
	}
	return weakestOf(a.Results)
}

func weakestOf(results []model.SkillResult) []string {
	if len(results) == 0 {
		return nil
	}
	lowest := results[0].Score
	for _, r := range results[1:] {
		if r.Score < lowest {
			lowest = r.Score
		}
	}
	var out []string
	for _, r := range results {
		if r.Score == lowest {
			out = append(out, r.Skill)
		}
	}
	return out
}
