package service

import (
	"testing"

	"skillstreak_backend/internal/model"
	"skillstreak_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allAnswers(v int) map[int]int {
	answers := make(map[int]int, 12)
	for id := 1; id <= 12; id++ {
		answers[id] = v
	}
	return answers
}

func TestScoreAssessment(t *testing.T) {
	answers := map[int]int{
		1: 2, 2: 2, // Communication
		3: 4, // Collaboration
		4: 3, 5: 4, // Emotional Intelligence
		6: 5, // Leadership
		7: 3, // Self-Awareness
		8: 1, // Adaptability
		9: 4, 10: 4, 11: 4, 12: 3, // Non-Verbal Communication
	}

	results, err := ScoreAssessment(answers)
	require.NoError(t, err)

	expected := []model.SkillResult{
		{Skill: "Communication", Score: 40, Level: model.LevelNeedsImprovement},
		{Skill: "Collaboration", Score: 80, Level: model.LevelStrong},
		{Skill: "Emotional Intelligence", Score: 70, Level: model.LevelAverage},
		{Skill: "Leadership", Score: 100, Level: model.LevelStrong},
		{Skill: "Self-Awareness", Score: 60, Level: model.LevelAverage},
		{Skill: "Adaptability", Score: 20, Level: model.LevelNeedsImprovement},
		{Skill: "Non-Verbal Communication", Score: 75, Level: model.LevelAverage},
	}
	assert.Equal(t, expected, results)
}

func TestScoreAssessmentIsMonotonic(t *testing.T) {
	prev := -1
	for v := 1; v <= 5; v++ {
		results, err := ScoreAssessment(allAnswers(v))
		require.NoError(t, err)
		assert.Greater(t, results[0].Score, prev)
		assert.Equal(t, v*20, results[0].Score)
		prev = results[0].Score
	}
}

func TestScoreAssessmentRejectsIncomplete(t *testing.T) {
	answers := allAnswers(3)
	delete(answers, 7)

	_, err := ScoreAssessment(answers)
	require.Error(t, err)
	assert.ErrorIs(t, err, util.ErrIncompleteAssessment)
	assert.Contains(t, err.Error(), "question 7")
}

func TestScoreAssessmentRejectsOutOfRange(t *testing.T) {
	for _, v := range []int{0, 6, -1} {
		answers := allAnswers(3)
		answers[4] = v

		_, err := ScoreAssessment(answers)
		require.Error(t, err)
		assert.ErrorIs(t, err, util.ErrValidation)
		assert.Contains(t, err.Error(), "answers")
	}
}

func TestScoreAssessmentRejectsUnknownQuestion(t *testing.T) {
	answers := allAnswers(3)
	answers[13] = 4

	_, err := ScoreAssessment(answers)
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestWeakestSkills(t *testing.T) {
	assert.Nil(t, WeakestSkills(nil))
	assert.Nil(t, WeakestSkills(&model.SkillAssessment{}))

	a := &model.SkillAssessment{Results: []model.SkillResult{
		{Skill: "Communication", Score: 40},
		{Skill: "Leadership", Score: 90},
	}}
	assert.Equal(t, []string{"Communication"}, WeakestSkills(a))

	tied := &model.SkillAssessment{Results: []model.SkillResult{
		{Skill: "Communication", Score: 40},
		{Skill: "Leadership", Score: 90},
		{Skill: "Adaptability", Score: 40},
	}}
	assert.Equal(t, []string{"Communication", "Adaptability"}, WeakestSkills(tied))
}
