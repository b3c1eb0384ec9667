package service

import (
	"math/rand/v2"
	"testing"
	"time"

	"skillstreak_backend/internal/model"
	"skillstreak_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// 2024-03-13 是周三
var summaryNow = time.Date(2024, 3, 13, 15, 30, 0, 0, time.UTC)

func completedOn(daysAgo, points int) model.DailyChallenge {
	date := summaryNow.AddDate(0, 0, -daysAgo).Format(util.DateFormat)
	return model.DailyChallenge{
		UserID:    "u1",
		Date:      date,
		Completed: true,
		Challenge: datatypes.NewJSONType(model.Challenge{ID: "c-" + date, Difficulty: model.Easy, Points: points}),
	}
}

func TestSummarizeConsecutiveStreak(t *testing.T) {
	s := Summarize([]model.DailyChallenge{completedOn(2, 10), completedOn(1, 10), completedOn(0, 10)}, summaryNow, 100)
	assert.Equal(t, 3, s.CurrentStreak)
	assert.Equal(t, 3, s.LongestStreak)
}

func TestSummarizeStreakWithGap(t *testing.T) {
	s := Summarize([]model.DailyChallenge{completedOn(2, 10), completedOn(0, 10)}, summaryNow, 100)
	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 1, s.LongestStreak)
}

func TestSummarizeStreakIsZeroWithoutToday(t *testing.T) {
	s := Summarize([]model.DailyChallenge{completedOn(2, 10), completedOn(1, 10)}, summaryNow, 100)
	assert.Equal(t, 0, s.CurrentStreak)
	assert.Equal(t, 2, s.LongestStreak)
	assert.Equal(t, "2024-03-12", s.LastCompletedDate)
}

func TestSummarizeLongestStreakInHistory(t *testing.T) {
	records := []model.DailyChallenge{
		completedOn(20, 10), completedOn(19, 10), completedOn(18, 10), completedOn(17, 10),
		completedOn(5, 10),
		completedOn(1, 10), completedOn(0, 10),
	}
	s := Summarize(records, summaryNow, 100)
	assert.Equal(t, 2, s.CurrentStreak)
	assert.Equal(t, 4, s.LongestStreak)
}

func TestSummarizePointsScenario(t *testing.T) {
	s := Summarize([]model.DailyChallenge{completedOn(2, 10), completedOn(1, 15), completedOn(0, 10)}, summaryNow, 100)
	assert.Equal(t, 35, s.TotalPoints)
	assert.Equal(t, 3, s.ChallengesCompleted)
	assert.Equal(t, 3, s.CurrentStreak)
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, 65, s.PointsToNextLevel)
}

func TestSummarizeLevelArithmetic(t *testing.T) {
	var records []model.DailyChallenge
	for i := 0; i < 10; i++ {
		records = append(records, completedOn(i*2, 25))
	}
	s := Summarize(records, summaryNow, 100)
	assert.Equal(t, 250, s.TotalPoints)
	assert.Equal(t, 3, s.Level)
	assert.Equal(t, 50, s.PointsToNextLevel)

	exact := Summarize([]model.DailyChallenge{completedOn(0, 100)}, summaryNow, 100)
	assert.Equal(t, 2, exact.Level)
	assert.Equal(t, 100, exact.PointsToNextLevel)
}

func TestSummarizeMissingPointsDefaultToTen(t *testing.T) {
	s := Summarize([]model.DailyChallenge{completedOn(0, 0), completedOn(1, 25)}, summaryNow, 100)
	assert.Equal(t, 35, s.TotalPoints)
}

func TestSummarizeIgnoresIncompleteRecords(t *testing.T) {
	pending := completedOn(0, 10)
	pending.Completed = false
	s := Summarize([]model.DailyChallenge{pending, completedOn(1, 10)}, summaryNow, 100)
	assert.Equal(t, 1, s.ChallengesCompleted)
	assert.Equal(t, 0, s.CurrentStreak)
}

func TestSummarizeWeeklyProgress(t *testing.T) {
	records := []model.DailyChallenge{
		completedOn(0, 10), // 周三
		completedOn(1, 10), // 周二
		completedOn(6, 10), // 周四
		completedOn(7, 10), // 上周三，不在窗口内
	}
	s := Summarize(records, summaryNow, 100)
	assert.Equal(t, [7]int{0, 1, 1, 1, 0, 0, 0}, s.WeeklyProgress)
}

func TestSummarizeMonthlyStats(t *testing.T) {
	records := []model.DailyChallenge{
		completedOn(0, 10),  // 2024-03-13
		completedOn(12, 10), // 2024-03-01
		completedOn(14, 15), // 2024-02-28
	}
	s := Summarize(records, summaryNow, 100)
	require.Len(t, s.MonthlyStats, 2)
	assert.Equal(t, model.MonthlyStat{Month: "2024-02", Label: "February 2024", ChallengesCompleted: 1, PointsEarned: 15}, s.MonthlyStats[0])
	assert.Equal(t, model.MonthlyStat{Month: "2024-03", Label: "March 2024", ChallengesCompleted: 2, PointsEarned: 20}, s.MonthlyStats[1])
}

func TestSummarizeEmptyLog(t *testing.T) {
	s := Summarize(nil, summaryNow, 100)
	assert.Equal(t, 0, s.CurrentStreak)
	assert.Equal(t, 0, s.TotalPoints)
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, 100, s.PointsToNextLevel)
	assert.NotNil(t, s.MonthlyStats)
	assert.Empty(t, s.LastCompletedDate)
}

func TestSummarizeDeduplicatesDates(t *testing.T) {
	s := Summarize([]model.DailyChallenge{completedOn(0, 10), completedOn(0, 10)}, summaryNow, 100)
	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 2, s.ChallengesCompleted)
}

func TestSummarizeIsIdempotent(t *testing.T) {
	records := []model.DailyChallenge{completedOn(3, 10), completedOn(1, 15), completedOn(0, 25)}
	assert.Equal(t, Summarize(records, summaryNow, 100), Summarize(records, summaryNow, 100))
}

func TestSummarizeLongestNeverBelowCurrent(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for i := 0; i < 200; i++ {
		var records []model.DailyChallenge
		for d := 0; d < 30; d++ {
			if rng.IntN(3) > 0 {
				records = append(records, completedOn(d, 10))
			}
		}
		s := Summarize(records, summaryNow, 100)
		assert.GreaterOrEqual(t, s.LongestStreak, s.CurrentStreak)
	}
}
