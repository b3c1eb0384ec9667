package service

import (
	"sort"
	"time"

	"skillstreak_backend/internal/model"
	"skillstreak_backend/internal/util"
)

const day = 24 * time.Hour

// Summarize 从已完成的每日记录推导进度，纯函数，可随时重算。
// 当前连续天数从今天开始严格倒数，今天未完成即为 0。
func Summarize(records []model.DailyChallenge, now time.Time, levelPoints int) model.ProgressSummary {
	if levelPoints <= 0 {
		levelPoints = defaultLevelPoints
	}
	today := truncateDay(now)

	summary := model.ProgressSummary{
		MonthlyStats: []model.MonthlyStat{},
		ComputedAt:   now.UTC(),
	}

	dates := make(map[time.Time]bool)
	months := make(map[string]*model.MonthlyStat)
	weekStart := today.Add(-6 * day)

	for _, r := range records {
		if !r.Completed {
			continue
		}
		d, err := time.Parse(util.DateFormat, r.Date)
		if err != nil {
			continue
		}
		points := r.Challenge.Data().Points
		if points <= 0 {
			points = defaultPoints
		}

		dates[d] = true
		summary.ChallengesCompleted++
		summary.TotalPoints += points

		if !d.Before(weekStart) && !d.After(today) {
			summary.WeeklyProgress[mondayIndex(d)]++
		}

		key := d.Format("2006-01")
		m, ok := months[key]
		if !ok {
			m = &model.MonthlyStat{Month: key, Label: d.Format("January 2006")}
			months[key] = m
		}
		m.ChallengesCompleted++
		m.PointsEarned += points
	}

	for d := today; dates[d]; d = d.Add(-day) {
		summary.CurrentStreak++
	}

	sorted := make([]time.Time, 0, len(dates))
	for d := range dates {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	run := 0
	for i, d := range sorted {
		if i > 0 && d.Sub(sorted[i-1]) == day {
			run++
		} else {
			run = 1
		}
		if run > summary.LongestStreak {
			summary.LongestStreak = run
		}
	}
	if n := len(sorted); n > 0 {
		summary.LastCompletedDate = sorted[n-1].Format(util.DateFormat)
	}

	keys := make([]string, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		summary.MonthlyStats = append(summary.MonthlyStats, *months[k])
	}

	summary.Level = summary.TotalPoints/levelPoints + 1
	summary.PointsToNextLevel = summary.Level*levelPoints - summary.TotalPoints
	return summary
}

func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// mondayIndex 周一为 0，周日为 6
func mondayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
