package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"skillstreak_backend/internal/model"
	"skillstreak_backend/internal/util"
	"skillstreak_backend/pkg/kv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type challengeFixture struct {
	svc         *ChallengeService
	challenges  *fakeChallenges
	assessments *fakeAssessments
	kv          *kv.MemoryStore
	clock       *fixedClock
}

func newChallengeFixture(t *testing.T, catalog *Catalog) *challengeFixture {
	t.Helper()
	f := &challengeFixture{
		challenges:  newFakeChallenges(),
		assessments: &fakeAssessments{},
		kv:          kv.NewMemoryStore(),
		clock:       &fixedClock{t: time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)},
	}
	rules := NewRuleSet(DefaultRules())
	progress := NewProgressService(f.challenges, f.kv, rules)
	progress.Now = f.clock.Now

	f.svc = NewChallengeService(f.challenges, f.assessments, catalog, rules, progress)
	f.svc.Rand = NewSeededRandomizer(2024)
	f.svc.Now = f.clock.Now
	return f
}

func (f *challengeFixture) today() string {
	return f.clock.Now().Format(util.DateFormat)
}

func weakIn(skill string) *model.SkillAssessment {
	return &model.SkillAssessment{
		UserID: "u1",
		Results: datatypes.NewJSONSlice([]model.SkillResult{
			{Skill: skill, Score: 40, Level: model.LevelNeedsImprovement},
			{Skill: "Self-Awareness", Score: 90, Level: model.LevelStrong},
		}),
	}
}

func TestTodayCreatesRecordOnce(t *testing.T) {
	f := newChallengeFixture(t, DefaultCatalog())
	ctx := context.Background()

	first, err := f.svc.Today(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, first.Completed)
	assert.Equal(t, 0, first.SkipsUsed)
	assert.Equal(t, 2, first.SkipsRemaining)
	assert.NotEmpty(t, first.Challenge.ID)

	for i := 0; i < 5; i++ {
		again, err := f.svc.Today(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, first.Challenge, again.Challenge)
	}

	rec, ok := f.challenges.get("u1", f.today())
	require.True(t, ok)
	assert.Equal(t, first.Challenge.ID, rec.Challenge.Data().ID)
}

func TestTodayBiasesTowardWeakestSkill(t *testing.T) {
	f := newChallengeFixture(t, DefaultCatalog())
	f.assessments.latest = weakIn("Leadership")

	view, err := f.svc.Today(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Leadership", view.Challenge.Category)
	assert.Equal(t, DefaultRules().PointsFor(view.Challenge.Difficulty), view.Challenge.Points)
}

func TestTodaySelectsWithoutBiasWhenAssessmentStoreFails(t *testing.T) {
	f := newChallengeFixture(t, DefaultCatalog())
	f.assessments.err = errStoreDown

	view, err := f.svc.Today(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, view.Challenge.ID)
}

func TestTodayWithEmptyCatalog(t *testing.T) {
	f := newChallengeFixture(t, mustCatalog(t))

	_, err := f.svc.Today(context.Background(), "u1")
	assert.ErrorIs(t, err, util.ErrNoChallenge)
}

func TestTodayStorageFailure(t *testing.T) {
	f := newChallengeFixture(t, DefaultCatalog())
	f.challenges.err = errStoreDown

	_, err := f.svc.Today(context.Background(), "u1")
	assert.ErrorIs(t, err, util.ErrUpstreamStorage)
}

func TestSkipCapAndDailyReset(t *testing.T) {
	f := newChallengeFixture(t, DefaultCatalog())
	ctx := context.Background()

	_, err := f.svc.Today(ctx, "u1")
	require.NoError(t, err)

	res, err := f.svc.Skip(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, res.SkipsUsed)
	assert.Equal(t, 1, res.SkipsRemaining)

	res, err = f.svc.Skip(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, res.SkipsUsed)
	assert.Equal(t, 0, res.SkipsRemaining)

	before, _ := f.challenges.get("u1", f.today())
	_, err = f.svc.Skip(ctx, "u1")
	assert.ErrorIs(t, err, util.ErrBudgetExhausted)
	after, _ := f.challenges.get("u1", f.today())
	assert.Equal(t, before.Challenge.Data(), after.Challenge.Data())
	assert.Equal(t, 2, after.SkipsUsed)

	// 新的一天重新计数
	f.clock.advance(24 * time.Hour)
	view, err := f.svc.Today(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, view.SkipsUsed)
	assert.Equal(t, 2, view.SkipsRemaining)

	res, err = f.svc.Skip(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, res.SkipsUsed)
}

func TestSkipNeverRepeatsWithEnoughCandidates(t *testing.T) {
	f := newChallengeFixture(t, DefaultCatalog())
	f.assessments.latest = weakIn("Communication")
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		f.clock.advance(24 * time.Hour)
		view, err := f.svc.Today(ctx, "u1")
		require.NoError(t, err)

		res, err := f.svc.Skip(ctx, "u1")
		require.NoError(t, err)
		assert.NotEqual(t, view.Challenge.ID, res.Challenge.ID)
		assert.Equal(t, "Communication", res.Challenge.Category)

		stored, _ := f.challenges.get("u1", f.today())
		assert.Equal(t, res.Challenge.ID, stored.Challenge.Data().ID)
	}
}

func TestSkipRepeatsSingleMatchingChallenge(t *testing.T) {
	catalog := mustCatalog(t,
		CatalogEntry{ID: "only-comm", Title: "Only", Skill: "Communication", Difficulty: model.Easy},
		CatalogEntry{ID: "lead-1", Title: "Lead", Skill: "Leadership", Difficulty: model.Medium},
		CatalogEntry{ID: "lead-2", Title: "Lead more", Skill: "Leadership", Difficulty: model.Hard},
	)
	f := newChallengeFixture(t, catalog)
	f.assessments.latest = weakIn("Communication")
	ctx := context.Background()

	view, err := f.svc.Today(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "only-comm", view.Challenge.ID)

	res, err := f.svc.Skip(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "only-comm", res.Challenge.ID)
	assert.Equal(t, 1, res.SkipsUsed)
}

func TestSkipWithoutRecord(t *testing.T) {
	f := newChallengeFixture(t, DefaultCatalog())

	_, err := f.svc.Skip(context.Background(), "u1")
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestSkipAfterCompletion(t *testing.T) {
	f := newChallengeFixture(t, DefaultCatalog())
	ctx := context.Background()

	_, err := f.svc.Today(ctx, "u1")
	require.NoError(t, err)
	_, err = f.svc.Complete(ctx, "u1", "")
	require.NoError(t, err)

	_, err = f.svc.Skip(ctx, "u1")
	assert.ErrorIs(t, err, util.ErrChallengeCompleted)
}

func TestSkipDetectsConcurrentModification(t *testing.T) {
	f := newChallengeFixture(t, DefaultCatalog())
	ctx := context.Background()

	_, err := f.svc.Today(ctx, "u1")
	require.NoError(t, err)

	f.challenges.beforeSkip = func() {
		f.challenges.beforeSkip = nil
		rec, _ := f.challenges.get("u1", f.today())
		rec.SkipsUsed = 1
		f.challenges.put(rec)
	}
	_, err = f.svc.Skip(ctx, "u1")
	assert.ErrorIs(t, err, util.ErrConflict)

	f.challenges.beforeSkip = func() {
		f.challenges.beforeSkip = nil
		rec, _ := f.challenges.get("u1", f.today())
		rec.Completed = true
		f.challenges.put(rec)
	}
	_, err = f.svc.Skip(ctx, "u1")
	assert.ErrorIs(t, err, util.ErrChallengeCompleted)
}

func TestCompleteThreeDayScenario(t *testing.T) {
	catalog := mustCatalog(t, CatalogEntry{ID: "easy-one", Title: "Easy", Skill: "Communication", Difficulty: model.Easy})
	f := newChallengeFixture(t, catalog)
	ctx := context.Background()

	f.clock.advance(-48 * time.Hour)
	for _, points := range []int{10, 15} {
		f.challenges.put(model.DailyChallenge{
			UserID:    "u1",
			Date:      f.today(),
			Completed: true,
			Challenge: datatypes.NewJSONType(model.Challenge{ID: "past", Difficulty: model.Medium, Points: points}),
		})
		f.clock.advance(24 * time.Hour)
	}

	view, err := f.svc.Today(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 10, view.Challenge.Points)

	res, err := f.svc.Complete(ctx, "u1", view.Challenge.ID)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 35, res.TotalPoints)
	assert.Equal(t, 3, res.ChallengesCompleted)
	assert.Equal(t, 3, res.CurrentStreak)
	assert.Equal(t, 3, res.LongestStreak)
	assert.Equal(t, 1, res.Level)
	assert.Equal(t, 65, res.PointsToNextLevel)

	rec, _ := f.challenges.get("u1", f.today())
	assert.True(t, rec.Completed)
	require.NotNil(t, rec.CompletedAt)

	data, err := f.kv.Get(ctx, util.KeyProgress+"u1")
	require.NoError(t, err)
	var snap model.ProgressSummary
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, 35, snap.TotalPoints)
}

func TestCompleteIsIdempotent(t *testing.T) {
	f := newChallengeFixture(t, DefaultCatalog())
	ctx := context.Background()

	view, err := f.svc.Today(ctx, "u1")
	require.NoError(t, err)

	first, err := f.svc.Complete(ctx, "u1", view.Challenge.ID)
	require.NoError(t, err)
	second, err := f.svc.Complete(ctx, "u1", view.Challenge.ID)
	require.NoError(t, err)

	assert.Equal(t, "Challenge completed", first.Message)
	assert.Equal(t, "Challenge already completed", second.Message)
	assert.Equal(t, first.TotalPoints, second.TotalPoints)
	assert.Equal(t, 1, second.ChallengesCompleted)
}

func TestCompleteIgnoresClientPoints(t *testing.T) {
	catalog := mustCatalog(t, CatalogEntry{ID: "hard-one", Title: "Hard", Skill: "Leadership", Difficulty: model.Hard})
	f := newChallengeFixture(t, catalog)
	ctx := context.Background()

	_, err := f.svc.Today(ctx, "u1")
	require.NoError(t, err)
	res, err := f.svc.Complete(ctx, "u1", "hard-one")
	require.NoError(t, err)
	assert.Equal(t, 25, res.TotalPoints)
}

func TestCompleteRejectsMismatchedChallenge(t *testing.T) {
	f := newChallengeFixture(t, DefaultCatalog())
	ctx := context.Background()

	_, err := f.svc.Today(ctx, "u1")
	require.NoError(t, err)

	_, err = f.svc.Complete(ctx, "u1", "not-today")
	assert.ErrorIs(t, err, util.ErrValidation)
	assert.Contains(t, err.Error(), "challengeId")

	rec, _ := f.challenges.get("u1", f.today())
	assert.False(t, rec.Completed)
}

func TestCompleteWithoutRecord(t *testing.T) {
	f := newChallengeFixture(t, DefaultCatalog())

	_, err := f.svc.Complete(context.Background(), "u1", "")
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestCompleteSucceedsWhenProgressRefreshFails(t *testing.T) {
	f := newChallengeFixture(t, DefaultCatalog())
	ctx := context.Background()

	_, err := f.svc.Today(ctx, "u1")
	require.NoError(t, err)

	f.challenges.listErr = errStoreDown
	res, err := f.svc.Complete(ctx, "u1", "")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 0, res.TotalPoints)

	rec, _ := f.challenges.get("u1", f.today())
	assert.True(t, rec.Completed)
}

func TestCompleteKeepsComputedStatsWhenSnapshotWriteFails(t *testing.T) {
	f := newChallengeFixture(t, DefaultCatalog())
	f.svc.Progress.KV = &failingKV{Store: f.kv, setErr: errStoreDown}
	ctx := context.Background()

	view, err := f.svc.Today(ctx, "u1")
	require.NoError(t, err)

	res, err := f.svc.Complete(ctx, "u1", "")
	require.NoError(t, err)
	assert.Equal(t, view.Challenge.Points, res.TotalPoints)
	assert.Equal(t, 1, res.CurrentStreak)
}
