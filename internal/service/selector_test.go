package service

import (
	"testing"

	"skillstreak_backend/internal/model"
	"skillstreak_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCatalog(t *testing.T, entries ...CatalogEntry) *Catalog {
	t.Helper()
	c, err := NewCatalog(entries)
	require.NoError(t, err)
	return c
}

func TestPickRestrictsToWeakSkill(t *testing.T) {
	catalog := DefaultCatalog()
	weak := WeakestSkills(&model.SkillAssessment{Results: []model.SkillResult{
		{Skill: "Communication", Score: 40},
		{Skill: "Leadership", Score: 90},
	}})
	rng := NewSeededRandomizer(42)

	for i := 0; i < 100; i++ {
		entry, source, err := Pick(catalog, weak, "", rng)
		require.NoError(t, err)
		assert.Equal(t, "Communication", entry.Skill)
		assert.Equal(t, SourceWeakSkill, source)
	}
}

func TestPickWithTiedWeakSkillsUsesWholeTieSet(t *testing.T) {
	catalog := DefaultCatalog()
	seen := map[string]bool{}
	for v := 0; v < 10; v++ {
		entry, _, err := Pick(catalog, []string{"Leadership", "adaptability"}, "", &sequenceRand{values: []int{v}})
		require.NoError(t, err)
		seen[entry.Skill] = true
	}
	assert.Equal(t, map[string]bool{"Leadership": true, "Adaptability": true}, seen)
}

func TestPickFallsBackToWholeCatalog(t *testing.T) {
	catalog := DefaultCatalog()

	seen := map[string]bool{}
	for v := 0; v < catalog.Len(); v++ {
		entry, source, err := Pick(catalog, []string{"Non-Verbal Communication"}, "", &sequenceRand{values: []int{v}})
		require.NoError(t, err)
		assert.Equal(t, SourceFallback, source)
		seen[entry.ID] = true
	}
	assert.Len(t, seen, catalog.Len())
}

func TestPickWithoutAssessmentIsUnbiased(t *testing.T) {
	_, source, err := Pick(DefaultCatalog(), nil, "", NewSeededRandomizer(1))
	require.NoError(t, err)
	assert.Equal(t, SourceUnbiased, source)
}

func TestPickExcludesCurrentChallenge(t *testing.T) {
	catalog := DefaultCatalog()
	for v := 0; v < 10; v++ {
		entry, _, err := Pick(catalog, []string{"Communication"}, "genuine-question", &sequenceRand{values: []int{v}})
		require.NoError(t, err)
		assert.NotEqual(t, "genuine-question", entry.ID)
		assert.Equal(t, "Communication", entry.Skill)
	}
}

func TestPickRepeatsWhenOnlyOneCandidate(t *testing.T) {
	catalog := mustCatalog(t,
		CatalogEntry{ID: "only-comm", Title: "Only", Skill: "Communication", Difficulty: model.Easy},
		CatalogEntry{ID: "lead-1", Title: "Lead", Skill: "Leadership", Difficulty: model.Medium},
	)

	entry, source, err := Pick(catalog, []string{"Communication"}, "only-comm", NewSeededRandomizer(7))
	require.NoError(t, err)
	assert.Equal(t, "only-comm", entry.ID)
	assert.Equal(t, SourceWeakSkill, source)
}

func TestPickEmptyCatalog(t *testing.T) {
	_, _, err := Pick(mustCatalog(t), []string{"Communication"}, "", NewSeededRandomizer(1))
	assert.ErrorIs(t, err, util.ErrNoChallenge)

	_, _, err = Pick(nil, nil, "", nil)
	assert.ErrorIs(t, err, util.ErrNoChallenge)
}

func TestSeededRandomizerIsReproducible(t *testing.T) {
	a, b := NewSeededRandomizer(99), NewSeededRandomizer(99)
	for i := 0; i < 20; i++ {
		ea, _, _ := Pick(DefaultCatalog(), nil, "", a)
		eb, _, _ := Pick(DefaultCatalog(), nil, "", b)
		assert.Equal(t, ea.ID, eb.ID)
	}
}
