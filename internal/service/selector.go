package service

import (
	"math/rand/v2"

	"skillstreak_backend/internal/util"
)

// Randomizer 可注入的随机源，测试中使用固定种子
type Randomizer interface {
	IntN(n int) int
}

type globalRandomizer struct{}

func (globalRandomizer) IntN(n int) int { return rand.IntN(n) }

func DefaultRandomizer() Randomizer {
	return globalRandomizer{}
}

// NewSeededRandomizer 非并发安全，仅用于测试和单次请求内
func NewSeededRandomizer(seed uint64) Randomizer {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type SelectionSource string

const (
	SourceWeakSkill SelectionSource = "weak_skill"
	SourceFallback  SelectionSource = "fallback"
	SourceUnbiased  SelectionSource = "unbiased"
)

// Pick 从目录中选出一个挑战。
// 有弱项时只在弱项技能中选，弱项无匹配则退回全目录；
// excludeID 仅在候选多于一个时生效，移除后为空则允许重复。
func Pick(catalog *Catalog, weakSkills []string, excludeID string, rng Randomizer) (CatalogEntry, SelectionSource, error) {
	if catalog == nil || catalog.Len() == 0 {
		return CatalogEntry{}, "", util.ErrNoChallenge
	}

	source := SourceUnbiased
	var pool []CatalogEntry
	if len(weakSkills) > 0 {
		pool = catalog.BySkills(weakSkills)
		source = SourceWeakSkill
		if len(pool) == 0 {
			source = SourceFallback
		}
	}
	if len(pool) == 0 {
		pool = catalog.Entries()
	}

	if excludeID != "" && len(pool) > 1 {
		filtered := make([]CatalogEntry, 0, len(pool))
		for _, e := range pool {
			if e.ID != excludeID {
				filtered = append(filtered, e)
			}
		}
		if len(filtered) > 0 {
			pool = filtered
		}
	}

	if rng == nil {
		rng = DefaultRandomizer()
	}
	return pool[rng.IntN(len(pool))], source, nil
}
