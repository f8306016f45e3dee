package strategy

import (
	"math/rand"
	"sort"
	"time"

	"postforge/internal/models"
)

// Selector picks a bounded, varied subset of applicable strategies.
//
// Selection is weighted sampling without replacement. A candidate's
// base weight falls with its catalog position, and the effective weight
// shrinks in proportion to how many strategies of the same category
// were already chosen in this pass, scaled by DiversityWeight:
// 0 keeps the pure order-based pick, 1 spreads across every category
// before any category repeats.
type Selector struct {
	DiversityWeight float64
	rng             *rand.Rand
}

// NewSelector builds a selector. Pass a nil rng to use a time-seeded one.
func NewSelector(diversityWeight float64, rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{DiversityWeight: diversityWeight, rng: rng}
}

// Select returns at most targetCount applicable strategies, no
// duplicates, ordered by pick. If fewer strategies apply than asked
// for, all applicable ones are returned. preferThreadFriendly moves
// thread-friendly strategies earlier before weighting, without
// excluding the rest.
func (sel *Selector) Select(catalog *Catalog, profile *models.ContentProfile, targetCount int, preferThreadFriendly bool) []Strategy {
	if targetCount <= 0 {
		return nil
	}

	var candidates []Strategy
	for _, s := range catalog.All() {
		if s.AppliesTo(profile) {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	if preferThreadFriendly {
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].ThreadFriendly && !candidates[j].ThreadFriendly
		})
	}

	if len(candidates) <= targetCount {
		return candidates
	}

	// Base weight by position: earlier candidates are preferred.
	base := make([]float64, len(candidates))
	for i := range candidates {
		base[i] = float64(len(candidates) - i)
	}

	picked := make([]Strategy, 0, targetCount)
	used := make([]bool, len(candidates))
	categoryCount := make(map[string]int)

	for len(picked) < targetCount {
		total := 0.0
		weights := make([]float64, len(candidates))
		for i, s := range candidates {
			if used[i] {
				continue
			}
			penalty := sel.DiversityWeight * float64(categoryCount[s.Category])
			if penalty > 1 {
				penalty = 1
			}
			weights[i] = base[i] * (1 - penalty)
			total += weights[i]
		}

		idx := -1
		if total > 0 {
			r := sel.rng.Float64() * total
			for i := range candidates {
				if used[i] || weights[i] == 0 {
					continue
				}
				idx = i
				r -= weights[i]
				if r <= 0 {
					break
				}
			}
			// Float rounding can leave r positive after the last
			// weighted candidate; idx already holds it.
		} else {
			// Every remaining weight collapsed to zero: fall back to
			// the first unused candidate, keeping the tie-break stable.
			for i := range candidates {
				if !used[i] {
					idx = i
					break
				}
			}
		}

		used[idx] = true
		categoryCount[candidates[idx].Category]++
		picked = append(picked, candidates[idx])
	}
	return picked
}
