package internal

import (
	"sort"

	"liap/internal/domain"
)

// Plan splits a dealt hand by role for the round ahead. Openers are the
// combos and strong singles meant to win the declared piles, burden is
// disposal material for tricks the plan concedes, and reserve is the weakest
// tail kept back for deliberately losing leads once the target is met.
type Plan struct {
	Openers []domain.Combo
	Burden  []domain.Tile
	Reserve []domain.Tile
}

// BuildPlan commits a hand to a declared pile target. Openers are selected
// strongest first until their pile yield covers the target; everything else
// becomes burden, except the weakest few tiles held as reserve.
func BuildPlan(hand []domain.Tile, declared int, tn Tuning) Plan {
	part := BestPartition(hand)

	candidates := append([]domain.Combo{}, part.Combos...)
	var looseSingles []domain.Tile
	for _, t := range part.Leftovers {
		if t.Points() > tn.StrongOpenerPoints {
			candidates = append(candidates, domain.IdentifyCombo([]domain.Tile{t}))
		} else {
			looseSingles = append(looseSingles, t)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Type.Rank() != candidates[j].Type.Rank() {
			return candidates[i].Type.Rank() > candidates[j].Type.Rank()
		}
		return candidates[i].Value > candidates[j].Value
	})

	var plan Plan
	piles := 0
	for _, c := range candidates {
		if piles >= declared {
			looseSingles = append(looseSingles, c.Tiles...)
			continue
		}
		plan.Openers = append(plan.Openers, c)
		piles += c.Count
	}

	domain.SortHand(looseSingles)
	reserve := tn.ReserveSize
	if reserve > len(looseSingles) {
		reserve = len(looseSingles)
	}
	plan.Reserve = looseSingles[:reserve]
	plan.Burden = looseSingles[reserve:]
	return plan
}

// PlannedPiles returns how many piles the openers yield if every one of them
// wins its trick.
func (p Plan) PlannedPiles() int {
	n := 0
	for _, c := range p.Openers {
		n += c.Count
	}
	return n
}

// OpenerFor returns the strongest planned opener still fully held, or false
// when the plan has none left.
func (p Plan) OpenerFor(hand []domain.Tile) (domain.Combo, bool) {
	for _, c := range p.Openers {
		if domain.ContainsTiles(hand, c.Tiles) {
			return c, true
		}
	}
	return domain.Combo{}, false
}

// Disposal picks n tiles to give up, weakest first: reserve, then burden,
// then the lowest of whatever is left, openers included.
func (p Plan) Disposal(hand []domain.Tile, n int) []domain.Tile {
	if n > len(hand) {
		n = len(hand)
	}
	remaining := tileCounts(hand)
	picked := make([]domain.Tile, 0, n)

	take := func(tiles []domain.Tile) {
		for _, t := range tiles {
			if len(picked) == n {
				return
			}
			if remaining[t] > 0 {
				remaining[t]--
				picked = append(picked, t)
			}
		}
	}
	take(p.Reserve)
	take(p.Burden)
	if len(picked) < n {
		rest := make([]domain.Tile, 0, len(hand))
		for t, c := range remaining {
			for k := 0; k < c; k++ {
				rest = append(rest, t)
			}
		}
		domain.SortHand(rest)
		take(rest)
	}
	return picked
}
