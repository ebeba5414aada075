package internal

import (
	"sort"

	"liap/internal/domain"
)

// Partition is one way of organizing a hand into playable combos plus
// leftover singles. Different extraction orders find different structures, so
// strategies build several and keep the best.
type Partition struct {
	Combos    []domain.Combo
	Leftovers []domain.Tile
}

// ComboTiles returns how many tiles the partition binds into combos.
func (p Partition) ComboTiles() int {
	n := 0
	for _, c := range p.Combos {
		n += c.Count
	}
	return n
}

// PartitionMultiplesFirst extracts multiples greedily, then runs from what
// remains. It favors pairs and triples over runs when tiles overlap.
func PartitionMultiplesFirst(hand []domain.Tile) Partition {
	multiples, rest := multiplesFrom(hand)
	runs, leftovers := runsFrom(rest)
	return Partition{Combos: append(multiples, runs...), Leftovers: leftovers}
}

// PartitionRunsFirst extracts runs greedily, then multiples from what
// remains. It favors runs when tiles overlap.
func PartitionRunsFirst(hand []domain.Tile) Partition {
	runs, rest := runsFrom(hand)
	multiples, leftovers := multiplesFrom(rest)
	return Partition{Combos: append(runs, multiples...), Leftovers: leftovers}
}

// BestPartition compares both extraction orders and keeps the one binding
// more tiles into combos. Ties keep the multiples-first result, since
// multiples outrank runs in the trick hierarchy.
func BestPartition(hand []domain.Tile) Partition {
	m := PartitionMultiplesFirst(hand)
	r := PartitionRunsFirst(hand)
	if r.ComboTiles() > m.ComboTiles() {
		return r
	}
	return m
}

// multiplesFrom pulls every group of two or more identical tiles out of the
// hand as one combo each.
func multiplesFrom(hand []domain.Tile) ([]domain.Combo, []domain.Tile) {
	sorted := append([]domain.Tile{}, hand...)
	domain.SortHand(sorted)

	var combos []domain.Combo
	var leftovers []domain.Tile
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		if j-i >= 2 {
			combos = append(combos, domain.IdentifyCombo(sorted[i:j]))
		} else {
			leftovers = append(leftovers, sorted[i])
		}
		i = j
	}
	return combos, leftovers
}

// runsFrom pulls every run of three sequential point values in one color out
// of the hand, lowest start first.
func runsFrom(hand []domain.Tile) ([]domain.Combo, []domain.Tile) {
	counts := tileCounts(hand)
	byPoint := map[domain.Color]map[int]domain.Tile{}
	for t := range counts {
		if byPoint[t.Color] == nil {
			byPoint[t.Color] = map[int]domain.Tile{}
		}
		byPoint[t.Color][t.Points()] = t
	}

	var combos []domain.Combo
	for _, color := range []domain.Color{domain.Red, domain.Black} {
		points := byPoint[color]
		if points == nil {
			continue
		}
		starts := make([]int, 0, len(points))
		for p := range points {
			starts = append(starts, p)
		}
		sort.Ints(starts)
		for _, p := range starts {
			for {
				a, oka := points[p]
				b, okb := points[p+1]
				c, okc := points[p+2]
				if !oka || !okb || !okc || counts[a] == 0 || counts[b] == 0 || counts[c] == 0 {
					break
				}
				counts[a]--
				counts[b]--
				counts[c]--
				combos = append(combos, domain.IdentifyCombo([]domain.Tile{a, b, c}))
			}
		}
	}

	var leftovers []domain.Tile
	for t, n := range counts {
		for k := 0; k < n; k++ {
			leftovers = append(leftovers, t)
		}
	}
	domain.SortHand(leftovers)
	return combos, leftovers
}

// CombosOfSize enumerates every distinct combo of exactly count tiles the
// hand can form: singles, same-tile multiples and, at three tiles, runs.
func CombosOfSize(hand []domain.Tile, count int) []domain.Combo {
	if count < 1 || count > 5 {
		return nil
	}
	counts := tileCounts(hand)

	var combos []domain.Combo
	if count == 1 {
		for t := range counts {
			combos = append(combos, domain.IdentifyCombo([]domain.Tile{t}))
		}
	} else {
		for t, n := range counts {
			if n >= count {
				set := make([]domain.Tile, count)
				for i := range set {
					set[i] = t
				}
				combos = append(combos, domain.IdentifyCombo(set))
			}
		}
	}
	if count == 3 {
		runs, _ := runsFrom(hand)
		for _, c := range runs {
			if c.Type == domain.ComboRun {
				combos = append(combos, c)
			}
		}
	}

	sort.Slice(combos, func(i, j int) bool {
		if combos[i].Type.Rank() != combos[j].Type.Rank() {
			return combos[i].Type.Rank() < combos[j].Type.Rank()
		}
		return combos[i].Value < combos[j].Value
	})
	return combos
}

// CheapestBeating returns the weakest candidate that beats the incumbent, or
// false when none can. Candidates must be sorted ascending, as CombosOfSize
// returns them.
func CheapestBeating(candidates []domain.Combo, incumbent domain.Combo) (domain.Combo, bool) {
	for _, c := range candidates {
		if domain.Beats(c, incumbent) {
			return c, true
		}
	}
	return domain.Combo{}, false
}

// LowestTiles returns the n lowest-point tiles in the hand.
func LowestTiles(hand []domain.Tile, n int) []domain.Tile {
	if n > len(hand) {
		n = len(hand)
	}
	sorted := append([]domain.Tile{}, hand...)
	domain.SortHand(sorted)
	return sorted[:n]
}

func tileCounts(tiles []domain.Tile) map[domain.Tile]int {
	counts := make(map[domain.Tile]int, len(tiles))
	for _, t := range tiles {
		counts[t]++
	}
	return counts
}
