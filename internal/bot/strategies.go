package bot

import "liap/internal/domain"

// legalDeclaration returns the legal value nearest to want. Constraint
// clashes resolve in the direction of the hand assessment: strong hands step
// up first, weak hands step down. Some value in range is always legal: the
// constraints can forbid at most two of the nine.
func legalDeclaration(want int, preferHigher bool, ctx DeclareContext) int {
	legal := func(v int) bool {
		return domain.ValidateDeclaration(v, ctx.Prior, ctx.IsLast, ctx.MustDeclareNonzero, ctx.Rules) == nil
	}
	if legal(want) {
		return want
	}
	for delta := 1; delta <= domain.MaxDeclaration; delta++ {
		first, second := want-delta, want+delta
		if preferHigher {
			first, second = second, first
		}
		if legal(first) {
			return first
		}
		if legal(second) {
			return second
		}
	}
	return domain.MinDeclaration
}

func highestSingle(hand []domain.Tile) domain.Tile {
	best := hand[0]
	for _, t := range hand[1:] {
		if t.Points() > best.Points() {
			best = t
		}
	}
	return best
}

func lowestSingle(hand []domain.Tile) domain.Tile {
	best := hand[0]
	for _, t := range hand[1:] {
		if t.Points() < best.Points() {
			best = t
		}
	}
	return best
}
