package internal

import "liap/internal/domain"

// FieldStrength summarizes how aggressively the opposing seats declared.
type FieldStrength int

const (
	FieldWeak FieldStrength = iota
	FieldNormal
	FieldStrong
)

var fieldNames = [...]string{"weak", "normal", "strong"}

func (f FieldStrength) String() string {
	if int(f) < len(fieldNames) {
		return fieldNames[f]
	}
	return "unknown"
}

// ClassifyField infers field strength from the declarations visible so far.
// Seats that have not declared yet count as the unknown prior, so early
// declarers judge a mostly-unknown field as near normal rather than reading
// too much into a single value.
func ClassifyField(prior []int, tn Tuning) FieldStrength {
	others := domain.NumPlayers - 1
	sum := 0.0
	for _, d := range prior {
		sum += float64(d)
	}
	for i := len(prior); i < others; i++ {
		sum += tn.UnknownDeclarationPrior
	}
	avg := sum / float64(others)

	switch {
	case avg <= tn.WeakFieldAverage:
		return FieldWeak
	case avg >= tn.StrongFieldAverage:
		return FieldStrong
	default:
		return FieldNormal
	}
}

// HasDominantTile reports whether the hand holds a tile of the maximum point
// value in play, which guarantees winning any single-tile trick it leads.
func HasDominantTile(hand []domain.Tile) bool {
	for _, t := range hand {
		if t.Kind == domain.Dragon {
			return true
		}
	}
	return false
}

// CountStrongOpeners counts singles strictly above the strong-opener
// threshold.
func CountStrongOpeners(hand []domain.Tile, tn Tuning) int {
	n := 0
	for _, t := range hand {
		if t.Points() > tn.StrongOpenerPoints {
			n++
		}
	}
	return n
}

// CountMarginalOpeners counts singles in the marginal band: above the
// marginal threshold but not strong.
func CountMarginalOpeners(hand []domain.Tile, tn Tuning) int {
	n := 0
	for _, t := range hand {
		if t.Points() > tn.MarginalOpenerPoints && t.Points() <= tn.StrongOpenerPoints {
			n++
		}
	}
	return n
}
