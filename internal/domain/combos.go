package domain

import "sort"

// ComboType classifies a played tile set.
type ComboType int

const (
	ComboInvalid ComboType = iota
	ComboSingle
	ComboPair
	ComboTriple
	ComboQuad
	ComboQuint
	ComboRun // three sequential point values in one color
)

var comboNames = [...]string{"invalid", "single", "pair", "triple", "quad", "quint", "run"}

func (t ComboType) String() string {
	if int(t) < len(comboNames) {
		return comboNames[t]
	}
	return "unknown"
}

// comboRank is the fixed trick hierarchy: higher multiples beat lower
// multiples beat runs beat singles; forfeit (invalid) plays rank below
// everything.
var comboRank = map[ComboType]int{
	ComboInvalid: 0,
	ComboSingle:  1,
	ComboRun:     2,
	ComboPair:    3,
	ComboTriple:  4,
	ComboQuad:    5,
	ComboQuint:   6,
}

// Rank returns the combo type's position in the trick hierarchy.
func (t ComboType) Rank() int { return comboRank[t] }

// Combo is a classified tile set.
type Combo struct {
	Type  ComboType
	Tiles []Tile
	Value int // total points across the tiles
	Count int
}

// IdentifyCombo classifies a tile set. It is pure and order-independent:
// identical sets always classify identically regardless of tile order.
func IdentifyCombo(tiles []Tile) Combo {
	n := len(tiles)
	if n == 0 || n > 5 {
		return Combo{Type: ComboInvalid, Tiles: tiles, Count: n}
	}

	sorted := make([]Tile, n)
	copy(sorted, tiles)
	SortHand(sorted)

	combo := Combo{Type: ComboInvalid, Tiles: sorted, Value: totalPoints(sorted), Count: n}

	if n == 1 {
		combo.Type = ComboSingle
		return combo
	}

	if allSameTile(sorted) {
		switch n {
		case 2:
			combo.Type = ComboPair
		case 3:
			combo.Type = ComboTriple
		case 4:
			combo.Type = ComboQuad
		case 5:
			combo.Type = ComboQuint
		}
		return combo
	}

	if isRun(sorted) {
		combo.Type = ComboRun
		return combo
	}

	return combo
}

func totalPoints(tiles []Tile) int {
	sum := 0
	for _, t := range tiles {
		sum += t.Points()
	}
	return sum
}

// allSameTile requires identical kind AND color; mixed colors of the same
// kind are never a valid multiple.
func allSameTile(tiles []Tile) bool {
	first := tiles[0]
	for _, t := range tiles[1:] {
		if t != first {
			return false
		}
	}
	return true
}

// isRun checks for exactly three tiles of sequential point values sharing one
// color.
func isRun(tiles []Tile) bool {
	if len(tiles) != 3 {
		return false
	}
	color := tiles[0].Color
	points := make([]int, len(tiles))
	for i, t := range tiles {
		if t.Color != color {
			return false
		}
		points[i] = t.Points()
	}
	sort.Ints(points)
	return points[1] == points[0]+1 && points[2] == points[1]+1
}
