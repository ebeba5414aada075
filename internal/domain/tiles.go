package domain

import "fmt"

// Color marks which half of the deck a tile belongs to. Multiples (pair
// through quint) are only legal within a single color.
type Color int

const (
	Red Color = iota
	Black
)

func (c Color) String() string {
	if c == Red {
		return "R"
	}
	return "B"
}

// Kind identifies a tile face. Point values and per-color copy counts are
// fixed properties of the kind.
type Kind int

const (
	Fish Kind = iota
	Hare
	Fox
	Serpent
	Crane
	Tiger
	Phoenix
	Dragon
)

var kindNames = [...]string{"Fish", "Hare", "Fox", "Serpent", "Crane", "Tiger", "Phoenix", "Dragon"}

// kindPoints maps each kind to its point value. Fox through Dragon form two
// sequential bands (9-11 and 12-14) which is what makes runs possible.
var kindPoints = [...]int{
	Fish:    3,
	Hare:    5,
	Fox:     9,
	Serpent: 10,
	Crane:   11,
	Tiger:   12,
	Phoenix: 13,
	Dragon:  14,
}

// kindCopies is the number of copies of each kind per color.
var kindCopies = [...]int{
	Fish:    5,
	Hare:    3,
	Fox:     2,
	Serpent: 2,
	Crane:   1,
	Tiger:   1,
	Phoenix: 1,
	Dragon:  1,
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Points returns the point value of the kind.
func (k Kind) Points() int { return kindPoints[k] }

// ParseKind resolves a kind name as produced by Kind.String.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tile kind: %q", s)
}

// ParseColor resolves a color name as produced by Color.String.
func ParseColor(s string) (Color, error) {
	switch s {
	case "R":
		return Red, nil
	case "B":
		return Black, nil
	default:
		return 0, fmt.Errorf("unknown tile color: %q", s)
	}
}

// Tile is a single immutable playing tile.
type Tile struct {
	Kind  Kind
	Color Color
}

// Points returns the tile's point value.
func (t Tile) Points() int { return t.Kind.Points() }

func (t Tile) String() string {
	return t.Kind.String() + "/" + t.Color.String()
}

const (
	// NumPlayers is the fixed seat count of a game.
	NumPlayers = 4
	// HandSize is the number of tiles dealt to each seat.
	HandSize = 8
	// TotalPiles is the number of piles a full round distributes. It equals
	// the tiles per hand because a won trick is worth its tile count.
	TotalPiles = 8

	// WeakHandThreshold is the point value a hand must exceed on at least one
	// tile to avoid being weak and eligible for a redeal offer.
	WeakHandThreshold = 9
)

// IsWeakHand reports whether no tile in the hand exceeds the weak-hand
// threshold.
func IsWeakHand(hand []Tile) bool {
	for _, t := range hand {
		if t.Points() > WeakHandThreshold {
			return false
		}
	}
	return len(hand) > 0
}

// RemoveTiles removes the specified tiles from a hand and returns the updated
// hand. Each listed tile removes a single copy.
func RemoveTiles(hand []Tile, toRemove []Tile) []Tile {
	if len(toRemove) == 0 || len(hand) == 0 {
		return hand
	}

	removeCounts := make(map[Tile]int, len(toRemove))
	for _, t := range toRemove {
		removeCounts[t]++
	}

	updated := make([]Tile, 0, len(hand))
	for _, t := range hand {
		if count, ok := removeCounts[t]; ok && count > 0 {
			removeCounts[t] = count - 1
			continue
		}
		updated = append(updated, t)
	}

	return updated
}

// ContainsTiles reports whether hand holds every tile in subset, counting
// multiplicity.
func ContainsTiles(hand []Tile, subset []Tile) bool {
	counts := make(map[Tile]int, len(hand))
	for _, t := range hand {
		counts[t]++
	}
	for _, t := range subset {
		if counts[t] == 0 {
			return false
		}
		counts[t]--
	}
	return true
}
