package domain

import "fmt"

// TurnPlay is one seat's contribution to a trick.
type TurnPlay struct {
	Seat  int
	Tiles []Tile
	Combo Combo
}

// Trick is a completed exchange: four equal-count plays resolved to a winner.
type Trick struct {
	StarterSeat int
	Count       int
	Plays       []TurnPlay
	WinnerSeat  int
}

// UnresolvableTrickError signals a caller bug: the resolver was handed an
// incomplete trick. It never represents a legal game state.
type UnresolvableTrickError struct {
	Plays int
}

func (e *UnresolvableTrickError) Error() string {
	return fmt.Sprintf("trick unresolvable: %d of %d plays present", e.Plays, NumPlayers)
}

// ResolveTrick picks the winning play index. Combos are ranked by the fixed
// type hierarchy, then by total point value; full ties keep the earliest play
// in trick order.
func ResolveTrick(plays []TurnPlay) (int, error) {
	if len(plays) < NumPlayers {
		return -1, &UnresolvableTrickError{Plays: len(plays)}
	}

	best := 0
	for i := 1; i < len(plays); i++ {
		if Beats(plays[i].Combo, plays[best].Combo) {
			best = i
		}
	}
	return best, nil
}

// Beats reports whether challenger outranks incumbent. Equality loses:
// earliest play order holds the trick.
func Beats(challenger, incumbent Combo) bool {
	if challenger.Type.Rank() != incumbent.Type.Rank() {
		return challenger.Type.Rank() > incumbent.Type.Rank()
	}
	return challenger.Value > incumbent.Value
}

// BestPlay returns the index of the play currently winning a partial trick,
// or -1 for an empty trick. Responder strategies use it to decide whether a
// trick is still winnable.
func BestPlay(plays []TurnPlay) int {
	if len(plays) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(plays); i++ {
		if Beats(plays[i].Combo, plays[best].Combo) {
			best = i
		}
	}
	return best
}
