package domain

import (
	"math/rand"
	"sort"
)

// NewDeck returns the full 32-tile deck in a fixed order.
func NewDeck() []Tile {
	deck := make([]Tile, 0, NumPlayers*HandSize)
	for _, color := range []Color{Red, Black} {
		for k := Fish; k <= Dragon; k++ {
			for i := 0; i < kindCopies[k]; i++ {
				deck = append(deck, Tile{Kind: k, Color: color})
			}
		}
	}
	return deck
}

// SortHand orders tiles by ascending point value, colors interleaved
// deterministically.
func SortHand(tiles []Tile) {
	sort.Slice(tiles, func(i, j int) bool {
		if tiles[i].Points() != tiles[j].Points() {
			return tiles[i].Points() < tiles[j].Points()
		}
		return tiles[i].Color < tiles[j].Color
	})
}

// Dealer produces the four hands for a round. The engine consumes it as an
// external collaborator so tests can inject fixed deals.
type Dealer interface {
	Deal() [NumPlayers][]Tile
}

type shuffleDealer struct {
	rng *rand.Rand
}

// NewShuffleDealer returns a Dealer backed by a full-deck shuffle.
func NewShuffleDealer(rng *rand.Rand) Dealer {
	return &shuffleDealer{rng: rng}
}

func (d *shuffleDealer) Deal() [NumPlayers][]Tile {
	deck := NewDeck()
	d.rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	var hands [NumPlayers][]Tile
	for seat := 0; seat < NumPlayers; seat++ {
		hand := append([]Tile{}, deck[seat*HandSize:(seat+1)*HandSize]...)
		SortHand(hand)
		hands[seat] = hand
	}
	return hands
}

// FixedDealer replays predetermined hands, for tests and replays.
type FixedDealer struct {
	Hands [NumPlayers][]Tile
}

func (d *FixedDealer) Deal() [NumPlayers][]Tile {
	var hands [NumPlayers][]Tile
	for seat := range d.Hands {
		hands[seat] = append([]Tile{}, d.Hands[seat]...)
	}
	return hands
}
