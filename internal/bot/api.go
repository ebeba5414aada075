// Package bot fills otherwise idle seats. A Brain answers the three decisions
// a seat ever faces; the Sequencer watches a room's events and drives
// bot-controlled seats after a human-feeling delay.
package bot

import "liap/internal/domain"

// DeclareContext carries everything a strategy may consult when declaring.
type DeclareContext struct {
	Hand               []domain.Tile
	Prior              []int // earlier declarations, in declaration order
	MustDeclareNonzero bool
	IsLast             bool
	Rules              domain.DeclarationRules
	HasLead            bool // this seat leads the round's first trick
}

// PlayContext carries the trick state a strategy sees when asked to play.
type PlayContext struct {
	Hand          []domain.Tile
	RequiredCount int // 0 when leading
	Trick         []domain.TurnPlay
	Declared      int
	Captured      int
	RoundNumber   int
}

// RedealContext carries the state behind a redeal offer. Multiplier is the
// current round multiplier; accepting raises it by one.
type RedealContext struct {
	Hand       []domain.Tile
	Multiplier int
}

// Brain is the decision surface every bot strategy implements. Returned
// values go through full engine validation like any player input; the
// sequencer substitutes a safe fallback when a brain produces an illegal
// move.
type Brain interface {
	Declare(ctx DeclareContext) int
	ChoosePlay(ctx PlayContext) []domain.Tile
	AcceptRedeal(ctx RedealContext) bool
}
