package domain

// Phase is the lifecycle stage of a round.
type Phase string

const (
	PhasePreparation Phase = "preparation"
	PhaseDeclaration Phase = "declaration"
	PhaseTurn        Phase = "turn"
	PhaseScoring     Phase = "scoring"
	PhaseGameOver    Phase = "game_over"
)

// Player holds per-seat state across rounds. The hand and round counters
// reset on each deal; TotalScore accumulates until the game ends.
type Player struct {
	ID            string
	Seat          int
	Hand          []Tile
	IsBot         bool
	Declared      int
	HasDeclared   bool
	CapturedPiles int
	TotalScore    int
}

// ResetForRound clears the player's round-scoped state and installs a fresh
// hand.
func (p *Player) ResetForRound(hand []Tile) {
	p.Hand = hand
	p.Declared = 0
	p.HasDeclared = false
	p.CapturedPiles = 0
}

// Round is the authoritative per-round record. Exactly one Round is active at
// a time and it is owned exclusively by the engine; all mutation happens
// inside engine action handling.
type Round struct {
	Number           int
	StarterSeat      int
	Phase            Phase
	Declarations     [NumPlayers]int
	Declared         [NumPlayers]bool
	TurnHistory      []Trick
	RedealMultiplier int
}

// NewRound returns a fresh round in the preparation phase.
func NewRound(number, starterSeat int) *Round {
	return &Round{
		Number:           number,
		StarterSeat:      starterSeat,
		Phase:            PhasePreparation,
		RedealMultiplier: 1,
	}
}

// RecordDeclaration stores a seat's declaration. Declarations are immutable
// once recorded; callers must validate first.
func (r *Round) RecordDeclaration(seat, value int) {
	r.Declarations[seat] = value
	r.Declared[seat] = true
}

// DeclarationOrder returns seats in declaration order, starter first.
func (r Round) DeclarationOrder() [NumPlayers]int {
	var order [NumPlayers]int
	for i := 0; i < NumPlayers; i++ {
		order[i] = (r.StarterSeat + i) % NumPlayers
	}
	return order
}

// PriorDeclarations returns the values recorded so far, in declaration order.
func (r Round) PriorDeclarations() []int {
	order := r.DeclarationOrder()
	prior := make([]int, 0, NumPlayers)
	for _, seat := range order {
		if r.Declared[seat] {
			prior = append(prior, r.Declarations[seat])
		}
	}
	return prior
}
