package engine

import "liap/internal/domain"

// PhaseChangeEvent is published after every accepted state-mutating action.
// It is the only channel through which collaborators observe progress; the
// engine is never polled.
type PhaseChangeEvent struct {
	Seq    uint64
	Phase  domain.Phase
	Reason string
	Data   PhaseData
}

// PhaseData is the tagged union of per-phase payloads. Each phase emits a
// statically-known shape.
type PhaseData interface {
	isPhaseData()
}

// PreparationData describes the deal and any outstanding redeal offers.
type PreparationData struct {
	RoundNumber      int
	StarterSeat      int
	RedealMultiplier int
	WeakSeats        []int
	PendingSeats     []int // weak seats that have not answered the redeal offer
	Bots             [domain.NumPlayers]bool
}

// DeclarationData describes declaration progress and whose value is due.
type DeclarationData struct {
	RoundNumber        int
	TurnSeat           int
	MustDeclareNonzero bool
	IsLastDeclarer     bool
	Prior              []int
	Declarations       [domain.NumPlayers]int
	Declared           [domain.NumPlayers]bool
	Bots               [domain.NumPlayers]bool
}

// TurnData describes the trick in progress.
type TurnData struct {
	RoundNumber   int
	TrickStarter  int
	TurnSeat      int
	RequiredCount int // 0 while the turn seat is leading
	Plays         []domain.TurnPlay
	LastWinner    int // -1 before the round's first trick resolves
	HandSizes     [domain.NumPlayers]int
	Declarations  [domain.NumPlayers]int
	Captured      [domain.NumPlayers]int
	Bots          [domain.NumPlayers]bool
}

// SeatScore is one seat's round settlement.
type SeatScore struct {
	Seat     int
	Declared int
	Captured int
	Delta    int
	Total    int
}

// ScoringData carries the round settlement.
type ScoringData struct {
	RoundNumber int
	Multiplier  int
	Scores      [domain.NumPlayers]SeatScore
}

// GameOverData carries the final standings.
type GameOverData struct {
	WinnerSeat int
	Totals     [domain.NumPlayers]int
	Rounds     int
}

func (PreparationData) isPhaseData() {}
func (DeclarationData) isPhaseData() {}
func (TurnData) isPhaseData()        {}
func (ScoringData) isPhaseData()     {}
func (GameOverData) isPhaseData()    {}

// Subscriber receives events synchronously, in order, before the engine
// accepts its next action.
type Subscriber func(PhaseChangeEvent)

// Subscribe registers an event subscriber. Not safe to call concurrently with
// action handling; wire subscribers before the engine starts.
func (e *Engine) Subscribe(fn Subscriber) {
	e.subs = append(e.subs, fn)
}

func (e *Engine) publish(reason string, data PhaseData) {
	e.seq++
	ev := PhaseChangeEvent{
		Seq:    e.seq,
		Phase:  e.round.Phase,
		Reason: reason,
		Data:   data,
	}
	e.logger.Debug("phase event", "seq", ev.Seq, "phase", ev.Phase, "reason", reason)
	for _, fn := range e.subs {
		fn(ev)
	}
}
