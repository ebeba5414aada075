// Package engine owns the authoritative round state and drives it through the
// preparation, declaration, turn and scoring phases. All mutation happens
// inside Submit; progress is observable only through published events.
package engine

import (
	"sort"

	"github.com/charmbracelet/log"

	"liap/internal/domain"
)

// Options tune per-game rules.
type Options struct {
	WinThreshold     int
	ForbidExactTotal bool
}

// DefaultOptions returns the standard rule set.
func DefaultOptions() Options {
	return Options{
		WinThreshold:     domain.DefaultWinThreshold,
		ForbidExactTotal: true,
	}
}

// PlayerSpec seats a participant at engine construction.
type PlayerSpec struct {
	ID    string
	IsBot bool
}

// Engine is the phase state machine for a single table. It is not safe for
// concurrent use; callers serialize actions through a room queue or an
// equivalent single-threaded loop.
type Engine struct {
	logger *log.Logger
	dealer domain.Dealer
	opts   Options

	players [domain.NumPlayers]*domain.Player
	round   *domain.Round
	started bool

	subs []Subscriber
	seq  uint64

	// Preparation: weak seats still owed a redeal answer.
	weakSeats     []int
	pendingRedeal map[int]bool

	// Declaration: position in declaration order.
	declIndex int

	// Turn: the trick being collected.
	trickStarter    int
	turnSeat        int
	requiredCount   int
	plays           []domain.TurnPlay
	lastTrickWinner int

	winnerSeat int
}

// New builds an engine for four seated players. Call Start to deal the first
// round.
func New(specs [domain.NumPlayers]PlayerSpec, dealer domain.Dealer, logger *log.Logger, opts Options) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	e := &Engine{
		logger:          logger.WithPrefix("engine"),
		dealer:          dealer,
		opts:            opts,
		round:           domain.NewRound(0, 0),
		lastTrickWinner: -1,
		winnerSeat:      -1,
	}
	for seat, spec := range specs {
		e.players[seat] = &domain.Player{ID: spec.ID, Seat: seat, IsBot: spec.IsBot}
	}
	return e
}

// Start deals the first round. It may be called once.
func (e *Engine) Start() error {
	if e.started {
		return ErrAlreadyStarted
	}
	e.started = true
	e.startRound(1, 0)
	return nil
}

// Submit applies one action. Wrong-phase actions fail with InvalidPhaseError
// and mutate nothing; accepted actions run their transitions synchronously
// and publish events before Submit returns.
func (e *Engine) Submit(a Action) (Result, error) {
	if !e.started {
		return Result{}, ErrNotStarted
	}
	if a.Seat < 0 || a.Seat >= domain.NumPlayers {
		return Result{}, ErrUnknownSeat
	}

	var err error
	switch e.round.Phase {
	case domain.PhasePreparation:
		if a.Type != ActionRedealChoice {
			return Result{}, &InvalidPhaseError{Phase: e.round.Phase, Action: a.Type}
		}
		err = e.handleRedealChoice(a)
	case domain.PhaseDeclaration:
		if a.Type != ActionDeclare {
			return Result{}, &InvalidPhaseError{Phase: e.round.Phase, Action: a.Type}
		}
		err = e.handleDeclare(a)
	case domain.PhaseTurn:
		if a.Type != ActionPlay {
			return Result{}, &InvalidPhaseError{Phase: e.round.Phase, Action: a.Type}
		}
		err = e.handlePlay(a)
	case domain.PhaseGameOver:
		return Result{}, ErrGameOver
	default:
		// Scoring runs synchronously inside the final play; no action is
		// ever legal while it is the nominal phase.
		return Result{}, &InvalidPhaseError{Phase: e.round.Phase, Action: a.Type}
	}

	if err != nil {
		return Result{}, err
	}
	return Result{Phase: e.round.Phase}, nil
}

// SetBot toggles a seat's bot flag, e.g. when a human disconnects and a bot
// takes over. A state event re-announces the current phase so schedulers can
// pick up the seat.
func (e *Engine) SetBot(seat int, isBot bool) error {
	if seat < 0 || seat >= domain.NumPlayers {
		return ErrUnknownSeat
	}
	if e.players[seat].IsBot == isBot {
		return nil
	}
	e.players[seat].IsBot = isBot
	if e.started && e.round.Phase != domain.PhaseGameOver {
		e.publish("seat_control_changed", e.currentData())
	}
	return nil
}

// Phase returns the current phase.
func (e *Engine) Phase() domain.Phase { return e.round.Phase }

// Round returns a copy of the authoritative round record.
func (e *Engine) Round() domain.Round { return *e.round }

// Hand returns a copy of the seat's current hand.
func (e *Engine) Hand(seat int) []domain.Tile {
	if seat < 0 || seat >= domain.NumPlayers {
		return nil
	}
	return append([]domain.Tile{}, e.players[seat].Hand...)
}

// IsBot reports whether the seat is currently bot-controlled.
func (e *Engine) IsBot(seat int) bool {
	if seat < 0 || seat >= domain.NumPlayers {
		return false
	}
	return e.players[seat].IsBot
}

// Player returns a copy of the seat's state.
func (e *Engine) Player(seat int) domain.Player {
	p := *e.players[seat]
	p.Hand = append([]domain.Tile{}, p.Hand...)
	return p
}

// CurrentActor returns the seat whose action the engine is waiting on, or -1
// when no action is due.
func (e *Engine) CurrentActor() int {
	switch e.round.Phase {
	case domain.PhasePreparation:
		pending := e.pendingSeats()
		if len(pending) == 0 {
			return -1
		}
		return pending[0]
	case domain.PhaseDeclaration:
		return e.round.DeclarationOrder()[e.declIndex]
	case domain.PhaseTurn:
		return e.turnSeat
	default:
		return -1
	}
}

// Rules returns the declaration rules in effect.
func (e *Engine) Rules() domain.DeclarationRules {
	return e.declarationRules()
}

// RequiredCount returns the tile count the trick in progress demands, 0 while
// the turn seat is leading.
func (e *Engine) RequiredCount() int {
	if len(e.plays) == 0 {
		return 0
	}
	return e.requiredCount
}

// TrickPlays returns a copy of the plays committed to the trick in progress.
func (e *Engine) TrickPlays() []domain.TurnPlay {
	return append([]domain.TurnPlay{}, e.plays...)
}

func (e *Engine) pendingSeats() []int {
	seats := make([]int, 0, len(e.pendingRedeal))
	for seat, pending := range e.pendingRedeal {
		if pending {
			seats = append(seats, seat)
		}
	}
	sort.Ints(seats)
	return seats
}

func (e *Engine) botFlags() [domain.NumPlayers]bool {
	var bots [domain.NumPlayers]bool
	for seat, p := range e.players {
		bots[seat] = p.IsBot
	}
	return bots
}

// currentData builds the event payload matching the current phase.
func (e *Engine) currentData() PhaseData {
	switch e.round.Phase {
	case domain.PhasePreparation:
		return e.preparationData()
	case domain.PhaseDeclaration:
		return e.declarationData()
	case domain.PhaseTurn:
		return e.turnData()
	default:
		return e.turnData()
	}
}
