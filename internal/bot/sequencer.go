package bot

import (
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"liap/internal/domain"
	"liap/internal/engine"
)

// Table is the slice of a room the sequencer needs: serialized access to the
// live engine. Decisions are made and submitted inside a single Inspect, so
// the state a brain sees is exactly the state its action applies to.
type Table interface {
	Inspect(fn func(*engine.Engine)) error
}

// Sequencer watches a room's events and, whenever the awaited seat is
// bot-controlled, runs that seat's brain after a randomized think delay. At
// most one decision is pending at any time; every newer event supersedes it,
// so a bot never acts on a state that has since moved on.
type Sequencer struct {
	table  Table
	brains [domain.NumPlayers]Brain
	clock  quartz.Clock
	logger *log.Logger
	rng    *rand.Rand

	minDelay time.Duration
	maxDelay time.Duration

	mu    sync.Mutex
	seq   uint64
	timer *quartz.Timer
}

// NewSequencer wires brains to a table. Register HandleEvent as a room
// subscriber before the room starts.
func NewSequencer(table Table, brains [domain.NumPlayers]Brain, clock quartz.Clock, logger *log.Logger, minDelay, maxDelay time.Duration) *Sequencer {
	if logger == nil {
		logger = log.Default()
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &Sequencer{
		table:    table,
		brains:   brains,
		clock:    clock,
		logger:   logger.WithPrefix("sequencer"),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		minDelay: minDelay,
		maxDelay: maxDelay,
	}
}

// HandleEvent records the newest state and, if a bot seat is awaited,
// schedules its decision. Runs synchronously inside the room loop, so it must
// never call back into the table.
func (s *Sequencer) HandleEvent(ev engine.PhaseChangeEvent) {
	seat, ok := awaitedBot(ev)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = ev.Seq
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if !ok || s.brains[seat] == nil {
		return
	}

	delay := s.minDelay
	if s.maxDelay > s.minDelay {
		delay += time.Duration(s.rng.Int63n(int64(s.maxDelay - s.minDelay)))
	}
	s.logger.Debug("bot decision scheduled", "seat", seat, "seq", ev.Seq, "delay", delay)
	s.timer = s.clock.AfterFunc(delay, func() { s.act(ev.Seq) })
}

// Stop cancels any pending decision.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// awaitedBot extracts the seat a new event is waiting on, if that seat is
// bot-controlled.
func awaitedBot(ev engine.PhaseChangeEvent) (int, bool) {
	switch data := ev.Data.(type) {
	case engine.PreparationData:
		if len(data.PendingSeats) == 0 {
			return -1, false
		}
		seat := data.PendingSeats[0]
		return seat, data.Bots[seat]
	case engine.DeclarationData:
		return data.TurnSeat, data.Bots[data.TurnSeat]
	case engine.TurnData:
		return data.TurnSeat, data.Bots[data.TurnSeat]
	default:
		return -1, false
	}
}

// act fires after the think delay. The sequence check discards decisions the
// game has moved past; the live re-check inside Inspect is authoritative for
// anything that raced in between.
func (s *Sequencer) act(seq uint64) {
	s.mu.Lock()
	stale := seq != s.seq
	s.mu.Unlock()
	if stale {
		return
	}

	err := s.table.Inspect(func(e *engine.Engine) {
		seat := e.CurrentActor()
		if seat < 0 || !e.IsBot(seat) || s.brains[seat] == nil {
			return
		}
		action, ok := Decide(e, seat, s.brains[seat])
		if !ok {
			return
		}
		if _, err := e.Submit(action); err != nil {
			s.logger.Warn("bot action rejected", "seat", seat, "type", action.Type, "error", err)
			// A rejected move would stall the table: no event fires, so
			// nothing reschedules. Fall back to the safest legal move.
			if fb, ok := FallbackAction(e, seat); ok {
				if _, err := e.Submit(fb); err != nil {
					s.logger.Error("bot fallback rejected", "seat", seat, "error", err)
				}
			}
		}
	})
	if err != nil {
		s.logger.Debug("bot decision dropped", "error", err)
	}
}

// Decide builds the action the brain wants for the seat in the engine's
// current phase. Callers must hold exclusive access to the engine.
func Decide(e *engine.Engine, seat int, brain Brain) (engine.Action, bool) {
	round := e.Round()

	switch e.Phase() {
	case domain.PhasePreparation:
		accept := brain.AcceptRedeal(RedealContext{
			Hand:       e.Hand(seat),
			Multiplier: round.RedealMultiplier,
		})
		return engine.Action{Type: engine.ActionRedealChoice, Seat: seat, Accept: accept}, true

	case domain.PhaseDeclaration:
		prior := round.PriorDeclarations()
		value := brain.Declare(DeclareContext{
			Hand:               e.Hand(seat),
			Prior:              prior,
			MustDeclareNonzero: seat == round.StarterSeat,
			IsLast:             len(prior) == domain.NumPlayers-1,
			Rules:              e.Rules(),
			HasLead:            seat == round.StarterSeat,
		})
		return engine.Action{Type: engine.ActionDeclare, Seat: seat, Value: value}, true

	case domain.PhaseTurn:
		p := e.Player(seat)
		tiles := brain.ChoosePlay(PlayContext{
			Hand:          p.Hand,
			RequiredCount: e.RequiredCount(),
			Trick:         e.TrickPlays(),
			Declared:      p.Declared,
			Captured:      p.CapturedPiles,
			RoundNumber:   round.Number,
		})
		return engine.Action{Type: engine.ActionPlay, Seat: seat, Tiles: tiles}, true

	default:
		return engine.Action{}, false
	}
}

// FallbackAction is the minimal legal move for the phase: decline the
// redeal, declare the smallest legal value, or shed the lowest tiles.
func FallbackAction(e *engine.Engine, seat int) (engine.Action, bool) {
	round := e.Round()
	switch e.Phase() {
	case domain.PhasePreparation:
		return engine.Action{Type: engine.ActionRedealChoice, Seat: seat, Accept: false}, true

	case domain.PhaseDeclaration:
		prior := round.PriorDeclarations()
		rules := e.Rules()
		isLast := len(prior) == domain.NumPlayers-1
		mustNonzero := seat == round.StarterSeat
		for v := domain.MinDeclaration; v <= domain.MaxDeclaration; v++ {
			if domain.ValidateDeclaration(v, prior, isLast, mustNonzero, rules) == nil {
				return engine.Action{Type: engine.ActionDeclare, Seat: seat, Value: v}, true
			}
		}
		return engine.Action{}, false

	case domain.PhaseTurn:
		hand := e.Hand(seat)
		domain.SortHand(hand)
		count := e.RequiredCount()
		if count == 0 {
			count = 1
		}
		if count > len(hand) {
			return engine.Action{}, false
		}
		return engine.Action{Type: engine.ActionPlay, Seat: seat, Tiles: hand[:count]}, true

	default:
		return engine.Action{}, false
	}
}
