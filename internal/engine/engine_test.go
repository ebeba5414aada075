package engine

import (
	"errors"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liap/internal/domain"
)

// stridedDealer deals the ordered deck with a stride of four, which spreads
// the strong tiles evenly so no seat is weak.
func stridedDealer() domain.Dealer {
	deck := domain.NewDeck()
	var hands [domain.NumPlayers][]domain.Tile
	for seat := 0; seat < domain.NumPlayers; seat++ {
		for i := seat; i < len(deck); i += domain.NumPlayers {
			hands[seat] = append(hands[seat], deck[i])
		}
		domain.SortHand(hands[seat])
	}
	return &domain.FixedDealer{Hands: hands}
}

// chunkedDealer deals the ordered deck in contiguous chunks, which makes
// seats 0 and 2 weak (all fish and hares).
func chunkedDealer() domain.Dealer {
	deck := domain.NewDeck()
	var hands [domain.NumPlayers][]domain.Tile
	for seat := 0; seat < domain.NumPlayers; seat++ {
		hands[seat] = append([]domain.Tile{}, deck[seat*domain.HandSize:(seat+1)*domain.HandSize]...)
		domain.SortHand(hands[seat])
	}
	return &domain.FixedDealer{Hands: hands}
}

func testSpecs() [domain.NumPlayers]PlayerSpec {
	return [domain.NumPlayers]PlayerSpec{
		{ID: "p0"}, {ID: "p1"}, {ID: "p2"}, {ID: "p3"},
	}
}

func newTestEngine(t *testing.T, dealer domain.Dealer) (*Engine, *[]PhaseChangeEvent) {
	t.Helper()
	e := New(testSpecs(), dealer, log.Default(), DefaultOptions())
	events := &[]PhaseChangeEvent{}
	e.Subscribe(func(ev PhaseChangeEvent) { *events = append(*events, ev) })
	return e, events
}

func declareAll(t *testing.T, e *Engine, values [domain.NumPlayers]int) {
	t.Helper()
	order := e.Round().DeclarationOrder()
	for _, seat := range order {
		_, err := e.Submit(Action{Type: ActionDeclare, Seat: seat, Value: values[seat]})
		require.NoError(t, err, "declaration for seat %d", seat)
	}
}

func TestStartDealsAndOpensDeclarations(t *testing.T) {
	e, events := newTestEngine(t, stridedDealer())
	require.NoError(t, e.Start())

	assert.Equal(t, domain.PhaseDeclaration, e.Phase())
	for seat := 0; seat < domain.NumPlayers; seat++ {
		assert.Len(t, e.Hand(seat), domain.HandSize)
	}

	require.NotEmpty(t, *events)
	first := (*events)[0]
	assert.Equal(t, "hands_dealt", first.Reason)
	prep, ok := first.Data.(PreparationData)
	require.True(t, ok)
	assert.Empty(t, prep.WeakSeats)

	last := (*events)[len(*events)-1]
	assert.Equal(t, domain.PhaseDeclaration, last.Phase)
}

func TestWrongPhaseActionRejected(t *testing.T) {
	e, _ := newTestEngine(t, stridedDealer())
	require.NoError(t, e.Start())

	// Declaration phase: playing tiles is illegal and mutates nothing.
	hand := e.Hand(0)
	_, err := e.Submit(Action{Type: ActionPlay, Seat: 0, Tiles: hand[:1]})
	var phaseErr *InvalidPhaseError
	require.ErrorAs(t, err, &phaseErr)
	assert.Equal(t, domain.PhaseDeclaration, phaseErr.Phase)
	assert.Equal(t, hand, e.Hand(0))
}

func TestDeclarationOrderAndConstraints(t *testing.T) {
	e, _ := newTestEngine(t, stridedDealer())
	require.NoError(t, e.Start())

	// Out of order: seat 1 cannot declare before seat 0 (the starter).
	_, err := e.Submit(Action{Type: ActionDeclare, Seat: 1, Value: 2})
	require.ErrorIs(t, err, ErrOutOfTurn)

	// The starter must declare nonzero.
	_, err = e.Submit(Action{Type: ActionDeclare, Seat: 0, Value: 0})
	var violation *domain.ConstraintViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, domain.RuleMustBeNonzero, violation.Rule)

	// Declarations 2, 3, 2: the last seat may not complete a sum of eight.
	for seat, v := range []int{2, 3, 2} {
		_, err = e.Submit(Action{Type: ActionDeclare, Seat: seat, Value: v})
		require.NoError(t, err)
	}
	_, err = e.Submit(Action{Type: ActionDeclare, Seat: 3, Value: 1})
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, domain.RuleForbiddenTotal, violation.Rule)

	// 0 and 2 are both acceptable; the first accepted value is immutable.
	_, err = e.Submit(Action{Type: ActionDeclare, Seat: 3, Value: 2})
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseTurn, e.Phase())

	round := e.Round()
	assert.Equal(t, [domain.NumPlayers]int{2, 3, 2, 2}, round.Declarations)
}

func TestTurnPhaseRejectsBadPlays(t *testing.T) {
	e, _ := newTestEngine(t, stridedDealer())
	require.NoError(t, e.Start())
	declareAll(t, e, [domain.NumPlayers]int{2, 2, 2, 3})

	require.Equal(t, domain.PhaseTurn, e.Phase())
	require.Equal(t, 0, e.CurrentActor())

	// Leading with tiles that do not classify is rejected.
	hand := e.Hand(0)
	var comboErr *IllegalComboError
	_, err := e.Submit(Action{Type: ActionPlay, Seat: 0, Tiles: []domain.Tile{hand[0], hand[len(hand)-1]}})
	require.ErrorAs(t, err, &comboErr)

	// Tiles the seat does not hold are rejected.
	_, err = e.Submit(Action{Type: ActionPlay, Seat: 0, Tiles: []domain.Tile{{Kind: domain.Dragon, Color: domain.Red}}})
	require.ErrorAs(t, err, &comboErr)

	// Seat 0 leads a pair of fish; responders must match the count.
	pair := []domain.Tile{{Kind: domain.Fish, Color: domain.Red}, {Kind: domain.Fish, Color: domain.Red}}
	_, err = e.Submit(Action{Type: ActionPlay, Seat: 0, Tiles: pair})
	require.NoError(t, err)

	oneTile := e.Hand(1)[:1]
	_, err = e.Submit(Action{Type: ActionPlay, Seat: 1, Tiles: oneTile})
	require.ErrorAs(t, err, &comboErr)
	assert.Equal(t, "tile count must match the trick", comboErr.Reason)

	// A responder's two tiles need not classify: forfeit plays are accepted.
	h1 := e.Hand(1)
	forfeit := []domain.Tile{h1[0], h1[len(h1)-1]}
	require.NotEqual(t, domain.ComboInvalid, domain.ComboPair, "sanity")
	_, err = e.Submit(Action{Type: ActionPlay, Seat: 1, Tiles: forfeit})
	require.NoError(t, err)
}

// playOutRound drives the turn phase to completion with single-tile tricks.
func playOutRound(t *testing.T, e *Engine) {
	t.Helper()
	for e.Phase() == domain.PhaseTurn {
		actor := e.CurrentActor()
		hand := e.Hand(actor)
		require.NotEmpty(t, hand)
		_, err := e.Submit(Action{Type: ActionPlay, Seat: actor, Tiles: hand[:1]})
		require.NoError(t, err)
	}
}

func TestRoundDistributesExactlyEightPiles(t *testing.T) {
	e, events := newTestEngine(t, stridedDealer())
	require.NoError(t, e.Start())
	declareAll(t, e, [domain.NumPlayers]int{2, 2, 2, 3})
	playOutRound(t, e)

	var scored *ScoringData
	for _, ev := range *events {
		if data, ok := ev.Data.(ScoringData); ok {
			scored = &data
			break
		}
	}
	require.NotNil(t, scored, "round should have been scored")

	sum := 0
	for _, s := range scored.Scores {
		sum += s.Captured
	}
	assert.Equal(t, domain.TotalPiles, sum)
}

func TestTrickWinnerLeadsNext(t *testing.T) {
	e, events := newTestEngine(t, stridedDealer())
	require.NoError(t, e.Start())
	declareAll(t, e, [domain.NumPlayers]int{2, 2, 2, 3})

	// First trick: each seat plays its lowest single; some seat wins and
	// must be the next trick's starter.
	for i := 0; i < domain.NumPlayers; i++ {
		actor := e.CurrentActor()
		_, err := e.Submit(Action{Type: ActionPlay, Seat: actor, Tiles: e.Hand(actor)[:1]})
		require.NoError(t, err)
	}

	last := (*events)[len(*events)-1]
	require.Equal(t, "trick_resolved", last.Reason)
	data, ok := last.Data.(TurnData)
	require.True(t, ok)
	assert.Equal(t, data.LastWinner, data.TrickStarter)
	assert.Equal(t, data.LastWinner, data.TurnSeat)
	assert.Equal(t, 0, data.RequiredCount)
}

func TestWeakHandRedealFlow(t *testing.T) {
	e, events := newTestEngine(t, chunkedDealer())
	require.NoError(t, e.Start())

	require.Equal(t, domain.PhasePreparation, e.Phase())
	prep, ok := (*events)[0].Data.(PreparationData)
	require.True(t, ok)
	assert.Equal(t, []int{0, 2}, prep.WeakSeats)
	assert.Equal(t, []int{0, 2}, prep.PendingSeats)

	// A seat without an offer cannot answer one.
	_, err := e.Submit(Action{Type: ActionRedealChoice, Seat: 1, Accept: false})
	require.ErrorIs(t, err, ErrOutOfTurn)

	// Seat 0 declines; seat 2's decision is still outstanding.
	_, err = e.Submit(Action{Type: ActionRedealChoice, Seat: 0, Accept: false})
	require.NoError(t, err)
	require.Equal(t, domain.PhasePreparation, e.Phase())

	// Seat 2 accepts: multiplier increments and all hands are re-dealt; the
	// fixed dealer returns the same weak hands, so offers reopen.
	_, err = e.Submit(Action{Type: ActionRedealChoice, Seat: 2, Accept: true})
	require.NoError(t, err)
	require.Equal(t, domain.PhasePreparation, e.Phase())
	assert.Equal(t, 2, e.Round().RedealMultiplier)

	// Both weak seats decline: declarations open immediately.
	_, err = e.Submit(Action{Type: ActionRedealChoice, Seat: 0, Accept: false})
	require.NoError(t, err)
	_, err = e.Submit(Action{Type: ActionRedealChoice, Seat: 2, Accept: false})
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseDeclaration, e.Phase())
}

func TestRedealMultiplierScalesScores(t *testing.T) {
	e, events := newTestEngine(t, chunkedDealer())
	require.NoError(t, e.Start())

	_, err := e.Submit(Action{Type: ActionRedealChoice, Seat: 0, Accept: true})
	require.NoError(t, err)
	for _, seat := range []int{0, 2} {
		_, err = e.Submit(Action{Type: ActionRedealChoice, Seat: seat, Accept: false})
		require.NoError(t, err)
	}
	require.Equal(t, domain.PhaseDeclaration, e.Phase())

	declareAll(t, e, [domain.NumPlayers]int{1, 2, 2, 2})
	playOutRound(t, e)

	var scored *ScoringData
	for _, ev := range *events {
		if data, ok := ev.Data.(ScoringData); ok {
			scored = &data
			break
		}
	}
	require.NotNil(t, scored)
	assert.Equal(t, 2, scored.Multiplier)
	for _, s := range scored.Scores {
		if s.Declared != s.Captured {
			diff := s.Declared - s.Captured
			if diff < 0 {
				diff = -diff
			}
			assert.Equal(t, -2*diff, s.Delta, "seat %d penalty must scale", s.Seat)
		}
	}
}

func TestGameEndsAtWinThreshold(t *testing.T) {
	e, events := newTestEngine(t, stridedDealer())
	// With the strided deal and lowest-single play the first round yields
	// three exact matches worth +7, so a threshold of 5 ends the game fast.
	e.opts.WinThreshold = 5

	require.NoError(t, e.Start())
	for steps := 0; e.Phase() != domain.PhaseGameOver && steps < 500; steps++ {
		switch e.Phase() {
		case domain.PhasePreparation:
			seat := e.CurrentActor()
			_, err := e.Submit(Action{Type: ActionRedealChoice, Seat: seat, Accept: false})
			require.NoError(t, err)
		case domain.PhaseDeclaration:
			seat := e.CurrentActor()
			value := 2
			prior := e.Round().PriorDeclarations()
			if len(prior) == domain.NumPlayers-1 {
				sum := 0
				for _, d := range prior {
					sum += d
				}
				if sum+value == domain.TotalPiles {
					value = 3
				}
			}
			_, err := e.Submit(Action{Type: ActionDeclare, Seat: seat, Value: value})
			require.NoError(t, err)
		case domain.PhaseTurn:
			actor := e.CurrentActor()
			_, err := e.Submit(Action{Type: ActionPlay, Seat: actor, Tiles: e.Hand(actor)[:1]})
			require.NoError(t, err)
		}
	}

	require.Equal(t, domain.PhaseGameOver, e.Phase())
	require.GreaterOrEqual(t, e.Winner(), 0)

	last := (*events)[len(*events)-1]
	assert.Equal(t, "game_over", last.Reason)
	over, ok := last.Data.(GameOverData)
	require.True(t, ok)
	assert.GreaterOrEqual(t, over.Totals[over.WinnerSeat], 5)

	// Nothing is accepted after game over.
	_, err := e.Submit(Action{Type: ActionDeclare, Seat: 0, Value: 1})
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestEventPerAcceptedAction(t *testing.T) {
	e, events := newTestEngine(t, stridedDealer())
	require.NoError(t, e.Start())

	before := len(*events)
	_, err := e.Submit(Action{Type: ActionDeclare, Seat: 0, Value: 2})
	require.NoError(t, err)
	assert.Greater(t, len(*events), before, "accepted action must emit")

	before = len(*events)
	_, err = e.Submit(Action{Type: ActionDeclare, Seat: 0, Value: 2})
	require.Error(t, err)
	assert.Equal(t, before, len(*events), "rejected action must not emit")
}

func TestSubmitBeforeStart(t *testing.T) {
	e := New(testSpecs(), stridedDealer(), log.Default(), DefaultOptions())
	_, err := e.Submit(Action{Type: ActionDeclare, Seat: 0, Value: 1})
	require.ErrorIs(t, err, ErrNotStarted)
	require.True(t, errors.Is(err, ErrNotStarted))
}

func TestSetBotAnnouncesSeat(t *testing.T) {
	e, events := newTestEngine(t, stridedDealer())
	require.NoError(t, e.Start())

	before := len(*events)
	require.NoError(t, e.SetBot(2, true))
	require.Len(t, *events, before+1)
	last := (*events)[len(*events)-1]
	assert.Equal(t, "seat_control_changed", last.Reason)
	data, ok := last.Data.(DeclarationData)
	require.True(t, ok)
	assert.True(t, data.Bots[2])

	// Toggling to the same value is a no-op.
	require.NoError(t, e.SetBot(2, true))
	assert.Len(t, *events, before+1)
}
