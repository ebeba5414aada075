package engine

import "liap/internal/domain"

// startRound creates a fresh round and deals it. The starter seat is the
// winner of the previous round's final trick, seat 0 on the first round.
func (e *Engine) startRound(number, starterSeat int) {
	e.round = domain.NewRound(number, starterSeat)
	e.lastTrickWinner = -1
	e.deal()

	e.logger.Info("round started",
		"round", number,
		"starter", starterSeat,
		"weakSeats", e.weakSeats)

	e.publish("hands_dealt", e.preparationData())
	e.maybeFinishPreparation()
}

// deal draws four hands from the dealer and recomputes the weak-seat set.
// Every weak seat gets a fresh redeal offer.
func (e *Engine) deal() {
	hands := e.dealer.Deal()
	e.weakSeats = e.weakSeats[:0]
	e.pendingRedeal = make(map[int]bool)
	for seat, p := range e.players {
		p.ResetForRound(hands[seat])
		if domain.IsWeakHand(p.Hand) {
			e.weakSeats = append(e.weakSeats, seat)
			e.pendingRedeal[seat] = true
		}
	}
}

func (e *Engine) handleRedealChoice(a Action) error {
	if !e.pendingRedeal[a.Seat] {
		return ErrOutOfTurn
	}

	if a.Accept {
		e.round.RedealMultiplier++
		e.deal()
		e.logger.Info("redeal accepted",
			"seat", a.Seat,
			"multiplier", e.round.RedealMultiplier,
			"weakSeats", e.weakSeats)
		e.publish("redeal_accepted", e.preparationData())
	} else {
		e.pendingRedeal[a.Seat] = false
		e.logger.Debug("redeal declined", "seat", a.Seat)
		e.publish("redeal_declined", e.preparationData())
	}

	e.maybeFinishPreparation()
	return nil
}

// maybeFinishPreparation transitions to declaration the instant the last
// outstanding redeal decision resolves. Declined weak hands stay in play.
func (e *Engine) maybeFinishPreparation() {
	if e.round.Phase != domain.PhasePreparation {
		return
	}
	if len(e.pendingSeats()) > 0 {
		return
	}
	e.enterDeclaration()
}

func (e *Engine) preparationData() PreparationData {
	return PreparationData{
		RoundNumber:      e.round.Number,
		StarterSeat:      e.round.StarterSeat,
		RedealMultiplier: e.round.RedealMultiplier,
		WeakSeats:        append([]int{}, e.weakSeats...),
		PendingSeats:     e.pendingSeats(),
		Bots:             e.botFlags(),
	}
}
