package engine

import "liap/internal/domain"

// scoreRound settles the round, then either deals the next round or ends the
// game. It runs synchronously inside the action that emptied the hands.
func (e *Engine) scoreRound() {
	e.round.Phase = domain.PhaseScoring

	data := ScoringData{
		RoundNumber: e.round.Number,
		Multiplier:  e.round.RedealMultiplier,
	}
	for seat, p := range e.players {
		delta := domain.ScoreRound(p.Declared, p.CapturedPiles, e.round.RedealMultiplier)
		p.TotalScore += delta
		data.Scores[seat] = SeatScore{
			Seat:     seat,
			Declared: p.Declared,
			Captured: p.CapturedPiles,
			Delta:    delta,
			Total:    p.TotalScore,
		}
	}
	e.logger.Info("round scored", "round", e.round.Number, "multiplier", e.round.RedealMultiplier)
	e.publish("round_scored", data)

	if winner, over := e.checkWin(); over {
		e.winnerSeat = winner
		e.round.Phase = domain.PhaseGameOver
		e.logger.Info("game over", "winner", winner, "rounds", e.round.Number)
		e.publish("game_over", e.gameOverData())
		return
	}

	e.startRound(e.round.Number+1, e.lastTrickWinner)
}

// checkWin reports the winning seat once any total reaches the threshold.
// Ties go to the earliest seat.
func (e *Engine) checkWin() (int, bool) {
	best, bestSeat := 0, -1
	for seat, p := range e.players {
		if p.TotalScore >= e.opts.WinThreshold && (bestSeat == -1 || p.TotalScore > best) {
			best = p.TotalScore
			bestSeat = seat
		}
	}
	return bestSeat, bestSeat != -1
}

// Winner returns the winning seat after game over, -1 before.
func (e *Engine) Winner() int { return e.winnerSeat }

func (e *Engine) gameOverData() GameOverData {
	data := GameOverData{
		WinnerSeat: e.winnerSeat,
		Rounds:     e.round.Number,
	}
	for seat, p := range e.players {
		data.Totals[seat] = p.TotalScore
	}
	return data
}
