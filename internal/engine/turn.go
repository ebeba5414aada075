package engine

import "liap/internal/domain"

func (e *Engine) enterTurn() {
	e.round.Phase = domain.PhaseTurn
	e.trickStarter = e.round.StarterSeat
	e.turnSeat = e.trickStarter
	e.requiredCount = 0
	e.plays = nil
	e.publish("trick_open", e.turnData())
}

// handlePlay validates a play in full before committing anything; rejections
// leave the trick and every hand untouched.
func (e *Engine) handlePlay(a Action) error {
	if a.Seat != e.turnSeat {
		return ErrOutOfTurn
	}
	if len(a.Tiles) == 0 {
		return &IllegalComboError{Reason: "no tiles played"}
	}

	hand := e.players[a.Seat].Hand
	if !domain.ContainsTiles(hand, a.Tiles) {
		return &IllegalComboError{Reason: "tiles not held"}
	}

	combo := domain.IdentifyCombo(a.Tiles)
	leading := len(e.plays) == 0
	if leading {
		// The starter's combo fixes the trick's type space and count.
		if combo.Type == domain.ComboInvalid {
			return &IllegalComboError{Reason: "lead must form a combo"}
		}
	} else if len(a.Tiles) != e.requiredCount {
		return &IllegalComboError{Reason: "tile count must match the trick"}
	}

	// Commit.
	if leading {
		e.requiredCount = len(a.Tiles)
	}
	e.players[a.Seat].Hand = domain.RemoveTiles(hand, a.Tiles)
	e.plays = append(e.plays, domain.TurnPlay{Seat: a.Seat, Tiles: combo.Tiles, Combo: combo})
	e.logger.Debug("tiles played", "seat", a.Seat, "combo", combo.Type, "value", combo.Value)

	if len(e.plays) < domain.NumPlayers {
		e.turnSeat = (e.turnSeat + 1) % domain.NumPlayers
		e.publish("tiles_played", e.turnData())
		return nil
	}

	return e.resolveTrick()
}

func (e *Engine) resolveTrick() error {
	winnerIdx, err := domain.ResolveTrick(e.plays)
	if err != nil {
		// Unreachable from action handling; indicates an engine bug.
		return err
	}
	winnerSeat := e.plays[winnerIdx].Seat
	e.players[winnerSeat].CapturedPiles += e.requiredCount
	e.lastTrickWinner = winnerSeat

	e.round.TurnHistory = append(e.round.TurnHistory, domain.Trick{
		StarterSeat: e.trickStarter,
		Count:       e.requiredCount,
		Plays:       e.plays,
		WinnerSeat:  winnerSeat,
	})
	e.logger.Info("trick resolved",
		"winner", winnerSeat,
		"piles", e.requiredCount,
		"combo", e.plays[winnerIdx].Combo.Type)

	if len(e.players[winnerSeat].Hand) == 0 {
		// Hands shrink in lockstep, so one empty hand means all are empty.
		e.scoreRound()
		return nil
	}

	e.trickStarter = winnerSeat
	e.turnSeat = winnerSeat
	e.requiredCount = 0
	e.plays = nil
	e.publish("trick_resolved", e.turnData())
	return nil
}

func (e *Engine) turnData() TurnData {
	data := TurnData{
		RoundNumber:   e.round.Number,
		TrickStarter:  e.trickStarter,
		TurnSeat:      e.turnSeat,
		RequiredCount: e.requiredCount,
		Plays:         append([]domain.TurnPlay{}, e.plays...),
		LastWinner:    e.lastTrickWinner,
		Bots:          e.botFlags(),
	}
	if len(e.plays) == 0 {
		data.RequiredCount = 0 // leader chooses the count
	}
	for seat, p := range e.players {
		data.HandSizes[seat] = len(p.Hand)
		data.Declarations[seat] = p.Declared
		data.Captured[seat] = p.CapturedPiles
	}
	return data
}
