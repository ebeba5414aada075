package engine

import (
	"errors"
	"fmt"

	"liap/internal/domain"
)

var (
	ErrNotStarted     = errors.New("engine not started")
	ErrAlreadyStarted = errors.New("engine already started")
	ErrGameOver       = errors.New("game is over")
	ErrOutOfTurn      = errors.New("action out of turn")
	ErrUnknownSeat    = errors.New("unknown seat")
)

// InvalidPhaseError rejects an action type that is illegal for the current
// phase. The action produces no state mutation and is not retried.
type InvalidPhaseError struct {
	Phase  domain.Phase
	Action ActionType
}

func (e *InvalidPhaseError) Error() string {
	return fmt.Sprintf("action %s not legal in phase %s", e.Action, e.Phase)
}

// IllegalComboError rejects a play whose tiles cannot be accepted: the lead
// does not classify, the count mismatches the trick, or the tiles are not
// held.
type IllegalComboError struct {
	Reason string
}

func (e *IllegalComboError) Error() string {
	return "illegal play: " + e.Reason
}
