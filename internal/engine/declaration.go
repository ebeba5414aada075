package engine

import "liap/internal/domain"

func (e *Engine) enterDeclaration() {
	e.round.Phase = domain.PhaseDeclaration
	e.declIndex = 0
	e.publish("declarations_open", e.declarationData())
}

func (e *Engine) handleDeclare(a Action) error {
	order := e.round.DeclarationOrder()
	if a.Seat != order[e.declIndex] {
		return ErrOutOfTurn
	}

	prior := e.round.PriorDeclarations()
	isLast := e.declIndex == domain.NumPlayers-1
	mustNonzero := a.Seat == e.round.StarterSeat

	if err := domain.ValidateDeclaration(a.Value, prior, isLast, mustNonzero, e.declarationRules()); err != nil {
		return err
	}

	e.round.RecordDeclaration(a.Seat, a.Value)
	e.players[a.Seat].Declared = a.Value
	e.players[a.Seat].HasDeclared = true
	e.logger.Info("declaration recorded", "seat", a.Seat, "value", a.Value)

	if isLast {
		e.enterTurn()
		return nil
	}

	e.declIndex++
	e.publish("declaration_recorded", e.declarationData())
	return nil
}

func (e *Engine) declarationRules() domain.DeclarationRules {
	return domain.DeclarationRules{ForbidExactTotal: e.opts.ForbidExactTotal}
}

func (e *Engine) declarationData() DeclarationData {
	turnSeat := e.round.DeclarationOrder()[e.declIndex]
	return DeclarationData{
		RoundNumber:        e.round.Number,
		TurnSeat:           turnSeat,
		MustDeclareNonzero: turnSeat == e.round.StarterSeat,
		IsLastDeclarer:     e.declIndex == domain.NumPlayers-1,
		Prior:              e.round.PriorDeclarations(),
		Declarations:       e.round.Declarations,
		Declared:           e.round.Declared,
		Bots:               e.botFlags(),
	}
}
