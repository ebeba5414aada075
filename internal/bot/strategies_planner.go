package bot

import (
	botinternal "liap/internal/bot/internal"
	"liap/internal/domain"
)

// PlannerBot declares from a structural read of its hand and the field, then
// commits to a per-round execution plan: win with planned openers until the
// declared target is met, shed burden everywhere else.
type PlannerBot struct {
	tn botinternal.Tuning

	planRound int
	plan      *botinternal.Plan
}

// Declare counts reliable winners, adds combo yield where the hand can
// control when combos are played, and clamps the total to a ceiling before
// legalizing it.
func (b *PlannerBot) Declare(ctx DeclareContext) int {
	field := botinternal.ClassifyField(ctx.Prior, b.tn)
	part := botinternal.BestPartition(ctx.Hand)

	// Openers are counted among the loose singles only; tiles bound into
	// combos earn their piles through the combo.
	strong := botinternal.CountStrongOpeners(part.Leftovers, b.tn)
	openers := strong
	if strong >= 2 {
		// Holding a second reliable winner keeps control of the lead.
		openers += b.tn.OpenerRedundancyBonus
	}
	// Mid-strength singles are worth at most one extra pile between them,
	// and only against a passive field.
	if field == botinternal.FieldWeak && botinternal.CountMarginalOpeners(part.Leftovers, b.tn) > 0 {
		openers++
	}

	comboPiles := 0
	viableCombos := 0
	dominant := botinternal.HasDominantTile(ctx.Hand)
	for _, c := range part.Combos {
		// A combo only cashes if this seat can pick the moment to play it:
		// leading the round, holding the dominant tile, or facing a field
		// too passive to contest. Big combos need the stronger guarantees.
		if c.Count >= b.tn.BigComboSize {
			if !ctx.HasLead && !(dominant && field != botinternal.FieldStrong) {
				continue
			}
		} else if !ctx.HasLead && !dominant && field != botinternal.FieldWeak {
			continue
		}
		comboPiles += c.Count
		viableCombos++
	}

	want := openers + comboPiles
	ceiling := b.tn.OpenerOnlyCeiling
	if viableCombos > 0 {
		ceiling = b.tn.ComboHandCeiling
	}
	if want > ceiling {
		want = ceiling
	}
	return legalDeclaration(want, viableCombos > 0 || strong >= 2, ctx)
}

func (b *PlannerBot) ChoosePlay(ctx PlayContext) []domain.Tile {
	if b.plan == nil || b.planRound != ctx.RoundNumber {
		plan := botinternal.BuildPlan(ctx.Hand, ctx.Declared, b.tn)
		b.plan = &plan
		b.planRound = ctx.RoundNumber
	}
	need := ctx.Declared - ctx.Captured

	if ctx.RequiredCount == 0 {
		return b.lead(ctx.Hand, need)
	}
	return b.respond(ctx, need)
}

// lead spends openers while piles are still owed, smallest sufficient first,
// and sheds the weakest tile once the target is met.
func (b *PlannerBot) lead(hand []domain.Tile, need int) []domain.Tile {
	if need <= 0 {
		return b.plan.Disposal(hand, 1)
	}

	var oversized *domain.Combo
	for i := range b.plan.Openers {
		c := b.plan.Openers[i]
		if !domain.ContainsTiles(hand, c.Tiles) {
			continue
		}
		if c.Count <= need {
			return c.Tiles
		}
		if oversized == nil {
			oversized = &b.plan.Openers[i]
		}
	}
	if oversized != nil {
		// Overshooting costs less than missing the target outright.
		return oversized.Tiles
	}
	return []domain.Tile{highestSingle(hand)}
}

// respond wins the trick with the cheapest sufficient combo while piles are
// owed and the trick would not overshoot; otherwise it concedes burden.
func (b *PlannerBot) respond(ctx PlayContext, need int) []domain.Tile {
	if need > 0 && ctx.RequiredCount <= need {
		candidates := botinternal.CombosOfSize(ctx.Hand, ctx.RequiredCount)
		incumbent := ctx.Trick[domain.BestPlay(ctx.Trick)].Combo
		if c, ok := botinternal.CheapestBeating(candidates, incumbent); ok {
			return c.Tiles
		}
	}
	return b.plan.Disposal(ctx.Hand, ctx.RequiredCount)
}

// AcceptRedeal trades a weak hand away unless the stakes are already high or
// the weak hand hides a big combo worth keeping.
func (b *PlannerBot) AcceptRedeal(ctx RedealContext) bool {
	if ctx.Multiplier >= b.tn.MaxRedealMultiplier {
		return false
	}
	part := botinternal.BestPartition(ctx.Hand)
	for _, c := range part.Combos {
		if c.Count >= b.tn.BigComboSize {
			return false
		}
	}
	return true
}
