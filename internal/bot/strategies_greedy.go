package bot

import (
	botinternal "liap/internal/bot/internal"
	"liap/internal/domain"
)

// GreedyBot declares what its high tiles suggest and chases tricks tile by
// tile, with no hand plan. It is the baseline opponent.
type GreedyBot struct {
	tn botinternal.Tuning
}

func (b *GreedyBot) Declare(ctx DeclareContext) int {
	want := botinternal.CountStrongOpeners(ctx.Hand, b.tn)
	return legalDeclaration(want, want >= 2, ctx)
}

func (b *GreedyBot) ChoosePlay(ctx PlayContext) []domain.Tile {
	need := ctx.Declared - ctx.Captured

	if ctx.RequiredCount == 0 {
		if need > 0 {
			return []domain.Tile{highestSingle(ctx.Hand)}
		}
		return []domain.Tile{lowestSingle(ctx.Hand)}
	}

	if need > 0 {
		candidates := botinternal.CombosOfSize(ctx.Hand, ctx.RequiredCount)
		incumbent := ctx.Trick[domain.BestPlay(ctx.Trick)].Combo
		if c, ok := botinternal.CheapestBeating(candidates, incumbent); ok {
			return c.Tiles
		}
	}
	return botinternal.LowestTiles(ctx.Hand, ctx.RequiredCount)
}

func (b *GreedyBot) AcceptRedeal(ctx RedealContext) bool {
	return ctx.Multiplier < b.tn.MaxRedealMultiplier
}
