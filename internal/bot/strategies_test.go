package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liap/internal/domain"
)

func tile(k domain.Kind, c domain.Color) domain.Tile {
	return domain.Tile{Kind: k, Color: c}
}

// Three fish, a red run, a dragon and a hare.
func structuredHand() []domain.Tile {
	return []domain.Tile{
		tile(domain.Fish, domain.Red),
		tile(domain.Fish, domain.Red),
		tile(domain.Fish, domain.Red),
		tile(domain.Fox, domain.Red),
		tile(domain.Serpent, domain.Red),
		tile(domain.Crane, domain.Red),
		tile(domain.Dragon, domain.Black),
		tile(domain.Hare, domain.Black),
	}
}

func TestLegalDeclaration(t *testing.T) {
	rules := domain.DeclarationRules{ForbidExactTotal: true}

	t.Run("weak hands step down around a forbidden total", func(t *testing.T) {
		ctx := DeclareContext{Prior: []int{2, 3, 2}, IsLast: true, Rules: rules}
		assert.Equal(t, 0, legalDeclaration(1, false, ctx))
	})

	t.Run("strong hands step up around a forbidden total", func(t *testing.T) {
		ctx := DeclareContext{Prior: []int{2, 3, 2}, IsLast: true, Rules: rules}
		assert.Equal(t, 2, legalDeclaration(1, true, ctx))
	})

	t.Run("steps up when zero is forbidden", func(t *testing.T) {
		ctx := DeclareContext{MustDeclareNonzero: true, Rules: rules}
		assert.Equal(t, 1, legalDeclaration(0, false, ctx))
	})

	t.Run("clamps out-of-range wants", func(t *testing.T) {
		ctx := DeclareContext{Rules: rules}
		assert.Equal(t, domain.MaxDeclaration, legalDeclaration(12, true, ctx))
	})
}

func TestGreedyDeclareCountsHighTiles(t *testing.T) {
	b, err := NewBrain(BotLevelGreedy)
	require.NoError(t, err)

	got := b.Declare(DeclareContext{Hand: structuredHand()})
	assert.Equal(t, 2, got, "crane and dragon are the only strong singles")
}

func TestPlannerDeclare(t *testing.T) {
	b, err := NewBrain(BotLevelPlanner)
	require.NoError(t, err)

	t.Run("combo hand declares to the combo ceiling", func(t *testing.T) {
		// Triple and run yield six piles, dragon one more; the ceiling caps
		// the total at six.
		got := b.Declare(DeclareContext{Hand: structuredHand(), Prior: []int{0, 0}})
		assert.Equal(t, 6, got)
	})

	t.Run("big combos only count with control", func(t *testing.T) {
		quintHand := []domain.Tile{
			tile(domain.Fish, domain.Red),
			tile(domain.Fish, domain.Red),
			tile(domain.Fish, domain.Red),
			tile(domain.Fish, domain.Red),
			tile(domain.Fish, domain.Red),
			tile(domain.Hare, domain.Black),
			tile(domain.Hare, domain.Red),
			tile(domain.Fox, domain.Black),
		}

		noLead := b.Declare(DeclareContext{Hand: quintHand})
		assert.Equal(t, 0, noLead, "a quint without the lead or a dominant tile earns nothing")

		withLead := b.Declare(DeclareContext{Hand: quintHand, HasLead: true, MustDeclareNonzero: true})
		assert.Equal(t, 5, withLead, "leading lets the quint cash")
	})

	t.Run("marginal singles earn one pile at most", func(t *testing.T) {
		marginalHand := []domain.Tile{
			tile(domain.Fox, domain.Red),
			tile(domain.Fox, domain.Black),
			tile(domain.Serpent, domain.Red),
			tile(domain.Serpent, domain.Black),
			tile(domain.Fish, domain.Red),
			tile(domain.Fish, domain.Black),
			tile(domain.Hare, domain.Red),
			tile(domain.Hare, domain.Black),
		}

		got := b.Declare(DeclareContext{Hand: marginalHand, Prior: []int{0, 0, 0}})
		assert.Equal(t, 1, got, "four marginal singles still promise only one pile")
	})

	t.Run("small combos need control against a strong field", func(t *testing.T) {
		comboHand := []domain.Tile{
			tile(domain.Fish, domain.Red),
			tile(domain.Fish, domain.Red),
			tile(domain.Fish, domain.Red),
			tile(domain.Hare, domain.Black),
			tile(domain.Hare, domain.Black),
			tile(domain.Fish, domain.Black),
			tile(domain.Hare, domain.Red),
			tile(domain.Fox, domain.Black),
		}

		got := b.Declare(DeclareContext{Hand: comboHand, Prior: []int{3, 3, 3}})
		assert.Equal(t, 0, got, "a triple and a pair are worthless without the lead, a dominant tile, or a weak field")
	})
}

func TestPlannerPlay(t *testing.T) {
	newPlanner := func(t *testing.T) Brain {
		b, err := NewBrain(BotLevelPlanner)
		require.NoError(t, err)
		return b
	}

	t.Run("leads the smallest sufficient opener while piles are owed", func(t *testing.T) {
		b := newPlanner(t)
		got := b.ChoosePlay(PlayContext{
			Hand:        structuredHand(),
			Declared:    4,
			RoundNumber: 1,
		})
		combo := domain.IdentifyCombo(got)
		assert.Equal(t, domain.ComboTriple, combo.Type)
	})

	t.Run("wins a needed trick with the cheapest beating single", func(t *testing.T) {
		b := newPlanner(t)
		incumbent := domain.TurnPlay{
			Seat:  1,
			Tiles: []domain.Tile{tile(domain.Serpent, domain.Black)},
			Combo: domain.IdentifyCombo([]domain.Tile{tile(domain.Serpent, domain.Black)}),
		}
		got := b.ChoosePlay(PlayContext{
			Hand:          structuredHand(),
			RequiredCount: 1,
			Trick:         []domain.TurnPlay{incumbent},
			Declared:      1,
			RoundNumber:   1,
		})
		require.Len(t, got, 1)
		assert.Equal(t, domain.Crane, got[0].Kind, "crane is the cheapest single above a serpent")
	})

	t.Run("concedes once the target is met", func(t *testing.T) {
		b := newPlanner(t)
		incumbent := domain.TurnPlay{
			Seat:  1,
			Tiles: []domain.Tile{tile(domain.Fish, domain.Black)},
			Combo: domain.IdentifyCombo([]domain.Tile{tile(domain.Fish, domain.Black)}),
		}
		got := b.ChoosePlay(PlayContext{
			Hand:          structuredHand(),
			RequiredCount: 1,
			Trick:         []domain.TurnPlay{incumbent},
			Declared:      1,
			Captured:      1,
			RoundNumber:   1,
		})
		require.Len(t, got, 1)
		assert.LessOrEqual(t, got[0].Points(), tile(domain.Hare, domain.Red).Points(),
			"a met target sheds junk, not winners")
	})
}

func TestRedealChoices(t *testing.T) {
	weakHand := []domain.Tile{
		tile(domain.Fish, domain.Red),
		tile(domain.Fish, domain.Black),
		tile(domain.Hare, domain.Red),
		tile(domain.Hare, domain.Black),
		tile(domain.Fox, domain.Red),
	}

	greedy, err := NewBrain(BotLevelGreedy)
	require.NoError(t, err)
	assert.True(t, greedy.AcceptRedeal(RedealContext{Hand: weakHand, Multiplier: 1}))
	assert.False(t, greedy.AcceptRedeal(RedealContext{Hand: weakHand, Multiplier: 3}),
		"high multipliers stop the redeal chain")

	planner, err := NewBrain(BotLevelPlanner)
	require.NoError(t, err)
	assert.True(t, planner.AcceptRedeal(RedealContext{Hand: weakHand, Multiplier: 1}))

	quintHand := []domain.Tile{
		tile(domain.Fish, domain.Red),
		tile(domain.Fish, domain.Red),
		tile(domain.Fish, domain.Red),
		tile(domain.Fish, domain.Red),
		tile(domain.Fish, domain.Red),
		tile(domain.Hare, domain.Black),
	}
	assert.False(t, planner.AcceptRedeal(RedealContext{Hand: quintHand, Multiplier: 1}),
		"a hidden quint is worth keeping")
}

func TestParseBotLevel(t *testing.T) {
	level, err := ParseBotLevel("planner")
	require.NoError(t, err)
	assert.Equal(t, BotLevelPlanner, level)

	_, err = ParseBotLevel("psychic")
	assert.Error(t, err)
}
