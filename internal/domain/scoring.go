package domain

// Scoring table. Exact matches pay the declared count plus a bonus, scaled by
// the round's redeal multiplier; misses pay the distance as a penalty on the
// same scale.
const (
	ExactMatchBonus      = 5
	ZeroDeclarationBonus = 3

	// DefaultWinThreshold ends the game once any total score reaches it.
	DefaultWinThreshold = 50
)

// ScoreRound returns the score delta for one seat's round.
func ScoreRound(declared, captured, multiplier int) int {
	if declared == captured {
		if declared == 0 {
			return ZeroDeclarationBonus * multiplier
		}
		return (declared + ExactMatchBonus) * multiplier
	}
	diff := declared - captured
	if diff < 0 {
		diff = -diff
	}
	return -diff * multiplier
}
