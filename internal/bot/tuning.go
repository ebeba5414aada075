package bot

import botinternal "liap/internal/bot/internal"

// DefaultTuning balances declaration ambition against the penalty for
// missing. Thresholds are in tile points; a crane (11) is the weakest single
// counted as a reliable opener.
var DefaultTuning = botinternal.Tuning{
	UnknownDeclarationPrior: 1.0,
	WeakFieldAverage:        0.5,
	StrongFieldAverage:      1.5,

	StrongOpenerPoints:    10,
	MarginalOpenerPoints:  8,
	OpenerRedundancyBonus: 1,

	BigComboSize: 4,

	OpenerOnlyCeiling: 4,
	ComboHandCeiling:  6,

	ReserveSize: 2,

	MaxRedealMultiplier: 3,
}
