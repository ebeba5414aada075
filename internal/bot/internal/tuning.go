package internal

// Tuning collects every threshold the strategies consult. Keeping them in one
// struct makes strategy behavior adjustable without touching decision code.
type Tuning struct {
	// Field inference.
	UnknownDeclarationPrior float64 // assumed declaration for seats yet to declare
	WeakFieldAverage        float64 // at or below: the field is weak
	StrongFieldAverage      float64 // at or above: the field is strong

	// Opener classification.
	StrongOpenerPoints    int // a single strictly above this wins most tricks
	MarginalOpenerPoints  int // a single strictly above this can win weak fields
	OpenerRedundancyBonus int // extra expected pile for holding two or more strong openers

	// Combo viability.
	BigComboSize int // combos this size or larger need the lead or a dominant tile

	// Declaration ceilings.
	OpenerOnlyCeiling int // max declaration backed by strong singles alone
	ComboHandCeiling  int // max declaration even with combos in hand

	// Plan shape.
	ReserveSize int // weakest tiles held back for deliberately losing leads

	// Redeal.
	MaxRedealMultiplier int // decline redeals once the multiplier reaches this
}
