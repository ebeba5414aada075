package domain

import "fmt"

// Declaration bounds.
const (
	MinDeclaration = 0
	MaxDeclaration = 8
)

// Violated rule names carried by ConstraintViolationError.
const (
	RuleDeclarationRange = "declaration out of range"
	RuleMustBeNonzero    = "declaration must be nonzero"
	RuleForbiddenTotal   = "declarations may not total the pile count"
)

// ConstraintViolationError names the declaration rule a candidate value
// breaks.
type ConstraintViolationError struct {
	Rule  string
	Value int
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("declaration %d rejected: %s", e.Value, e.Rule)
}

// DeclarationRules toggles the optional declaration constraints for a round.
type DeclarationRules struct {
	// ForbidExactTotal blocks the last declarer from making the four
	// declarations sum to exactly TotalPiles, guaranteeing at least one seat
	// misses its target every round.
	ForbidExactTotal bool
}

// ValidateDeclaration is the single authority on declaration legality. Every
// component, bot strategies included, must route candidate values through it.
func ValidateDeclaration(value int, prior []int, isLast bool, mustNonzero bool, rules DeclarationRules) error {
	if value < MinDeclaration || value > MaxDeclaration {
		return &ConstraintViolationError{Rule: RuleDeclarationRange, Value: value}
	}
	if mustNonzero && value == 0 {
		return &ConstraintViolationError{Rule: RuleMustBeNonzero, Value: value}
	}
	if isLast && rules.ForbidExactTotal {
		sum := value
		for _, d := range prior {
			sum += d
		}
		if sum == TotalPiles {
			return &ConstraintViolationError{Rule: RuleForbiddenTotal, Value: value}
		}
	}
	return nil
}
