package domain

import (
	"errors"
	"testing"
)

func TestValidateDeclaration(t *testing.T) {
	rules := DeclarationRules{ForbidExactTotal: true}

	tests := []struct {
		name        string
		value       int
		prior       []int
		isLast      bool
		mustNonzero bool
		wantRule    string // empty means accept
	}{
		{name: "in range accepted", value: 3, prior: []int{1}},
		{name: "zero accepted by default", value: 0, prior: []int{1, 2}},
		{name: "below range", value: -1, wantRule: RuleDeclarationRange},
		{name: "above range", value: 9, wantRule: RuleDeclarationRange},
		{name: "nonzero enforced", value: 0, mustNonzero: true, wantRule: RuleMustBeNonzero},
		{name: "last declarer completes eight", value: 1, prior: []int{2, 3, 2}, isLast: true, wantRule: RuleForbiddenTotal},
		{name: "last declarer below eight", value: 0, prior: []int{2, 3, 2}, isLast: true},
		{name: "last declarer above eight", value: 2, prior: []int{2, 3, 2}, isLast: true},
		{name: "non-last may complete eight", value: 1, prior: []int{2, 3, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDeclaration(tt.value, tt.prior, tt.isLast, tt.mustNonzero, rules)
			if tt.wantRule == "" {
				if err != nil {
					t.Fatalf("ValidateDeclaration rejected %d: %v", tt.value, err)
				}
				return
			}
			var violation *ConstraintViolationError
			if !errors.As(err, &violation) {
				t.Fatalf("error = %v, want ConstraintViolationError", err)
			}
			if violation.Rule != tt.wantRule {
				t.Errorf("rule = %q, want %q", violation.Rule, tt.wantRule)
			}
		})
	}
}

func TestValidateDeclarationTotalPermitted(t *testing.T) {
	// With the forbidden-total rule disabled the last declarer may complete
	// a sum of eight.
	err := ValidateDeclaration(1, []int{2, 3, 2}, true, false, DeclarationRules{})
	if err != nil {
		t.Fatalf("expected accept with rule disabled, got %v", err)
	}
}
