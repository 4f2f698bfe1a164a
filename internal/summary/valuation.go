// Package summary implements the financial aggregation engine: it turns a
// snapshot of ledger entries into the multi-dimensional dashboard summary
// (category totals, budget comparisons, trends, breakdowns and derived
// metrics).
//
// This file implements the Strategy Pattern for entry valuation. Which
// amount an entry contributes to a sum is a policy decision, not an
// accounting rule, so each policy is its own strategy selected by name.
package summary

import (
	"fmt"

	"ledgerboard/internal/core"
)

// ValuationMode names a valuation strategy in configuration.
type ValuationMode string

const (
	// ValuationEffective uses the recorded actual when the entry status
	// is "actual" and the amount is non-zero, falling back to the budget
	// otherwise. A not-yet-realized forecast still contributes a planning
	// figure. This is the planning-dashboard default.
	ValuationEffective ValuationMode = "effective"

	// ValuationActuals always uses the recorded actual, zero or not.
	// Appropriate for a closed-books view.
	ValuationActuals ValuationMode = "actuals"
)

// Valuator is the strategy interface: it decides which amount a ledger
// entry contributes to actual-side sums.
type Valuator interface {
	// Value returns the amount the entry contributes.
	Value(row core.EntryRow) core.Money
}

// EffectiveValuator implements the actual-with-budget-fallback policy.
type EffectiveValuator struct{}

func (EffectiveValuator) Value(row core.EntryRow) core.Money {
	if row.Status == core.StatusActual && !row.Actual.IsZero() {
		return row.Actual
	}
	return row.Budget
}

// ActualsValuator implements the strict actuals-only policy.
type ActualsValuator struct{}

func (ActualsValuator) Value(row core.EntryRow) core.Money {
	return row.Actual
}

var valuationStrategies = map[ValuationMode]Valuator{
	ValuationEffective: EffectiveValuator{},
	ValuationActuals:   ActualsValuator{},
}

// GetValuator returns the strategy for a configured mode.
func GetValuator(mode ValuationMode) (Valuator, error) {
	v, ok := valuationStrategies[mode]
	if !ok {
		return nil, fmt.Errorf("unknown valuation mode: %s", mode)
	}
	return v, nil
}
