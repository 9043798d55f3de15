package models

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// RatePlanTable maps plan names to fixed per-second rates. Built once at
// startup and immutable afterwards; resolving an unknown plan name yields
// the fallback rate, never an error.
type RatePlanTable struct {
	rates    map[string]decimal.Decimal
	fallback decimal.Decimal
	names    []string
}

// DefaultRatePlans returns the built-in tariff set.
func DefaultRatePlans() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"Standard": decimal.RequireFromString("0.05"),
		"Premium":  decimal.RequireFromString("0.03"),
		"Business": decimal.RequireFromString("0.08"),
	}
}

// NewRatePlanTable builds a table from plan rates and the name of the plan
// whose rate serves as fallback for unknown names.
func NewRatePlanTable(rates map[string]decimal.Decimal, fallbackPlan string) (*RatePlanTable, error) {
	if len(rates) == 0 {
		return nil, fmt.Errorf("rate plan table must not be empty")
	}

	table := &RatePlanTable{
		rates: make(map[string]decimal.Decimal, len(rates)),
		names: make([]string, 0, len(rates)),
	}
	for name, rate := range rates {
		if !rate.IsPositive() {
			return nil, fmt.Errorf("rate for plan %q must be positive", name)
		}
		table.rates[name] = rate
		table.names = append(table.names, name)
	}
	sort.Strings(table.names)

	fallback, ok := table.rates[fallbackPlan]
	if !ok {
		return nil, fmt.Errorf("fallback plan %q is not in the table", fallbackPlan)
	}
	table.fallback = fallback

	return table, nil
}

var ratePlans = func() *RatePlanTable {
	t, err := NewRatePlanTable(DefaultRatePlans(), "Standard")
	if err != nil {
		panic(err)
	}
	return t
}()

// ConfigureRatePlans installs the process-wide table. Called once during
// bootstrap, before any call is logged.
func ConfigureRatePlans(table *RatePlanTable) {
	if table != nil {
		ratePlans = table
	}
}

// RatePlans returns the process-wide table.
func RatePlans() *RatePlanTable {
	return ratePlans
}

// ResolveRate returns the per-second rate for a plan name, falling back to
// the designated default rate for unrecognized names.
func (t *RatePlanTable) ResolveRate(plan string) decimal.Decimal {
	if rate, ok := t.rates[plan]; ok {
		return rate
	}
	return t.fallback
}

// ComputeCost prices a call: durationSec × resolved rate, rounded to two
// decimal places. Callers validate durationSec > 0 at the boundary.
func (t *RatePlanTable) ComputeCost(durationSec int64, plan string) decimal.Decimal {
	return t.ResolveRate(plan).Mul(decimal.NewFromInt(durationSec)).Round(2)
}

// Known reports whether the plan name is part of the configured set.
func (t *RatePlanTable) Known(plan string) bool {
	_, ok := t.rates[plan]
	return ok
}

// Names returns the plan names in sorted order, for option lists.
func (t *RatePlanTable) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}
