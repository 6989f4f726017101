/*
Package generic provides the calculator-agnostic building blocks.

PURPOSE:
  This package holds everything the calculators share but none of them own:
  parameter records as stored by the admin back-office, the registry that
  describes which parameters exist, input coercion for raw form values, the
  storage interfaces, and the error vocabulary.

KEY CONCEPTS IN THIS FILE (types.go):
  - Category: Which calculator a parameter belongs to (compensation, execution)
  - Parameter: An admin-editable, persisted parameter record
  - ParameterSet: The active values of a record set, keyed by parameter key
  - CalculatorKind: Which engine produced a calculation (for usage stats)

DESIGN PRINCIPLES:
  1. Precision: Values are decimal.Decimal, never float64
  2. Explicit configuration: Engines receive parameter values per call;
     nothing here is a hidden package-level default
  3. Domain agnostic: generic never imports a calculator package

USAGE:
  set := generic.NewParameterSet(records)
  cap := set.Decimal("severance_cap", decimal.NewFromInt(46655))

SEE ALSO:
  - parameter.go: Parameter spec registry and validation
  - coerce.go: Raw form value coercion
  - store.go: Persistence interfaces
*/
package generic

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CATEGORY - Which calculator a parameter feeds
// =============================================================================

type Category string

const (
	CategoryCompensation Category = "compensation"
	CategoryExecution    Category = "execution"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c == CategoryCompensation || c == CategoryExecution
}

// =============================================================================
// CALCULATOR KIND - Used by the calculation log
// =============================================================================

type CalculatorKind string

const (
	KindCompensation CalculatorKind = "compensation"
	KindSentence     CalculatorKind = "sentence"
)

// =============================================================================
// PARAMETER - Persisted, admin-editable value
// =============================================================================

// Parameter is a single calculator parameter as stored and edited by admins.
// Key ties the record to a registered ParameterSpec; Name is the display label.
type Parameter struct {
	ID          string
	Key         string
	Name        string
	Value       decimal.Decimal
	Description string
	Category    Category
	Unit        string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// =============================================================================
// PARAMETER SET - Active values by key
// =============================================================================

var (
	minInt32 = decimal.NewFromInt(math.MinInt32)
	maxInt32 = decimal.NewFromInt(math.MaxInt32)
)

// ParameterSet maps parameter keys to their active values.
// Inactive records never make it into a set.
type ParameterSet map[string]decimal.Decimal

// NewParameterSet builds a set from the active records. When a key appears
// more than once the last active record wins.
func NewParameterSet(records []Parameter) ParameterSet {
	set := make(ParameterSet, len(records))
	for _, r := range records {
		if !r.IsActive {
			continue
		}
		set[r.Key] = r.Value
	}
	return set
}

// Decimal returns the value for key, or fallback when absent.
func (s ParameterSet) Decimal(key string, fallback decimal.Decimal) decimal.Decimal {
	if v, ok := s[key]; ok {
		return v
	}
	return fallback
}

// Int returns the value for key truncated to an integer. fallback is used
// when the key is absent or the value does not fit in 32 bits.
func (s ParameterSet) Int(key string, fallback int) int {
	v, ok := s[key]
	if !ok {
		return fallback
	}
	v = v.Truncate(0)
	if v.LessThan(minInt32) || v.GreaterThan(maxInt32) {
		return fallback
	}
	return int(v.IntPart())
}

// =============================================================================
// CALCULATION STATS
// =============================================================================

// CalculationStats summarises the calculation log.
type CalculationStats struct {
	Total    int
	ByKind   map[CalculatorKind]int
	NoResult int // sentence calls that had nothing to calculate
	LastAt   *time.Time
}
