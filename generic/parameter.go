/*
parameter.go - Parameter spec registration, lookup and validation

PURPOSE:
  Provides a registry for calculator packages to describe the parameters
  they read. The admin API uses it to reject unknown keys and out-of-range
  values, and to re-seed the parameter table with defaults.

HOW IT WORKS:
  1. Calculator packages declare a ParameterSpec per key
  2. They register the specs from init()
  3. Store seeding, factory conversion and admin validation look specs up

USAGE:
  // In compensation/parameters.go
  func init() {
      generic.RegisterParameter(generic.ParameterSpec{Key: KeySeveranceCap, ...})
  }

  // In api
  if err := generic.ValidateParameter(key, category, value); err != nil { ... }

SEE ALSO:
  - types.go: Parameter record type
  - compensation/parameters.go, sentence/parameters.go: Registered specs
*/
package generic

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// PARAMETER SPEC
// =============================================================================

// ParameterSpec describes one parameter a calculator reads.
// Min and Max are inclusive; an invalid NullDecimal means unbounded.
type ParameterSpec struct {
	Key         string
	Category    Category
	Name        string
	Description string
	Unit        string
	Default     decimal.Decimal
	Min         decimal.NullDecimal
	Max         decimal.NullDecimal
	Order       int // display order within the category
}

// Bound is a convenience for building Min/Max.
func Bound(v float64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromFloat(v))
}

// Check validates value against the spec range.
func (s ParameterSpec) Check(value decimal.Decimal) error {
	if s.Min.Valid && value.LessThan(s.Min.Decimal) {
		return &ParameterRangeError{Key: s.Key, Value: value, Min: s.Min, Max: s.Max}
	}
	if s.Max.Valid && value.GreaterThan(s.Max.Decimal) {
		return &ParameterRangeError{Key: s.Key, Value: value, Min: s.Min, Max: s.Max}
	}
	return nil
}

// Record builds a fresh active record holding the spec default.
func (s ParameterSpec) Record(now time.Time) Parameter {
	return Parameter{
		ID:          uuid.NewString(),
		Key:         s.Key,
		Name:        s.Name,
		Value:       s.Default,
		Description: s.Description,
		Category:    s.Category,
		Unit:        s.Unit,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// =============================================================================
// PARAMETER REGISTRY
// =============================================================================

var (
	parameterRegistry = make(map[string]ParameterSpec)
	registryMu        sync.RWMutex
)

// RegisterParameter adds a spec to the global registry.
// Call this from calculator package init() functions.
func RegisterParameter(spec ParameterSpec) {
	registryMu.Lock()
	defer registryMu.Unlock()
	parameterRegistry[spec.Key] = spec
}

// LookupParameter finds a registered spec by key.
func LookupParameter(key string) (ParameterSpec, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	spec, ok := parameterRegistry[key]
	return spec, ok
}

// MustLookupParameter finds a registered spec or panics.
// Use in tests or when you're certain the key exists.
func MustLookupParameter(key string) ParameterSpec {
	spec, ok := LookupParameter(key)
	if !ok {
		panic(fmt.Sprintf("parameter not registered: %s", key))
	}
	return spec
}

// ListParameterSpecs returns the specs of a category in display order.
// An empty category returns every spec.
func ListParameterSpecs(category Category) []ParameterSpec {
	registryMu.RLock()
	defer registryMu.RUnlock()
	var result []ParameterSpec
	for _, s := range parameterRegistry {
		if category == "" || s.Category == category {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Category != result[j].Category {
			return result[i].Category < result[j].Category
		}
		if result[i].Order != result[j].Order {
			return result[i].Order < result[j].Order
		}
		return result[i].Key < result[j].Key
	})
	return result
}

// ValidateParameter checks a key/category/value triple against the registry.
func ValidateParameter(key string, category Category, value decimal.Decimal) error {
	spec, ok := LookupParameter(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParameter, key)
	}
	if category != "" && category != spec.Category {
		return fmt.Errorf("%w: %s belongs to %s, not %s", ErrCategoryMismatch, key, spec.Category, category)
	}
	return spec.Check(value)
}

// DefaultParameterRecords returns one default record per registered spec of
// the category (all categories when empty).
func DefaultParameterRecords(category Category, now time.Time) []Parameter {
	specs := ListParameterSpecs(category)
	records := make([]Parameter, len(specs))
	for i, s := range specs {
		records[i] = s.Record(now)
	}
	return records
}
