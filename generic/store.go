/*
store.go - Persistence interfaces for parameters and the calculation log

PURPOSE:
  Defines the interface between the API layer and the database. Engines
  never touch a store: the API reads parameter records, converts them to
  engine parameters through the factory, and records each calculation.

KEY INTERFACES:
  ParameterStore: Admin-editable calculator parameters (CRUD + atomic reset)
  CalculationLog: Usage counters behind the admin dashboard
  PresetTracker:  Which jurisdiction preset is currently applied
  Store:          Everything above, what the API depends on

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - generic/store/memory.go: In-memory for testing

EXAMPLE:
  records, err := store.ListParameters(ctx, generic.ParameterFilter{
      Category:   generic.CategoryCompensation,
      ActiveOnly: true,
  })

SEE ALSO:
  - factory/parameters.go: Records to engine parameters
  - api/handlers.go: Store consumer
*/
package generic

import (
	"context"
	"time"
)

// =============================================================================
// PARAMETER STORE
// =============================================================================

// ParameterFilter narrows ListParameters. Zero value lists everything.
type ParameterFilter struct {
	Category   Category
	ActiveOnly bool
}

// Matches reports whether p passes the filter.
func (f ParameterFilter) Matches(p Parameter) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.ActiveOnly && !p.IsActive {
		return false
	}
	return true
}

// ParameterStore persists calculator parameters.
type ParameterStore interface {
	// ListParameters returns records matching filter, ordered by category then key.
	ListParameters(ctx context.Context, filter ParameterFilter) ([]Parameter, error)

	// GetParameter returns ErrParameterNotFound when id does not exist.
	GetParameter(ctx context.Context, id string) (*Parameter, error)

	// SaveParameter inserts a new record. Returns ErrDuplicateParameterKey
	// when another record already uses p.Key.
	SaveParameter(ctx context.Context, p Parameter) error

	// UpdateParameter overwrites the record with p.ID.
	UpdateParameter(ctx context.Context, p Parameter) error

	// DeleteParameter removes the record. Returns ErrParameterNotFound when absent.
	DeleteParameter(ctx context.Context, id string) error

	// ReplaceParameters purges every record and inserts ps atomically.
	ReplaceParameters(ctx context.Context, ps []Parameter) error
}

// =============================================================================
// CALCULATION LOG
// =============================================================================

// CalculationLog records each calculation for usage statistics.
// Inputs are not stored.
type CalculationLog interface {
	RecordCalculation(ctx context.Context, kind CalculatorKind, calculated bool, at time.Time) error
	CalculationStats(ctx context.Context) (CalculationStats, error)
}

// =============================================================================
// PRESET TRACKER
// =============================================================================

// PresetTracker remembers the last applied preset.
type PresetTracker interface {
	SetActivePreset(ctx context.Context, id string, at time.Time) error
	// ActivePreset returns "" when no preset was ever applied.
	ActivePreset(ctx context.Context) (string, error)
}

// Store is the full persistence surface used by the API.
type Store interface {
	ParameterStore
	CalculationLog
	PresetTracker
}
