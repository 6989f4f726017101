// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hukukrehberi/calc-engine/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu           sync.RWMutex
	parameters   map[string]generic.Parameter // by ID
	calculations []calculation
	activePreset string
}

type calculation struct {
	Kind       generic.CalculatorKind
	Calculated bool
	At         time.Time
}

var _ generic.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		parameters: make(map[string]generic.Parameter),
	}
}

func (m *Memory) ListParameters(_ context.Context, filter generic.ParameterFilter) ([]generic.Parameter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]generic.Parameter, 0, len(m.parameters))
	for _, p := range m.parameters {
		if filter.Matches(p) {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Category != result[j].Category {
			return result[i].Category < result[j].Category
		}
		return result[i].Key < result[j].Key
	})
	return result, nil
}

func (m *Memory) GetParameter(_ context.Context, id string) (*generic.Parameter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.parameters[id]
	if !ok {
		return nil, generic.ErrParameterNotFound
	}
	return &p, nil
}

// SaveParameter inserts p. Key uniqueness is checked under the write lock.
func (m *Memory) SaveParameter(_ context.Context, p generic.Parameter) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.keyTakenLocked(p.Key, p.ID) {
		return generic.ErrDuplicateParameterKey
	}
	m.parameters[p.ID] = p
	return nil
}

func (m *Memory) UpdateParameter(_ context.Context, p generic.Parameter) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.parameters[p.ID]; !ok {
		return generic.ErrParameterNotFound
	}
	if m.keyTakenLocked(p.Key, p.ID) {
		return generic.ErrDuplicateParameterKey
	}
	m.parameters[p.ID] = p
	return nil
}

func (m *Memory) DeleteParameter(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.parameters[id]; !ok {
		return generic.ErrParameterNotFound
	}
	delete(m.parameters, id)
	return nil
}

// ReplaceParameters swaps the whole table. On a duplicate key nothing changes.
func (m *Memory) ReplaceParameters(_ context.Context, ps []generic.Parameter) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make(map[string]generic.Parameter, len(ps))
	keys := make(map[string]bool, len(ps))
	for _, p := range ps {
		if keys[p.Key] {
			return generic.ErrDuplicateParameterKey
		}
		keys[p.Key] = true
		next[p.ID] = p
	}
	m.parameters = next
	return nil
}

func (m *Memory) keyTakenLocked(key, exceptID string) bool {
	for id, p := range m.parameters {
		if id != exceptID && p.Key == key {
			return true
		}
	}
	return false
}

// =============================================================================
// CALCULATION LOG
// =============================================================================

func (m *Memory) RecordCalculation(_ context.Context, kind generic.CalculatorKind, calculated bool, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calculations = append(m.calculations, calculation{Kind: kind, Calculated: calculated, At: at})
	return nil
}

func (m *Memory) CalculationStats(_ context.Context) (generic.CalculationStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := generic.CalculationStats{ByKind: make(map[generic.CalculatorKind]int)}
	for _, c := range m.calculations {
		stats.Total++
		stats.ByKind[c.Kind]++
		if !c.Calculated {
			stats.NoResult++
		}
		if stats.LastAt == nil || c.At.After(*stats.LastAt) {
			at := c.At
			stats.LastAt = &at
		}
	}
	return stats, nil
}

// =============================================================================
// PRESET TRACKER
// =============================================================================

func (m *Memory) SetActivePreset(_ context.Context, id string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activePreset = id
	return nil
}

func (m *Memory) ActivePreset(_ context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activePreset, nil
}
