/*
Package factory turns stored and file-based parameter definitions into the
values the calculation engines take.

PURPOSE:
  Statutory figures change by jurisdiction and by period: the severance cap
  in particular is re-announced every six months. A Preset bundles the values
  for one period; applying it rewrites the parameter table. Admins can still
  edit single records afterwards.

PRESET FILE (TOML):
  id = "tr-2026-h1"
  name = "Türkiye 2026 (1. yarı)"
  jurisdiction = "TR"
  effective_from = 2026-01-01

  [values]
  severance_cap = "64948.77"
  good_behavior_rate = 0.33

  Values may be strings, integers or floats. Strings are preferred for money
  so nothing passes through float64.

KEY FEATURES:
  - Built-in Turkish presets for 2024 and 2025
  - Files in a directory extend or override the built-ins by id
  - Every value is checked against the registered parameter specs
  - Records() fills keys a preset does not mention with spec defaults

USAGE:
  catalog, err := factory.LoadCatalog("./presets")
  preset, _ := catalog.Get("tr-2025-h2")
  err = store.ReplaceParameters(ctx, preset.Records(time.Now()))

SEE ALSO:
  - parameters.go: Records to engine parameters
  - generic/parameter.go: Spec registry used for validation
*/
package factory

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hukukrehberi/calc-engine/compensation"
	"github.com/hukukrehberi/calc-engine/generic"
	"github.com/shopspring/decimal"
)

// =============================================================================
// PRESET
// =============================================================================

// Preset is a named set of parameter values valid from a date.
type Preset struct {
	ID            string
	Name          string
	Description   string
	Jurisdiction  string
	EffectiveFrom time.Time
	Values        map[string]decimal.Decimal
}

// Validate checks every value against the registered specs.
func (p Preset) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: missing id", generic.ErrInvalidPreset)
	}
	for key, v := range p.Values {
		if err := generic.ValidateParameter(key, "", v); err != nil {
			return fmt.Errorf("%w: %s: %w", generic.ErrInvalidPreset, p.ID, err)
		}
	}
	return nil
}

// Records returns one active record per registered spec, holding the preset
// value where the preset has one and the spec default otherwise.
func (p Preset) Records(now time.Time) []generic.Parameter {
	records := generic.DefaultParameterRecords("", now)
	for i := range records {
		if v, ok := p.Values[records[i].Key]; ok {
			records[i].Value = v
		}
	}
	return records
}

// =============================================================================
// BUILT-IN PRESETS
// =============================================================================

// DefaultPresetID matches the engines' default parameters.
const DefaultPresetID = "tr-2025-h1"

func turkishHalfYear(id, name string, from time.Time, ceiling string) Preset {
	return Preset{
		ID:            id,
		Name:          name,
		Description:   "Kıdem tazminatı tavanı " + ceiling + " TL",
		Jurisdiction:  "TR",
		EffectiveFrom: from,
		Values: map[string]decimal.Decimal{
			compensation.KeySeveranceCap: decimal.RequireFromString(ceiling),
		},
	}
}

// BuiltinPresets returns the presets compiled into the binary.
func BuiltinPresets() []Preset {
	date := func(y int, m time.Month) time.Time { return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC) }
	return []Preset{
		turkishHalfYear("tr-2024-h1", "Türkiye 2024 (1. yarı)", date(2024, time.January), "35058.58"),
		turkishHalfYear("tr-2024-h2", "Türkiye 2024 (2. yarı)", date(2024, time.July), "41828.42"),
		turkishHalfYear("tr-2025-h1", "Türkiye 2025 (1. yarı)", date(2025, time.January), "46655.43"),
		turkishHalfYear("tr-2025-h2", "Türkiye 2025 (2. yarı)", date(2025, time.July), "53919.68"),
	}
}

// =============================================================================
// TOML PRESET FILES
// =============================================================================

type presetFile struct {
	ID            string         `toml:"id"`
	Name          string         `toml:"name"`
	Description   string         `toml:"description"`
	Jurisdiction  string         `toml:"jurisdiction"`
	EffectiveFrom time.Time      `toml:"effective_from"`
	Values        map[string]any `toml:"values"`
}

// ParsePreset decodes and validates a TOML preset.
func ParsePreset(r io.Reader) (Preset, error) {
	var pf presetFile
	if _, err := toml.NewDecoder(r).Decode(&pf); err != nil {
		return Preset{}, fmt.Errorf("%w: %w", generic.ErrInvalidPreset, err)
	}

	p := Preset{
		ID:            pf.ID,
		Name:          pf.Name,
		Description:   pf.Description,
		Jurisdiction:  pf.Jurisdiction,
		EffectiveFrom: pf.EffectiveFrom,
		Values:        make(map[string]decimal.Decimal, len(pf.Values)),
	}
	if p.Name == "" {
		p.Name = p.ID
	}
	for key, raw := range pf.Values {
		v, err := toDecimal(raw)
		if err != nil {
			return Preset{}, fmt.Errorf("%w: %s.%s: %w", generic.ErrInvalidPreset, pf.ID, key, err)
		}
		p.Values[key] = v
	}
	if err := p.Validate(); err != nil {
		return Preset{}, err
	}
	return p, nil
}

func toDecimal(raw any) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case string:
		return decimal.NewFromString(strings.TrimSpace(v))
	case int64:
		return decimal.NewFromInt(v), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	}
	return decimal.Zero, fmt.Errorf("unsupported value type %T", raw)
}

// LoadPresetDir parses every *.toml file in dir. A missing directory is not an error.
func LoadPresetDir(dir string) ([]Preset, error) {
	if dir == "" {
		return nil, nil
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.toml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	presets := make([]Preset, 0, len(paths))
	for _, path := range paths {
		p, err := parsePresetFile(path)
		if err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	return presets, nil
}

func parsePresetFile(path string) (Preset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Preset{}, err
	}
	defer f.Close()

	p, err := ParsePreset(f)
	if err != nil {
		return Preset{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return p, nil
}

// =============================================================================
// CATALOG
// =============================================================================

// Catalog indexes presets by id. It is read-only after construction.
type Catalog struct {
	presets map[string]Preset
}

// NewCatalog holds the built-ins plus extra; extra wins on id clashes.
func NewCatalog(extra ...Preset) *Catalog {
	c := &Catalog{presets: make(map[string]Preset)}
	for _, p := range BuiltinPresets() {
		c.presets[p.ID] = p
	}
	for _, p := range extra {
		c.presets[p.ID] = p
	}
	return c
}

// LoadCatalog builds a catalog from the built-ins and the files in dir.
func LoadCatalog(dir string) (*Catalog, error) {
	extra, err := LoadPresetDir(dir)
	if err != nil {
		return nil, err
	}
	return NewCatalog(extra...), nil
}

// Get returns ErrPresetNotFound for unknown ids.
func (c *Catalog) Get(id string) (Preset, error) {
	p, ok := c.presets[id]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %s", generic.ErrPresetNotFound, id)
	}
	return p, nil
}

// List returns presets oldest first.
func (c *Catalog) List() []Preset {
	out := make([]Preset, 0, len(c.presets))
	for _, p := range c.presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EffectiveFrom.Equal(out[j].EffectiveFrom) {
			return out[i].EffectiveFrom.Before(out[j].EffectiveFrom)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Current returns the most recent preset in effect at now.
func (c *Catalog) Current(now time.Time) (Preset, bool) {
	var (
		best  Preset
		found bool
	)
	for _, p := range c.List() {
		if p.EffectiveFrom.After(now) {
			break
		}
		best, found = p, true
	}
	return best, found
}
