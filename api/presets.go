/*
presets.go - Jurisdiction preset endpoints

PURPOSE:
  Lets an admin switch every statutory figure at once: loading a preset
  replaces the parameter table with the preset's values (registered defaults for
  keys it does not mention), records it as active and reloads the cache.

AVAILABLE PRESETS:
  Built in: tr-2024-h1, tr-2024-h2, tr-2025-h1, tr-2025-h2
  Plus every *.toml file in presets.dir (see factory/presets.go)

USAGE VIA API:
  POST /api/admin/presets/load
  {"preset_id": "tr-2025-h2"}

NOTE:
  Loading a preset discards manual edits to the parameter table.

SEE ALSO:
  - factory/presets.go: Preset definitions and catalog
  - scheduler.go: Automatic preset advance
*/
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hukukrehberi/calc-engine/factory"
	"github.com/hukukrehberi/calc-engine/generic"
	"go.uber.org/zap"
)

// ListPresets returns every known preset, oldest first.
func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	active, err := h.Store.ActivePreset(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read active preset", err)
		return
	}

	presets := h.Catalog.List()
	dtos := make([]PresetDTO, len(presets))
	for i, p := range presets {
		dtos[i] = toPresetDTO(p, active)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCurrentPreset returns the active preset, or null when none was applied.
func (h *Handler) GetCurrentPreset(w http.ResponseWriter, r *http.Request) {
	active, err := h.Store.ActivePreset(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read active preset", err)
		return
	}
	if active == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	p, err := h.Catalog.Get(active)
	if err != nil {
		// Applied from a file that has since been removed
		writeJSON(w, http.StatusOK, PresetDTO{ID: active, Name: active, Active: true})
		return
	}
	writeJSON(w, http.StatusOK, toPresetDTO(p, active))
}

// LoadPreset applies a preset chosen by the admin.
func (h *Handler) LoadPreset(w http.ResponseWriter, r *http.Request) {
	var req LoadPresetRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	p, err := h.ApplyPreset(r.Context(), req.PresetID, "admin")
	if err != nil {
		writeStoreError(w, fmt.Sprintf("Failed to load preset %s", req.PresetID), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "loaded",
		"preset": toPresetDTO(p, p.ID),
	})
}

// ApplyPreset replaces the parameter table with the preset and reloads the cache.
func (h *Handler) ApplyPreset(ctx context.Context, id, trigger string) (factory.Preset, error) {
	p, err := h.Catalog.Get(id)
	if err != nil {
		return factory.Preset{}, err
	}

	now := h.now()
	if err := h.Store.ReplaceParameters(ctx, p.Records(now)); err != nil {
		return factory.Preset{}, fmt.Errorf("replace parameters: %w", err)
	}
	if err := h.Store.SetActivePreset(ctx, p.ID, now); err != nil {
		return factory.Preset{}, fmt.Errorf("record active preset: %w", err)
	}
	if err := h.LoadParameters(ctx); err != nil {
		return factory.Preset{}, err
	}

	h.Metrics.presetsApplied.WithLabelValues(p.ID, trigger).Inc()
	h.Logger.Info("preset applied",
		zap.String("preset", p.ID),
		zap.String("trigger", trigger),
		zap.Time("effective_from", p.EffectiveFrom),
	)
	return p, nil
}

// EnsureParameters seeds an empty parameter table on first start and loads
// the cache. preferred is used when set; otherwise the preset in effect
// today, falling back to the default preset.
func (h *Handler) EnsureParameters(ctx context.Context, preferred string) error {
	existing, err := h.Store.ListParameters(ctx, generic.ParameterFilter{})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return h.LoadParameters(ctx)
	}

	id := preferred
	if id == "" {
		id = factory.DefaultPresetID
		if current, ok := h.Catalog.Current(h.now()); ok {
			id = current.ID
		}
	}
	_, err = h.ApplyPreset(ctx, id, "seed")
	return err
}
