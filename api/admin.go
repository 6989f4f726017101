package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hukukrehberi/calc-engine/factory"
	"github.com/hukukrehberi/calc-engine/generic"
	"go.uber.org/zap"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeRequest decodes a JSON body and runs its validate tags.
func decodeRequest(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		return err
	}
	return validate.Struct(v)
}

// =============================================================================
// AUTH HANDLERS
// =============================================================================

// Login exchanges admin credentials for a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	token, expiresAt, err := h.Auth.Login(req.Username, req.Password)
	if err != nil {
		h.Logger.Warn("admin login failed", zap.String("username", req.Username))
		unauthorized(w, err)
		return
	}

	h.Logger.Info("admin login", zap.String("username", req.Username))
	writeJSON(w, http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   formatTimestamp(expiresAt),
		Username:    req.Username,
	})
}

// Me returns the authenticated admin.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		unauthorized(w, generic.ErrUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"username": claims.Username,
		"role":     claims.Role,
	})
}

// =============================================================================
// PARAMETER ADMIN HANDLERS
// =============================================================================

// ListParameters returns every parameter, active or not.
func (h *Handler) ListParameters(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListParameters(r.Context(), generic.ParameterFilter{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list calculator parameters", err)
		return
	}
	writeJSON(w, http.StatusOK, toParameterDTOs(records))
}

// CreateParameter adds a record for a registered key.
func (h *Handler) CreateParameter(w http.ResponseWriter, r *http.Request) {
	var req CreateParameterRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	category := generic.Category(req.Category)
	if err := generic.ValidateParameter(req.Key, category, req.Value); err != nil {
		writeStoreError(w, "Invalid calculator parameter", err)
		return
	}
	spec := generic.MustLookupParameter(req.Key)

	now := h.now()
	p := generic.Parameter{
		ID:          uuid.NewString(),
		Key:         req.Key,
		Name:        firstNonEmpty(req.Name, spec.Name),
		Value:       req.Value,
		Description: firstNonEmpty(req.Description, spec.Description),
		Category:    category,
		Unit:        firstNonEmpty(req.Unit, spec.Unit),
		IsActive:    req.IsActive == nil || *req.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.Store.SaveParameter(r.Context(), p); err != nil {
		writeStoreError(w, "Failed to create calculator parameter", err)
		return
	}
	h.reloadAfterWrite(r.Context())

	h.Logger.Info("parameter created", zap.String("key", p.Key), zap.String("value", p.Value.String()))
	writeJSON(w, http.StatusCreated, toParameterDTO(p))
}

// UpdateParameter applies a partial update.
func (h *Handler) UpdateParameter(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateParameterRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	existing, err := h.Store.GetParameter(r.Context(), id)
	if err != nil {
		writeStoreError(w, "Calculator parameter not found", err)
		return
	}

	p := *existing
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Value != nil {
		p.Value = *req.Value
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Category != nil {
		p.Category = generic.Category(*req.Category)
	}
	if req.Unit != nil {
		p.Unit = *req.Unit
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := generic.ValidateParameter(p.Key, p.Category, p.Value); err != nil {
		writeStoreError(w, "Invalid calculator parameter", err)
		return
	}
	p.UpdatedAt = h.now()

	if err := h.Store.UpdateParameter(r.Context(), p); err != nil {
		writeStoreError(w, "Failed to update calculator parameter", err)
		return
	}
	h.reloadAfterWrite(r.Context())

	h.Logger.Info("parameter updated",
		zap.String("key", p.Key),
		zap.String("old_value", existing.Value.String()),
		zap.String("new_value", p.Value.String()),
		zap.Bool("active", p.IsActive),
	)
	writeJSON(w, http.StatusOK, toParameterDTO(p))
}

// DeleteParameter removes a record; the engines fall back to the default.
func (h *Handler) DeleteParameter(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Store.DeleteParameter(r.Context(), id); err != nil {
		writeStoreError(w, "Calculator parameter not found", err)
		return
	}
	h.reloadAfterWrite(r.Context())

	h.Logger.Info("parameter deleted", zap.String("id", id))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Calculator parameter deleted successfully"})
}

// ResetParameters purges the table and re-seeds the registered defaults.
func (h *Handler) ResetParameters(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := h.now()
	records := generic.DefaultParameterRecords("", now)

	if err := h.Store.ReplaceParameters(ctx, records); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset calculator parameters", err)
		return
	}
	if err := h.Store.SetActivePreset(ctx, factory.DefaultPresetID, now); err != nil {
		h.Logger.Warn("failed to record active preset", zap.Error(err))
	}
	h.reloadAfterWrite(ctx)

	h.Logger.Info("parameters reset", zap.Int("count", len(records)))
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Calculator parameters reset to defaults",
		"count":   len(records),
	})
}

// =============================================================================
// STATS
// =============================================================================

// Stats returns calculator usage for the admin dashboard.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.Store.CalculationStats(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load statistics", err)
		return
	}
	records, err := h.Store.ListParameters(ctx, generic.ParameterFilter{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load statistics", err)
		return
	}
	active, err := h.Store.ActivePreset(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load statistics", err)
		return
	}

	dto := StatsDTO{
		TotalCalculations: stats.Total,
		ByCalculator:      make(map[string]int, len(stats.ByKind)),
		NoResult:          stats.NoResult,
		ActivePreset:      active,
		ParameterCount:    len(records),
	}
	for kind, n := range stats.ByKind {
		dto.ByCalculator[string(kind)] = n
	}
	if stats.LastAt != nil {
		dto.LastCalculatedAt = formatTimestamp(*stats.LastAt)
	}
	writeJSON(w, http.StatusOK, dto)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "Request body too large", nil)
		return
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}
	writeError(w, http.StatusBadRequest, "Invalid request body", err)
}
