/*
handlers.go - HTTP API handlers for the legal calculators

PURPOSE:
  Exposes the compensation and sentence engines plus their admin-editable
  parameters via a REST API. Handles HTTP request/response and JSON, and
  delegates all arithmetic to the engine packages.

ENDPOINTS:
  Public:
    GET    /api/health                        Liveness + active preset
    GET    /api/calculator-parameters         Active parameters (?category=)
    POST   /api/calculate-compensation        Severance/notice/overtime/vacation
    POST   /api/calculate-sentence            Sentence execution breakdown
    POST   /api/calculate-execution           Alias of calculate-sentence

  Admin (bearer token, see auth.go):
    POST   /api/admin/login                   Obtain a token
    GET    /api/admin/me                      Token owner
    GET    /api/admin/calculator-parameters   All parameters
    POST   /api/admin/calculator-parameters   Create parameter
    PUT    /api/admin/calculator-parameters/{id}
    DELETE /api/admin/calculator-parameters/{id}
    POST   /api/admin/calculator-parameters/reset
    GET    /api/admin/stats                   Calculator usage
    GET    /api/admin/presets                 Jurisdiction presets
    GET    /api/admin/presets/current
    POST   /api/admin/presets/load

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: parameters, calculation log, active preset
  - Catalog: jurisdiction presets
  - Cached engine parameters, rebuilt after every parameter write

REQUEST FLOW (calculators):
  1. Decode the raw form (numbers or strings, see dto.go)
  2. Normalise through compensation.Form / sentence.Form
  3. Calculate with the cached parameters
  4. Record the calculation (log + metrics), never the inputs
  5. Serialize raw amounts plus localised display strings

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed body, unknown key, out-of-range value
  - 413: Body larger than 64 KiB
  - 401: Missing or invalid admin token
  - 404: Parameter or preset not found
  - 409: Duplicate parameter key
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - admin.go: Parameter CRUD and stats
  - presets.go: Preset application
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/hukukrehberi/calc-engine/compensation"
	"github.com/hukukrehberi/calc-engine/factory"
	"github.com/hukukrehberi/calc-engine/generic"
	"github.com/hukukrehberi/calc-engine/sentence"
	"go.uber.org/zap"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   generic.Store
	Catalog *factory.Catalog
	Auth    *Authenticator
	Metrics *Metrics
	Logger  *zap.Logger

	// Cached engine parameters, rebuilt by LoadParameters
	mu     sync.RWMutex
	params factory.Parameters

	now func() time.Time
}

// NewHandler creates a handler. Until LoadParameters runs the engines use
// the registered defaults.
func NewHandler(store generic.Store, catalog *factory.Catalog, auth *Authenticator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if catalog == nil {
		catalog = factory.NewCatalog()
	}
	return &Handler{
		Store:   store,
		Catalog: catalog,
		Auth:    auth,
		Metrics: NewMetrics(),
		Logger:  logger,
		params:  factory.FromRecords(nil),
		now:     time.Now,
	}
}

// LoadParameters rebuilds the parameter cache from the active records.
func (h *Handler) LoadParameters(ctx context.Context) error {
	records, err := h.Store.ListParameters(ctx, generic.ParameterFilter{ActiveOnly: true})
	if err != nil {
		return err
	}
	params := factory.FromRecords(records)

	h.mu.Lock()
	h.params = params
	h.mu.Unlock()

	h.Metrics.parameterReloads.Inc()
	h.Logger.Debug("parameters loaded", zap.Int("active_records", len(records)))
	return nil
}

// Parameters returns the cached engine parameters.
func (h *Handler) Parameters() factory.Parameters {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.params
}

// reloadAfterWrite refreshes the cache; a failure is logged, since the
// write itself already succeeded.
func (h *Handler) reloadAfterWrite(ctx context.Context) {
	if err := h.LoadParameters(ctx); err != nil {
		h.Logger.Error("failed to reload parameters", zap.Error(err))
	}
}

// =============================================================================
// HEALTH
// =============================================================================

type pinger interface {
	Ping(ctx context.Context) error
}

// Health reports liveness and the active preset.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.Store.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "Database unavailable", err)
			return
		}
	}
	active, err := h.Store.ActivePreset(r.Context())
	if err != nil {
		h.Logger.Warn("failed to read active preset", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":        "ok",
		"active_preset": active,
		"time":          h.now().UTC().Format(time.RFC3339),
	})
}

// =============================================================================
// PUBLIC PARAMETERS
// =============================================================================

// ListPublicParameters returns active parameters, optionally of one category.
func (h *Handler) ListPublicParameters(w http.ResponseWriter, r *http.Request) {
	filter := generic.ParameterFilter{ActiveOnly: true}
	if c := r.URL.Query().Get("category"); c != "" {
		filter.Category = generic.Category(c)
		if !filter.Category.Valid() {
			writeError(w, http.StatusBadRequest, "Unknown category", nil)
			return
		}
	}

	records, err := h.Store.ListParameters(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list calculator parameters", err)
		return
	}
	writeJSON(w, http.StatusOK, toParameterDTOs(records))
}

// =============================================================================
// CALCULATORS
// =============================================================================

// CalculateCompensation runs the compensation engine on a raw form.
func (h *Handler) CalculateCompensation(w http.ResponseWriter, r *http.Request) {
	var req CompensationRequest
	if err := decodeForm(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	in := req.Form().Normalize()
	res := compensation.Calculate(in, h.Parameters().Compensation)
	h.recordCalculation(r.Context(), generic.KindCompensation, true)

	writeJSON(w, http.StatusOK, toCompensationResponse(localeFromRequest(r), in, res))
}

// CalculateSentence runs the sentence engine on a raw form. A sentence that
// adds up to zero days answers {"calculated": false}.
func (h *Handler) CalculateSentence(w http.ResponseWriter, r *http.Request) {
	var req SentenceRequest
	if err := decodeForm(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	res, ok := sentence.Calculate(req.Form().Normalize(), h.Parameters().Sentence)
	h.recordCalculation(r.Context(), generic.KindSentence, ok)

	if !ok {
		writeJSON(w, http.StatusOK, SentenceResponse{Calculated: false})
		return
	}
	writeJSON(w, http.StatusOK, toSentenceResponse(localeFromRequest(r), res))
}

func (h *Handler) recordCalculation(ctx context.Context, kind generic.CalculatorKind, calculated bool) {
	h.Metrics.observeCalculation(string(kind), calculated)
	if err := h.Store.RecordCalculation(ctx, kind, calculated, h.now()); err != nil {
		h.Logger.Warn("failed to record calculation", zap.String("calculator", string(kind)), zap.Error(err))
	}
	h.Logger.Info("calculation",
		zap.String("calculator", string(kind)),
		zap.Bool("calculated", calculated),
	)
}

// =============================================================================
// HELPERS
// =============================================================================

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 64 << 10

// decodeForm decodes a calculator form. An empty body is an empty form.
func decodeForm(w http.ResponseWriter, r *http.Request, v any) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeStoreError maps domain errors to HTTP status codes.
func writeStoreError(w http.ResponseWriter, message string, err error) {
	switch {
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case generic.IsConflict(err):
		writeError(w, http.StatusConflict, message, err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
