/*
handlers_test.go - HTTP tests for the calculator and admin API

Tests for:
- Calculators over HTTP (raw form values, locales, no-result state)
- Public parameter listing and health
- Admin authentication
- Parameter CRUD, reset and the cache reload that follows each write
- Presets and stats
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hukukrehberi/calc-engine/compensation"
	"github.com/hukukrehberi/calc-engine/config"
	"github.com/hukukrehberi/calc-engine/factory"
	"github.com/hukukrehberi/calc-engine/generic"
	"github.com/hukukrehberi/calc-engine/generic/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

const (
	testAdmin    = "admin"
	testPassword = "s3cret-pass"
)

var testNow = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

type testServer struct {
	h      *Handler
	router http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	auth := NewAuthenticator(config.AuthConfig{
		JWTSecret:         "test-secret",
		Issuer:            "hukuk-calc",
		TokenTTL:          config.Duration{Duration: 30 * time.Minute},
		AdminUsername:     testAdmin,
		AdminPasswordHash: string(hash),
	})

	h := NewHandler(store.NewMemory(), factory.NewCatalog(), auth, zaptest.NewLogger(t))
	h.now = func() time.Time { return testNow }
	require.NoError(t, h.EnsureParameters(context.Background(), factory.DefaultPresetID))

	return &testServer{h: h, router: NewRouter(h, RouterConfig{})}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) login(t *testing.T) string {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/admin/login",
		LoginRequest{Username: testAdmin, Password: testPassword}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[LoginResponse](t, rec)
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func findParameter(t *testing.T, params []ParameterDTO, key string) ParameterDTO {
	t.Helper()
	for _, p := range params {
		if p.Key == key {
			return p
		}
	}
	t.Fatalf("parameter %s not found", key)
	return ParameterDTO{}
}

var referenceForm = map[string]any{
	"monthly_wage":       15000,
	"work_years":         "3",
	"work_months":        "",
	"overtime_hours":     100,
	"used_vacation_days": "40",
	"termination_type":   "employer",
}

// =============================================================================
// COMPENSATION
// =============================================================================

func TestCalculateCompensation_ReferenceScenario(t *testing.T) {
	// GIVEN: Default parameters
	ts := newTestServer(t)

	// WHEN: Posting the reference form with mixed number/string values
	rec := ts.do(t, http.MethodPost, "/api/calculate-compensation", referenceForm, "")

	// THEN: The exact breakdown comes back
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[CompensationResponse](t, rec)

	assert.Equal(t, "500", resp.DailyWage.Amount.String())
	assert.Equal(t, "45000", resp.SeverancePay.Amount.String())
	assert.False(t, resp.SeveranceCapped)
	assert.Equal(t, "45", resp.NoticeDays.String())
	assert.Equal(t, "22500", resp.NoticePay.Amount.String())
	assert.Equal(t, "10000", resp.OvertimePay.Amount.String())
	assert.Equal(t, "10000", resp.VacationPay.Amount.String())
	assert.Equal(t, "20", resp.UnusedVacationDays.String())
	assert.Equal(t, "87500", resp.TotalCompensation.Amount.String())
	assert.Equal(t, "₺87.500,00", resp.TotalCompensation.Display)
	assert.Equal(t, "20 gün", resp.UnusedVacation)
	assert.Equal(t, "employer", resp.Input.TerminationType)
}

func TestCalculateCompensation_AmountsAreJSONStrings(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/calculate-compensation", referenceForm, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.JSONEq(t, `{"amount": "87500", "display": "₺87.500,00"}`, string(raw["total_compensation"]))
}

func TestCalculateCompensation_EnglishLocale(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/calculate-compensation?lang=en", referenceForm, "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[CompensationResponse](t, rec)
	assert.Equal(t, "₺87,500.00", resp.TotalCompensation.Display)
	assert.Equal(t, "20 days", resp.UnusedVacation)
}

func TestCalculateCompensation_EmptyBodyIsZero(t *testing.T) {
	// GIVEN: A form submitted with nothing filled in
	ts := newTestServer(t)

	// WHEN: Posting no body at all
	rec := ts.do(t, http.MethodPost, "/api/calculate-compensation", nil, "")

	// THEN: Everything is zero and termination defaults to employer
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[CompensationResponse](t, rec)
	assert.True(t, resp.TotalCompensation.Amount.IsZero())
	assert.Equal(t, "employer", resp.Input.TerminationType)
}

func TestCalculateCompensation_GarbageValuesBecomeZero(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/calculate-compensation", map[string]any{
		"monthly_wage": "abc",
		"work_years":   "-3",
	}, "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[CompensationResponse](t, rec)
	assert.True(t, resp.Input.MonthlyWage.IsZero())
	assert.True(t, resp.Input.WorkYears.IsZero())
	assert.True(t, resp.TotalCompensation.Amount.IsZero())
}

func TestCalculateCompensation_ExponentWageIsZero(t *testing.T) {
	// GIVEN: A JSON number with a huge exponent
	ts := newTestServer(t)

	// WHEN: Posting it as the wage
	rec := ts.do(t, http.MethodPost, "/api/calculate-compensation",
		`{"monthly_wage": 1e5000000, "work_years": "3"}`, "")

	// THEN: The wage is treated as invalid input
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[CompensationResponse](t, rec)
	assert.True(t, resp.Input.MonthlyWage.IsZero())
	assert.True(t, resp.TotalCompensation.Amount.IsZero())
}

func TestCalculate_BodyTooLarge(t *testing.T) {
	ts := newTestServer(t)
	body := `{"monthly_wage":"` + strings.Repeat("1", 70_000) + `"}`

	for _, path := range []string{"/api/calculate-compensation", "/api/calculate-sentence"} {
		rec := ts.do(t, http.MethodPost, path, body, "")
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, path)
	}

	token := ts.login(t)
	rec := ts.do(t, http.MethodPost, "/api/admin/presets/load",
		`{"preset_id":"`+strings.Repeat("x", 70_000)+`"}`, token)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestCalculateCompensation_MalformedBody(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/calculate-compensation", `{"monthly_wage": {}}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/calculate-compensation", `{not json`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// SENTENCE
// =============================================================================

func TestCalculateSentence_GoodBehaviorThenOpenPrison(t *testing.T) {
	// GIVEN: 5 years, checkbox values sent as a string and a bool
	ts := newTestServer(t)

	// WHEN: Calculating
	rec := ts.do(t, http.MethodPost, "/api/calculate-sentence", map[string]any{
		"sentence_years":    "5",
		"has_good_behavior": "true",
		"wants_open_prison": true,
	}, "")

	// THEN: 602 / 611 / 612 with Turkish display strings
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[SentenceResponse](t, rec)

	require.True(t, resp.Calculated)
	assert.Equal(t, 1825, resp.TotalDays.Days)
	assert.Equal(t, 602, resp.GoodBehaviorDays.Days)
	assert.Equal(t, 611, resp.OpenPrisonDays.Days)
	assert.Equal(t, 0, resp.HomeDetentionDays.Days)
	assert.Equal(t, 612, resp.FinalPrisonDays.Days)
	assert.Equal(t, "1 yıl 8 ay 12 gün", resp.FinalPrisonDays.Display)

	require.Len(t, resp.Steps, 2)
	assert.Equal(t, "İyi hal indirimi", resp.Steps[0].Label)
	assert.Equal(t, 1223, resp.Steps[0].DaysRemaining.Days)
}

func TestCalculateSentence_EnglishDisplay(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/calculate-sentence",
		strings.NewReader(`{"sentence_years": 5, "has_good_behavior": "evet", "wants_open_prison": "on"}`))
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[SentenceResponse](t, rec)
	assert.Equal(t, "1 year 8 months 12 days", resp.FinalPrisonDays.Display)
}

func TestCalculateSentence_ZeroSentenceIsNotCalculated(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/calculate-sentence", map[string]any{
		"sentence_years":    "",
		"has_good_behavior": true,
	}, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"calculated": false}`, rec.Body.String())
}

func TestCalculateExecution_IsAliasOfSentence(t *testing.T) {
	ts := newTestServer(t)
	form := map[string]any{"sentence_years": 10, "has_good_behavior": true}

	a := ts.do(t, http.MethodPost, "/api/calculate-sentence", form, "")
	b := ts.do(t, http.MethodPost, "/api/calculate-execution", form, "")

	require.Equal(t, http.StatusOK, b.Code)
	assert.JSONEq(t, a.Body.String(), b.Body.String())
}

// =============================================================================
// PUBLIC PARAMETERS / HEALTH
// =============================================================================

func TestListPublicParameters_CategoryFilter(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/calculator-parameters?category=execution", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	params := decode[[]ParameterDTO](t, rec)
	require.NotEmpty(t, params)
	for _, p := range params {
		assert.Equal(t, "execution", p.Category)
		assert.True(t, p.IsActive)
	}

	rec = ts.do(t, http.MethodGet, "/api/calculator-parameters?category=tax", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/health", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]string](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, factory.DefaultPresetID, body["active_preset"])
}

type failingPresetStore struct {
	*store.Memory
}

func (failingPresetStore) ActivePreset(context.Context) (string, error) {
	return "", errors.New("disk I/O error")
}

func TestHealth_ActivePresetErrorIsLogged(t *testing.T) {
	// GIVEN: A store that cannot read the active preset
	core, logs := observer.New(zap.WarnLevel)
	h := NewHandler(failingPresetStore{store.NewMemory()}, factory.NewCatalog(),
		NewAuthenticator(config.AuthConfig{}), zap.New(core))
	h.now = func() time.Time { return testNow }
	router := NewRouter(h, RouterConfig{})

	// WHEN: Checking health
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	// THEN: The service still reports ok and the failure is logged
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Empty(t, body["active_preset"])

	entries := logs.FilterMessage("failed to read active preset").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "disk I/O error", entries[0].ContextMap()["error"])
}

// =============================================================================
// AUTH
// =============================================================================

func TestAdmin_RequiresToken(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/admin/calculator-parameters", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

	rec = ts.do(t, http.MethodGet, "/api/admin/calculator-parameters", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdmin_LoginFailures(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/admin/login",
		LoginRequest{Username: testAdmin, Password: "wrong"}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Incorrect username or password", decode[ErrorResponse](t, rec).Error)

	rec = ts.do(t, http.MethodPost, "/api/admin/login", map[string]string{"username": testAdmin}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdmin_Me(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	rec := ts.do(t, http.MethodGet, "/api/admin/me", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"username": testAdmin, "role": "admin"}, decode[map[string]string](t, rec))
}

func TestAuthenticator_RejectsExpiredToken(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.h.Auth

	auth.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := auth.Login(testAdmin, testPassword)
	require.NoError(t, err)

	auth.now = time.Now
	_, err = auth.ValidateToken(token)
	assert.ErrorIs(t, err, generic.ErrUnauthorized)
}

func TestAuthenticator_DisabledWithoutSecret(t *testing.T) {
	auth := NewAuthenticator(config.AuthConfig{AdminUsername: testAdmin})

	assert.False(t, auth.Enabled())
	_, _, err := auth.Login(testAdmin, "anything")
	assert.ErrorIs(t, err, generic.ErrInvalidCredentials)
}

// =============================================================================
// PARAMETER ADMIN
// =============================================================================

func TestAdmin_UpdateParameterReloadsCalculations(t *testing.T) {
	// GIVEN: An admin session
	ts := newTestServer(t)
	token := ts.login(t)

	rec := ts.do(t, http.MethodGet, "/api/admin/calculator-parameters", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	capParam := findParameter(t, decode[[]ParameterDTO](t, rec), compensation.KeySeveranceCap)

	// WHEN: Lowering the severance cap to 10000
	rec = ts.do(t, http.MethodPut, "/api/admin/calculator-parameters/"+capParam.ID,
		map[string]any{"value": "10000"}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "10000", decode[ParameterDTO](t, rec).Value.String())

	// THEN: The next calculation uses the new cap
	rec = ts.do(t, http.MethodPost, "/api/calculate-compensation", referenceForm, "")
	resp := decode[CompensationResponse](t, rec)
	assert.Equal(t, "10000", resp.SeverancePay.Amount.String())
	assert.True(t, resp.SeveranceCapped)
	assert.Equal(t, "52500", resp.TotalCompensation.Amount.String())
}

func TestAdmin_UpdateParameterRejectsOutOfRange(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	rec := ts.do(t, http.MethodGet, "/api/admin/calculator-parameters", nil, token)
	rate := findParameter(t, decode[[]ParameterDTO](t, rec), "good_behavior_rate")

	rec = ts.do(t, http.MethodPut, "/api/admin/calculator-parameters/"+rate.ID,
		map[string]any{"value": "1.5"}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPut, "/api/admin/calculator-parameters/missing",
		map[string]any{"value": "0.1"}, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdmin_InactiveParameterFallsBackToDefault(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	rec := ts.do(t, http.MethodGet, "/api/admin/calculator-parameters", nil, token)
	capParam := findParameter(t, decode[[]ParameterDTO](t, rec), compensation.KeySeveranceCap)

	rec = ts.do(t, http.MethodPut, "/api/admin/calculator-parameters/"+capParam.ID,
		map[string]any{"value": "10000", "is_active": false}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/calculate-compensation", referenceForm, "")
	assert.Equal(t, "45000", decode[CompensationResponse](t, rec).SeverancePay.Amount.String())

	rec = ts.do(t, http.MethodGet, "/api/calculator-parameters?category=compensation", nil, "")
	for _, p := range decode[[]ParameterDTO](t, rec) {
		assert.NotEqual(t, compensation.KeySeveranceCap, p.Key, "inactive records are not public")
	}
}

func TestAdmin_CreateAndDeleteParameter(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	// GIVEN: The severance cap record is deleted
	rec := ts.do(t, http.MethodGet, "/api/admin/calculator-parameters", nil, token)
	capParam := findParameter(t, decode[[]ParameterDTO](t, rec), compensation.KeySeveranceCap)

	rec = ts.do(t, http.MethodDelete, "/api/admin/calculator-parameters/"+capParam.ID, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/admin/calculator-parameters/"+capParam.ID, nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// WHEN: Creating it again with only key, category and value
	rec = ts.do(t, http.MethodPost, "/api/admin/calculator-parameters", map[string]any{
		"key":      compensation.KeySeveranceCap,
		"category": "compensation",
		"value":    "20000",
	}, token)

	// THEN: Name and unit come from the registry and the cache uses it
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[ParameterDTO](t, rec)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Kıdem Tazminatı Tavanı", created.Name)
	assert.Equal(t, "TL", created.Unit)
	assert.True(t, created.IsActive)

	rec = ts.do(t, http.MethodPost, "/api/calculate-compensation", referenceForm, "")
	assert.Equal(t, "20000", decode[CompensationResponse](t, rec).SeverancePay.Amount.String())
}

func TestAdmin_CreateParameterErrors(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	tests := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"duplicate key", map[string]any{"key": compensation.KeySeveranceCap, "category": "compensation", "value": "1"}, http.StatusConflict},
		{"unknown key", map[string]any{"key": "stamp_duty", "category": "compensation", "value": "1"}, http.StatusBadRequest},
		{"wrong category", map[string]any{"key": compensation.KeySeveranceCap, "category": "execution", "value": "1"}, http.StatusBadRequest},
		{"missing category", map[string]any{"key": compensation.KeySeveranceCap, "value": "1"}, http.StatusBadRequest},
		{"bad category", map[string]any{"key": compensation.KeySeveranceCap, "category": "tax", "value": "1"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/api/admin/calculator-parameters", tt.body, token)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestAdmin_ResetParameters(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	// GIVEN: A preset with a different cap is active
	rec := ts.do(t, http.MethodPost, "/api/admin/presets/load", LoadPresetRequest{PresetID: "tr-2024-h1"}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	// WHEN: Resetting
	rec = ts.do(t, http.MethodPost, "/api/admin/calculator-parameters/reset", nil, token)

	// THEN: Every registered default is back and the default preset is active
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.EqualValues(t, len(generic.ListParameterSpecs("")), body["count"])

	rec = ts.do(t, http.MethodGet, "/api/admin/calculator-parameters", nil, token)
	capParam := findParameter(t, decode[[]ParameterDTO](t, rec), compensation.KeySeveranceCap)
	assert.Equal(t, compensation.DefaultSeveranceCap.String(), capParam.Value.String())

	active, err := ts.h.Store.ActivePreset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, factory.DefaultPresetID, active)
}

// =============================================================================
// PRESETS
// =============================================================================

func TestPresets_ListAndLoad(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	rec := ts.do(t, http.MethodGet, "/api/admin/presets", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	presets := decode[[]PresetDTO](t, rec)
	require.Len(t, presets, 4)
	assert.Equal(t, "tr-2024-h1", presets[0].ID)
	assert.True(t, presets[2].Active)

	// WHEN: Loading the 2024 preset
	rec = ts.do(t, http.MethodPost, "/api/admin/presets/load", LoadPresetRequest{PresetID: "tr-2024-h1"}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// THEN: It is current and its cap applies
	rec = ts.do(t, http.MethodGet, "/api/admin/presets/current", nil, token)
	assert.Equal(t, "tr-2024-h1", decode[PresetDTO](t, rec).ID)

	rec = ts.do(t, http.MethodPost, "/api/calculate-compensation", map[string]any{
		"monthly_wage": "30000", "work_years": "5", "termination_type": "employee",
	}, "")
	resp := decode[CompensationResponse](t, rec)
	assert.Equal(t, "35058.58", resp.SeverancePay.Amount.String())
	assert.True(t, resp.SeveranceCapped)
}

func TestPresets_LoadErrors(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	rec := ts.do(t, http.MethodPost, "/api/admin/presets/load", LoadPresetRequest{PresetID: "tr-1999-h1"}, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/admin/presets/load", map[string]string{}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEnsureParameters_KeepsExistingRecords(t *testing.T) {
	// GIVEN: A seeded store with an edited cap
	ts := newTestServer(t)
	ctx := context.Background()

	records, err := ts.h.Store.ListParameters(ctx, generic.ParameterFilter{})
	require.NoError(t, err)
	for _, p := range records {
		if p.Key == compensation.KeySeveranceCap {
			p.Value = decimal.NewFromInt(1)
			require.NoError(t, ts.h.Store.UpdateParameter(ctx, p))
		}
	}

	// WHEN: Starting again with a different preferred preset
	require.NoError(t, ts.h.EnsureParameters(ctx, "tr-2024-h1"))

	// THEN: The edit survives
	assert.Equal(t, "1", ts.h.Parameters().Compensation.SeveranceCap.String())
}

// =============================================================================
// STATS / METRICS
// =============================================================================

func TestStats_CountsCalculations(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	ts.do(t, http.MethodPost, "/api/calculate-compensation", referenceForm, "")
	ts.do(t, http.MethodPost, "/api/calculate-sentence", map[string]any{"sentence_years": 1}, "")
	ts.do(t, http.MethodPost, "/api/calculate-sentence", map[string]any{}, "")

	rec := ts.do(t, http.MethodGet, "/api/admin/stats", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	stats := decode[StatsDTO](t, rec)
	assert.Equal(t, 3, stats.TotalCalculations)
	assert.Equal(t, map[string]int{"compensation": 1, "sentence": 2}, stats.ByCalculator)
	assert.Equal(t, 1, stats.NoResult)
	assert.Equal(t, factory.DefaultPresetID, stats.ActivePreset)
	assert.Equal(t, len(generic.ListParameterSpecs("")), stats.ParameterCount)
	assert.NotEmpty(t, stats.LastCalculatedAt)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	ts.do(t, http.MethodPost, "/api/calculate-compensation", referenceForm, "")

	rec := ts.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `hukuk_calculations_total{calculator="compensation",outcome="calculated"} 1`)
	assert.Contains(t, body, `route="/api/calculate-compensation"`)
	assert.Contains(t, body, `hukuk_presets_applied_total{preset="tr-2025-h1",trigger="seed"} 1`)
}

func TestIndexPageWithoutStaticDir(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/calculate-compensation")
}
