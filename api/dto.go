/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engines and store records from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Calculation result wrappers

FORM VALUES:
  Calculator forms post whatever the browser collected: numbers, numeric
  strings, empty strings or nothing at all. FormValue accepts all of them
  and keeps the literal text, so normalisation happens in one place
  (compensation.Form / sentence.Form) for both HTTP and CLI input.

MONEY:
  decimal.Decimal marshals as a JSON string ("87500"), never a float.
  Every money field also carries a localised display string.

VALIDATION:
  Admin request bodies carry go-playground/validator tags; handlers call
  decodeRequest before touching the store.

SEE ALSO:
  - handlers.go, admin.go: Use these types
  - format.go: Display strings
*/
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hukukrehberi/calc-engine/compensation"
	"github.com/hukukrehberi/calc-engine/factory"
	"github.com/hukukrehberi/calc-engine/generic"
	"github.com/hukukrehberi/calc-engine/sentence"
	"github.com/shopspring/decimal"
)

// =============================================================================
// FORM VALUES
// =============================================================================

// FormValue is a raw form field: a JSON string, number, bool or null.
type FormValue string

func (v *FormValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*v = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = FormValue(s)
	case b[0] == '{' || b[0] == '[':
		return fmt.Errorf("form value must be a string or number")
	default:
		*v = FormValue(b) // numbers and bools keep their literal text
	}
	return nil
}

// FormBool is a checkbox: true, "true", "1", "evet", "on" and friends.
type FormBool bool

func (f *FormBool) UnmarshalJSON(b []byte) error {
	var v FormValue
	if err := v.UnmarshalJSON(b); err != nil {
		return err
	}
	*f = FormBool(generic.CoerceBool(string(v)))
	return nil
}

// =============================================================================
// COMPENSATION
// =============================================================================

// CompensationRequest is the compensation calculator form.
type CompensationRequest struct {
	MonthlyWage      FormValue `json:"monthly_wage"`
	WorkYears        FormValue `json:"work_years"`
	WorkMonths       FormValue `json:"work_months"`
	OvertimeHours    FormValue `json:"overtime_hours"`
	UsedVacationDays FormValue `json:"used_vacation_days"`
	TerminationType  FormValue `json:"termination_type"`
}

// Form converts the request to the engine's raw form.
func (r CompensationRequest) Form() compensation.Form {
	return compensation.Form{
		MonthlyWage:      string(r.MonthlyWage),
		WorkYears:        string(r.WorkYears),
		WorkMonths:       string(r.WorkMonths),
		OvertimeHours:    string(r.OvertimeHours),
		UsedVacationDays: string(r.UsedVacationDays),
		TerminationType:  string(r.TerminationType),
	}
}

// MoneyDTO is an amount rounded to kuruş plus its display string.
type MoneyDTO struct {
	Amount  decimal.Decimal `json:"amount"`
	Display string          `json:"display"`
}

func money(l Locale, d decimal.Decimal) MoneyDTO {
	return MoneyDTO{Amount: d.Round(2), Display: l.Money(d)}
}

// CompensationInputDTO echoes the normalised input.
type CompensationInputDTO struct {
	MonthlyWage      decimal.Decimal `json:"monthly_wage"`
	WorkYears        decimal.Decimal `json:"work_years"`
	WorkMonths       decimal.Decimal `json:"work_months"`
	OvertimeHours    decimal.Decimal `json:"overtime_hours"`
	UsedVacationDays decimal.Decimal `json:"used_vacation_days"`
	TerminationType  string          `json:"termination_type"`
}

// CompensationResponse is the calculated breakdown.
type CompensationResponse struct {
	DailyWage          MoneyDTO             `json:"daily_wage"`
	SeverancePay       MoneyDTO             `json:"severance_pay"`
	SeveranceCapped    bool                 `json:"severance_capped"`
	NoticePay          MoneyDTO             `json:"notice_pay"`
	NoticeDays         decimal.Decimal      `json:"notice_days"`
	OvertimePay        MoneyDTO             `json:"overtime_pay"`
	VacationPay        MoneyDTO             `json:"vacation_pay"`
	UnusedVacationDays decimal.Decimal      `json:"unused_vacation_days"`
	UnusedVacation     string               `json:"unused_vacation_display"`
	TotalCompensation  MoneyDTO             `json:"total_compensation"`
	ServiceDays        decimal.Decimal      `json:"service_days"`
	Input              CompensationInputDTO `json:"input"`
}

func toCompensationResponse(l Locale, in compensation.Input, res compensation.Result) CompensationResponse {
	return CompensationResponse{
		DailyWage:          money(l, res.DailyWage),
		SeverancePay:       money(l, res.SeverancePay),
		SeveranceCapped:    res.SeveranceCapped,
		NoticePay:          money(l, res.NoticePay),
		NoticeDays:         res.NoticeDays,
		OvertimePay:        money(l, res.OvertimePay),
		VacationPay:        money(l, res.VacationPay),
		UnusedVacationDays: res.UnusedVacationDays,
		UnusedVacation:     l.Days(res.UnusedVacationDays),
		TotalCompensation:  money(l, res.TotalCompensation),
		ServiceDays:        res.ServiceDays,
		Input: CompensationInputDTO{
			MonthlyWage:      in.MonthlyGrossWage,
			WorkYears:        in.FullYearsWorked,
			WorkMonths:       in.ExtraMonthsWorked,
			OvertimeHours:    in.OvertimeHours,
			UsedVacationDays: in.UsedVacationDays,
			TerminationType:  string(in.Termination),
		},
	}
}

// =============================================================================
// SENTENCE
// =============================================================================

// SentenceRequest is the sentence execution calculator form.
type SentenceRequest struct {
	SentenceYears      FormValue `json:"sentence_years"`
	SentenceMonths     FormValue `json:"sentence_months"`
	SentenceDays       FormValue `json:"sentence_days"`
	HasGoodBehavior    FormBool  `json:"has_good_behavior"`
	WantsOpenPrison    FormBool  `json:"wants_open_prison"`
	WantsHomeDetention FormBool  `json:"wants_home_detention"`
	WantsElectronicTag FormBool  `json:"wants_electronic_tag"`
}

// Form converts the request to the engine's raw form.
func (r SentenceRequest) Form() sentence.Form {
	return sentence.Form{
		SentenceYears:      string(r.SentenceYears),
		SentenceMonths:     string(r.SentenceMonths),
		SentenceDays:       string(r.SentenceDays),
		HasGoodBehavior:    bool(r.HasGoodBehavior),
		WantsOpenPrison:    bool(r.WantsOpenPrison),
		WantsHomeDetention: bool(r.WantsHomeDetention),
		WantsElectronicTag: bool(r.WantsElectronicTag),
	}
}

// DaysDTO is a day count with its years/months/days rendering.
type DaysDTO struct {
	Days    int    `json:"days"`
	Display string `json:"display"`
}

func days(l Locale, n int) DaysDTO {
	return DaysDTO{Days: n, Display: l.Duration(n)}
}

// StepDTO is one applied reduction.
type StepDTO struct {
	Stage         sentence.Stage `json:"stage"`
	Label         string         `json:"label"`
	DaysDeducted  DaysDTO        `json:"days_deducted"`
	DaysRemaining DaysDTO        `json:"days_remaining"`
}

// SentenceResponse is the calculated breakdown. Only Calculated is set
// when the sentence adds up to zero days.
type SentenceResponse struct {
	Calculated        bool      `json:"calculated"`
	TotalDays         *DaysDTO  `json:"total,omitempty"`
	GoodBehaviorDays  *DaysDTO  `json:"good_behavior,omitempty"`
	OpenPrisonDays    *DaysDTO  `json:"open_prison,omitempty"`
	HomeDetentionDays *DaysDTO  `json:"home_detention,omitempty"`
	ElectronicTagDays *DaysDTO  `json:"electronic_tag,omitempty"`
	FinalPrisonDays   *DaysDTO  `json:"final_prison,omitempty"`
	Steps             []StepDTO `json:"steps,omitempty"`
}

func toSentenceResponse(l Locale, res sentence.Result) SentenceResponse {
	ptr := func(n int) *DaysDTO {
		d := days(l, n)
		return &d
	}
	steps := make([]StepDTO, len(res.Steps))
	for i, s := range res.Steps {
		steps[i] = StepDTO{
			Stage:         s.Stage,
			Label:         l.Stage(s.Stage),
			DaysDeducted:  days(l, s.DaysDeducted),
			DaysRemaining: days(l, s.DaysRemaining),
		}
	}
	return SentenceResponse{
		Calculated:        true,
		TotalDays:         ptr(res.TotalDays),
		GoodBehaviorDays:  ptr(res.GoodBehaviorDays),
		OpenPrisonDays:    ptr(res.OpenPrisonDays),
		HomeDetentionDays: ptr(res.HomeDetentionDays),
		ElectronicTagDays: ptr(res.ElectronicTagDays),
		FinalPrisonDays:   ptr(res.FinalPrisonDays),
		Steps:             steps,
	}
}

// =============================================================================
// PARAMETERS
// =============================================================================

// ParameterDTO represents a calculator parameter in API responses.
type ParameterDTO struct {
	ID          string          `json:"id"`
	Key         string          `json:"key"`
	Name        string          `json:"name"`
	Value       decimal.Decimal `json:"value"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Unit        string          `json:"unit"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   string          `json:"created_at,omitempty"`
	UpdatedAt   string          `json:"updated_at,omitempty"`
}

func toParameterDTO(p generic.Parameter) ParameterDTO {
	return ParameterDTO{
		ID:          p.ID,
		Key:         p.Key,
		Name:        p.Name,
		Value:       p.Value,
		Description: p.Description,
		Category:    string(p.Category),
		Unit:        p.Unit,
		IsActive:    p.IsActive,
		CreatedAt:   formatTimestamp(p.CreatedAt),
		UpdatedAt:   formatTimestamp(p.UpdatedAt),
	}
}

func toParameterDTOs(ps []generic.Parameter) []ParameterDTO {
	dtos := make([]ParameterDTO, len(ps))
	for i, p := range ps {
		dtos[i] = toParameterDTO(p)
	}
	return dtos
}

// CreateParameterRequest creates a parameter. Key must be registered;
// name, description and unit default to the registered spec.
type CreateParameterRequest struct {
	Key         string          `json:"key" validate:"required,max=64"`
	Name        string          `json:"name" validate:"max=255"`
	Value       decimal.Decimal `json:"value"`
	Description string          `json:"description" validate:"max=1000"`
	Category    string          `json:"category" validate:"required,oneof=compensation execution"`
	Unit        string          `json:"unit" validate:"max=32"`
	IsActive    *bool           `json:"is_active"`
}

// UpdateParameterRequest is a partial update; nil fields are left alone.
type UpdateParameterRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Value       *decimal.Decimal `json:"value"`
	Description *string          `json:"description" validate:"omitempty,max=1000"`
	Category    *string          `json:"category" validate:"omitempty,oneof=compensation execution"`
	Unit        *string          `json:"unit" validate:"omitempty,max=32"`
	IsActive    *bool            `json:"is_active"`
}

// =============================================================================
// AUTH / ADMIN
// =============================================================================

// LoginRequest is the admin login body.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the bearer token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   string `json:"expires_at"`
	Username    string `json:"username"`
}

// StatsDTO summarises calculator usage.
type StatsDTO struct {
	TotalCalculations int            `json:"total_calculations"`
	ByCalculator      map[string]int `json:"by_calculator"`
	NoResult          int            `json:"no_result"`
	LastCalculatedAt  string         `json:"last_calculated_at,omitempty"`
	ActivePreset      string         `json:"active_preset,omitempty"`
	ParameterCount    int            `json:"parameter_count"`
}

// =============================================================================
// PRESETS
// =============================================================================

// PresetDTO describes a jurisdiction preset.
type PresetDTO struct {
	ID            string                     `json:"id"`
	Name          string                     `json:"name"`
	Description   string                     `json:"description"`
	Jurisdiction  string                     `json:"jurisdiction"`
	EffectiveFrom string                     `json:"effective_from"`
	Values        map[string]decimal.Decimal `json:"values"`
	Active        bool                       `json:"active"`
}

func toPresetDTO(p factory.Preset, activeID string) PresetDTO {
	return PresetDTO{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Jurisdiction:  p.Jurisdiction,
		EffectiveFrom: p.EffectiveFrom.Format("2006-01-02"),
		Values:        p.Values,
		Active:        p.ID == activeID,
	}
}

// LoadPresetRequest applies a preset.
type LoadPresetRequest struct {
	PresetID string `json:"preset_id" validate:"required"`
}

// ErrorResponse is the JSON body of every error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
