// Package compensation computes what an employee is owed when employment ends:
// severance, notice, overtime and unused-vacation pay.
package compensation

import "github.com/shopspring/decimal"

// =============================================================================
// TERMINATION TYPE
// =============================================================================

// Termination identifies who ended the employment.
type Termination string

const (
	TerminationEmployer Termination = "employer"
	TerminationEmployee Termination = "employee"
	TerminationMutual   Termination = "mutual"
)

// Valid reports whether t is one of the known termination types.
func (t Termination) Valid() bool {
	switch t {
	case TerminationEmployer, TerminationEmployee, TerminationMutual:
		return true
	}
	return false
}

// =============================================================================
// INPUT / PARAMETERS / RESULT
// =============================================================================

// Input is a normalised calculation request. All amounts are >= 0; building
// one from raw form values goes through Form.Normalize.
type Input struct {
	MonthlyGrossWage  decimal.Decimal
	FullYearsWorked   decimal.Decimal
	ExtraMonthsWorked decimal.Decimal
	OvertimeHours     decimal.Decimal
	UsedVacationDays  decimal.Decimal
	Termination       Termination
}

// NoticeTier maps a tenure range [MinYears, MaxYears) to a notice period.
// An invalid MaxYears means the tier is open-ended.
type NoticeTier struct {
	MinYears   decimal.Decimal
	MaxYears   decimal.NullDecimal
	NoticeDays decimal.Decimal
}

// Contains reports whether years falls inside the tier.
func (t NoticeTier) Contains(years decimal.Decimal) bool {
	if years.LessThan(t.MinYears) {
		return false
	}
	return !t.MaxYears.Valid || years.LessThan(t.MaxYears.Decimal)
}

// Parameters are the jurisdiction rules for one period. Values are copied
// per call; nothing in this package mutates them.
type Parameters struct {
	SeveranceDaysPerYear decimal.Decimal
	SeveranceCap         decimal.Decimal
	OvertimeMultiplier   decimal.Decimal
	StandardMonthlyHours decimal.Decimal
	AnnualVacationDays   decimal.Decimal
	NoticeTiers          []NoticeTier
}

// Result is the unrounded breakdown. TotalCompensation is always the exact
// sum of the four pay components.
type Result struct {
	DailyWage          decimal.Decimal
	SeverancePay       decimal.Decimal
	NoticePay          decimal.Decimal
	NoticeDays         decimal.Decimal
	OvertimePay        decimal.Decimal
	VacationPay        decimal.Decimal
	UnusedVacationDays decimal.Decimal
	TotalCompensation  decimal.Decimal
	SeveranceCapped    bool
	ServiceDays        decimal.Decimal // years*365 + months*30, informational
}
