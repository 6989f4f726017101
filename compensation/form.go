package compensation

import (
	"strings"

	"github.com/hukukrehberi/calc-engine/generic"
)

// Form carries the raw values a user typed into the calculator.
type Form struct {
	MonthlyWage      string
	WorkYears        string
	WorkMonths       string
	OvertimeHours    string
	UsedVacationDays string
	TerminationType  string
}

// Normalize coerces every field into a valid Input. Blank, non-numeric and
// negative numbers become zero. A blank termination type means employer,
// the form's default; any other unknown value is kept so it earns no notice pay.
func (f Form) Normalize() Input {
	t := Termination(strings.ToLower(strings.TrimSpace(f.TerminationType)))
	if t == "" {
		t = TerminationEmployer
	}
	return Input{
		MonthlyGrossWage:  generic.CoerceDecimal(f.MonthlyWage),
		FullYearsWorked:   generic.CoerceDecimal(f.WorkYears),
		ExtraMonthsWorked: generic.CoerceDecimal(f.WorkMonths),
		OvertimeHours:     generic.CoerceDecimal(f.OvertimeHours),
		UsedVacationDays:  generic.CoerceDecimal(f.UsedVacationDays),
		Termination:       t,
	}
}
