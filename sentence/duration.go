package sentence

import (
	"fmt"
	"strings"
)

// Duration is a day count split into 365-day years, 30-day months and days.
type Duration struct {
	Years  int
	Months int
	Days   int
}

// Decompose splits days the way the sentence tables do: years = days/365,
// months = (days%365)/30, days = days%30. The day part is taken modulo 30 of
// the whole count, not of the remainder after years; for counts such as 400
// the parts do not add back to the input.
func Decompose(days int) Duration {
	if days <= 0 {
		return Duration{}
	}
	return Duration{
		Years:  days / 365,
		Months: (days % 365) / 30,
		Days:   days % 30,
	}
}

// IsZero reports whether every part is zero.
func (d Duration) IsZero() bool {
	return d.Years == 0 && d.Months == 0 && d.Days == 0
}

// Units names the three parts for a language. One and Many are used for
// singular and plural respectively.
type Units struct {
	YearOne, YearMany   string
	MonthOne, MonthMany string
	DayOne, DayMany     string
}

// EnglishUnits is the default rendering.
var EnglishUnits = Units{
	YearOne: "year", YearMany: "years",
	MonthOne: "month", MonthMany: "months",
	DayOne: "day", DayMany: "days",
}

// Format renders only the non-zero parts; a zero duration renders as "0 <days>".
func (d Duration) Format(u Units) string {
	var parts []string
	add := func(n int, one, many string) {
		if n == 0 {
			return
		}
		unit := many
		if n == 1 {
			unit = one
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, unit))
	}
	add(d.Years, u.YearOne, u.YearMany)
	add(d.Months, u.MonthOne, u.MonthMany)
	add(d.Days, u.DayOne, u.DayMany)

	if len(parts) == 0 {
		return "0 " + u.DayMany
	}
	return strings.Join(parts, " ")
}

func (d Duration) String() string {
	return d.Format(EnglishUnits)
}

// FormatDays is Decompose(days).String().
func FormatDays(days int) string {
	return Decompose(days).String()
}
