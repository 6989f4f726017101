/*
calculator.go - Severance, notice, overtime and vacation pay

PURPOSE:
  Pure computation of the end-of-employment breakdown from a normalised
  Input and a Parameters value. No I/O, no shared state, never fails.

CONVENTIONS:
  - A month is 30 days (DailyWage = MonthlyGrossWage / 30), not calendar-accurate
  - Severance eligibility looks at FullYearsWorked only; ExtraMonthsWorked
    never makes someone eligible
  - The severance cap bounds the total, not each year
  - Notice pay only applies when the employer terminated
  - Every product is formed before the single division by 30 (or by the
    standard monthly hours) so that results stay exact

EXAMPLE:
  res := compensation.Calculate(compensation.Input{
      MonthlyGrossWage: decimal.NewFromInt(15000),
      FullYearsWorked:  decimal.NewFromInt(3),
      OvertimeHours:    decimal.NewFromInt(100),
      UsedVacationDays: decimal.NewFromInt(40),
      Termination:      compensation.TerminationEmployer,
  }, compensation.DefaultParameters())
  // res.TotalCompensation == 87500

SEE ALSO:
  - parameters.go: Defaults and parameter keys
  - form.go: Raw input normalisation
*/
package compensation

import "github.com/shopspring/decimal"

var (
	daysPerMonth = decimal.NewFromInt(30)
	daysPerYear  = decimal.NewFromInt(365)
	oneYear      = decimal.NewFromInt(1)
)

// Calculate returns the compensation breakdown for in under p.
func Calculate(in Input, p Parameters) Result {
	wage := in.MonthlyGrossWage
	years := in.FullYearsWorked

	res := Result{
		DailyWage:   wage.Div(daysPerMonth),
		ServiceDays: years.Mul(daysPerYear).Add(in.ExtraMonthsWorked.Mul(daysPerMonth)),
	}

	res.SeverancePay, res.SeveranceCapped = severancePay(wage, years, p)
	res.NoticeDays = noticeDays(years, in.Termination, p.NoticeTiers)
	res.NoticePay = perDay(wage, res.NoticeDays)
	res.OvertimePay = overtimePay(wage, in.OvertimeHours, p)

	entitled := years.Floor().Mul(p.AnnualVacationDays)
	res.UnusedVacationDays = decimal.Max(decimal.Zero, entitled.Sub(in.UsedVacationDays))
	res.VacationPay = perDay(wage, res.UnusedVacationDays)

	res.TotalCompensation = res.SeverancePay.
		Add(res.NoticePay).
		Add(res.OvertimePay).
		Add(res.VacationPay)
	return res
}

// perDay returns days worth of wage at the 30-day-month daily rate.
func perDay(wage, days decimal.Decimal) decimal.Decimal {
	if days.IsZero() {
		return decimal.Zero
	}
	return wage.Mul(days).Div(daysPerMonth)
}

func severancePay(wage, years decimal.Decimal, p Parameters) (decimal.Decimal, bool) {
	if years.LessThan(oneYear) {
		return decimal.Zero, false
	}
	uncapped := perDay(wage, years.Mul(p.SeveranceDaysPerYear))
	if uncapped.GreaterThan(p.SeveranceCap) {
		return p.SeveranceCap, true
	}
	return uncapped, false
}

// noticeDays picks the first tier containing years. No tier, no notice.
func noticeDays(years decimal.Decimal, t Termination, tiers []NoticeTier) decimal.Decimal {
	if t != TerminationEmployer {
		return decimal.Zero
	}
	for _, tier := range tiers {
		if tier.Contains(years) {
			return tier.NoticeDays
		}
	}
	return decimal.Zero
}

func overtimePay(wage, hours decimal.Decimal, p Parameters) decimal.Decimal {
	if hours.IsZero() || !p.StandardMonthlyHours.IsPositive() {
		return decimal.Zero
	}
	return hours.Mul(wage).Mul(p.OvertimeMultiplier).Div(p.StandardMonthlyHours)
}
