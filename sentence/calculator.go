/*
calculator.go - Sequential sentence reductions

PURPOSE:
  Pure computation of how a nominal sentence splits between closed prison
  and the lighter regimes. No I/O, no shared state.

ORDER (load-bearing):
  1. Good behavior    floor(total     * rate)
  2. Open prison      floor(remaining * rate), only if remaining > floor days
  3. Home detention   floor(remaining * rate)
  4. Electronic tag   floor(remaining * rate)
  5. Closed prison    whatever remains

  Each stage reads the remainder the previous stage left. All divisions
  truncate. Only open prison has a minimum-remaining floor.

NO RESULT:
  A sentence of zero days has nothing to reduce. Calculate reports that with
  ok == false; it is not an error.

SEE ALSO:
  - duration.go: Day counts to years/months/days
  - parameters.go: Defaults and parameter keys
*/
package sentence

import "github.com/shopspring/decimal"

// Calculate applies the requested reductions to in. ok is false when the
// sentence totals zero days or less.
func Calculate(in Input, p Parameters) (res Result, ok bool) {
	total := in.TotalDays()
	if total <= 0 {
		return Result{}, false
	}

	res = Result{TotalDays: total, Steps: make([]Step, 0, len(Stages))}
	remaining := total

	deduct := func(stage Stage, days int) int {
		remaining -= days
		res.Steps = append(res.Steps, Step{Stage: stage, DaysDeducted: days, DaysRemaining: remaining})
		return days
	}

	if in.GoodBehavior {
		res.GoodBehaviorDays = deduct(StageGoodBehavior, portion(total, p.GoodBehaviorRate))
	}
	if in.OpenPrison && remaining > p.OpenPrisonMinDays {
		res.OpenPrisonDays = deduct(StageOpenPrison, portion(remaining, p.OpenPrisonRate))
	}
	if in.HomeDetention {
		res.HomeDetentionDays = deduct(StageHomeDetention, portion(remaining, p.HomeDetentionRate))
	}
	if in.ElectronicTag {
		res.ElectronicTagDays = deduct(StageElectronicTag, portion(remaining, p.ElectronicTagRate))
	}

	res.FinalPrisonDays = remaining
	return res, true
}

// portion returns floor(days * rate), bounded to [0, days].
func portion(days int, rate decimal.Decimal) int {
	n := int(decimal.NewFromInt(int64(days)).Mul(rate).Floor().IntPart())
	switch {
	case n < 0:
		return 0
	case n > days:
		return days
	}
	return n
}
