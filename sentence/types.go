// Package sentence computes the effective custody time of a prison sentence
// after the good-behavior discount and the less restrictive custody regimes.
package sentence

import "github.com/shopspring/decimal"

// =============================================================================
// STAGES
// =============================================================================

// Stage identifies one reduction in the fixed application order.
type Stage string

const (
	StageGoodBehavior  Stage = "good_behavior"
	StageOpenPrison    Stage = "open_prison"
	StageHomeDetention Stage = "home_detention"
	StageElectronicTag Stage = "electronic_tag"
)

// Stages lists every stage in the order Calculate applies them.
var Stages = []Stage{StageGoodBehavior, StageOpenPrison, StageHomeDetention, StageElectronicTag}

// Label returns an English label. Presentation layers localise from Stage.
func (s Stage) Label() string {
	switch s {
	case StageGoodBehavior:
		return "Good behavior discount"
	case StageOpenPrison:
		return "Open prison"
	case StageHomeDetention:
		return "Home detention"
	case StageElectronicTag:
		return "Electronic tag"
	}
	return string(s)
}

// =============================================================================
// INPUT / PARAMETERS / RESULT
// =============================================================================

// Input is a normalised request. The regime flags are what the user asked
// for; eligibility is assumed, apart from the open-prison floor.
type Input struct {
	Years         int
	Months        int
	Days          int
	GoodBehavior  bool
	OpenPrison    bool
	HomeDetention bool
	ElectronicTag bool
}

// TotalDays converts the nominal sentence with 365-day years and 30-day months.
func (in Input) TotalDays() int {
	return in.Years*365 + in.Months*30 + in.Days
}

// Parameters are the reduction rates. OpenPrisonMinDays is the floor the
// remainder must exceed before open prison applies.
type Parameters struct {
	GoodBehaviorRate  decimal.Decimal
	OpenPrisonRate    decimal.Decimal
	OpenPrisonMinDays int
	HomeDetentionRate decimal.Decimal
	ElectronicTagRate decimal.Decimal
}

// Step records one applied reduction.
type Step struct {
	Stage         Stage
	DaysDeducted  int
	DaysRemaining int
}

// Result is the full breakdown. The deductions plus FinalPrisonDays always
// add back up to TotalDays.
type Result struct {
	TotalDays         int
	GoodBehaviorDays  int
	OpenPrisonDays    int
	HomeDetentionDays int
	ElectronicTagDays int
	FinalPrisonDays   int
	Steps             []Step
}
