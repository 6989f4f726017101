package sentence

import "github.com/hukukrehberi/calc-engine/generic"

// Form carries the raw values a user typed into the calculator.
type Form struct {
	SentenceYears      string
	SentenceMonths     string
	SentenceDays       string
	HasGoodBehavior    bool
	WantsOpenPrison    bool
	WantsHomeDetention bool
	WantsElectronicTag bool
}

// Normalize truncates fractions and turns blank, non-numeric and negative
// counts into zero.
func (f Form) Normalize() Input {
	return Input{
		Years:         generic.CoerceInt(f.SentenceYears),
		Months:        generic.CoerceInt(f.SentenceMonths),
		Days:          generic.CoerceInt(f.SentenceDays),
		GoodBehavior:  f.HasGoodBehavior,
		OpenPrison:    f.WantsOpenPrison,
		HomeDetention: f.WantsHomeDetention,
		ElectronicTag: f.WantsElectronicTag,
	}
}
