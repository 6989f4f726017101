package factory

import (
	"github.com/hukukrehberi/calc-engine/compensation"
	"github.com/hukukrehberi/calc-engine/generic"
	"github.com/hukukrehberi/calc-engine/sentence"
)

// =============================================================================
// RECORDS -> ENGINE PARAMETERS
// =============================================================================

// CompensationParameters converts stored records into compensation rules.
// Inactive records and keys of other categories are ignored; missing keys
// fall back to the registered defaults.
func CompensationParameters(records []generic.Parameter) compensation.Parameters {
	return compensation.FromParameterSet(setFor(records, generic.CategoryCompensation))
}

// SentenceParameters converts stored records into sentence rates.
func SentenceParameters(records []generic.Parameter) sentence.Parameters {
	return sentence.FromParameterSet(setFor(records, generic.CategoryExecution))
}

func setFor(records []generic.Parameter, category generic.Category) generic.ParameterSet {
	filtered := make([]generic.Parameter, 0, len(records))
	for _, r := range records {
		if r.Category == category {
			filtered = append(filtered, r)
		}
	}
	return generic.NewParameterSet(filtered)
}

// Parameters bundles both engines' parameters, built from one record snapshot.
type Parameters struct {
	Compensation compensation.Parameters
	Sentence     sentence.Parameters
}

// FromRecords builds both parameter sets at once.
func FromRecords(records []generic.Parameter) Parameters {
	return Parameters{
		Compensation: CompensationParameters(records),
		Sentence:     SentenceParameters(records),
	}
}
