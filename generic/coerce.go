package generic

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// INPUT COERCION - Raw form values to engine inputs
// =============================================================================
//
// Calculator forms send whatever the user typed. Blank, non-numeric and
// negative values all become zero here, once, before any engine sees them.
// Both the HTTP handlers and the CLI go through these helpers.

// Form values above these bounds are treated like unparsable input.
const (
	// MaxFormDecimal bounds money, hours and day amounts (one trillion).
	MaxFormDecimal = 1_000_000_000_000

	// MaxFormCount bounds whole-number fields such as sentence years,
	// months and days. 100000 years still fits a 32-bit day count.
	MaxFormCount = 100_000

	maxFormLength = 32
)

var maxFormDecimal = decimal.NewFromInt(MaxFormDecimal)

// CoerceDecimal parses raw as a plain decimal. Blank, unparsable, negative
// and oversized values yield zero, as do exponent forms ("1e5") and strings
// longer than 32 characters. A comma is accepted as the decimal separator
// when the value has no dot ("12,5" -> 12.5).
func CoerceDecimal(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" || len(s) > maxFormLength || strings.ContainsAny(s, "eE") {
		return decimal.Zero
	}
	if !strings.Contains(s, ".") && strings.Count(s, ",") == 1 {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() || d.GreaterThan(maxFormDecimal) {
		return decimal.Zero
	}
	return d
}

// CoerceInt parses raw as a whole number, truncating any fraction.
// Blank, unparsable, negative and values above MaxFormCount yield zero.
func CoerceInt(raw string) int {
	d := CoerceDecimal(raw).Truncate(0)
	if d.GreaterThan(decimal.NewFromInt(MaxFormCount)) {
		return 0
	}
	return int(d.IntPart())
}

// CoerceBool accepts the usual checkbox spellings. Anything else is false.
func CoerceBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on", "evet":
		return true
	}
	return false
}
