package api

import (
	"net/http"
	"strings"

	"github.com/hukukrehberi/calc-engine/sentence"
	"github.com/shopspring/decimal"
)

// =============================================================================
// LOCALE - Display strings for calculator responses
// =============================================================================

// Locale selects how money, durations and stage names are rendered.
// Raw amounts in responses never depend on it.
type Locale string

const (
	LocaleTR Locale = "tr"
	LocaleEN Locale = "en"
)

var turkishUnits = sentence.Units{
	YearOne: "yıl", YearMany: "yıl",
	MonthOne: "ay", MonthMany: "ay",
	DayOne: "gün", DayMany: "gün",
}

var turkishStages = map[sentence.Stage]string{
	sentence.StageGoodBehavior:  "İyi hal indirimi",
	sentence.StageOpenPrison:    "Açık cezaevi",
	sentence.StageHomeDetention: "Ev hapsi",
	sentence.StageElectronicTag: "Elektronik kelepçe",
}

// localeFromRequest reads ?lang=, then Accept-Language. Turkish is the default.
func localeFromRequest(r *http.Request) Locale {
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = r.Header.Get("Accept-Language")
	}
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(lang)), "en") {
		return LocaleEN
	}
	return LocaleTR
}

// Money renders an amount with two decimals and the lira sign:
// "₺87.500,00" in Turkish, "₺87,500.00" in English.
func (l Locale) Money(d decimal.Decimal) string {
	thousands, point := ".", ","
	if l == LocaleEN {
		thousands, point = ",", "."
	}

	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	return sign + "₺" + groupDigits(whole, thousands) + point + frac
}

func groupDigits(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Duration renders a day count as years, months and days.
func (l Locale) Duration(days int) string {
	if l == LocaleEN {
		return sentence.FormatDays(days)
	}
	return sentence.Decompose(days).Format(turkishUnits)
}

// Days renders a plain day count ("20 gün", "20 days").
func (l Locale) Days(n decimal.Decimal) string {
	if l == LocaleEN {
		unit := "days"
		if n.Equal(decimal.NewFromInt(1)) {
			unit = "day"
		}
		return n.String() + " " + unit
	}
	return strings.Replace(n.String(), ".", ",", 1) + " gün"
}

// Stage returns the display label of a reduction stage.
func (l Locale) Stage(s sentence.Stage) string {
	if l == LocaleTR {
		if label, ok := turkishStages[s]; ok {
			return label
		}
	}
	return s.Label()
}
