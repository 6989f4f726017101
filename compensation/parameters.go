package compensation

import (
	"github.com/hukukrehberi/calc-engine/generic"
	"github.com/shopspring/decimal"
)

// Parameter keys as stored in the parameter table.
const (
	KeySeveranceDaysPerYear = "severance_days_per_year"
	KeySeveranceCap         = "severance_cap"
	KeyOvertimeMultiplier   = "overtime_multiplier"
	KeyStandardMonthlyHours = "standard_monthly_hours"
	KeyAnnualVacationDays   = "annual_vacation_days"
	KeyNoticeMinYears       = "notice_min_years"
	KeyNoticeMediumYears    = "notice_medium_from_years"
	KeyNoticeLongYears      = "notice_long_from_years"
	KeyNoticeShortDays      = "notice_short_days"
	KeyNoticeMediumDays     = "notice_medium_days"
	KeyNoticeLongDays       = "notice_long_days"
)

// DefaultSeveranceCap is the statutory cap for the first half of 2025.
var DefaultSeveranceCap = decimal.RequireFromString("46655.43")

var specs = []generic.ParameterSpec{
	{Key: KeySeveranceDaysPerYear, Name: "Kıdem Tazminatı Çarpanı", Unit: "gün",
		Description: "Her tam hizmet yılı için ödenen gün sayısı",
		Default:     decimal.NewFromInt(30), Min: generic.Bound(0), Max: generic.Bound(365)},
	{Key: KeySeveranceCap, Name: "Kıdem Tazminatı Tavanı", Unit: "TL",
		Description: "Toplam kıdem tazminatına uygulanan yasal tavan",
		Default:     DefaultSeveranceCap, Min: generic.Bound(0)},
	{Key: KeyOvertimeMultiplier, Name: "Fazla Mesai Çarpanı", Unit: "kat",
		Description: "Fazla mesai saat ücreti çarpanı",
		Default:     decimal.RequireFromString("1.5"), Min: generic.Bound(1), Max: generic.Bound(5)},
	{Key: KeyStandardMonthlyHours, Name: "Aylık Çalışma Saati", Unit: "saat",
		Description: "Saatlik ücretin hesaplandığı aylık çalışma saati",
		Default:     decimal.NewFromInt(225), Min: generic.Bound(1), Max: generic.Bound(744)},
	{Key: KeyAnnualVacationDays, Name: "Yıllık İzin Günü", Unit: "gün",
		Description: "Her tam hizmet yılı için hak edilen yıllık izin",
		Default:     decimal.NewFromInt(20), Min: generic.Bound(0), Max: generic.Bound(365)},
	{Key: KeyNoticeMinYears, Name: "İhbar Asgari Kıdem", Unit: "yıl",
		Description: "İhbar tazminatına hak kazanılan asgari kıdem",
		Default:     decimal.RequireFromString("0.5"), Min: generic.Bound(0)},
	{Key: KeyNoticeMediumYears, Name: "İhbar 2. Kademe Başlangıcı", Unit: "yıl",
		Description: "İkinci ihbar kademesinin başladığı kıdem",
		Default:     decimal.RequireFromString("1.5"), Min: generic.Bound(0)},
	{Key: KeyNoticeLongYears, Name: "İhbar 3. Kademe Başlangıcı", Unit: "yıl",
		Description: "Üçüncü ihbar kademesinin başladığı kıdem",
		Default:     decimal.NewFromInt(3), Min: generic.Bound(0)},
	{Key: KeyNoticeShortDays, Name: "İhbar Süresi (1. Kademe)", Unit: "gün",
		Description: "Birinci kademe ihbar öneli",
		Default:     decimal.NewFromInt(15), Min: generic.Bound(0)},
	{Key: KeyNoticeMediumDays, Name: "İhbar Süresi (2. Kademe)", Unit: "gün",
		Description: "İkinci kademe ihbar öneli",
		Default:     decimal.NewFromInt(30), Min: generic.Bound(0)},
	{Key: KeyNoticeLongDays, Name: "İhbar Süresi (3. Kademe)", Unit: "gün",
		Description: "Üçüncü kademe ihbar öneli",
		Default:     decimal.NewFromInt(45), Min: generic.Bound(0)},
}

func init() {
	for i, s := range specs {
		s.Category = generic.CategoryCompensation
		s.Order = i
		generic.RegisterParameter(s)
	}
}

// DefaultParameters returns a fresh copy of the default rules.
func DefaultParameters() Parameters {
	return FromParameterSet(nil)
}

// FromParameterSet builds Parameters from stored values. Missing keys take
// the registered defaults. Notice tier boundaries come from three keys, so
// an admin can move them without touching the tier layout.
func FromParameterSet(set generic.ParameterSet) Parameters {
	get := func(key string) decimal.Decimal {
		return set.Decimal(key, generic.MustLookupParameter(key).Default)
	}

	minYears := get(KeyNoticeMinYears)
	mediumYears := get(KeyNoticeMediumYears)
	longYears := get(KeyNoticeLongYears)

	return Parameters{
		SeveranceDaysPerYear: get(KeySeveranceDaysPerYear),
		SeveranceCap:         get(KeySeveranceCap),
		OvertimeMultiplier:   get(KeyOvertimeMultiplier),
		StandardMonthlyHours: get(KeyStandardMonthlyHours),
		AnnualVacationDays:   get(KeyAnnualVacationDays),
		NoticeTiers: []NoticeTier{
			{MinYears: minYears, MaxYears: decimal.NewNullDecimal(mediumYears), NoticeDays: get(KeyNoticeShortDays)},
			{MinYears: mediumYears, MaxYears: decimal.NewNullDecimal(longYears), NoticeDays: get(KeyNoticeMediumDays)},
			{MinYears: longYears, NoticeDays: get(KeyNoticeLongDays)},
		},
	}
}
