package sentence

import (
	"github.com/hukukrehberi/calc-engine/generic"
	"github.com/shopspring/decimal"
)

// Parameter keys as stored in the parameter table.
const (
	KeyGoodBehaviorRate  = "good_behavior_rate"
	KeyOpenPrisonRate    = "open_prison_rate"
	KeyOpenPrisonMinDays = "open_prison_min_days"
	KeyHomeDetentionRate = "home_detention_rate"
	KeyElectronicTagRate = "electronic_tag_rate"
)

func init() {
	rate := func(key, name, desc, def string, order int) generic.ParameterSpec {
		return generic.ParameterSpec{
			Key: key, Category: generic.CategoryExecution, Name: name, Description: desc,
			Unit: "oran", Default: decimal.RequireFromString(def),
			Min: generic.Bound(0), Max: generic.Bound(1), Order: order,
		}
	}

	generic.RegisterParameter(rate(KeyGoodBehaviorRate, "İyi Hal İndirimi",
		"İyi hal durumunda uygulanan ceza indirimi oranı", "0.33", 0))
	generic.RegisterParameter(rate(KeyOpenPrisonRate, "Açık Cezaevi Şartı",
		"Açık cezaevinde infaz edilebilecek kalan ceza oranı", "0.5", 1))
	generic.RegisterParameter(generic.ParameterSpec{
		Key: KeyOpenPrisonMinDays, Category: generic.CategoryExecution,
		Name: "Açık Cezaevi Alt Sınırı", Unit: "gün",
		Description: "Açık cezaevi için kalan sürenin aşması gereken gün sayısı",
		Default:     decimal.NewFromInt(365), Min: generic.Bound(0), Max: generic.Bound(36500), Order: 2,
	})
	generic.RegisterParameter(rate(KeyHomeDetentionRate, "Ev Hapsi Şartı",
		"Ev hapsi ile infaz edilebilecek kalan ceza oranı", "0.25", 3))
	generic.RegisterParameter(rate(KeyElectronicTagRate, "Elektronik Kelepçe Şartı",
		"Elektronik kelepçe ile infaz edilebilecek kalan ceza oranı", "0.33", 4))
}

// DefaultParameters returns a fresh copy of the default rates.
func DefaultParameters() Parameters {
	return FromParameterSet(nil)
}

// FromParameterSet builds Parameters from stored values; missing keys take
// the registered defaults.
func FromParameterSet(set generic.ParameterSet) Parameters {
	get := func(key string) decimal.Decimal {
		return set.Decimal(key, generic.MustLookupParameter(key).Default)
	}
	minDays := int(generic.MustLookupParameter(KeyOpenPrisonMinDays).Default.IntPart())
	return Parameters{
		GoodBehaviorRate:  get(KeyGoodBehaviorRate),
		OpenPrisonRate:    get(KeyOpenPrisonRate),
		OpenPrisonMinDays: set.Int(KeyOpenPrisonMinDays, minDays),
		HomeDetentionRate: get(KeyHomeDetentionRate),
		ElectronicTagRate: get(KeyElectronicTagRate),
	}
}
