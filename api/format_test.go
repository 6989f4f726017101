package api

import (
	"net/http/httptest"
	"testing"

	"github.com/hukukrehberi/calc-engine/sentence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLocale_Money(t *testing.T) {
	tests := []struct {
		amount string
		tr     string
		en     string
	}{
		{"0", "₺0,00", "₺0.00"},
		{"500", "₺500,00", "₺500.00"},
		{"87500", "₺87.500,00", "₺87,500.00"},
		{"1234567.891", "₺1.234.567,89", "₺1,234,567.89"},
		{"46655.43", "₺46.655,43", "₺46,655.43"},
		{"-1500.5", "-₺1.500,50", "-₺1,500.50"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			d := decimal.RequireFromString(tt.amount)
			assert.Equal(t, tt.tr, LocaleTR.Money(d))
			assert.Equal(t, tt.en, LocaleEN.Money(d))
		})
	}
}

func TestGroupDigits(t *testing.T) {
	assert.Equal(t, "1", groupDigits("1", "."))
	assert.Equal(t, "123", groupDigits("123", "."))
	assert.Equal(t, "1.234", groupDigits("1234", "."))
	assert.Equal(t, "123,456", groupDigits("123456", ","))
	assert.Equal(t, "12.345.678", groupDigits("12345678", "."))
}

func TestLocale_Duration(t *testing.T) {
	assert.Equal(t, "1 yıl 8 ay 12 gün", LocaleTR.Duration(612))
	assert.Equal(t, "1 year 8 months 12 days", LocaleEN.Duration(612))
	assert.Equal(t, "0 gün", LocaleTR.Duration(0))
	assert.Equal(t, "1 month", LocaleEN.Duration(30))
}

func TestLocale_Days(t *testing.T) {
	assert.Equal(t, "20 gün", LocaleTR.Days(decimal.NewFromInt(20)))
	assert.Equal(t, "2,5 gün", LocaleTR.Days(decimal.RequireFromString("2.5")))
	assert.Equal(t, "1 day", LocaleEN.Days(decimal.NewFromInt(1)))
	assert.Equal(t, "2.5 days", LocaleEN.Days(decimal.RequireFromString("2.5")))
}

func TestLocale_Stage(t *testing.T) {
	assert.Equal(t, "Açık cezaevi", LocaleTR.Stage(sentence.StageOpenPrison))
	assert.Equal(t, sentence.StageOpenPrison.Label(), LocaleEN.Stage(sentence.StageOpenPrison))
}

func TestLocaleFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		target string
		accept string
		want   Locale
	}{
		{"default", "/", "", LocaleTR},
		{"query", "/?lang=en", "", LocaleEN},
		{"query wins", "/?lang=tr", "en-US", LocaleTR},
		{"header", "/", "en-GB,en;q=0.8", LocaleEN},
		{"turkish header", "/", "tr-TR", LocaleTR},
		{"unsupported", "/?lang=de", "", LocaleTR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			if tt.accept != "" {
				r.Header.Set("Accept-Language", tt.accept)
			}
			assert.Equal(t, tt.want, localeFromRequest(r))
		})
	}
}
