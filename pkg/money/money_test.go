package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr error
	}{
		{"currency prefix", "R$ 1.234,56", "1234.56", nil},
		{"thousands only", "1.000", "1000", nil},
		{"decimal comma", "500,00", "500", nil},
		{"negative before symbol", "-R$ 50,00", "-50", nil},
		{"non-breaking space", "R$\u00a01.500,10", "1500.1", nil},
		{"millions", "R$ 1.234.567,89", "1234567.89", nil},
		{"plain integer", "0", "0", nil},
		{"empty", "", "", ErrEmptyAmount},
		{"only symbol", "R$", "", ErrEmptyAmount},
		{"text", "abc", "", ErrInvalidAmount},
		{"dash placeholder", "—", "", ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.text)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		want   float64
		wantOK bool
	}{
		{"formatted string", "R$ 1.234,56", 1234.56, true},
		{"thousands separator", "1.000", 1000, true},
		{"empty string", "", 0, false},
		{"non numeric", "abc", 0, false},
		{"float passthrough", 1234.5, 1234.5, true},
		{"int passthrough", 42, 42, true},
		{"decimal passthrough", decimal.RequireFromString("10.25"), 10.25, true},
		{"unsupported type", []string{"1"}, 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCurrency(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestLocalize(t *testing.T) {
	tests := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{"1234.5", "1234,5", true},
		{"1000", "1000", true},
		{"-0.25", "-0,25", true},
		{"1.5E+3", "1500", true},
		{"Janeiro", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := Localize(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			if ok {
				v, parsed := ParseCurrency(got)
				require.True(t, parsed)
				f, _ := decimal.RequireFromString(tt.raw).Float64()
				assert.InDelta(t, f, v, 1e-9)
			}
		})
	}
}

func TestCurrencyToken(t *testing.T) {
	assert.Equal(t, "R$", CurrencyToken)
}

func TestParseAmountGenerated(t *testing.T) {
	gen := NewTestDataGeneratorWithSeed(42)

	for i := 0; i < 200; i++ {
		a := gen.Amount(-10_000_000, 10_000_000)
		got, err := ParseAmount(a.Text)
		require.NoError(t, err, a.Text)
		assert.True(t, a.Value.Equal(got), "%s parsed as %s", a.Text, got)

		b := gen.BareAmount(0, 100_000_000)
		got, err = ParseAmount(b.Text)
		require.NoError(t, err, b.Text)
		assert.True(t, b.Value.Equal(got), "%s parsed as %s", b.Text, got)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0,00"},
		{"5.5", "5,50"},
		{"999.99", "999,99"},
		{"1000", "1.000,00"},
		{"1234567.8", "1.234.567,80"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestDescription(t *testing.T) {
	gen := NewTestDataGeneratorWithSeed(7)
	assert.NotEmpty(t, gen.Description())
}
