// Package money parses monetary cell text written in the Brazilian convention
// ("R$ 1.234,56") into exact decimals and floats.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// BRL is the only currency the dashboard sheets are written in.
const BRL = "BRL"

var brl = money.GetCurrency(BRL)

// CurrencyToken is the bare symbol cell ("R$") that sits between a line-item
// description and its amount.
var CurrencyToken = brl.Grapheme

var (
	ErrEmptyAmount   = errors.New("empty amount")
	ErrInvalidAmount = errors.New("invalid amount")
)

// ParseAmount converts text such as "R$ 1.234,56", "-R$ 50,00" or "1.000"
// into an exact decimal. Thousands separators are dots and the decimal
// separator is a comma.
func ParseAmount(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	s = strings.ReplaceAll(s, brl.Grapheme, "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\t':
			return -1
		}
		return r
	}, s)

	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	s = strings.ReplaceAll(s, brl.Thousand, "")
	s = strings.ReplaceAll(s, brl.Decimal, ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w %q: %v", ErrInvalidAmount, text, err)
	}
	return d, nil
}

// ParseCurrency returns the numeric value of a monetary cell. Values that are
// already numeric pass through unchanged; strings go through ParseAmount.
// The boolean is false for empty or non-numeric input.
func ParseCurrency(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case decimal.Decimal:
		return val.InexactFloat64(), true
	case string:
		d, err := ParseAmount(val)
		if err != nil {
			return 0, false
		}
		return d.InexactFloat64(), true
	default:
		return 0, false
	}
}

// Localize renders a raw machine number ("1234.5") in the sheet convention
// ("1234,5") so ParseAmount reads it back exactly. It reports false when raw
// is not a number.
func Localize(raw string) (string, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	return strings.Replace(d.String(), ".", brl.Decimal, 1), true
}
