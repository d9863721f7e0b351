package money

import (
	"github.com/Rhymond/go-money"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
)

// TestDataGenerator generates amounts and line items the way the workbook
// writes them, using gofakeit.
type TestDataGenerator struct {
	faker *gofakeit.Faker
}

// NewTestDataGeneratorWithSeed creates a generator with a specific seed for reproducibility.
func NewTestDataGeneratorWithSeed(seed int64) *TestDataGenerator {
	return &TestDataGenerator{
		faker: gofakeit.New(seed),
	}
}

// SheetAmount is a generated amount with its cell rendering.
type SheetAmount struct {
	Value decimal.Decimal
	Text  string
}

// Amount returns a random amount between minCents and maxCents, rendered with
// the BRL symbol and separators ("R$1.234,56").
func (g *TestDataGenerator) Amount(minCents, maxCents int) SheetAmount {
	cents := int64(g.faker.IntRange(minCents, maxCents))
	return SheetAmount{
		Value: decimal.New(cents, -2),
		Text:  money.New(cents, BRL).Display(),
	}
}

// BareAmount is like Amount but without the currency symbol ("1.234,56").
func (g *TestDataGenerator) BareAmount(minCents, maxCents int) SheetAmount {
	a := g.Amount(minCents, maxCents)
	sign := ""
	if a.Value.IsNegative() {
		sign = "-"
	}
	a.Text = sign + Format(a.Value.Abs())
	return a
}

// Description returns a plausible line-item label.
func (g *TestDataGenerator) Description() string {
	return g.faker.RandomString([]string{
		"Aluguel", "Mercado", "Internet", "Luz", "Água", "Condomínio",
		"Salário", "Freela", "Academia", "Farmácia", "Transporte", "Seguro",
	})
}

// Format renders a non-negative amount with thousands dots and a decimal comma.
func Format(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	whole, frac := fixed[:len(fixed)-3], fixed[len(fixed)-2:]

	grouped := make([]byte, 0, len(whole)+len(whole)/3)
	for i := range len(whole) {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped = append(grouped, brl.Thousand...)
		}
		grouped = append(grouped, whole[i])
	}
	return string(grouped) + brl.Decimal + frac
}
