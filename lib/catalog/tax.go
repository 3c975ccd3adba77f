package catalog

import "github.com/shopspring/decimal"

// DefaultTaxRate is applied for currencies without an explicit entry.
var DefaultTaxRate = decimal.NewFromFloat(0.10)

// TaxTable maps a currency code to the tax rate used when deriving the
// tax-inclusive unit price. The rate is regional policy, not schema,
// so it lives in configuration rather than the model.
type TaxTable map[string]decimal.Decimal

func (t TaxTable) Rate(currency string) decimal.Decimal {
	if rate, ok := t[currency]; ok {
		return rate
	}
	return DefaultTaxRate
}
