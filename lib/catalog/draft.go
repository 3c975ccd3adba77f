package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Draft is the unvalidated output of a vendor extractor. Monetary and
// quantity fields are loosely typed because extractors hand over
// whatever the page said: strings, floats, or nothing.
type Draft struct {
	VendorName       string
	VendorPartNumber string
	URL              string
	Title            string

	Specifications     Specifications
	Pricing            PricingDraft
	Availability       Availability
	Media              Media
	VendorSpecificData map[string]any
	ScraperVersion     string
}

// PricingDraft carries the raw pricing fields before validation.
type PricingDraft struct {
	Currency             string
	PackagePrice         any
	PackageQuantity      any
	PackageUnit          string
	UnitPrice            any
	UnitPriceIncTax      any
	MinimumOrderQuantity any
	OrderMultiple        any
	// QuantityBreaks keys and values are coerced per entry; malformed
	// entries are dropped rather than failing the record.
	QuantityBreaks map[string]any
}

// Build validates a draft into an immutable CanonicalRecord. Pricing
// derivation runs first, then field coercion; the only failure mode is
// a *ValidationError for a monetary value that will not parse.
func Build(draft Draft, taxes TaxTable) (*CanonicalRecord, error) {
	pricing, err := buildPricing(draft.Pricing, taxes)
	if err != nil {
		return nil, err
	}
	return &CanonicalRecord{
		VendorName:         draft.VendorName,
		VendorPartNumber:   draft.VendorPartNumber,
		URL:                draft.URL,
		Title:              draft.Title,
		Specifications:     draft.Specifications,
		Pricing:            *pricing,
		Availability:       draft.Availability,
		Media:              draft.Media,
		VendorSpecificData: draft.VendorSpecificData,
		ScrapedAt:          time.Now(),
		ScraperVersion:     draft.ScraperVersion,
	}, nil
}

func buildPricing(draft PricingDraft, taxes TaxTable) (*Pricing, error) {
	derived := derive(draft, taxes)

	pricing := Pricing{
		Currency:    derived.Currency,
		PackageUnit: derived.PackageUnit,
	}

	var err error
	if pricing.PackagePrice, err = coerceDecimal("packagePrice", derived.PackagePrice); err != nil {
		return nil, err
	}
	if pricing.UnitPrice, err = coerceDecimal("unitPrice", derived.UnitPrice); err != nil {
		return nil, err
	}
	if pricing.UnitPriceIncTax, err = coerceDecimal("unitPriceIncTax", derived.UnitPriceIncTax); err != nil {
		return nil, err
	}

	pricing.PackageQuantity = coerceInt(derived.PackageQuantity)
	pricing.MinimumOrderQuantity = coerceInt(derived.MinimumOrderQuantity)
	pricing.OrderMultiple = coerceInt(derived.OrderMultiple)
	pricing.QuantityBreaks = coerceQuantityBreaks(derived.QuantityBreaks)

	return &pricing, nil
}

// derive fills unitPrice and unitPriceIncTax from their upstream
// fields when absent. Each step is skipped silently when its inputs
// are missing or non-numeric, and never overwrites a supplied value,
// so running it on complete pricing is a no-op.
func derive(draft PricingDraft, taxes TaxTable) PricingDraft {
	if draft.UnitPrice == nil {
		price, priceOK := parseDecimal(draft.PackagePrice)
		qty, qtyOK := parseInt(draft.PackageQuantity)
		if priceOK && qtyOK && qty > 0 {
			unit := price.Div(decimal.NewFromInt(int64(qty))).Round(4)
			draft.UnitPrice = unit
		}
	}
	if draft.UnitPriceIncTax == nil {
		if unit, ok := parseDecimal(draft.UnitPrice); ok {
			rate := taxes.Rate(draft.Currency)
			incTax := unit.Mul(decimal.NewFromInt(1).Add(rate)).Round(2)
			draft.UnitPriceIncTax = incTax
		}
	}
	return draft
}

func coerceQuantityBreaks(raw map[string]any) map[int]decimal.Decimal {
	if len(raw) == 0 {
		return nil
	}
	breaks := make(map[int]decimal.Decimal, len(raw))
	for key, value := range raw {
		qty, ok := parseInt(key)
		if !ok || qty <= 0 {
			continue
		}
		price, ok := parseDecimal(value)
		if !ok || !price.IsPositive() {
			continue
		}
		breaks[qty] = price
	}
	if len(breaks) == 0 {
		return nil
	}
	return breaks
}
