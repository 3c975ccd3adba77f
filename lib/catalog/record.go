// Package catalog defines the canonical product record every vendor
// integration normalizes into, along with the validation and pricing
// derivation that runs before data leaves the system.
package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Specifications holds descriptive fields with no cross-field
// invariants.
type Specifications struct {
	Manufacturer             string         `json:"manufacturer,omitempty"`
	ManufacturerPartNumber   string         `json:"manufacturer_part_number,omitempty"`
	Category                 string         `json:"category,omitempty"`
	Subcategory              string         `json:"subcategory,omitempty"`
	Description              string         `json:"description,omitempty"`
	DetailedDescription      string         `json:"detailed_description,omitempty"`
	TechnicalSpecs           map[string]string `json:"technical_specs,omitempty"`
	DatasheetURL             string         `json:"datasheet_url,omitempty"`
	ComplianceCertifications []string       `json:"compliance_certifications,omitempty"`
}

type Availability struct {
	InStock             *bool  `json:"in_stock,omitempty"`
	StockQuantity       *int   `json:"stock_quantity,omitempty"`
	LeadTimeDays        *int   `json:"lead_time_days,omitempty"`
	LeadTimeDescription string `json:"lead_time_description,omitempty"`
	Discontinued        bool   `json:"discontinued"`
	LifecycleStatus     string `json:"lifecycle_status,omitempty"`
}

type Media struct {
	PrimaryImageURL  string   `json:"primary_image_url,omitempty"`
	AdditionalImages []string `json:"additional_images,omitempty"`
	VideoURLs        []string `json:"video_urls,omitempty"`
}

// Pricing is the validated pricing block. Monetary fields are
// arbitrary-precision decimals; absent optionals are nil.
type Pricing struct {
	Currency             string                  `json:"currency"`
	PackagePrice         *decimal.Decimal        `json:"package_price,omitempty"`
	PackageQuantity      *int                    `json:"package_quantity,omitempty"`
	PackageUnit          string                  `json:"package_unit,omitempty"`
	UnitPrice            *decimal.Decimal        `json:"unit_price,omitempty"`
	UnitPriceIncTax      *decimal.Decimal        `json:"unit_price_inc_tax,omitempty"`
	MinimumOrderQuantity *int                    `json:"minimum_order_quantity,omitempty"`
	OrderMultiple        *int                    `json:"order_multiple,omitempty"`
	QuantityBreaks       map[int]decimal.Decimal `json:"quantity_breaks,omitempty"`
}

// CanonicalRecord is the normalized product representation. It is
// constructed once per successful scrape and consumed read-only by
// exporters.
type CanonicalRecord struct {
	VendorName         string         `json:"vendor_name"`
	VendorPartNumber   string         `json:"vendor_part_number"`
	URL                string         `json:"product_url"`
	Title              string         `json:"title"`
	Specifications     Specifications `json:"specifications"`
	Pricing            Pricing        `json:"pricing"`
	Availability       Availability   `json:"availability"`
	Media              Media          `json:"media"`
	VendorSpecificData map[string]any `json:"vendor_specific_data,omitempty"`
	ScrapedAt          time.Time      `json:"scraped_at"`
	ScraperVersion     string         `json:"scraper_version,omitempty"`
}
