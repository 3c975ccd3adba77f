package catalog

import (
	"fmt"
	"time"
)

// InvenTreeFields flattens a record into the field names the InvenTree
// part-import API expects. Exporters rely on these keys exactly.
func (r *CanonicalRecord) InvenTreeFields() map[string]any {
	description := r.Specifications.Description
	if description == "" {
		description = r.Title
	}
	ipn := r.Specifications.ManufacturerPartNumber
	if ipn == "" {
		ipn = r.VendorPartNumber
	}

	provenance := fmt.Sprintf("Scraped from %s on %s", r.VendorName, r.ScrapedAt.Format(time.RFC3339))
	notes := provenance
	if r.Specifications.DetailedDescription != "" {
		notes = r.Specifications.DetailedDescription + "\n\n" + provenance
	}

	var baseCost any
	if r.Pricing.UnitPrice != nil {
		baseCost, _ = r.Pricing.UnitPrice.Float64()
	}
	units := r.Pricing.PackageUnit
	if units == "" {
		units = "each"
	}
	minimumStock := 1
	if r.Pricing.MinimumOrderQuantity != nil {
		minimumStock = *r.Pricing.MinimumOrderQuantity
	}
	var remoteImage any
	if r.Media.PrimaryImageURL != "" {
		remoteImage = r.Media.PrimaryImageURL
	}
	var inStock any
	if r.Availability.InStock != nil {
		inStock = *r.Availability.InStock
	}

	return map[string]any{
		"name":             r.Title,
		"description":      description,
		"IPN":              ipn,
		"category_name":    r.Specifications.Category,
		"link":             r.URL,
		"remote_image":     remoteImage,
		"notes":            notes,
		"default_supplier": r.VendorName,
		"base_cost":        baseCost,
		"units":            units,
		"in_stock":         inStock,
		"minimum_stock":    minimumStock,
		"purchaseable":     true,
		"active":           !r.Availability.Discontinued,
		"component":        true,
		"trackable":        false,
		"keywords":         fmt.Sprintf("%s,%s", r.VendorName, r.Specifications.Manufacturer),
		"creation_date":    r.ScrapedAt.Format(time.RFC3339),
	}
}

// SpreadsheetColumns is the column order for spreadsheet exports.
var SpreadsheetColumns = []string{
	"Vendor",
	"Vendor Part Number",
	"Product Title",
	"Manufacturer",
	"Manufacturer Part Number",
	"Category",
	"Description",
	"Unit Price",
	"Currency",
	"MOQ",
	"In Stock",
	"Stock Quantity",
	"Lead Time (Days)",
	"Product URL",
	"Image URL",
	"Scraped At",
}

// SpreadsheetRow flattens a record into one row keyed by
// SpreadsheetColumns.
func (r *CanonicalRecord) SpreadsheetRow() map[string]any {
	var unitPrice any
	if r.Pricing.UnitPrice != nil {
		unitPrice, _ = r.Pricing.UnitPrice.Float64()
	}
	var moq any
	if r.Pricing.MinimumOrderQuantity != nil {
		moq = *r.Pricing.MinimumOrderQuantity
	}
	var inStock any
	if r.Availability.InStock != nil {
		inStock = *r.Availability.InStock
	}
	var stockQty any
	if r.Availability.StockQuantity != nil {
		stockQty = *r.Availability.StockQuantity
	}
	var leadTime any
	if r.Availability.LeadTimeDays != nil {
		leadTime = *r.Availability.LeadTimeDays
	}
	var imageURL any
	if r.Media.PrimaryImageURL != "" {
		imageURL = r.Media.PrimaryImageURL
	}

	return map[string]any{
		"Vendor":                   r.VendorName,
		"Vendor Part Number":       r.VendorPartNumber,
		"Product Title":            r.Title,
		"Manufacturer":             r.Specifications.Manufacturer,
		"Manufacturer Part Number": r.Specifications.ManufacturerPartNumber,
		"Category":                 r.Specifications.Category,
		"Description":              r.Specifications.Description,
		"Unit Price":               unitPrice,
		"Currency":                 r.Pricing.Currency,
		"MOQ":                      moq,
		"In Stock":                 inStock,
		"Stock Quantity":           stockQty,
		"Lead Time (Days)":         leadTime,
		"Product URL":              r.URL,
		"Image URL":                imageURL,
		"Scraped At":               r.ScrapedAt.Format(time.RFC3339),
	}
}
