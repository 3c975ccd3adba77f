// Package mouser extracts product fields from Mouser Electronics
// (mouser.com) product pages.
package mouser

import (
	"strings"
	"vendorscrape/lib/catalog"
	"vendorscrape/lib/htmlutil"
	"vendorscrape/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

const (
	vendorName = "Mouser Electronics"
	baseURL    = "https://au.mouser.com"
)

var domains = []string{
	"mouser.com",
	"au.mouser.com",
	"uk.mouser.com",
	"de.mouser.com",
	"fr.mouser.com",
}

// Headers mimics a desktop browser closely enough to get past
// Mouser's bot screening.
var Headers = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:141.0) Gecko/20100101 Firefox/141.0",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.5",
	"Accept-Encoding":           "gzip, deflate, br, zstd",
	"Connection":                "keep-alive",
	"Upgrade-Insecure-Requests": "1",
	"Sec-Fetch-Dest":            "document",
	"Sec-Fetch-Mode":            "navigate",
	"Sec-Fetch-Site":            "cross-site",
	"Priority":                  "u=0, i",
	"Pragma":                    "no-cache",
	"Cache-Control":             "no-cache",
}

type Extractor struct{}

func New() *Extractor { return &Extractor{} }

func (e *Extractor) Vendor() string    { return vendorName }
func (e *Extractor) BaseURL() string   { return baseURL }
func (e *Extractor) Domains() []string { return domains }
func (e *Extractor) SampleURL() string {
	return baseURL + "/ProductDetail/571-DT04-2P-KIT"
}

func (e *Extractor) Extract(doc *goquery.Document, url string) (*catalog.Draft, error) {
	draft := &catalog.Draft{
		VendorName:       vendorName,
		VendorPartNumber: e.partNumber(doc),
		URL:              url,
		Title:            e.title(doc),
		Specifications:   e.specifications(doc),
		Pricing:          e.pricing(doc),
		Availability:     e.availability(doc),
		Media:            e.media(doc, url),
		ScraperVersion:   "1.0",
	}
	return draft, nil
}

func (e *Extractor) title(doc *goquery.Document) string {
	title := htmlutil.FirstText(doc, "span.bc-no-link", "span#spnDescription")
	if title == "" {
		return "Unknown Product"
	}
	return title
}

func (e *Extractor) partNumber(doc *goquery.Document) string {
	part := htmlutil.FirstText(doc, "span#spnMouserPartNumFormattedForProdInfo")
	if part == "" {
		return "Unknown"
	}
	return part
}

func (e *Extractor) specifications(doc *goquery.Document) catalog.Specifications {
	orUnknown := func(s string) string {
		if s == "" {
			return "Unknown"
		}
		return s
	}

	specs := catalog.Specifications{
		Manufacturer:           orUnknown(htmlutil.FirstText(doc, "a#lnkManufacturerName", `a[itemprop="url"]`)),
		ManufacturerPartNumber: orUnknown(htmlutil.FirstText(doc, "span#spnManufacturerPartNumber", "h1.panel-title")),
		Description:            orUnknown(htmlutil.FirstText(doc, "span#spnDescription", "h1.panel-title")),
	}

	crumbs := doc.Find("ol.breadcrumb li a")
	if crumbs.Length() >= 2 {
		specs.Category = textutil.Clean(crumbs.Eq(1).Text())
	}
	if crumbs.Length() >= 3 {
		specs.Subcategory = textutil.Clean(crumbs.Eq(2).Text())
	} else if crumbs.Length() > 0 {
		specs.Subcategory = "Unknown"
	}

	if table := doc.Find("table.specs-table").First(); table.Length() > 0 {
		specs.TechnicalSpecs = htmlutil.TableMap(table)
	}

	return specs
}

// pricing reads the quantity-break table; the first tier doubles as
// the package price and MOQ because Mouser sells by tier, not by
// fixed pack.
func (e *Extractor) pricing(doc *goquery.Document) catalog.PricingDraft {
	pricing := catalog.PricingDraft{Currency: "AUD"}

	table := doc.Find("div.pdp-product-availability-pricing table").First()
	if table.Length() == 0 {
		return pricing
	}

	breaks := map[string]any{}
	firstQty := ""
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if row.Find("th").Length() > 1 {
			return // header row
		}
		qty, qtyOK := textutil.Number(row.Find("th").First().Text())
		price, priceOK := textutil.Number(row.Find("td").First().Text())
		if !qtyOK || !priceOK {
			return
		}
		breaks[qty] = price
		if firstQty == "" {
			firstQty = qty
		}
	})

	if len(breaks) > 0 {
		pricing.QuantityBreaks = breaks
		pricing.PackagePrice = breaks[firstQty]
		pricing.PackageQuantity = firstQty
		pricing.MinimumOrderQuantity = firstQty
	}

	return pricing
}

func (e *Extractor) availability(doc *goquery.Document) catalog.Availability {
	availability := catalog.Availability{}

	text := htmlutil.FirstText(doc, "div.pdp-product-availability dd div")
	if text == "" {
		return availability
	}
	lower := strings.ToLower(text)
	availability.LeadTimeDescription = lower

	switch {
	case strings.Contains(lower, "can dispatch immediately") || strings.Contains(lower, "in stock"):
		inStock := true
		zero := 0
		availability.InStock = &inStock
		availability.LeadTimeDays = &zero
		if qty, ok := textutil.Quantity(lower); ok {
			availability.StockQuantity = &qty
		}
	case strings.Contains(lower, "on order") || strings.Contains(lower, "backorder"):
		inStock := false
		zero := 0
		availability.InStock = &inStock
		availability.StockQuantity = &zero
		availability.LeadTimeDays = &zero
	}

	return availability
}

func (e *Extractor) media(doc *goquery.Document, pageURL string) catalog.Media {
	media := catalog.Media{}

	if src, ok := doc.Find("img#defaultImg").First().Attr("src"); ok && src != "" {
		media.PrimaryImageURL = textutil.NormalizeURL(src, pageURL)
	}

	return media
}
