// Package rsonline extracts product fields from RS Components
// (rs-online.com) product pages.
package rsonline

import (
	"regexp"
	"strings"
	"vendorscrape/lib/catalog"
	"vendorscrape/lib/htmlutil"
	"vendorscrape/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

const (
	vendorName = "RS Components"
	baseURL    = "https://au.rs-online.com"
)

var domains = []string{
	"rs-online.com",
	"uk.rs-online.com",
	"au.rs-online.com",
	"sg.rs-online.com",
	"export.rs-online.com",
	"ie.rs-online.com",
	"fr.rs-online.com",
	"de.rs-online.com",
}

var mfrPartRegex = regexp.MustCompile(`Mfr\. Part No\.:\s*(\S+)`)

type Extractor struct{}

func New() *Extractor { return &Extractor{} }

func (e *Extractor) Vendor() string    { return vendorName }
func (e *Extractor) BaseURL() string   { return baseURL }
func (e *Extractor) Domains() []string { return domains }
func (e *Extractor) SampleURL() string {
	return baseURL + "/web/p/enclosure-ventilation/1749400"
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
	title := htmlutil.FirstText(doc,
		`h1[data-testid="product-title"]`,
		"h1.product-title",
		"h1",
		".pdp-product-name h1",
		`[data-qa="product-name"]`,
	)
	if title == "" {
		return "Unknown Product"
	}
	return title
}

func (e *Extractor) partNumber(doc *goquery.Document) string {
	text := htmlutil.FirstText(doc,
		`[data-testid="manufacturer-part-number"]`,
		".mpn",
		`[data-qa="manufacturer-part-number"]`,
	)
	if match := mfrPartRegex.FindStringSubmatch(text); match != nil {
		return match[1]
	}
	if text != "" && !strings.Contains(text, "Mfr. Part No.") {
		return text
	}

	// fall back to the specifications table
	for key, value := range e.specsTable(doc) {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "mfr. part no") || strings.Contains(lower, "manufacturer part number") {
			return value
		}
	}
	return "Unknown"
}

func (e *Extractor) specsTable(doc *goquery.Document) map[string]string {
	table := doc.Find(`.specifications-table, .tech-specs, [data-testid="specifications"]`).First()
	if table.Length() == 0 {
		return nil
	}
	return htmlutil.TableMap(table)
}

func (e *Extractor) specifications(doc *goquery.Document) catalog.Specifications {
	specs := catalog.Specifications{
		Manufacturer: htmlutil.FirstText(doc,
			`[data-testid="manufacturer-name"]`,
			".manufacturer-name",
			`[data-qa="brand-name"]`,
		),
		ManufacturerPartNumber: htmlutil.FirstText(doc,
			`[data-testid="manufacturer-part-number"]`,
			".mpn",
			`[data-qa="manufacturer-part-number"]`,
		),
		Description: htmlutil.FirstText(doc,
			`[data-testid="product-description"]`,
			".product-description",
			".pdp-product-description",
		),
		TechnicalSpecs: e.specsTable(doc),
	}

	// second-to-last breadcrumb link is the leaf category
	crumbs := doc.Find(`.breadcrumb a, .breadcrumbs a, [data-testid="breadcrumb"] a`)
	if crumbs.Length() > 1 {
		specs.Category = textutil.Clean(crumbs.Eq(crumbs.Length() - 2).Text())
	}

	return specs
}

func (e *Extractor) pricing(doc *goquery.Document) catalog.PricingDraft {
	pricing := catalog.PricingDraft{Currency: "AUD"}

	if text := htmlutil.FirstText(doc,
		`[data-testid="exc-vat"]`,
		".price-current",
		".unit-price",
		`[data-qa="unit-price"]`,
	); text != "" {
		if price, ok := textutil.Number(text); ok {
			pricing.UnitPrice = price
		}
	}
	if text := htmlutil.FirstText(doc, `[data-testid="inc-vat"]`); text != "" {
		if price, ok := textutil.Number(text); ok {
			pricing.UnitPriceIncTax = price
		}
	}

	breaks := map[string]any{}
	doc.Find(`.price-breaks tr, .quantity-pricing tr, [data-testid="price-breaks"] tr`).
		Each(func(i int, row *goquery.Selection) {
			if i == 0 {
				return // header
			}
			cells := row.Find("td, th")
			if cells.Length() < 2 {
				return
			}
			qty, qtyOK := textutil.Number(cells.Eq(0).Text())
			price, priceOK := textutil.Number(cells.Eq(1).Text())
			if qtyOK && priceOK {
				breaks[qty] = price
			}
		})
	if len(breaks) > 0 {
		pricing.QuantityBreaks = breaks
	}

	if text := htmlutil.FirstText(doc,
		`[data-testid="price-heading"]`,
		`[data-testid="minimum-order-quantity"]`,
		".moq",
		`[data-qa="moq"]`,
	); text != "" {
		if moq, ok := textutil.Number(text); ok {
			pricing.MinimumOrderQuantity = moq
		}
	}

	return pricing
}

func (e *Extractor) availability(doc *goquery.Document) catalog.Availability {
	availability := catalog.Availability{}

	text := htmlutil.FirstText(doc,
		`[data-testid="stock-status"]`,
		`[data-testid="stock-status-0"]`,
		".stock-status",
		`[data-qa="availability"]`,
	)
	if text == "" {
		return availability
	}

	lower := strings.ToLower(text)
	inStock := strings.Contains(lower, "in global stock") || strings.Contains(lower, "in local stock")
	availability.InStock = &inStock
	availability.LeadTimeDescription = lower

	if qty, ok := textutil.Quantity(lower); ok {
		availability.StockQuantity = &qty
	}
	if days, ok := textutil.LeadTimeDays(lower); ok {
		availability.LeadTimeDays = &days
	}

	return availability
}

func (e *Extractor) media(doc *goquery.Document, pageURL string) catalog.Media {
	media := catalog.Media{}

	img := doc.Find(strings.Join([]string{
		`[data-testid="gallery-fallback-image"]`,
		".product-image img",
		".pdp-image img",
		".hero-image img",
	}, ", ")).First()
	if src, ok := img.Attr("src"); ok && src != "" {
		media.PrimaryImageURL = textutil.NormalizeURL(src, pageURL)
		if srcset, ok := img.Attr("srcset"); ok && srcset != "" {
			media.AdditionalImages = strings.Split(srcset, ", ")
		}
	}

	return media
}
