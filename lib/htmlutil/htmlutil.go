package htmlutil

import (
	"strings"
	"vendorscrape/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// FirstText cycles through selectors and returns the cleaned text of
// the first one that matches a non-empty element.
func FirstText(doc *goquery.Document, selectors ...string) string {
	for _, selector := range selectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		text := textutil.Clean(sel.Text())
		if text != "" {
			return text
		}
	}
	return ""
}

// FirstAttr cycles through selectors and returns the value of attr on
// the first matching element that carries it.
func FirstAttr(doc *goquery.Document, attr string, selectors ...string) string {
	for _, selector := range selectors {
		val, ok := doc.Find(selector).First().Attr(attr)
		if ok && strings.TrimSpace(val) != "" {
			return strings.TrimSpace(val)
		}
	}
	return ""
}

// TableMap parses a key/value table selection into a map, one entry
// per row with at least two cells. Header rows (th-only) are skipped.
func TableMap(table *goquery.Selection) map[string]string {
	out := map[string]string{}
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		key := textutil.Clean(cells.Eq(0).Text())
		key = strings.TrimSuffix(key, ":")
		value := textutil.Clean(cells.Eq(1).Text())
		if key != "" && value != "" {
			out[key] = value
		}
	})
	return out
}
