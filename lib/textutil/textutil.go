package textutil

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Clean collapses runs of whitespace and trims the result.
func Clean(text string) string {
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

var currencyRegex = regexp.MustCompile(`[£$€¥,]|USD|GBP|EUR|AUD`)
var numberRegex = regexp.MustCompile(`\d+\.?\d*`)

// Number extracts the first decimal number from text after stripping
// currency symbols and thousands separators. The number is returned as
// the matched string so callers can hand it to an exact decimal parser.
func Number(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	cleaned := currencyRegex.ReplaceAllString(text, "")
	match := numberRegex.FindString(cleaned)
	if match == "" {
		return "", false
	}
	return match, true
}

var quantityRegexes = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\s*(?:in stock|in global stock|in local stock|available|pieces?|units?)`),
	regexp.MustCompile(`(?:stock|available|qty):\s*(\d+)`),
	regexp.MustCompile(`(\d+)\s*(?:pcs?|pc|units?)`),
}

// Quantity extracts a stock or order quantity from free-form vendor
// text like "1,234 In Stock" or "Available: 10".
func Quantity(text string) (int, bool) {
	if text == "" {
		return 0, false
	}
	lower := strings.ToLower(strings.ReplaceAll(text, ",", ""))
	for _, re := range quantityRegexes {
		groups := re.FindStringSubmatch(lower)
		if len(groups) < 2 {
			continue
		}
		n, err := strconv.Atoi(groups[1])
		if err != nil {
			continue
		}
		return n, true
	}
	return 0, false
}

var leadTimeRegex = regexp.MustCompile(`(\d+)(?:-\d+)?\s*(?:working\s*)?day(?:s)?`)

// LeadTimeDays extracts a lead time in days from text like
// "5-7 working days".
func LeadTimeDays(text string) (int, bool) {
	groups := leadTimeRegex.FindStringSubmatch(strings.ToLower(text))
	if len(groups) < 2 {
		return 0, false
	}
	n, err := strconv.Atoi(groups[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// NormalizeURL completes protocol-relative and site-relative URLs
// against a base.
func NormalizeURL(raw, base string) string {
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "//") {
		return "https:" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if parsed.IsAbs() {
		return raw
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return raw
	}
	return baseURL.ResolveReference(parsed).String()
}

// LowerUnderscore converts text to lower case with underscores in
// place of spaces.
func LowerUnderscore(text string) string {
	return strings.ReplaceAll(strings.ToLower(text), " ", "_")
}
