package catalog

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// parseDecimal leniently reads a decimal out of whatever type an
// extractor produced. Used by derivation, where a bad input just means
// "skip the step".
func parseDecimal(v any) (decimal.Decimal, bool) {
	switch val := v.(type) {
	case nil:
		return decimal.Decimal{}, false
	case decimal.Decimal:
		return val, true
	case *decimal.Decimal:
		if val == nil {
			return decimal.Decimal{}, false
		}
		return *val, true
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return decimal.Decimal{}, false
		}
		d, err := decimal.NewFromString(trimmed)
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	case float64:
		return decimal.NewFromFloat(val), true
	case float32:
		return decimal.NewFromFloat32(val), true
	case int:
		return decimal.NewFromInt(int64(val)), true
	case int64:
		return decimal.NewFromInt(val), true
	default:
		return decimal.Decimal{}, false
	}
}

func parseInt(v any) (int, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		if val != float64(int(val)) {
			return 0, false
		}
		return int(val), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// coerceDecimal strictly parses a monetary field. nil stays nil; a
// value that will not parse is a *ValidationError.
func coerceDecimal(field string, v any) (*decimal.Decimal, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, ok := parseDecimal(v)
	if !ok {
		return nil, &ValidationError{Field: field, Value: v}
	}
	return &d, nil
}

// coerceInt parses a quantity field, dropping it when unparseable.
func coerceInt(v any) *int {
	n, ok := parseInt(v)
	if !ok {
		return nil
	}
	return &n
}
