// Package export writes canonical records out for downstream
// consumers: a spreadsheet-shaped CSV and an InvenTree-compatible JSON
// dump. Exporters read records, never mutate them.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"
	"vendorscrape/lib/catalog"
)

// DefaultFilename names an export file with the current timestamp,
// e.g. "scraped_products_20260829_153000.csv".
func DefaultFilename(ext string) string {
	return fmt.Sprintf("scraped_products_%s.%s", time.Now().Format("20060102_150405"), ext)
}

// WriteCSV writes one spreadsheet row per record, with a header row,
// in catalog.SpreadsheetColumns order.
func WriteCSV(w io.Writer, records []*catalog.CanonicalRecord) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(catalog.SpreadsheetColumns); err != nil {
		return err
	}
	for _, record := range records {
		row := record.SpreadsheetRow()
		cells := make([]string, 0, len(catalog.SpreadsheetColumns))
		for _, column := range catalog.SpreadsheetColumns {
			cells = append(cells, formatCell(row[column]))
		}
		if err := writer.Write(cells); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatCell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprint(v)
	}
}

// WriteInvenTreeJSON writes records as a JSON array of InvenTree part
// fields.
func WriteInvenTreeJSON(w io.Writer, records []*catalog.CanonicalRecord) error {
	parts := make([]map[string]any, 0, len(records))
	for _, record := range records {
		parts = append(parts, record.InvenTreeFields())
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(parts)
}
