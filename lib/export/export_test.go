package export_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"vendorscrape/lib/catalog"
	"vendorscrape/lib/export"

	"github.com/stretchr/testify/require"
)

func sampleRecord(t *testing.T) *catalog.CanonicalRecord {
	t.Helper()
	inStock := true
	draft := catalog.Draft{
		VendorName:       "RS Components",
		VendorPartNumber: "123-4567",
		URL:              "https://uk.rs-online.com/web/p/resistors/1234567",
		Title:            "10k resistor",
		Specifications: catalog.Specifications{
			Manufacturer: "Vishay",
			Category:     "Resistors",
			Description:  "Metal film resistor",
		},
		Availability: catalog.Availability{InStock: &inStock},
		Pricing: catalog.PricingDraft{
			Currency:        "GBP",
			PackagePrice:    "7.42",
			PackageQuantity: 100,
		},
	}
	record, err := catalog.Build(draft, nil)
	require.NoError(t, err)
	return record
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := export.WriteCSV(&buf, []*catalog.CanonicalRecord{sampleRecord(t)})
	require.NoError(t, err)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, catalog.SpreadsheetColumns, rows[0])

	byColumn := map[string]string{}
	for i, column := range rows[0] {
		byColumn[column] = rows[1][i]
	}
	require.Equal(t, "RS Components", byColumn["Vendor"])
	require.Equal(t, "0.0742", byColumn["Unit Price"])
	require.Equal(t, "GBP", byColumn["Currency"])
	require.Equal(t, "Yes", byColumn["In Stock"])
	require.Equal(t, "", byColumn["Stock Quantity"])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1) // header only
}

func TestWriteInvenTreeJSON(t *testing.T) {
	var buf bytes.Buffer
	err := export.WriteInvenTreeJSON(&buf, []*catalog.CanonicalRecord{sampleRecord(t)})
	require.NoError(t, err)

	var parts []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parts))
	require.Len(t, parts, 1)
	require.Equal(t, "10k resistor", parts[0]["name"])
	require.Equal(t, "RS Components", parts[0]["default_supplier"])
	require.Equal(t, 0.0742, parts[0]["base_cost"])
	require.Equal(t, true, parts[0]["purchaseable"])
}

func TestDefaultFilename(t *testing.T) {
	name := export.DefaultFilename("csv")
	require.Regexp(t, `^scraped_products_\d{8}_\d{6}\.csv$`, name)
}
