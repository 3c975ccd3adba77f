package scrapestore

import (
	"context"
	"testing"
	"time"
	"vendorscrape/lib/catalog"
	"vendorscrape/lib/scraper"
	"vendorscrape/lib/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapestore")
	defer cleanup()

	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	{
		entries, err := store.Recent(ctx, "", 10)
		require.NoError(t, err)
		require.Len(t, entries, 0)
	}

	record, err := catalog.Build(catalog.Draft{
		VendorName:       "RS Components",
		VendorPartNumber: "123-4567",
		URL:              "https://uk.rs-online.com/web/p/resistors/1234567",
		Title:            "10k resistor",
		Pricing:          catalog.PricingDraft{Currency: "GBP", UnitPrice: "0.07"},
	}, nil)
	require.NoError(t, err)

	success, err := scraper.NewResult(true, record, "", 120, 200)
	require.NoError(t, err)
	require.NoError(t, store.Push(ctx, record.URL, "RS Components", success))

	failed, err := scraper.NewResult(false, nil, "timed out", 30000, 0)
	require.NoError(t, err)
	require.NoError(t, store.Push(ctx, "https://mouser.com/ProductDetail/x", "Mouser Electronics", failed))

	{
		entries, err := store.Recent(ctx, "", 10)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		require.Equal(t, "Mouser Electronics", entries[0].Vendor)
		require.False(t, entries[0].Success)
		require.Equal(t, "timed out", entries[0].ErrorMessage)
		require.Nil(t, entries[0].Record)

		require.Equal(t, "RS Components", entries[1].Vendor)
		require.True(t, entries[1].Success)
		require.Equal(t, "123-4567", entries[1].PartNumber)
		require.NotNil(t, entries[1].Record)
		require.Equal(t, "10k resistor", entries[1].Record.Title)
	}
	{
		entries, err := store.Recent(ctx, "RS Components", 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		require.Equal(t, "RS Components", entries[0].Vendor)
	}
	{
		stats, err := store.Stats(ctx)
		require.NoError(t, err)
		require.Empty(t, cmp.Diff([]VendorStats{
			{Vendor: "Mouser Electronics", Succeeded: 0, Failed: 1},
			{Vendor: "RS Components", Succeeded: 1, Failed: 0},
		}, stats))
	}
}
