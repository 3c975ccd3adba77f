package commands

import (
	"fmt"
	"io"
	"os"
	"vendorscrape/lib/catalog"
	"vendorscrape/lib/export"
	"vendorscrape/lib/scrapestore"
	"vendorscrape/lib/vendors"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	scrapeCsvOut       *string
	scrapeInventreeOut *string
	scrapeDb           *string
)

func init() {
	scrapeCsvOut = scrapeCmd.Flags().String("csv", "", "Write successful records to this CSV file.")
	scrapeInventreeOut = scrapeCmd.Flags().String("inventree", "", "Write successful records to this InvenTree JSON file.")
	scrapeDb = scrapeCmd.Flags().String("db", "", "Record scrape outcomes in this sqlite history database.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape <url> [url...]",
	Short: "Scrapes product pages and exports the normalized records.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		registry := vendors.NewRegistry()

		var store scrapestore.Store
		hasStore := *scrapeDb != ""
		if hasStore {
			var err error
			store, err = scrapestore.Open(*scrapeDb)
			if err != nil {
				fatal("failed to open history database", err)
			}
			defer store.Close()
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"URL", "Vendor", "Status", "Elapsed (ms)", "Detail"})

		var records []*catalog.CanonicalRecord
		failures := 0
		for _, url := range args {
			s := registry.ResolveURL(url, cfg.scraperConfig())
			if s == nil {
				failures++
				t.AppendRow(table.Row{url, "-", "unsupported", "-", "no vendor registered for this domain"})
				continue
			}

			result := s.FetchRecord(cmd.Context(), url)
			vendor := s.Extractor.Vendor()
			if hasStore {
				if err := store.Push(cmd.Context(), url, vendor, result); err != nil {
					fatal("failed to record scrape outcome", err)
				}
			}

			if !result.Success {
				failures++
				t.AppendRow(table.Row{url, vendor, "failed", result.ElapsedMs, result.ErrorMessage})
				continue
			}
			records = append(records, result.Record)
			t.AppendRow(table.Row{url, vendor, "ok", result.ElapsedMs, result.Record.VendorPartNumber})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()

		if *scrapeCsvOut != "" {
			writeExport(*scrapeCsvOut, records, export.WriteCSV)
		}
		if *scrapeInventreeOut != "" {
			writeExport(*scrapeInventreeOut, records, export.WriteInvenTreeJSON)
		}

		if failures > 0 {
			fmt.Fprintf(os.Stderr, "%d of %d urls failed\n", failures, len(args))
			os.Exit(1)
		}
	},
}

func writeExport(path string, records []*catalog.CanonicalRecord, write func(w io.Writer, records []*catalog.CanonicalRecord) error) {
	file, err := os.Create(path)
	if err != nil {
		fatal("failed to create export file", err)
	}
	defer file.Close()
	if err := write(file, records); err != nil {
		fatal("failed to write export file", err)
	}
	fmt.Printf("wrote %d records to %s\n", len(records), path)
}
