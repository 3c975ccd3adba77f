package commands

import (
	"os"
	"time"
	"vendorscrape/lib/scrapestore"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	historyVendor *string
	historyLimit  *int
	historyStats  *bool
)

func init() {
	historyVendor = historyCmd.Flags().String("vendor", "", "Only show entries for this vendor.")
	historyLimit = historyCmd.Flags().Int("limit", 20, "Maximum number of entries to show.")
	historyStats = historyCmd.Flags().Bool("stats", false, "Show per-vendor success/failure tallies instead of entries.")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history <path/to/history.db>",
	Short: "Prints past scrape outcomes from a history database.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, err := scrapestore.Open(args[0])
		if err != nil {
			fatal("failed to open history database", err)
		}
		defer store.Close()

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)

		if *historyStats {
			stats, err := store.Stats(cmd.Context())
			if err != nil {
				fatal("failed to read stats", err)
			}
			t.AppendHeader(table.Row{"Vendor", "Succeeded", "Failed"})
			for _, row := range stats {
				t.AppendRow(table.Row{row.Vendor, row.Succeeded, row.Failed})
			}
		} else {
			entries, err := store.Recent(cmd.Context(), *historyVendor, *historyLimit)
			if err != nil {
				fatal("failed to read history", err)
			}
			t.AppendHeader(table.Row{"When", "Vendor", "Part", "Status", "Detail"})
			for _, entry := range entries {
				status := "ok"
				detail := entry.URL
				if !entry.Success {
					status = "failed"
					detail = entry.ErrorMessage
				}
				t.AppendRow(table.Row{
					entry.ScrapedAt.Format(time.RFC3339),
					entry.Vendor,
					entry.PartNumber,
					status,
					detail,
				})
			}
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
