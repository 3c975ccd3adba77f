package commands

import (
	"os"
	"sort"
	"vendorscrape/lib/vendors"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(vendorsCmd)
}

var vendorsCmd = &cobra.Command{
	Use:   "vendors",
	Short: "Prints the supported vendors and the domains they answer for.",
	Run: func(cmd *cobra.Command, args []string) {
		registry := vendors.NewRegistry()

		byVendor := map[string][]string{}
		for domain, vendor := range registry.Domains() {
			byVendor[vendor] = append(byVendor[vendor], domain)
		}

		names := registry.Vendors()
		sort.Strings(names)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Vendor", "Domain"})
		for _, name := range names {
			domains := byVendor[name]
			sort.Strings(domains)
			for _, domain := range domains {
				t.AppendRow(table.Row{name, domain})
			}
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
