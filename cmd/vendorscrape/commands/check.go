package commands

import (
	"fmt"
	"os"
	"vendorscrape/lib/vendors"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <url>",
	Short: "Reports whether a URL belongs to a supported vendor.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		registry := vendors.NewRegistry()
		cfg := readConfig()

		s := registry.ResolveURL(args[0], cfg.scraperConfig())
		if s == nil {
			fmt.Println("unsupported: no vendor registered for this domain")
			os.Exit(1)
		}
		fmt.Printf("supported: %s\n", s.Extractor.Vendor())
	},
}
