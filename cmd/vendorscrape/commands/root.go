package commands

import (
	"context"
	"fmt"
	"os"
	"time"
	"vendorscrape/lib/catalog"
	"vendorscrape/lib/configutil"
	"vendorscrape/lib/cookies"
	"vendorscrape/lib/scraper"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vendorscrape",
	Short: "vendorscrape fetches product data from vendor websites and normalizes it for export.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func fatal(message string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", message, err)
	os.Exit(1)
}

// Config is read from config.json5 next to the binary (with an
// optional config.local.json5 overlay).
type Config struct {
	DelaySeconds       float64            `json:"delay_seconds"`
	TimeoutSeconds     float64            `json:"timeout_seconds"`
	MaxRetries         int                `json:"max_retries"`
	Headers            map[string]string  `json:"headers"`
	CookieDir          string             `json:"cookie_dir"`
	CookieExpiryHours  float64            `json:"cookie_expiry_hours"`
	AutoRefreshCookies bool               `json:"auto_refresh_cookies"`
	TaxRates           map[string]float64 `json:"tax_rates"`
	DebugHttpDir       string             `json:"debug_http_dir"`
}

func readConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if os.IsNotExist(err) {
		return Config{}
	}
	if err != nil {
		fatal("failed to read config.json5", err)
	}
	return cfg
}

func (c Config) scraperConfig() scraper.Config {
	taxes := catalog.TaxTable{}
	for currency, rate := range c.TaxRates {
		taxes[currency] = decimal.NewFromFloat(rate)
	}
	cookieDir := c.CookieDir
	if cookieDir == "" {
		cookieDir = ".cookies"
	}
	return scraper.Config{
		Delay:              time.Duration(c.DelaySeconds * float64(time.Second)),
		Timeout:            time.Duration(c.TimeoutSeconds * float64(time.Second)),
		MaxRetries:         c.MaxRetries,
		Headers:            c.Headers,
		CookieDir:          cookieDir,
		CookieTTL:          time.Duration(c.CookieExpiryHours * float64(time.Hour)),
		AutoRefreshCookies: c.AutoRefreshCookies,
		Harvester:          cookies.NewBrowserHarvester(),
		Taxes:              taxes,
		DebugDir:           c.DebugHttpDir,
	}
}
