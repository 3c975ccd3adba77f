// Package vendors wires every vendor extractor into a dispatch
// registry. Construct the registry once at startup and pass it to
// whatever resolves URLs.
package vendors

import (
	"maps"
	"vendorscrape/lib/dispatch"
	"vendorscrape/lib/scraper"
	"vendorscrape/lib/vendors/mouser"
	"vendorscrape/lib/vendors/rsonline"
)

// Registry routes URLs and vendor names to scraper instances.
type Registry = dispatch.Registry[*scraper.Scraper, scraper.Config]

// NewRegistry registers all supported vendors.
func NewRegistry() *Registry {
	registry := dispatch.NewRegistry[*scraper.Scraper, scraper.Config]()
	register(registry, rsonline.New(), nil)
	register(registry, mouser.New(), mouser.Headers)
	return registry
}

func register(registry *Registry, extractor scraper.Extractor, headers map[string]string) {
	registry.Register(extractor.Vendor(), func(config scraper.Config) (*scraper.Scraper, error) {
		if len(headers) > 0 {
			// vendor defaults first, caller overrides win
			merged := make(map[string]string, len(headers)+len(config.Headers))
			maps.Copy(merged, headers)
			maps.Copy(merged, config.Headers)
			config.Headers = merged
		}
		return scraper.New(extractor, config)
	}, extractor.Domains()...)
}
