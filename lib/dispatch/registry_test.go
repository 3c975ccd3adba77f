package dispatch_test

import (
	"errors"
	"testing"
	"vendorscrape/lib/dispatch"

	"github.com/stretchr/testify/require"
)

type fakeScraper struct {
	vendor string
	delay  int
}

type fakeConfig struct {
	delay int
}

func newTestRegistry() *dispatch.Registry[*fakeScraper, fakeConfig] {
	registry := dispatch.NewRegistry[*fakeScraper, fakeConfig]()
	registry.Register("Acme", func(config fakeConfig) (*fakeScraper, error) {
		return &fakeScraper{vendor: "acme", delay: config.delay}, nil
	}, "acme.com")
	registry.Register("Mouser", func(config fakeConfig) (*fakeScraper, error) {
		return &fakeScraper{vendor: "mouser", delay: config.delay}, nil
	}, "mouser.com", "mouser.co.uk")
	return registry
}

func TestResolveVendor(t *testing.T) {
	registry := newTestRegistry()

	scraper := registry.ResolveVendor("ACME", fakeConfig{delay: 2})
	require.NotNil(t, scraper)
	require.Equal(t, "acme", scraper.vendor)
	require.Equal(t, 2, scraper.delay)

	require.Nil(t, registry.ResolveVendor("digikey", fakeConfig{}))
}

func TestResolveVendorConstructorFailure(t *testing.T) {
	registry := newTestRegistry()
	registry.Register("broken", func(config fakeConfig) (*fakeScraper, error) {
		return nil, errors.New("no client")
	}, "broken.com")

	require.Nil(t, registry.ResolveVendor("broken", fakeConfig{}))
	require.Nil(t, registry.ResolveURL("https://broken.com/p/1", fakeConfig{}))
}

func TestResolveURLExactMatch(t *testing.T) {
	registry := newTestRegistry()

	scraper := registry.ResolveURL("https://acme.com/p/1", fakeConfig{})
	require.NotNil(t, scraper)
	require.Equal(t, "acme", scraper.vendor)
}

func TestResolveURLStripsWWWAndCase(t *testing.T) {
	registry := newTestRegistry()

	upper := registry.ResolveURL("https://WWW.Acme.com/p/1", fakeConfig{})
	bare := registry.ResolveURL("https://acme.com/p/1", fakeConfig{})
	require.NotNil(t, upper)
	require.NotNil(t, bare)
	require.Equal(t, bare.vendor, upper.vendor)
}

func TestResolveURLSubdomainSuffix(t *testing.T) {
	registry := newTestRegistry()

	scraper := registry.ResolveURL("https://shop.acme.com/x", fakeConfig{})
	require.NotNil(t, scraper)
	require.Equal(t, "acme", scraper.vendor)
}

func TestResolveURLLiteralSuffixRule(t *testing.T) {
	registry := newTestRegistry()

	// notacme.com ends with acme.com without a dot boundary; the
	// suffix rule accepts it anyway
	scraper := registry.ResolveURL("https://notacme.com/x", fakeConfig{})
	require.NotNil(t, scraper)
	require.Equal(t, "acme", scraper.vendor)
}

func TestResolveURLUnknownDomain(t *testing.T) {
	registry := newTestRegistry()

	require.Nil(t, registry.ResolveURL("https://digikey.com/p/1", fakeConfig{}))
	require.Nil(t, registry.ResolveURL("not a url at all", fakeConfig{}))
	require.False(t, registry.Supported("https://digikey.com/p/1"))
}

func TestResolveURLRegistrationOrderBreaksTies(t *testing.T) {
	registry := dispatch.NewRegistry[*fakeScraper, fakeConfig]()
	registry.Register("first", func(fakeConfig) (*fakeScraper, error) {
		return &fakeScraper{vendor: "first"}, nil
	}, "online.com")
	registry.Register("second", func(fakeConfig) (*fakeScraper, error) {
		return &fakeScraper{vendor: "second"}, nil
	}, "shop.online.com")

	scraper := registry.ResolveURL("https://uk.shop.online.com/x", fakeConfig{})
	require.NotNil(t, scraper)
	require.Equal(t, "first", scraper.vendor)
}

func TestQueries(t *testing.T) {
	registry := newTestRegistry()

	require.ElementsMatch(t, []string{"acme", "mouser"}, registry.Vendors())
	require.Equal(t, map[string]string{
		"acme.com":     "acme",
		"mouser.com":   "mouser",
		"mouser.co.uk": "mouser",
	}, registry.Domains())
	require.True(t, registry.Supported("https://mouser.co.uk/p/1"))
}
