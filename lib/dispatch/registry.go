// Package dispatch maps URLs to vendor integrations. Resolution never
// fails with an error: an unsupported domain and a constructor failure
// both yield nil so callers treat "unknown vendor" as an ordinary
// outcome.
package dispatch

import (
	"log/slog"
	"net/url"
	"strings"
)

// Constructor builds a vendor integration from per-call configuration.
// The concrete instance type is up to the caller; the registry only
// routes.
type Constructor[T any, C any] func(config C) (T, error)

type domainEntry struct {
	domain string
	vendor string
}

// Registry routes URLs and vendor names to constructors. Complete all
// registrations before the first resolution; the registry itself does
// no locking.
type Registry[T any, C any] struct {
	constructors map[string]Constructor[T, C]
	// domains keeps registration order, which decides ties during
	// partial matching.
	domains []domainEntry
}

func NewRegistry[T any, C any]() *Registry[T, C] {
	return &Registry[T, C]{
		constructors: map[string]Constructor[T, C]{},
	}
}

// Register stores a constructor under a vendor name and claims the
// given domains for it. Names and domains are matched
// case-insensitively.
func (r *Registry[T, C]) Register(vendor string, constructor Constructor[T, C], domains ...string) {
	name := strings.ToLower(vendor)
	r.constructors[name] = constructor
	for _, domain := range domains {
		r.domains = append(r.domains, domainEntry{
			domain: strings.ToLower(domain),
			vendor: name,
		})
	}
}

// Vendors lists all registered vendor names.
func (r *Registry[T, C]) Vendors() []string {
	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}
	return names
}

// Domains returns the domain→vendor mapping. URL resolution order is
// a property of lookup, not of this map.
func (r *Registry[T, C]) Domains() map[string]string {
	mapping := make(map[string]string, len(r.domains))
	for _, entry := range r.domains {
		mapping[entry.domain] = entry.vendor
	}
	return mapping
}

// ResolveVendor constructs the integration registered under the given
// vendor name. An unknown name or a constructor failure yields T's
// zero value, so instantiate the registry with a pointer or interface
// type.
func (r *Registry[T, C]) ResolveVendor(vendor string, config C) T {
	var zero T
	constructor, ok := r.constructors[strings.ToLower(vendor)]
	if !ok {
		slog.Debug("no vendor registered", "vendor", vendor)
		return zero
	}
	instance, err := constructor(config)
	if err != nil {
		slog.Warn("vendor constructor failed", "vendor", vendor, "err", err)
		return zero
	}
	return instance
}

// ResolveURL finds the vendor owning a URL's domain and constructs its
// integration. An exact domain match wins; otherwise the first
// registered domain where either string is a suffix of the other is
// accepted. That suffix rule deliberately tolerates regional
// subdomains like uk.rs-online.com, at the cost of matching unrelated
// domains that share a trailing substring.
func (r *Registry[T, C]) ResolveURL(rawURL string, config C) T {
	vendor := r.vendorForURL(rawURL)
	if vendor == "" {
		var zero T
		return zero
	}
	return r.ResolveVendor(vendor, config)
}

// Supported reports whether a URL's domain belongs to a registered
// vendor.
func (r *Registry[T, C]) Supported(rawURL string) bool {
	return r.vendorForURL(rawURL) != ""
}

func (r *Registry[T, C]) vendorForURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		slog.Debug("unparseable url", "url", rawURL)
		return ""
	}
	host := strings.ToLower(parsed.Hostname())
	host = strings.TrimPrefix(host, "www.")

	for _, entry := range r.domains {
		if entry.domain == host {
			return entry.vendor
		}
	}
	for _, entry := range r.domains {
		if strings.HasSuffix(host, entry.domain) || strings.HasSuffix(entry.domain, host) {
			return entry.vendor
		}
	}
	return ""
}
