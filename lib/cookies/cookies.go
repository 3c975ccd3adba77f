// Package cookies persists vendor session cookies across runs and
// re-harvests them with a headless browser once they go stale.
package cookies

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"vendorscrape/lib/textutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lib/cookies")

const DefaultTTL = time.Hour * 24

// Set is one vendor's session cookies plus bookkeeping for expiry.
// Timestamps are unix seconds so the file format stays portable.
type Set struct {
	Vendor    string            `json:"vendor"`
	BaseURL   string            `json:"base_url"`
	Cookies   map[string]string `json:"cookies"`
	Timestamp int64             `json:"timestamp"`
	ExpiresAt int64             `json:"expires_at"`
}

func (s *Set) Expired() bool {
	return time.Now().Unix() > s.ExpiresAt
}

// Harvester obtains fresh session cookies for a vendor site, usually
// by driving a real browser through its consent banner. sampleURL may
// be empty; when set the harvester visits it after the landing page to
// trigger any secondary cookies.
type Harvester interface {
	Harvest(ctx context.Context, baseURL, sampleURL string) (map[string]string, error)
}

// Request describes one vendor's cookie needs for a Get or Refresh.
type Request struct {
	Vendor  string
	BaseURL string
	// SampleURL is a known product page visited during harvesting to
	// warm up secondary cookies.
	SampleURL string
	// Fallback is a caller-supplied static cookie set used when both
	// the cache and harvesting come up empty.
	Fallback map[string]string
	// AutoRefresh permits a browser harvest when the cached set is
	// missing or expired.
	AutoRefresh bool
}

// Cache stores one cookie Set per vendor under Dir. Lookups prefer a
// fresh file, then a harvest, then the caller's static fallback, and
// finally give up with an empty set rather than an error.
type Cache struct {
	Dir       string
	TTL       time.Duration
	Harvester Harvester
}

func NewCache(dir string, harvester Harvester) *Cache {
	return &Cache{Dir: dir, TTL: DefaultTTL, Harvester: harvester}
}

func (c *Cache) path(vendor string) string {
	return filepath.Join(c.Dir, textutil.LowerUnderscore(vendor)+"_cookies.json")
}

// Load reads the stored cookie set for a vendor. Missing, corrupt, or
// partially-written files all read as absent: (nil, nil).
func (c *Cache) Load(vendor string) (*Set, error) {
	data, err := os.ReadFile(c.path(vendor))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var set Set
	if err := json.Unmarshal(data, &set); err != nil {
		slog.Warn("treating corrupt cookie file as absent", "vendor", vendor, "err", err)
		return nil, nil
	}
	return &set, nil
}

// Save writes the cookie set for a vendor, stamping it with the
// current time and the cache TTL.
func (c *Cache) Save(vendor, baseURL string, cookies map[string]string) (*Set, error) {
	now := time.Now()
	set := &Set{
		Vendor:    vendor,
		BaseURL:   baseURL,
		Cookies:   cookies,
		Timestamp: now.Unix(),
		ExpiresAt: now.Add(c.TTL).Unix(),
	}
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(c.path(vendor), data, 0600); err != nil {
		return nil, err
	}
	return set, nil
}

// Clear removes the stored cookie set for a vendor.
func (c *Cache) Clear(vendor string) error {
	err := os.Remove(c.path(vendor))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Refresh harvests a fresh cookie set unconditionally and overwrites
// the persisted file. A harvest that yields no cookies is not
// persisted, so later lookups keep trying instead of trusting an
// empty set for a whole TTL.
func (c *Cache) Refresh(ctx context.Context, req Request) (map[string]string, error) {
	ctx, span := tracer.Start(ctx, "cookies.Refresh")
	defer span.End()

	if c.Harvester == nil {
		err := errors.New("no cookie harvester configured")
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	fresh, err := c.Harvester.Harvest(ctx, req.BaseURL, req.SampleURL)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if len(fresh) == 0 {
		slog.WarnContext(ctx, "harvest yielded no cookies, keeping previous file", "vendor", req.Vendor)
		return fresh, nil
	}
	if _, err := c.Save(req.Vendor, req.BaseURL, fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

// Get returns usable session cookies for a vendor. The fallback chain
// never fails: a fresh cached set wins, otherwise a harvest is
// attempted (when allowed), otherwise the caller's static fallback,
// otherwise the result is empty.
func (c *Cache) Get(ctx context.Context, req Request) map[string]string {
	ctx, span := tracer.Start(ctx, "cookies.Get")
	defer span.End()

	cached, err := c.Load(req.Vendor)
	if err != nil {
		slog.WarnContext(ctx, "failed to load cached cookies", "vendor", req.Vendor, "err", err)
	}
	if cached != nil && !cached.Expired() && len(cached.Cookies) > 0 {
		slog.DebugContext(ctx, "using cached cookies", "vendor", req.Vendor)
		return cached.Cookies
	}

	if req.AutoRefresh && c.Harvester != nil {
		fresh, err := c.Refresh(ctx, req)
		if err == nil && len(fresh) > 0 {
			return fresh
		}
		if err != nil {
			slog.WarnContext(ctx, "cookie harvest failed", "vendor", req.Vendor, "err", err)
		}
	}

	if len(req.Fallback) > 0 {
		slog.DebugContext(ctx, "using caller-supplied fallback cookies", "vendor", req.Vendor)
		return req.Fallback
	}

	slog.WarnContext(ctx, "no cookies available", "vendor", req.Vendor)
	return map[string]string{}
}
