// Package scraper composes the HTTP client, the cookie cache, and a
// vendor extraction strategy into one per-URL scrape operation with a
// never-panics result envelope.
package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"vendorscrape/lib/catalog"
	"vendorscrape/lib/cookies"
	"vendorscrape/lib/fetch"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lib/scraper")

// Extractor is the per-vendor field-extraction strategy. It owns the
// brittle CSS-selector knowledge; everything around it is shared.
type Extractor interface {
	// Vendor is the display name, e.g. "RS Components".
	Vendor() string
	// BaseURL is the site root, used for relative-URL resolution and
	// cookie harvesting.
	BaseURL() string
	// Domains lists the hostnames this vendor answers for.
	Domains() []string
	// SampleURL is a known product page a cookie harvest can visit to
	// trigger secondary cookies. May be empty.
	SampleURL() string
	// Extract pulls raw draft fields out of a parsed product page.
	Extract(doc *goquery.Document, url string) (*catalog.Draft, error)
}

// Config is the per-call contract: everything a caller can tune about
// one scraper instance.
type Config struct {
	Delay      time.Duration
	Timeout    time.Duration
	MaxRetries int
	Headers    map[string]string
	UserAgent  string
	// DebugDir, when set, records every request/response pair under
	// this directory.
	DebugDir string

	CookieDir          string
	CookieTTL          time.Duration
	AutoRefreshCookies bool
	FallbackCookies    map[string]string
	Harvester          cookies.Harvester

	Taxes catalog.TaxTable
}

// Scraper binds one extractor to its own HTTP session and cookie
// state. Instances are single-threaded: use one per concurrent worker.
type Scraper struct {
	Extractor Extractor
	Client    *fetch.Client
	Cookies   *cookies.Cache

	config Config
}

func New(extractor Extractor, config Config) (*Scraper, error) {
	client, err := fetch.NewClient(fetch.Options{
		BaseURL:    extractor.BaseURL(),
		Delay:      config.Delay,
		Timeout:    config.Timeout,
		MaxRetries: config.MaxRetries,
		Headers:    config.Headers,
		UserAgent:  config.UserAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("scraper for %s: %w", extractor.Vendor(), err)
	}
	if config.DebugDir != "" {
		if err := fetch.TranscriptDir(client, config.DebugDir); err != nil {
			return nil, fmt.Errorf("scraper for %s: %w", extractor.Vendor(), err)
		}
	}

	cache := cookies.NewCache(config.CookieDir, config.Harvester)
	if config.CookieTTL != 0 {
		cache.TTL = config.CookieTTL
	}

	return &Scraper{
		Extractor: extractor,
		Client:    client,
		Cookies:   cache,
		config:    config,
	}, nil
}

// FetchRecord scrapes one product URL end to end. Every failure mode,
// panics included, collapses into a failed Result so batch callers
// never stop mid-run.
func (s *Scraper) FetchRecord(ctx context.Context, url string) (result *Result) {
	ctx, span := tracer.Start(ctx, "scraper.FetchRecord")
	defer span.End()
	span.SetAttributes(
		attribute.String("vendor", s.Extractor.Vendor()),
		attribute.String("url", url),
	)

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("panic during scrape: %v", r)
			span.SetStatus(codes.Error, msg)
			slog.ErrorContext(ctx, "scrape panicked", "vendor", s.Extractor.Vendor(), "url", url, "panic", r)
			result = failure(msg, time.Since(start).Milliseconds(), 0)
		}
	}()

	s.Client.SetCookies(s.Cookies.Get(ctx, cookies.Request{
		Vendor:      s.Extractor.Vendor(),
		BaseURL:     s.Extractor.BaseURL(),
		SampleURL:   s.Extractor.SampleURL(),
		Fallback:    s.config.FallbackCookies,
		AutoRefresh: s.config.AutoRefreshCookies,
	}))

	res, err := s.Client.Get(ctx, url)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		status := 0
		var netErr *fetch.NetworkError
		if errors.As(err, &netErr) {
			status = netErr.LastStatus
		}
		return failure(err.Error(), time.Since(start).Milliseconds(), status)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return failure(fmt.Sprintf("parse page: %s", err), time.Since(start).Milliseconds(), res.StatusCode)
	}

	draft, err := s.Extractor.Extract(doc, res.URL)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return failure(fmt.Sprintf("extract fields: %s", err), time.Since(start).Milliseconds(), res.StatusCode)
	}

	record, err := catalog.Build(*draft, s.config.Taxes)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return failure(err.Error(), time.Since(start).Milliseconds(), res.StatusCode)
	}

	result, err = NewResult(true, record, "", time.Since(start).Milliseconds(), res.StatusCode)
	if err != nil {
		return failure(err.Error(), time.Since(start).Milliseconds(), res.StatusCode)
	}
	slog.InfoContext(
		ctx, "scraped record",
		"vendor", s.Extractor.Vendor(),
		"part", record.VendorPartNumber,
		"elapsed_ms", result.ElapsedMs,
	)
	return result
}

// FetchMany scrapes URLs sequentially on this instance's session,
// returning one Result per input in order.
func (s *Scraper) FetchMany(ctx context.Context, urls []string) []*Result {
	results := make([]*Result, 0, len(urls))
	for _, url := range urls {
		results = append(results, s.FetchRecord(ctx, url))
	}
	return results
}
