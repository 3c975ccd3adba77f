// Package fetch implements the HTTP layer shared by every vendor
// integration: a resty session with a persistent cookie jar, a minimum
// inter-request delay and bounded retries with exponential backoff.
//
// A Client is not safe for concurrent use. The rate limiter and the
// session state belong to a single worker; spin up one Client per
// concurrent unit of work instead of sharing one.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
	"vendorscrape/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	browser "github.com/EDDYCJY/fake-useragent"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/publicsuffix"
)

const (
	DefaultTimeout = time.Second * 30
	DefaultDelay   = time.Second
)

type Options struct {
	// BaseURL resolves relative request paths.
	BaseURL string
	// Delay is the minimum time between two requests issued by this
	// client. Defaults to DefaultDelay.
	Delay time.Duration
	// Timeout bounds a single attempt. Defaults to DefaultTimeout.
	Timeout time.Duration
	// MaxRetries is the number of retries after the first attempt, so
	// a request makes at most MaxRetries+1 attempts.
	MaxRetries int
	// Headers are sent on every request.
	Headers map[string]string
	// UserAgent overrides the generated one.
	UserAgent string
}

type Client struct {
	BaseURL *url.URL
	Http    *resty.Client

	delay       time.Duration
	maxRetries  int
	lastRequest time.Time
}

func NewClient(opts Options) (*Client, error) {
	baseURL, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	if opts.Delay == 0 {
		opts.Delay = DefaultDelay
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseURL)
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = browser.Computer()
	}
	client.SetHeader("user-agent", userAgent)
	client.SetHeader("accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	client.SetHeader("accept-language", "en-US,en;q=0.5")
	for k, v := range opts.Headers {
		client.SetHeader(k, v)
	}
	client.SetTimeout(opts.Timeout)

	telemetry.InstrumentResty(client, "fetch/http")

	return &Client{
		BaseURL:    baseURL,
		Http:       client,
		delay:      opts.Delay,
		maxRetries: opts.MaxRetries,
	}, nil
}

type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
	// URL is the final request URL after base-URL resolution.
	URL string
}

// Get performs one logical fetch of the given URL, relative paths are
// resolved against the client's base URL. It retries on transport
// errors and non-2xx statuses, sleeping 2^attempt times the configured
// delay between attempts, and fails with a *NetworkError only once
// maxRetries+1 attempts are exhausted.
func (c *Client) Get(ctx context.Context, rawURL string) (*Response, error) {
	target := c.resolve(rawURL)

	var lastErr error
	var lastStatus int

	for attempt := 0; ; attempt++ {
		if err := c.pause(ctx); err != nil {
			return nil, err
		}

		slog.DebugContext(ctx, "fetch", "url", target, "attempt", attempt+1)
		res, err := c.Http.R().SetContext(ctx).Get(target)
		c.lastRequest = time.Now()

		if err == nil && res.IsSuccess() {
			return &Response{
				StatusCode: res.StatusCode(),
				Body:       res.Body(),
				Header:     res.Header(),
				URL:        target,
			}, nil
		}

		if err != nil {
			lastErr = err
			lastStatus = 0
		} else {
			lastStatus = res.StatusCode()
			lastErr = fmt.Errorf("unexpected status %d", lastStatus)
		}
		slog.WarnContext(
			ctx, "fetch attempt failed",
			"url", target,
			"attempt", attempt+1,
			"err", lastErr,
		)

		if attempt == c.maxRetries {
			break
		}

		backoff := (1 << uint(attempt)) * c.delay
		slog.DebugContext(ctx, "retrying", "url", target, "backoff", backoff)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, &NetworkError{
		URL:        target,
		Attempts:   c.maxRetries + 1,
		LastStatus: lastStatus,
		Err:        lastErr,
	}
}

// pause enforces the minimum inter-request delay. The limiter state
// belongs to this instance only, nothing is shared process-wide.
func (c *Client) pause(ctx context.Context) error {
	if c.delay <= 0 || c.lastRequest.IsZero() {
		return nil
	}
	elapsed := time.Since(c.lastRequest)
	if elapsed >= c.delay {
		return nil
	}
	select {
	case <-time.After(c.delay - elapsed):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) resolve(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if parsed.IsAbs() {
		return rawURL
	}
	return c.BaseURL.ResolveReference(parsed).String()
}

// SetCookies replaces the named cookies in the session jar for the
// client's base URL. Responses keep merging cookies on top of these.
func (c *Client) SetCookies(cookies map[string]string) {
	if len(cookies) == 0 {
		return
	}
	list := make([]*http.Cookie, 0, len(cookies))
	for name, value := range cookies {
		list = append(list, &http.Cookie{Name: name, Value: value})
	}
	c.Http.GetClient().Jar.SetCookies(c.BaseURL, list)
}

// Cookies returns the session cookies currently held for the client's
// base URL.
func (c *Client) Cookies() []*http.Cookie {
	return c.Http.GetClient().Jar.Cookies(c.BaseURL)
}
