package cookies

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
)

// consentSelectors covers the cookie-consent widgets seen on the
// supported vendor sites. The first one that appears gets clicked.
var consentSelectors = []string{
	"#onetrust-accept-btn-handler",
	"[data-testid='cookie-accept']",
	".cookie-accept",
	"#cookie-accept",
	"button[title*='Accept']",
	"button[aria-label*='Accept']",
}

// BrowserHarvester drives a headless Chrome session through a vendor
// site's consent banner and captures the resulting session cookies.
type BrowserHarvester struct {
	// SettleTime is how long to let the page run scripts before
	// reading cookies.
	SettleTime time.Duration
	// Timeout bounds the whole harvest.
	Timeout time.Duration
	// Headless runs the browser without a window. Turn it off when
	// a site requires interactive consent.
	Headless bool
}

func NewBrowserHarvester() *BrowserHarvester {
	return &BrowserHarvester{
		SettleTime: time.Second * 3,
		Timeout:    time.Second * 60,
		Headless:   true,
	}
}

func (h *BrowserHarvester) Harvest(ctx context.Context, baseURL, sampleURL string) (map[string]string, error) {
	opts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", h.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()
	browserCtx, cancel = context.WithTimeout(browserCtx, h.Timeout)
	defer cancel()

	actions := []chromedp.Action{
		chromedp.Navigate(baseURL),
		chromedp.Sleep(h.SettleTime),
		chromedp.ActionFunc(h.acceptConsent),
		chromedp.Sleep(time.Second),
	}
	if sampleURL != "" {
		// visiting a real product page triggers the secondary
		// cookies some vendors only set past the landing page
		actions = append(actions,
			chromedp.Navigate(sampleURL),
			chromedp.Sleep(h.SettleTime),
		)
	}

	cookies := map[string]string{}
	actions = append(actions,
		chromedp.ActionFunc(func(ctx context.Context) error {
			stored, err := storage.GetCookies().Do(ctx)
			if err != nil {
				return err
			}
			for _, c := range stored {
				cookies[c.Name] = c.Value
			}
			return nil
		}),
	)

	if err := chromedp.Run(browserCtx, actions...); err != nil {
		return nil, fmt.Errorf("harvest cookies from %s: %w", baseURL, err)
	}

	slog.DebugContext(ctx, "harvested cookies", "url", baseURL, "count", len(cookies))
	return cookies, nil
}

// acceptConsent clicks the first consent button that exists. A page
// without a banner is fine, the harvest proceeds with whatever
// cookies the site set on its own.
func (h *BrowserHarvester) acceptConsent(ctx context.Context) error {
	for _, selector := range consentSelectors {
		clickCtx, cancel := context.WithTimeout(ctx, time.Second*2)
		err := chromedp.Run(clickCtx,
			chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible),
		)
		cancel()
		if err == nil {
			slog.Debug("accepted cookie consent", "selector", selector)
			return nil
		}
	}
	return nil
}
