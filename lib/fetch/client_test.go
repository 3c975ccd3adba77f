package fetch_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"
	"vendorscrape/lib/fetch"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, opts fetch.Options) *fetch.Client {
	t.Helper()
	if opts.BaseURL == "" {
		opts.BaseURL = "https://vendor.example"
	}
	if opts.Delay == 0 {
		opts.Delay = time.Millisecond
	}
	client, err := fetch.NewClient(opts)
	require.NoError(t, err)
	httpmock.ActivateNonDefault(client.Http.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return client
}

func TestGet(t *testing.T) {
	client := newTestClient(t, fetch.Options{})
	httpmock.RegisterResponder(
		"GET", "https://vendor.example/product/123",
		httpmock.NewStringResponder(200, "<html>ok</html>"),
	)

	res, err := client.Get(context.Background(), "https://vendor.example/product/123")
	require.NoError(t, err)
	require.Equal(t, 200, res.StatusCode)
	require.Equal(t, "<html>ok</html>", string(res.Body))
}

func TestGetResolvesRelativeURL(t *testing.T) {
	client := newTestClient(t, fetch.Options{})
	httpmock.RegisterResponder(
		"GET", "https://vendor.example/catalog/item",
		httpmock.NewStringResponder(200, "ok"),
	)

	res, err := client.Get(context.Background(), "/catalog/item")
	require.NoError(t, err)
	require.Equal(t, "https://vendor.example/catalog/item", res.URL)
}

func TestGetRetriesExhausted(t *testing.T) {
	client := newTestClient(t, fetch.Options{
		Delay:      time.Millisecond * 10,
		MaxRetries: 3,
	})
	httpmock.RegisterResponder(
		"GET", "https://vendor.example/flaky",
		httpmock.NewStringResponder(500, "boom"),
	)

	start := time.Now()
	_, err := client.Get(context.Background(), "/flaky")
	elapsed := time.Since(start)

	var netErr *fetch.NetworkError
	require.ErrorAs(t, err, &netErr)
	require.Equal(t, 4, netErr.Attempts)
	require.Equal(t, 500, netErr.LastStatus)
	require.Equal(t, 4, httpmock.GetTotalCallCount())
	// backoff of 1+2+4 delays between the four attempts
	require.GreaterOrEqual(t, elapsed, time.Millisecond*70)
}

func TestGetRecoversMidway(t *testing.T) {
	client := newTestClient(t, fetch.Options{MaxRetries: 3})

	calls := 0
	httpmock.RegisterResponder(
		"GET", "https://vendor.example/flaky",
		func(req *http.Request) (*http.Response, error) {
			calls++
			if calls < 3 {
				return httpmock.NewStringResponse(503, "not yet"), nil
			}
			return httpmock.NewStringResponse(200, "finally"), nil
		},
	)

	res, err := client.Get(context.Background(), "/flaky")
	require.NoError(t, err)
	require.Equal(t, "finally", string(res.Body))
	require.Equal(t, 3, calls)
}

func TestGetRateLimit(t *testing.T) {
	delay := time.Millisecond * 50
	client := newTestClient(t, fetch.Options{Delay: delay})
	httpmock.RegisterResponder(
		"GET", "https://vendor.example/a",
		httpmock.NewStringResponder(200, "ok"),
	)

	start := time.Now()
	_, err := client.Get(context.Background(), "/a")
	require.NoError(t, err)
	_, err = client.Get(context.Background(), "/a")
	require.NoError(t, err)
	// the first request goes out immediately, only the second waits
	require.GreaterOrEqual(t, time.Since(start), delay)
	require.Less(t, time.Since(start), delay*2)
}

func TestGetContextCancelled(t *testing.T) {
	client := newTestClient(t, fetch.Options{
		Delay:      time.Second * 5,
		MaxRetries: 3,
	})
	httpmock.RegisterResponder(
		"GET", "https://vendor.example/slow",
		httpmock.NewStringResponder(500, "boom"),
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*50)
	defer cancel()

	_, err := client.Get(ctx, "/slow")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTranscriptDir(t *testing.T) {
	client := newTestClient(t, fetch.Options{})
	dir := t.TempDir()
	require.NoError(t, fetch.TranscriptDir(client, dir))

	httpmock.RegisterResponder(
		"GET", "https://vendor.example/p/1",
		httpmock.NewStringResponder(200, "<html>widget</html>"),
	)

	_, err := client.Get(context.Background(), "/p/1")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "1.txt"))
	require.NoError(t, err)
	require.Contains(t, string(data), "---- REQUEST ----")
	require.Contains(t, string(data), "<html>widget</html>")
}

func TestSetCookies(t *testing.T) {
	client := newTestClient(t, fetch.Options{})
	client.SetCookies(map[string]string{"session": "abc123"})

	httpmock.RegisterResponder(
		"GET", "https://vendor.example/whoami",
		func(req *http.Request) (*http.Response, error) {
			cookie, err := req.Cookie("session")
			require.NoError(t, err)
			require.Equal(t, "abc123", cookie.Value)
			return httpmock.NewStringResponse(200, "ok"), nil
		},
	)

	_, err := client.Get(context.Background(), "/whoami")
	require.NoError(t, err)

	found := false
	for _, c := range client.Cookies() {
		if c.Name == "session" && c.Value == "abc123" {
			found = true
		}
	}
	require.True(t, found)
}
