package cookies_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
	"vendorscrape/lib/cookies"

	"github.com/stretchr/testify/require"
)

type stubHarvester struct {
	cookies map[string]string
	err     error
	calls   int
}

func (s *stubHarvester) Harvest(ctx context.Context, baseURL, sampleURL string) (map[string]string, error) {
	s.calls++
	return s.cookies, s.err
}

func TestSaveAndLoad(t *testing.T) {
	cache := cookies.NewCache(t.TempDir(), nil)

	saved, err := cache.Save("RS Components", "https://uk.rs-online.com", map[string]string{
		"session": "abc",
	})
	require.NoError(t, err)
	require.False(t, saved.Expired())

	loaded, err := cache.Load("RS Components")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, "RS Components", loaded.Vendor)
	require.Equal(t, map[string]string{"session": "abc"}, loaded.Cookies)

	// vendor names map to lowercase underscored filenames
	_, err = os.Stat(filepath.Join(cache.Dir, "rs_components_cookies.json"))
	require.NoError(t, err)
}

func TestLoadMissing(t *testing.T) {
	cache := cookies.NewCache(t.TempDir(), nil)
	set, err := cache.Load("mouser")
	require.NoError(t, err)
	require.Nil(t, set)
}

func TestLoadCorruptFileReadsAsAbsent(t *testing.T) {
	cache := cookies.NewCache(t.TempDir(), nil)
	path := filepath.Join(cache.Dir, "mouser_cookies.json")
	require.NoError(t, os.WriteFile(path, []byte("{truncated"), 0600))

	set, err := cache.Load("mouser")
	require.NoError(t, err)
	require.Nil(t, set)
}

func TestGetPrefersFreshCache(t *testing.T) {
	harvester := &stubHarvester{cookies: map[string]string{"fresh": "1"}}
	cache := cookies.NewCache(t.TempDir(), harvester)

	_, err := cache.Save("mouser", "https://mouser.com", map[string]string{"cached": "1"})
	require.NoError(t, err)

	got := cache.Get(context.Background(), cookies.Request{
		Vendor:      "mouser",
		BaseURL:     "https://mouser.com",
		AutoRefresh: true,
	})
	require.Equal(t, map[string]string{"cached": "1"}, got)
	require.Zero(t, harvester.calls)
}

func TestGetHarvestsWhenExpired(t *testing.T) {
	harvester := &stubHarvester{cookies: map[string]string{"fresh": "1"}}
	cache := cookies.NewCache(t.TempDir(), harvester)
	cache.TTL = -time.Hour

	_, err := cache.Save("mouser", "https://mouser.com", map[string]string{"stale": "1"})
	require.NoError(t, err)

	got := cache.Get(context.Background(), cookies.Request{
		Vendor:      "mouser",
		BaseURL:     "https://mouser.com",
		AutoRefresh: true,
	})
	require.Equal(t, map[string]string{"fresh": "1"}, got)
	require.Equal(t, 1, harvester.calls)

	// the harvest result replaced the persisted file
	cache.TTL = cookies.DefaultTTL
	loaded, err := cache.Load("mouser")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"fresh": "1"}, loaded.Cookies)
}

func TestGetSkipsHarvestWhenDisabled(t *testing.T) {
	harvester := &stubHarvester{cookies: map[string]string{"fresh": "1"}}
	cache := cookies.NewCache(t.TempDir(), harvester)
	cache.TTL = -time.Hour

	_, err := cache.Save("mouser", "https://mouser.com", map[string]string{"stale": "1"})
	require.NoError(t, err)

	fallback := map[string]string{"static": "1"}
	got := cache.Get(context.Background(), cookies.Request{
		Vendor:   "mouser",
		BaseURL:  "https://mouser.com",
		Fallback: fallback,
	})
	require.Equal(t, fallback, got)
	require.Zero(t, harvester.calls)
}

func TestGetFallsBackToStaticOnHarvestFailure(t *testing.T) {
	harvester := &stubHarvester{err: errors.New("browser exploded")}
	cache := cookies.NewCache(t.TempDir(), harvester)

	got := cache.Get(context.Background(), cookies.Request{
		Vendor:      "mouser",
		BaseURL:     "https://mouser.com",
		AutoRefresh: true,
		Fallback:    map[string]string{"static": "1"},
	})
	require.Equal(t, map[string]string{"static": "1"}, got)
	require.Equal(t, 1, harvester.calls)
}

func TestGetEmptyWhenNothingWorks(t *testing.T) {
	harvester := &stubHarvester{err: errors.New("browser exploded")}
	cache := cookies.NewCache(t.TempDir(), harvester)

	got := cache.Get(context.Background(), cookies.Request{
		Vendor:      "mouser",
		BaseURL:     "https://mouser.com",
		AutoRefresh: true,
	})
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestRefreshOverwrites(t *testing.T) {
	harvester := &stubHarvester{cookies: map[string]string{"new": "1"}}
	cache := cookies.NewCache(t.TempDir(), harvester)

	_, err := cache.Save("mouser", "https://mouser.com", map[string]string{"old": "1"})
	require.NoError(t, err)

	got, err := cache.Refresh(context.Background(), cookies.Request{
		Vendor:  "mouser",
		BaseURL: "https://mouser.com",
	})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"new": "1"}, got)

	loaded, err := cache.Load("mouser")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"new": "1"}, loaded.Cookies)
}

func TestGetEmptyHarvestDoesNotPoisonCache(t *testing.T) {
	harvester := &stubHarvester{cookies: map[string]string{}}
	cache := cookies.NewCache(t.TempDir(), harvester)

	fallback := map[string]string{"static": "1"}
	req := cookies.Request{
		Vendor:      "mouser",
		BaseURL:     "https://mouser.com",
		AutoRefresh: true,
		Fallback:    fallback,
	}

	got := cache.Get(context.Background(), req)
	require.Equal(t, fallback, got)

	// the empty harvest must not be persisted as a fresh set
	set, err := cache.Load("mouser")
	require.NoError(t, err)
	require.Nil(t, set)

	got = cache.Get(context.Background(), req)
	require.Equal(t, fallback, got)
	require.Equal(t, 2, harvester.calls)
}

func TestGetIgnoresCachedEmptySet(t *testing.T) {
	cache := cookies.NewCache(t.TempDir(), nil)
	_, err := cache.Save("mouser", "https://mouser.com", map[string]string{})
	require.NoError(t, err)

	fallback := map[string]string{"static": "1"}
	got := cache.Get(context.Background(), cookies.Request{
		Vendor:   "mouser",
		BaseURL:  "https://mouser.com",
		Fallback: fallback,
	})
	require.Equal(t, fallback, got)
}

func TestRefreshWithoutHarvester(t *testing.T) {
	cache := cookies.NewCache(t.TempDir(), nil)

	_, err := cache.Refresh(context.Background(), cookies.Request{
		Vendor:  "mouser",
		BaseURL: "https://mouser.com",
	})
	require.ErrorContains(t, err, "no cookie harvester configured")
}

func TestRefreshKeepsFileOnEmptyHarvest(t *testing.T) {
	harvester := &stubHarvester{cookies: map[string]string{}}
	cache := cookies.NewCache(t.TempDir(), harvester)

	_, err := cache.Save("mouser", "https://mouser.com", map[string]string{"old": "1"})
	require.NoError(t, err)

	got, err := cache.Refresh(context.Background(), cookies.Request{
		Vendor:  "mouser",
		BaseURL: "https://mouser.com",
	})
	require.NoError(t, err)
	require.Empty(t, got)

	loaded, err := cache.Load("mouser")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"old": "1"}, loaded.Cookies)
}

func TestClear(t *testing.T) {
	cache := cookies.NewCache(t.TempDir(), nil)
	_, err := cache.Save("mouser", "https://mouser.com", map[string]string{"a": "b"})
	require.NoError(t, err)

	require.NoError(t, cache.Clear("mouser"))
	set, err := cache.Load("mouser")
	require.NoError(t, err)
	require.Nil(t, set)

	// clearing twice is fine
	require.NoError(t, cache.Clear("mouser"))
}
