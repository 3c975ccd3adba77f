package fetch

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

// TranscriptDir wires a client to dump every request/response pair to
// a numbered file under dir, wiping whatever a previous run left
// there. Meant for debugging selector breakage against live pages.
func TranscriptDir(client *Client, dir string) error {
	os.RemoveAll(dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var counter uint64
	client.Http.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := strconv.FormatUint(atomic.AddUint64(&counter, 1), 10)
		path := filepath.Join(dir, id+".txt")
		err := os.WriteFile(path, []byte(formatHTTPMessage(res)), 0600)
		if err != nil {
			slog.Warn("failed to write http transcript", "id", id, "err", err)
		}
		return nil
	})
	return nil
}

func formatHeaders(headers http.Header) string {
	var out strings.Builder
	for key, vals := range headers {
		for _, val := range vals {
			fmt.Fprintf(&out, "%s: %s\n", key, val)
		}
	}
	return strings.TrimSuffix(out.String(), "\n")
}

// 1: request method  2: request url  3: request headers
// 4: response status 5: response url 6: response headers
// 7: response body
const transcriptTemplate = `---- REQUEST ----

%s %s

%s

---- RESPONSE ----

%s %s

%s

%s`

func formatHTTPMessage(res *resty.Response) string {
	var requestHeaders string
	if res.Request.RawRequest != nil {
		requestHeaders = formatHeaders(res.Request.RawRequest.Header)
	}

	responseURL := res.Request.URL
	if redirected, err := res.RawResponse.Location(); err == nil {
		responseURL = redirected.String()
	}

	return fmt.Sprintf(
		transcriptTemplate,
		res.Request.Method, res.Request.URL,
		requestHeaders,
		strconv.Itoa(res.StatusCode()), responseURL,
		formatHeaders(res.Header()),
		res.String(),
	)
}
