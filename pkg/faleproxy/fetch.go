package faleproxy

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"
)

// Fetcher retrieves the raw document at a URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// HTTPFetcher issues a single GET per call. It never retries.
type HTTPFetcher struct {
	client *resty.Client
}

// NewHTTPFetcher builds a fetcher. A zero timeout keeps the client default.
func NewHTTPFetcher(userAgent string, timeout time.Duration) *HTTPFetcher {
	client := resty.New().SetRetryCount(0)
	if userAgent != "" {
		client.SetHeader("User-Agent", userAgent)
	}
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &HTTPFetcher{client: client}
}

// Fetch returns the body of rawURL decoded to UTF-8.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", &ValidationError{Field: "url", Message: MsgURLRequired}
	}

	resp, err := f.client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	if !resp.IsSuccess() {
		return "", &FetchError{URL: rawURL, Status: resp.StatusCode()}
	}

	return decodeBody(resp.Body(), resp.Header().Get("Content-Type")), nil
}

// decodeBody converts body to UTF-8 using the Content-Type charset, or a
// <meta charset> sniff when the header has none.
func decodeBody(body []byte, contentType string) string {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return string(body)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}
