package faleproxy

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	body  string
	err   error
	calls []string
}

func (s *stubFetcher) Fetch(_ context.Context, rawURL string) (string, error) {
	s.calls = append(s.calls, rawURL)
	return s.body, s.err
}

func newTestProxy(t *testing.T, f Fetcher) *Proxy {
	t.Helper()
	p, err := NewProxy(Options{Fetcher: f})
	require.NoError(t, err)
	return p
}

func TestProcessRequiresURL(t *testing.T) {
	stub := &stubFetcher{}
	p := newTestProxy(t, stub)

	for _, u := range []string{"", " \t\n"} {
		res, err := p.Process(context.Background(), Request{URL: u})
		assert.Nil(t, res)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "URL is required", verr.Error())
		assert.Equal(t, "url", verr.Field)
	}
	assert.Empty(t, stub.calls)
}

func TestProcessFetchFailure(t *testing.T) {
	stub := &stubFetcher{err: &FetchError{URL: "https://error-site.com/", Err: errors.New("connection refused")}}
	p := newTestProxy(t, stub)

	res, err := p.Process(context.Background(), Request{URL: "https://error-site.com/"})
	assert.Nil(t, res)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Len(t, stub.calls, 1)
}

func TestProcessMalformedTargetURL(t *testing.T) {
	stub := &stubFetcher{}
	p := newTestProxy(t, stub)

	_, err := p.Process(context.Background(), Request{URL: "http://[::1"})

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Empty(t, stub.calls)
}

func TestProcessTrimsURL(t *testing.T) {
	stub := &stubFetcher{body: "<title>Yale</title>"}
	p := newTestProxy(t, stub)

	res, err := p.Process(context.Background(), Request{URL: "  https://example.com/  "})
	require.NoError(t, err)

	assert.Equal(t, []string{"https://example.com/"}, stub.calls)
	assert.Equal(t, "https://example.com/", res.OriginalURL)
	assert.Equal(t, "Fale", res.Title)
}

func TestProcessEndToEnd(t *testing.T) {
	page := loadFixture(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	p, err := NewProxy(Options{UserAgent: "faleproxy-test"})
	require.NoError(t, err)

	res, err := p.Process(context.Background(), Request{URL: srv.URL + "/"})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, srv.URL+"/", res.OriginalURL)
	assert.Equal(t, "Fale University Test Page", res.Title)
	assert.Contains(t, res.Content, `src="`+srv.URL+`/images/logo.png"`)
	assert.Contains(t, res.Content, `alt="Fale Logo"`)
	assert.Contains(t, res.Content, `href="mailto:info@yale.edu"`)
	require.Len(t, res.Styles, 3)
	assert.Equal(t, srv.URL+"/styles/main.css", res.Styles[0])
	assert.Contains(t, res.Styles[2], ".yale-info { color: #00356b; }")
}

func TestNewProxyWithRuleset(t *testing.T) {
	dir := t.TempDir()
	writeRules(t, dir, "rules.yml", "substitutions:\n  - match: Yale\n    replace: Eli\n")

	stub := &stubFetcher{body: "<title>Yale yale</title>"}
	p, err := NewProxy(Options{RulesetPath: dir, Fetcher: stub})
	require.NoError(t, err)

	res, err := p.Process(context.Background(), Request{URL: "https://example.com/"})
	require.NoError(t, err)
	assert.Equal(t, "Eli yale", res.Title)
}

func TestNewProxyBadRuleset(t *testing.T) {
	_, err := NewProxy(Options{RulesetPath: filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)
}
