package faleproxy

import (
	"context"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// #############################################################################
// # Core Proxy
// #############################################################################

// Options configures a Proxy.
type Options struct {
	// RulesetPath is a ';'-separated list of rule files or directories.
	RulesetPath string
	UserAgent   string
	// Timeout bounds the upstream GET. Zero keeps the HTTP client default.
	Timeout time.Duration
	// LogURLs logs every target URL at info level.
	LogURLs bool
	Logger  *zap.Logger
	// Fetcher replaces the HTTP fetcher, mainly for tests.
	Fetcher Fetcher
}

// Proxy fetches a page and returns its rewritten form.
type Proxy struct {
	fetcher     Fetcher
	transformer *Transformer
	logger      *zap.Logger
	logURLs     bool
}

// NewProxy creates and initializes a new Proxy instance.
func NewProxy(opts Options) (*Proxy, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	rules, err := LoadRules(opts.RulesetPath)
	if err != nil {
		return nil, err
	}
	if opts.RulesetPath == "" {
		logger.Debug("no ruleset specified, using built-in substitutions")
	} else {
		logger.Info("loaded ruleset",
			zap.Int("substitutions", len(rules.Substitutions)),
			zap.Strings("passthrough_schemes", rules.PassthroughSchemes),
		)
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = NewHTTPFetcher(opts.UserAgent, opts.Timeout)
	}

	return &Proxy{
		fetcher:     fetcher,
		transformer: NewTransformer(rules.Chain(), rules.Schemes(), logger),
		logger:      logger,
		logURLs:     opts.LogURLs,
	}, nil
}

// Process validates req, fetches the target page and rewrites it.
func (p *Proxy) Process(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	base, err := url.Parse(req.URL)
	if err != nil {
		return nil, &FetchError{URL: req.URL, Err: err}
	}

	if p.logURLs {
		p.logger.Info("fetching page", zap.String("url", base.String()))
	}

	body, err := p.fetcher.Fetch(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	result, err := p.transformer.Transform(body, base)
	if err != nil {
		return nil, err
	}
	result.OriginalURL = req.URL
	return result, nil
}
