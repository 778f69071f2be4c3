package web_search

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/surfer-dev/surfer/internal/helpers"
	"github.com/surfer-dev/surfer/tools/web_search/brave"
	"github.com/surfer-dev/surfer/tools/web_search/googleapi"
	"github.com/surfer-dev/surfer/tools/web_search/models"
	"github.com/surfer-dev/surfer/tools/web_search/scrape"
	"github.com/surfer-dev/surfer/tools/web_search/serper"
)

// SearchProvider is the interface every search backend must satisfy.
type SearchProvider interface {
	Search(ctx context.Context, q string, k int) ([]models.Result, error)
	Name() string
}

type Provider string

const (
	SerperProvider    Provider = "serper"
	BraveProvider     Provider = "brave"
	GoogleAPIProvider Provider = "googleapi"
	ScrapeProvider    Provider = "scrape"
)

var ErrUnsupportedProvider = &Error{"unsupported provider"}

type Error struct{ Msg string }

func (e *Error) Error() string { return e.Msg }

// Options carries the credentials and knobs the provider constructors need.
type Options struct {
	SerperAPIKey   string
	BraveAPIKey    string
	GoogleAPIKey   string
	GoogleEngineID string
	Timeout        time.Duration
	UserAgent      string
}

// NewSearchProvider constructs a single named provider.
func NewSearchProvider(provider Provider, opts Options) (SearchProvider, error) {
	switch provider {
	case SerperProvider:
		return serper.New(opts.SerperAPIKey, opts.Timeout), nil
	case BraveProvider:
		return brave.New(opts.BraveAPIKey, opts.Timeout), nil
	case GoogleAPIProvider:
		return googleapi.New(opts.GoogleAPIKey, opts.GoogleEngineID, opts.Timeout), nil
	case ScrapeProvider:
		return scrape.New(opts.UserAgent, opts.Timeout), nil
	default:
		return nil, ErrUnsupportedProvider
	}
}

// SearchRecorder receives per-provider call outcomes. *telemetry.Telemetry
// satisfies it; a nil recorder disables recording.
type SearchRecorder interface {
	RecordSearch(provider string, ok bool)
}

// Gateway fans a query across an ordered provider chain. The first provider
// that returns hits wins unless mergeAll is set, in which case every
// provider runs and the hit lists are concatenated in chain order. Hits are
// deduplicated by normalized URL, keeping first-seen order; hits without a
// title or a usable URL are dropped. Providers that error are logged and
// skipped; a chain where everything fails yields an empty list, never an
// error.
type Gateway struct {
	chain    []SearchProvider
	mergeAll bool
	rec      SearchRecorder
	logger   *log.Logger
}

// NewGateway builds a gateway over an ordered provider chain.
func NewGateway(chain []SearchProvider, mergeAll bool, rec SearchRecorder) *Gateway {
	return &Gateway{
		chain:    chain,
		mergeAll: mergeAll,
		rec:      rec,
		logger:   log.New(log.Writer(), "[SEARCH] ", log.LstdFlags),
	}
}

// Search runs the chain for q, returning at most k deduplicated hits.
func (g *Gateway) Search(ctx context.Context, q string, k int) []models.Result {
	if k <= 0 {
		return nil
	}

	var merged []models.Result
	for _, p := range g.chain {
		if ctx.Err() != nil {
			break
		}
		hits, err := p.Search(ctx, q, k)
		if g.rec != nil {
			g.rec.RecordSearch(p.Name(), err == nil)
		}
		if err != nil {
			g.logger.Printf("provider %s failed for %q: %v", p.Name(), q, err)
			continue
		}
		if len(hits) == 0 {
			continue
		}
		merged = append(merged, hits...)
		if !g.mergeAll {
			break
		}
	}

	return dedupe(merged, k)
}

// dedupe collapses hits that normalize to the same URL, first seen wins.
// Title-less hits are dropped here rather than in each provider, so the
// invariant holds no matter which backend produced the hit.
func dedupe(hits []models.Result, k int) []models.Result {
	seen := make(map[string]struct{}, len(hits))
	out := make([]models.Result, 0, len(hits))
	for _, h := range hits {
		if strings.TrimSpace(h.Title) == "" {
			continue
		}
		key, err := helpers.NormalizeURL(h.URL)
		if err != nil {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, h)
		if len(out) == k {
			break
		}
	}
	return out
}
