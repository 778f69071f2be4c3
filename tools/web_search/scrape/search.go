package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/surfer-dev/surfer/internal/helpers"
	"github.com/surfer-dev/surfer/tools/web_search/models"
)

// Engine describes how to scrape one search engine's result markup. Result
// pages change without notice, so the selectors are best effort: a result
// node missing a snippet is still kept, but a node without both a link and
// a title is skipped.
type Engine struct {
	Name       string
	Origin     string // scheme://host, also the base for relative hrefs
	SearchPath string // fmt pattern taking the escaped query and k
	ResultSel  string
	LinkSel    string
	TitleSel   string
	SnippetSel string
}

// DefaultEngines lists the engines tried in order.
func DefaultEngines() []Engine {
	return []Engine{
		{
			Name:       "google",
			Origin:     "https://www.google.com",
			SearchPath: "/search?q=%s&num=%d",
			ResultSel:  "div.g",
			LinkSel:    "a[href]",
			TitleSel:   "h3",
			SnippetSel: "div.VwiC3b",
		},
		{
			Name:       "bing",
			Origin:     "https://www.bing.com",
			SearchPath: "/search?q=%s&count=%d",
			ResultSel:  "li.b_algo",
			LinkSel:    "h2 a",
			TitleSel:   "h2",
			SnippetSel: "p",
		},
	}
}

// Search scrapes search engine result pages directly. It is the keyless
// fallback at the end of the provider chain.
type Search struct {
	Engines   []Engine
	UserAgent string
	client    *http.Client
}

func New(userAgent string, timeout time.Duration) *Search {
	return &Search{
		Engines:   DefaultEngines(),
		UserAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

func (s *Search) Name() string { return "scrape" }

// Search tries each engine in order and returns the first non-empty list.
func (s *Search) Search(ctx context.Context, q string, k int) ([]models.Result, error) {
	var lastErr error
	for _, engine := range s.Engines {
		hits, err := s.searchEngine(ctx, engine, q, k)
		if err != nil {
			lastErr = err
			continue
		}
		if len(hits) > 0 {
			return hits, nil
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, nil
}

func (s *Search) searchEngine(ctx context.Context, engine Engine, q string, k int) ([]models.Result, error) {
	endpoint := engine.Origin + fmt.Sprintf(engine.SearchPath, url.QueryEscape(q), k)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", engine.Name, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	var out []models.Result
	doc.Find(engine.ResultSel).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Find(engine.LinkSel).First().Attr("href")
		if !ok || href == "" {
			return true
		}
		title := strings.TrimSpace(sel.Find(engine.TitleSel).First().Text())
		if title == "" {
			return true
		}
		out = append(out, models.Result{
			Title:   title,
			URL:     helpers.ResolveRelative(engine.Origin, href),
			Snippet: strings.TrimSpace(sel.Find(engine.SnippetSel).First().Text()),
			Source:  s.Name(),
		})
		return len(out) < k
	})
	return out, nil
}
