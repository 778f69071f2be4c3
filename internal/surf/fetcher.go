package surf

import (
	"context"
	"log"

	"github.com/surfer-dev/surfer/internal/telemetry"
	"github.com/surfer-dev/surfer/tools/web_fetch"
)

// ContentFetcher wraps the fetch tools with the skip-this-source policy:
// any failure returns nil and the pipeline moves on. Fetched text is
// relevance-filtered against the query before it leaves this layer.
type ContentFetcher struct {
	plain  web_fetch.WebFetcher
	render web_fetch.WebFetcher // nil when no rendering backend is configured
	budget int                  // relevance budget in chars
	tel    *telemetry.Telemetry
	logger *log.Logger
}

func NewContentFetcher(plain, render web_fetch.WebFetcher, budget int, tel *telemetry.Telemetry) *ContentFetcher {
	return &ContentFetcher{
		plain:  plain,
		render: render,
		budget: budget,
		tel:    tel,
		logger: log.New(log.Writer(), "[FETCHER] ", log.LstdFlags),
	}
}

// Fetch retrieves one page. Rendering is used only when the subtask needs
// visual material and a rendering backend exists; everything else takes the
// plain GET path.
func (f *ContentFetcher) Fetch(ctx context.Context, url, query string, needsVisual bool) *PageContent {
	fetcher := f.plain
	mode := "http"
	if needsVisual && f.render != nil {
		fetcher = f.render
		mode = "render"
	}

	result, err := fetcher.Exec(ctx, url)
	if err != nil {
		f.tel.RecordFetch(mode, false)
		f.logger.Printf("fetch failed for %s: %v", url, err)
		return nil
	}
	f.tel.RecordFetch(mode, true)

	return &PageContent{
		URL:        url,
		Title:      result.Title,
		Text:       ExtractRelevant(result.Text, query, f.budget),
		Images:     result.Images,
		Screenshot: result.Screenshot,
	}
}
