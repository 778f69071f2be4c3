package surf

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/surfer-dev/surfer/config"
	"github.com/surfer-dev/surfer/internal/telemetry"
	"github.com/surfer-dev/surfer/tools/staticmap"
	searchmodels "github.com/surfer-dev/surfer/tools/web_search/models"
)

const (
	minDepth = 1
	maxDepth = 3
)

// Searcher is the slice of the search gateway the runner needs.
type Searcher interface {
	Search(ctx context.Context, q string, k int) []searchmodels.Result
}

// Runner drives one research task end to end: decompose, then per subtask
// search/fetch/filter/extract under bounded parallelism, then synthesize
// and enrich. Provider failures degrade; the only error Run returns is the
// caller's context error.
type Runner struct {
	decomposer  *TaskDecomposer
	gateway     Searcher
	fetcher     *ContentFetcher
	extractor   *StructuredExtractor
	synthesizer *Synthesizer
	enricher    *VisualEnricher
	tel         *telemetry.Telemetry
	logger      *log.Logger

	maxConcurrent   int
	pagesPerDepth   int
	resultsPerDepth int
}

func NewRunner(cfg *config.Config, llm CompletionProvider, gateway Searcher, fetcher *ContentFetcher, tel *telemetry.Telemetry) *Runner {
	maps := staticmap.New(cfg.Maps.APIKey, cfg.Maps.Zoom, cfg.Maps.Size)
	return &Runner{
		decomposer:      NewTaskDecomposer(llm),
		gateway:         gateway,
		fetcher:         fetcher,
		extractor:       NewStructuredExtractor(llm, cfg.Pipeline.ExtractCharBudget),
		synthesizer:     NewSynthesizer(llm, cfg.Pipeline.SynthesisCharBudget),
		enricher:        NewVisualEnricher(llm, maps),
		tel:             tel,
		logger:          log.New(log.Writer(), "[RUNNER] ", log.LstdFlags),
		maxConcurrent:   cfg.Pipeline.MaxConcurrentSubtasks,
		pagesPerDepth:   cfg.Pipeline.PagesPerDepth,
		resultsPerDepth: cfg.Pipeline.ResultsPerDepth,
	}
}

// Run executes the full pipeline for one task.
func (r *Runner) Run(ctx context.Context, task Task) (Report, error) {
	t0 := time.Now()
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	depth := clampDepth(task.Depth)

	description := task.Description
	if task.AdditionalContext != "" {
		description += "\n\nAdditional context: " + task.AdditionalContext
	}

	if task.Query == "" {
		task.Query = r.decomposer.ExtractMainQuery(ctx, description)
	}

	subtasks := r.decomposer.Decompose(ctx, description, task.Type)
	r.logger.Printf("task %s: %d subtasks at depth %d", task.ID, len(subtasks), depth)

	maxPages := int64(r.pagesPerDepth * depth)
	resultsPerQuery := r.resultsPerDepth * depth
	queriesPerSubtask := depth

	var pages atomic.Int64
	results := make([]SubtaskResult, len(subtasks))

	sem := make(chan struct{}, r.maxConcurrent)
	var wg sync.WaitGroup
	for i, st := range subtasks {
		wg.Add(1)
		go func(i int, st Subtask) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}
			results[i] = r.runSubtask(ctx, task, st, queriesPerSubtask, resultsPerQuery, maxPages, &pages)
		}(i, st)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
		return Report{}, ctx.Err()
	case <-done:
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	report := r.synthesizer.Synthesize(ctx, results, task.Description, task.Type)
	report.ID = task.ID
	r.enricher.Enrich(ctx, &report, task)
	report.Elapsed = time.Since(t0)

	r.tel.RecordPages(int(pages.Load()))
	r.tel.ObservePipeline(report.Elapsed)
	r.logger.Printf("task %s: %d pages, degraded=%t, elapsed=%v", task.ID, pages.Load(), report.Degraded, report.Elapsed)
	return report, nil
}

// runSubtask gathers and extracts content for one subtask. The shared page
// counter is checked before every fetch; once the run-wide cap is hit the
// subtask stops collecting, so late subtasks may come back empty.
func (r *Runner) runSubtask(ctx context.Context, task Task, st Subtask, queriesPerSubtask, resultsPerQuery int, maxPages int64, pages *atomic.Int64) SubtaskResult {
	queries := st.SearchQueries
	if len(queries) > queriesPerSubtask {
		queries = queries[:queriesPerSubtask]
	}
	if len(queries) == 0 {
		queries = []string{task.Query}
	}

	result := SubtaskResult{Subtask: st}
collect:
	for _, q := range queries {
		if ctx.Err() != nil {
			break
		}
		hits := r.gateway.Search(ctx, q, resultsPerQuery)
		for _, hit := range hits {
			if ctx.Err() != nil {
				break collect
			}
			if !reservePage(pages, maxPages) {
				break collect
			}
			pc := r.fetcher.Fetch(ctx, hit.URL, q, task.VisualUnderstanding && st.NeedsVisual)
			if pc == nil {
				pages.Add(-1)
				continue
			}
			result.Pages = append(result.Pages, *pc)
			result.Visuals = append(result.Visuals, pageVisuals(pc)...)
		}
	}

	result.Data = r.extractor.Extract(ctx, result.Pages, st.Name, st.Description, st.DataCategory)
	return result
}

// reservePage claims a slot against the run-wide page cap. Claiming before
// the fetch keeps concurrent subtasks from collectively overshooting it; a
// failed fetch releases its slot.
func reservePage(pages *atomic.Int64, maxPages int64) bool {
	for {
		cur := pages.Load()
		if cur >= maxPages {
			return false
		}
		if pages.CompareAndSwap(cur, cur+1) {
			return true
		}
	}
}

// pageVisuals turns a rendered page's captures into visual elements.
func pageVisuals(pc *PageContent) []VisualElement {
	var out []VisualElement
	if len(pc.Screenshot) > 0 {
		out = append(out, VisualElement{Type: "screenshot", Description: pc.Title, Source: pc.URL})
	}
	for _, img := range pc.Images {
		out = append(out, VisualElement{Type: "image", Description: pc.Title, Source: img})
	}
	return out
}

// RunTravelItinerary is a convenience wrapper that phrases an itinerary
// request as a travel task.
func (r *Runner) RunTravelItinerary(ctx context.Context, destination, dates, budget string, interests []string) (Report, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a travel itinerary for %s", destination)
	if dates != "" {
		fmt.Fprintf(&b, " during %s", dates)
	}
	if budget != "" {
		fmt.Fprintf(&b, " with a budget of %s", budget)
	}
	if len(interests) > 0 {
		fmt.Fprintf(&b, ", focusing on %s", strings.Join(interests, ", "))
	}
	b.WriteString(". Include recommended places, a map of key locations, and practical tips.")

	return r.Run(ctx, Task{
		Description:         b.String(),
		Type:                "travel",
		VisualUnderstanding: true,
		Depth:               2,
	})
}

func clampDepth(depth int) int {
	if depth < minDepth {
		return minDepth
	}
	if depth > maxDepth {
		return maxDepth
	}
	return depth
}
