package telemetry

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/surfer-dev/surfer/config"
)

// Telemetry records pipeline metrics and tracks completion spend.
// All record methods are no-ops when telemetry is disabled.
type Telemetry struct {
	enabled bool
	logger  *log.Logger

	registry *prometheus.Registry

	searches         *prometheus.CounterVec
	fetches          *prometheus.CounterVec
	completions      *prometheus.CounterVec
	tokens           *prometheus.CounterVec
	pagesProcessed   prometheus.Counter
	pipelineDuration prometheus.Histogram

	cost *CostTracker
}

// CostTracker accumulates token usage and estimated spend per model.
type CostTracker struct {
	mu          sync.RWMutex
	ModelTokens map[string]int64
	ModelCosts  map[string]float64
	TotalTokens int64
	TotalCost   float64
}

// CostSnapshot is a point-in-time copy of the cost tracker.
type CostSnapshot struct {
	ModelTokens map[string]int64
	ModelCosts  map[string]float64
	TotalTokens int64
	TotalCost   float64
}

// Rough per-1k-token prices used for spend estimates. Local models cost
// nothing; unknown models fall back to zero rather than guessing.
var pricePerThousandTokens = map[string]float64{
	"gpt-4o":      0.005,
	"gpt-4o-mini": 0.00015,
}

// New creates a telemetry instance with its own registry.
func New(cfg config.TelemetryConfig) *Telemetry {
	t := &Telemetry{
		enabled:  cfg.Enabled,
		logger:   log.New(log.Writer(), "[TELEMETRY] ", log.LstdFlags),
		registry: prometheus.NewRegistry(),
		cost: &CostTracker{
			ModelTokens: make(map[string]int64),
			ModelCosts:  make(map[string]float64),
		},
	}

	t.searches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "surfer_searches_total",
		Help: "Search calls by provider and outcome.",
	}, []string{"provider", "outcome"})
	t.fetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "surfer_fetches_total",
		Help: "Page fetches by mode and outcome.",
	}, []string{"mode", "outcome"})
	t.completions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "surfer_completions_total",
		Help: "Completion calls by model and outcome.",
	}, []string{"model", "outcome"})
	t.tokens = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "surfer_completion_tokens_total",
		Help: "Completion tokens by model and kind.",
	}, []string{"model", "kind"})
	t.pagesProcessed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "surfer_pages_processed_total",
		Help: "Pages fetched and filtered across all runs.",
	})
	t.pipelineDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "surfer_pipeline_duration_seconds",
		Help:    "End-to-end research run duration.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})

	t.registry.MustRegister(t.searches, t.fetches, t.completions, t.tokens, t.pagesProcessed, t.pipelineDuration)
	return t
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

// RecordSearch records one provider call.
func (t *Telemetry) RecordSearch(provider string, ok bool) {
	if !t.enabled {
		return
	}
	t.searches.WithLabelValues(provider, outcome(ok)).Inc()
}

// RecordFetch records one page fetch.
func (t *Telemetry) RecordFetch(mode string, ok bool) {
	if !t.enabled {
		return
	}
	t.fetches.WithLabelValues(mode, outcome(ok)).Inc()
}

// RecordCompletion records one completion call with its token usage.
func (t *Telemetry) RecordCompletion(model string, promptTokens, completionTokens int, ok bool) {
	if !t.enabled {
		return
	}
	t.completions.WithLabelValues(model, outcome(ok)).Inc()
	t.tokens.WithLabelValues(model, "prompt").Add(float64(promptTokens))
	t.tokens.WithLabelValues(model, "completion").Add(float64(completionTokens))

	total := int64(promptTokens + completionTokens)
	cost := float64(total) / 1000 * pricePerThousandTokens[model]

	t.cost.mu.Lock()
	t.cost.ModelTokens[model] += total
	t.cost.ModelCosts[model] += cost
	t.cost.TotalTokens += total
	t.cost.TotalCost += cost
	t.cost.mu.Unlock()
}

// RecordPages adds n to the processed-pages counter.
func (t *Telemetry) RecordPages(n int) {
	if !t.enabled || n <= 0 {
		return
	}
	t.pagesProcessed.Add(float64(n))
}

// ObservePipeline records one full run's duration.
func (t *Telemetry) ObservePipeline(d time.Duration) {
	if !t.enabled {
		return
	}
	t.pipelineDuration.Observe(d.Seconds())
}

// Costs returns a snapshot of accumulated token usage and spend.
func (t *Telemetry) Costs() CostSnapshot {
	t.cost.mu.RLock()
	defer t.cost.mu.RUnlock()

	snap := CostSnapshot{
		ModelTokens: make(map[string]int64, len(t.cost.ModelTokens)),
		ModelCosts:  make(map[string]float64, len(t.cost.ModelCosts)),
		TotalTokens: t.cost.TotalTokens,
		TotalCost:   t.cost.TotalCost,
	}
	for k, v := range t.cost.ModelTokens {
		snap.ModelTokens[k] = v
	}
	for k, v := range t.cost.ModelCosts {
		snap.ModelCosts[k] = v
	}
	return snap
}

// Handler exposes the metrics registry for scraping.
func (t *Telemetry) Handler() http.Handler {
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}
