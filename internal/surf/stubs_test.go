package surf

import (
	"context"
	"errors"

	"github.com/surfer-dev/surfer/config"
	"github.com/surfer-dev/surfer/internal/telemetry"
	"github.com/surfer-dev/surfer/provider"
	fetchmodels "github.com/surfer-dev/surfer/tools/web_fetch/models"
	searchmodels "github.com/surfer-dev/surfer/tools/web_search/models"
)

// stubLLM routes completions through a test-supplied function.
type stubLLM struct {
	fn func(system, user string) (string, error)
}

func (s stubLLM) Complete(ctx context.Context, system, user string) (provider.Result, error) {
	if err := ctx.Err(); err != nil {
		return provider.Result{}, err
	}
	raw, err := s.fn(system, user)
	if err != nil {
		return provider.Result{}, err
	}
	return provider.Result{Answer: raw}, nil
}

// degradedLLM simulates a model that answered only inside think tags.
type degradedLLM struct{}

func (degradedLLM) Complete(ctx context.Context, system, user string) (provider.Result, error) {
	return provider.Result{Reasoning: "all reasoning, no answer"}, nil
}

// failingLLM errors on every call.
type failingLLM struct{}

func (failingLLM) Complete(ctx context.Context, system, user string) (provider.Result, error) {
	return provider.Result{}, errors.New("model unavailable")
}

// stubSearcher returns canned hits for every query.
type stubSearcher struct {
	fn func(q string, k int) []searchmodels.Result
}

func (s stubSearcher) Search(ctx context.Context, q string, k int) []searchmodels.Result {
	return s.fn(q, k)
}

// stubWebFetcher implements web_fetch.WebFetcher over a function.
type stubWebFetcher struct {
	fn func(url string) (fetchmodels.Result, error)
}

func (s stubWebFetcher) Exec(ctx context.Context, url string) (fetchmodels.Result, error) {
	if err := ctx.Err(); err != nil {
		return fetchmodels.Result{}, err
	}
	return s.fn(url)
}

func testConfig() *config.Config {
	return &config.Config{
		Pipeline: config.PipelineConfig{
			MaxConcurrentSubtasks: 3,
			PagesPerDepth:         5,
			ResultsPerDepth:       3,
			ExtractCharBudget:     10000,
			SynthesisCharBudget:   15000,
		},
		Maps: config.MapsConfig{APIKey: "map-key", Zoom: 13, Size: "600x300"},
	}
}

func testTelemetry() *telemetry.Telemetry {
	return telemetry.New(config.TelemetryConfig{Enabled: false})
}
