package provider

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/surfer-dev/surfer/config"
	"github.com/surfer-dev/surfer/internal/helpers"
	"github.com/surfer-dev/surfer/provider/ollama"
	"github.com/surfer-dev/surfer/provider/openai"
)

// Client represents different completion backends
type Client string

const (
	OpenAI Client = "openai"
	Ollama Client = "ollama"
)

// Usage carries token counts for a single completion call.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Result is a cleaned completion. Reasoning holds whatever the model emitted
// inside <think>...</think> tags; Answer is the text around them.
type Result struct {
	Answer    string
	Reasoning string
	Usage     Usage
}

// Degraded reports whether the model put its entire output inside think tags.
// The reasoning is kept for logging but is never mined for an answer.
func (r Result) Degraded() bool {
	return r.Answer == "" && r.Reasoning != ""
}

// Provider is the interface every completion backend must satisfy.
type Provider interface {
	Complete(ctx context.Context, system, user string) (Result, error)
}

// CompletionRecorder receives per-call usage. *telemetry.Telemetry satisfies
// it; a nil recorder disables recording.
type CompletionRecorder interface {
	RecordCompletion(model string, promptTokens, completionTokens int, ok bool)
}

// generator is the raw shape the backend clients expose. Think-tag cleaning
// happens here so each client only deals with transport.
type generator interface {
	Generate(ctx context.Context, system, user string) (string, int, int, error)
}

type cleaned struct {
	gen    generator
	model  string
	rec    CompletionRecorder
	logger *log.Logger
}

func (c *cleaned) Complete(ctx context.Context, system, user string) (Result, error) {
	raw, promptTokens, completionTokens, err := c.gen.Generate(ctx, system, user)
	if err != nil {
		if c.rec != nil {
			c.rec.RecordCompletion(c.model, 0, 0, false)
		}
		return Result{}, err
	}
	answer, reasoning := helpers.SplitThink(raw)
	res := Result{
		Answer:    answer,
		Reasoning: reasoning,
		Usage:     Usage{PromptTokens: promptTokens, CompletionTokens: completionTokens},
	}
	if res.Degraded() {
		c.logger.Printf("completion degraded: %d chars of reasoning, no answer", len(reasoning))
	}
	if c.rec != nil {
		c.rec.RecordCompletion(c.model, promptTokens, completionTokens, !res.Degraded())
	}
	return res, nil
}

// New creates a completion provider from configuration.
func New(cfg config.CompletionConfig, rec CompletionRecorder) (Provider, error) {
	logger := log.New(log.Writer(), "[PROVIDER] ", log.LstdFlags)
	switch Client(cfg.Provider) {
	case OpenAI:
		if cfg.APIKey == "" {
			return nil, errors.New("openai provider requires an api key")
		}
		return &cleaned{
			gen:    openai.New(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Temperature, cfg.MaxTokens, cfg.Timeout, cfg.MaxRetries),
			model:  cfg.Model,
			rec:    rec,
			logger: logger,
		}, nil
	case Ollama:
		return &cleaned{
			gen:    ollama.New(cfg.BaseURL, cfg.Model, cfg.Temperature, cfg.MaxTokens, cfg.Timeout, cfg.MaxRetries),
			model:  cfg.Model,
			rec:    rec,
			logger: logger,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported completion provider: %s", cfg.Provider)
	}
}
