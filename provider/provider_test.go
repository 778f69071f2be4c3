package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/surfer-dev/surfer/config"
)

type captureRecorder struct {
	model  string
	prompt int
	compl  int
	ok     bool
	calls  int
}

func (c *captureRecorder) RecordCompletion(model string, promptTokens, completionTokens int, ok bool) {
	c.model, c.prompt, c.compl, c.ok = model, promptTokens, completionTokens, ok
	c.calls++
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	t.Parallel()
	if _, err := New(config.CompletionConfig{Provider: "gemini"}, nil); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestNewOpenAIRequiresKey(t *testing.T) {
	t.Parallel()
	if _, err := New(config.CompletionConfig{Provider: "openai"}, nil); err == nil {
		t.Fatalf("expected error without api key")
	}
}

func TestCompleteSplitsThinkTags(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":{"content":"<think>reasoning here</think>final answer"},"prompt_eval_count":1,"eval_count":2}`))
	}))
	defer srv.Close()

	rec := &captureRecorder{}
	p, err := New(config.CompletionConfig{
		Provider: "ollama",
		BaseURL:  srv.URL,
		Model:    "deepseek-r1:1.5b",
		Timeout:  5 * time.Second,
	}, rec)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := p.Complete(context.Background(), "", "question")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if res.Answer != "final answer" {
		t.Fatalf("answer = %q", res.Answer)
	}
	if res.Reasoning != "reasoning here" {
		t.Fatalf("reasoning = %q", res.Reasoning)
	}
	if res.Degraded() {
		t.Fatalf("unexpected degraded result")
	}
	if res.Usage.PromptTokens != 1 || res.Usage.CompletionTokens != 2 {
		t.Fatalf("usage = %+v", res.Usage)
	}
	if rec.calls != 1 || rec.model != "deepseek-r1:1.5b" || rec.prompt != 1 || rec.compl != 2 || !rec.ok {
		t.Fatalf("recorder = %+v", rec)
	}
}

func TestCompleteDegradedWhenAnswerOnlyInsideTags(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":{"content":"<think>all inside tags</think>"}}`))
	}))
	defer srv.Close()

	p, err := New(config.CompletionConfig{
		Provider: "ollama",
		BaseURL:  srv.URL,
		Model:    "deepseek-r1:1.5b",
		Timeout:  5 * time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := p.Complete(context.Background(), "", "question")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !res.Degraded() {
		t.Fatalf("expected degraded result, got %+v", res)
	}
	if res.Reasoning != "all inside tags" {
		t.Fatalf("reasoning = %q", res.Reasoning)
	}
}
