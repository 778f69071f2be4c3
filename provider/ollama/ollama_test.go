package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Model  string `json:"model"`
			Stream bool   `json:"stream"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Stream {
			t.Errorf("expected stream=false")
		}
		if req.Model != "deepseek-r1:1.5b" {
			t.Errorf("unexpected model %q", req.Model)
		}
		w.Write([]byte(`{"message":{"content":"<think>hmm</think>42"},"prompt_eval_count":7,"eval_count":9}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "deepseek-r1:1.5b", 0.7, 512, 5*time.Second, 0)
	out, promptTokens, completionTokens, err := c.Generate(context.Background(), "", "meaning of life")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "<think>hmm</think>42" {
		t.Fatalf("got %q, want raw content with think tags intact", out)
	}
	if promptTokens != 7 || completionTokens != 9 {
		t.Fatalf("usage = %d/%d", promptTokens, completionTokens)
	}
}

func TestGenerateServerError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, "missing", 0, 0, 5*time.Second, 0)
	if _, _, _, err := c.Generate(context.Background(), "", "hi"); err == nil {
		t.Fatalf("expected error on 404")
	}
}
