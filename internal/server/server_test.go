package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/surfer-dev/surfer/config"
	"github.com/surfer-dev/surfer/internal/surf"
	"github.com/surfer-dev/surfer/internal/telemetry"
)

type stubRunner struct {
	lastTask surf.Task
	report   surf.Report
	err      error
}

func (s *stubRunner) Run(ctx context.Context, task surf.Task) (surf.Report, error) {
	s.lastTask = task
	return s.report, s.err
}

func (s *stubRunner) RunTravelItinerary(ctx context.Context, destination, dates, budget string, interests []string) (surf.Report, error) {
	s.lastTask = surf.Task{Description: destination, Type: "travel"}
	return s.report, s.err
}

func newTestServer(r TaskRunner) *Server {
	return New(r, telemetry.New(config.TelemetryConfig{Enabled: true}))
}

func TestRunTask(t *testing.T) {
	t.Parallel()
	runner := &stubRunner{report: surf.Report{ID: "run-1", Summary: "done", TaskType: "general"}}
	srv := newTestServer(runner)

	body := `{"description":"research topic","type":"general","depth":2,"additional_context":"focus on 2025","visual_understanding":false}`
	req := httptest.NewRequest(http.MethodPost, "/v1/tasks", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var report surf.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if report.ID != "run-1" || report.Summary != "done" {
		t.Fatalf("report = %+v", report)
	}
	if runner.lastTask.Depth != 2 || runner.lastTask.Description != "research topic" {
		t.Fatalf("task = %+v", runner.lastTask)
	}
	if runner.lastTask.AdditionalContext != "focus on 2025" {
		t.Fatalf("additional context = %q", runner.lastTask.AdditionalContext)
	}
	if runner.lastTask.VisualUnderstanding {
		t.Fatalf("visual understanding should be off, task = %+v", runner.lastTask)
	}
}

func TestRunTaskVisualUnderstandingDefaultsOn(t *testing.T) {
	t.Parallel()
	runner := &stubRunner{}
	srv := newTestServer(runner)

	req := httptest.NewRequest(http.MethodPost, "/v1/tasks", strings.NewReader(`{"description":"research topic"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !runner.lastTask.VisualUnderstanding {
		t.Fatalf("visual understanding should default on, task = %+v", runner.lastTask)
	}
}

func TestRunTaskRequiresDescription(t *testing.T) {
	t.Parallel()
	srv := newTestServer(&stubRunner{})

	req := httptest.NewRequest(http.MethodPost, "/v1/tasks", strings.NewReader(`{"type":"general"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "error") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestRunItinerary(t *testing.T) {
	t.Parallel()
	runner := &stubRunner{report: surf.Report{Summary: "itinerary", TaskType: "travel"}}
	srv := newTestServer(runner)

	body := `{"destination":"Kyoto","dates":"April","budget":"$2000","interests":["temples"]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/travel/itinerary", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if runner.lastTask.Description != "Kyoto" {
		t.Fatalf("task = %+v", runner.lastTask)
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	srv := newTestServer(&stubRunner{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("status = %d, body = %q", rec.Code, rec.Body.String())
	}
}

func TestCostsEndpoint(t *testing.T) {
	t.Parallel()
	tel := telemetry.New(config.TelemetryConfig{Enabled: true})
	tel.RecordCompletion("gpt-4o-mini", 100, 100, true)
	srv := New(&stubRunner{}, tel)

	req := httptest.NewRequest(http.MethodGet, "/v1/costs", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var snap telemetry.CostSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.TotalTokens != 200 {
		t.Fatalf("tokens = %d", snap.TotalTokens)
	}
}
