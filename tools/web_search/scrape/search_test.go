package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const resultPage = `<html><body>
<li class="b_algo">
  <h2><a href="/relative/one">First Result</a></h2>
  <p>first snippet</p>
</li>
<li class="b_algo">
  <h2><a href="https://other.example.com/two">Second Result</a></h2>
  <p>second snippet</p>
</li>
<li class="b_algo">
  <h2><a href="/three"></a></h2>
</li>
<li class="b_algo">
  <p>no link at all</p>
</li>
</body></html>`

func bingEngine(origin string) Engine {
	return Engine{
		Name:       "bing",
		Origin:     origin,
		SearchPath: "/search?q=%s&count=%d",
		ResultSel:  "li.b_algo",
		LinkSel:    "h2 a",
		TitleSel:   "h2",
		SnippetSel: "p",
	}
}

func TestSearchParsesResults(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "test-agent" {
			t.Errorf("user agent = %q", got)
		}
		if q := r.URL.Query().Get("q"); q != "go testing" {
			t.Errorf("query = %q", q)
		}
		w.Write([]byte(resultPage))
	}))
	defer srv.Close()

	s := New("test-agent", 5*time.Second)
	s.Engines = []Engine{bingEngine(srv.URL)}

	got, err := s.Search(context.Background(), "go testing", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	// The title-less and link-less nodes are both skipped.
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d: %+v", len(got), got)
	}
	if got[0].URL != srv.URL+"/relative/one" {
		t.Fatalf("relative href not resolved: %q", got[0].URL)
	}
	if got[0].Title != "First Result" || got[0].Snippet != "first snippet" {
		t.Fatalf("got %+v", got[0])
	}
	if got[1].URL != "https://other.example.com/two" {
		t.Fatalf("absolute href rewritten: %q", got[1].URL)
	}
}

func TestSearchStopsAtK(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(resultPage))
	}))
	defer srv.Close()

	s := New("", 5*time.Second)
	s.Engines = []Engine{bingEngine(srv.URL)}

	got, err := s.Search(context.Background(), "q", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
}

func TestSearchFallsBackToNextEngine(t *testing.T) {
	t.Parallel()
	blocked := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "captcha", http.StatusTooManyRequests)
	}))
	defer blocked.Close()
	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(resultPage))
	}))
	defer working.Close()

	s := New("", 5*time.Second)
	s.Engines = []Engine{bingEngine(blocked.URL), bingEngine(working.URL)}

	got, err := s.Search(context.Background(), "q", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) == 0 {
		t.Fatalf("expected results from fallback engine")
	}
}

func TestSearchAllEnginesBlocked(t *testing.T) {
	t.Parallel()
	blocked := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "captcha", http.StatusTooManyRequests)
	}))
	defer blocked.Close()

	s := New("", 5*time.Second)
	s.Engines = []Engine{bingEngine(blocked.URL)}

	if _, err := s.Search(context.Background(), "q", 10); err == nil {
		t.Fatalf("expected error when every engine is blocked")
	}
}
