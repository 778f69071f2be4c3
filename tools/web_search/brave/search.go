package brave

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/surfer-dev/surfer/tools/web_search/models"
)

const defaultBaseURL = "https://api.search.brave.com"

// Search queries the Brave Search API.
type Search struct {
	ApiKey  string
	BaseURL string
	client  *http.Client
}

func New(apiKey string, timeout time.Duration) *Search {
	return &Search{
		ApiKey:  apiKey,
		BaseURL: defaultBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *Search) Name() string { return "brave" }

func (s *Search) Search(ctx context.Context, q string, k int) ([]models.Result, error) {
	// https://api.search.brave.com/app/documentation/web-search
	endpoint := fmt.Sprintf("%s/res/v1/web/search?q=%s&count=%d", strings.TrimRight(s.BaseURL, "/"), url.QueryEscape(q), k)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", s.ApiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("brave returned status %d", resp.StatusCode)
	}

	var raw struct {
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				URL         string `json:"url"`
				Description string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	var out []models.Result
	for i, r := range raw.Web.Results {
		if i >= k {
			break
		}
		out = append(out, models.Result{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Description,
			Source:  s.Name(),
		})
	}
	return out, nil
}
