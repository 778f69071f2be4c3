package googleapi

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

const defaultBaseURL = "https://www.googleapis.com"

// Search queries the Google Custom Search JSON API. The API caps num at 10
// per request, so k is clamped.
type Search struct {
	ApiKey   string
	EngineID string
	BaseURL  string
	client   *http.Client
}

func New(apiKey, engineID string, timeout time.Duration) *Search {
	return &Search{
		ApiKey:   apiKey,
		EngineID: engineID,
		BaseURL:  defaultBaseURL,
		client:   &http.Client{Timeout: timeout},
	}
}

func (s *Search) Name() string { return "googleapi" }

func (s *Search) Search(ctx context.Context, q string, k int) ([]models.Result, error) {
	if k > 10 {
		k = 10
	}
	endpoint := fmt.Sprintf("%s/customsearch/v1?key=%s&cx=%s&q=%s&num=%d",
		strings.TrimRight(s.BaseURL, "/"), url.QueryEscape(s.ApiKey), url.QueryEscape(s.EngineID), url.QueryEscape(q), k)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google custom search returned status %d", resp.StatusCode)
	}

	var raw struct {
		Items []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	var out []models.Result
	for i, item := range raw.Items {
		if i >= k {
			break
		}
		out = append(out, models.Result{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
			Source:  s.Name(),
		})
	}
	return out, nil
}
