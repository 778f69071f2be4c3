package browserless

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/surfer-dev/surfer/internal/helpers"
	"github.com/surfer-dev/surfer/tools/web_fetch/models"
)

// Fetch renders pages through a remote browserless.io-compatible service.
// One /scrape call collects the body text and image sources; a second
// /screenshot call grabs the viewport. A failed screenshot is not fatal.
type Fetch struct {
	BaseURL  string
	Token    string
	MaxChars int
	client   *http.Client
}

func New(baseURL, token string, timeout time.Duration, maxChars int) *Fetch {
	return &Fetch{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Token:    token,
		MaxChars: maxChars,
		client:   &http.Client{Timeout: timeout},
	}
}

type scrapeRequest struct {
	URL      string    `json:"url"`
	Elements []element `json:"elements"`
}

type element struct {
	Selector string `json:"selector"`
}

type scrapeResponse struct {
	Data []struct {
		Selector string `json:"selector"`
		Results  []struct {
			Text       string `json:"text"`
			Attributes []struct {
				Name  string `json:"name"`
				Value string `json:"value"`
			} `json:"attributes"`
		} `json:"results"`
	} `json:"data"`
}

func (f *Fetch) Exec(ctx context.Context, pageURL string) (models.Result, error) {
	if strings.TrimSpace(pageURL) == "" {
		return models.Result{}, errors.New("invalid url")
	}
	t0 := time.Now()

	scraped, err := f.scrape(ctx, pageURL)
	if err != nil {
		return models.Result{URL: pageURL, Status: 599, RenderMS: int(time.Since(t0) / time.Millisecond)}, err
	}

	result := models.Result{URL: pageURL, Status: 200}
	for _, entry := range scraped.Data {
		switch entry.Selector {
		case "body":
			if len(entry.Results) > 0 {
				result.Text = helpers.Truncate(normalizeText(entry.Results[0].Text), f.MaxChars)
			}
		case "img":
			for _, r := range entry.Results {
				for _, attr := range r.Attributes {
					if attr.Name != "src" || attr.Value == "" || strings.HasPrefix(attr.Value, "data:") {
						continue
					}
					result.Images = append(result.Images, helpers.ResolveRelative(pageURL, attr.Value))
				}
			}
		}
	}

	if shot, err := f.screenshot(ctx, pageURL); err == nil {
		result.Screenshot = shot
	}

	result.RenderMS = int(time.Since(t0) / time.Millisecond)
	return result, nil
}

func (f *Fetch) scrape(ctx context.Context, pageURL string) (*scrapeResponse, error) {
	body, err := json.Marshal(scrapeRequest{
		URL:      pageURL,
		Elements: []element{{Selector: "body"}, {Selector: "img"}},
	})
	if err != nil {
		return nil, err
	}

	resp, err := f.post(ctx, "/scrape", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("browserless scrape returned status %d", resp.StatusCode)
	}

	var out scrapeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (f *Fetch) screenshot(ctx context.Context, pageURL string) ([]byte, error) {
	body, err := json.Marshal(map[string]any{
		"url":     pageURL,
		"options": map[string]any{"fullPage": false, "type": "png"},
	})
	if err != nil {
		return nil, err
	}

	resp, err := f.post(ctx, "/screenshot", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("browserless screenshot returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// normalizeText collapses runs of spaces within each line but keeps line
// breaks, matching what the plain HTTP fetcher produces.
func normalizeText(raw string) string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func (f *Fetch) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	endpoint := f.BaseURL + path
	if f.Token != "" {
		endpoint += "?token=" + f.Token
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return f.client.Do(req)
}
