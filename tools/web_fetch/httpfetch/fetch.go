package httpfetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/surfer-dev/surfer/internal/helpers"
	"github.com/surfer-dev/surfer/tools/web_fetch/models"
)

// Fetch retrieves pages with a plain GET and strips the markup down to
// readable text. Redirects are followed by the default client policy.
type Fetch struct {
	UserAgent string
	MaxChars  int
	client    *http.Client
}

func New(userAgent string, timeout time.Duration, maxChars int) *Fetch {
	return &Fetch{
		UserAgent: userAgent,
		MaxChars:  maxChars,
		client:    &http.Client{Timeout: timeout},
	}
}

func (f *Fetch) Exec(ctx context.Context, url string) (models.Result, error) {
	if strings.TrimSpace(url) == "" {
		return models.Result{}, errors.New("invalid url")
	}
	t0 := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.Result{}, err
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return models.Result{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return models.Result{URL: url, Status: resp.StatusCode}, fmt.Errorf("fetch returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return models.Result{}, err
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	doc.Find("script, style, nav, header, footer, noscript, iframe").Remove()
	text := helpers.Truncate(normalizeText(doc.Find("body").Text()), f.MaxChars)

	return models.Result{
		URL:      url,
		Title:    title,
		Text:     text,
		Status:   resp.StatusCode,
		RenderMS: int(time.Since(t0) / time.Millisecond),
	}, nil
}

// normalizeText collapses runs of spaces within each line but keeps line
// breaks, so downstream paragraph scoring still sees document structure.
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
