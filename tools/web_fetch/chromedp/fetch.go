package chromedp

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/go-shiori/go-readability"

	"github.com/surfer-dev/surfer/internal/helpers"
	"github.com/surfer-dev/surfer/tools/web_fetch/models"
)

// Fetch renders pages in a local headless Chrome. Used when a subtask needs
// visual material: besides the article text it captures a viewport
// screenshot and the page's image URLs.
type Fetch struct {
	Timeout   time.Duration
	MaxChars  int
	UserAgent string
}

func (f *Fetch) Exec(ctx context.Context, pageURL string) (models.Result, error) {
	if strings.TrimSpace(pageURL) == "" {
		return models.Result{}, errors.New("invalid url")
	}

	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()
	t0 := time.Now()

	html, screenshot, imgs, err := f.render(ctx, pageURL)
	if err != nil {
		return models.Result{URL: pageURL, Status: 599, RenderMS: int(time.Since(t0) / time.Millisecond)}, err
	}

	result := models.Result{
		URL:        pageURL,
		Screenshot: screenshot,
		Images:     absoluteImages(pageURL, imgs),
		Status:     200,
		RenderMS:   int(time.Since(t0) / time.Millisecond),
	}

	article, err := readability.FromReader(strings.NewReader(html), mustParseURL(pageURL))
	if err != nil {
		return result, nil
	}
	result.Title = strings.TrimSpace(article.Title)
	result.Text = helpers.Truncate(strings.TrimSpace(article.TextContent), f.MaxChars)
	return result, nil
}

func (f *Fetch) render(ctx context.Context, pageURL string) (html string, screenshot []byte, imgs []string, err error) {
	ua := f.UserAgent
	if ua == "" {
		ua = "surfer/1.0 (+https://github.com/surfer-dev/surfer)"
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.UserAgent(ua),
	)
	actx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	bctx, cancelBrowser := chromedp.NewContext(actx)
	defer cancelBrowser()

	err = chromedp.Run(bctx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.CaptureScreenshot(&screenshot),
		chromedp.Evaluate(`Array.from(document.images).map(i => i.getAttribute("src")).filter(Boolean)`, &imgs),
	)
	return html, screenshot, imgs, err
}

// absoluteImages resolves each collected src against the page URL and drops
// inline data URIs.
func absoluteImages(pageURL string, srcs []string) []string {
	var out []string
	for _, src := range srcs {
		if src == "" || strings.HasPrefix(src, "data:") {
			continue
		}
		out = append(out, helpers.ResolveRelative(pageURL, src))
	}
	return out
}

func mustParseURL(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		return &url.URL{}
	}
	return u
}
