package web_fetch

import (
	"context"
	"time"

	"github.com/surfer-dev/surfer/tools/web_fetch/browserless"
	"github.com/surfer-dev/surfer/tools/web_fetch/chromedp"
	"github.com/surfer-dev/surfer/tools/web_fetch/httpfetch"
	"github.com/surfer-dev/surfer/tools/web_fetch/models"
)

const (
	DefaultTimeout  = 30 * time.Second
	MaxCharsDefault = 20000
)

// WebFetcher turns a URL into page text, optionally with rendering extras.
type WebFetcher interface {
	Exec(ctx context.Context, url string) (models.Result, error)
}

type FetcherType string

const (
	HTTPFetcherType        FetcherType = "http"
	ChromedpFetcherType    FetcherType = "chromedp"
	BrowserlessFetcherType FetcherType = "browserless"
)

type Error struct{ Msg string }

func (e *Error) Error() string { return e.Msg }

// Options carries the knobs the fetcher constructors need.
type Options struct {
	Timeout          time.Duration
	MaxChars         int
	UserAgent        string
	BrowserlessURL   string
	BrowserlessToken string
}

// NewWebFetcher constructs a fetcher of the given type.
func NewWebFetcher(fetcherType FetcherType, opts Options) (WebFetcher, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = MaxCharsDefault
	}

	switch fetcherType {
	case HTTPFetcherType:
		return httpfetch.New(opts.UserAgent, opts.Timeout, opts.MaxChars), nil
	case ChromedpFetcherType:
		return &chromedp.Fetch{Timeout: opts.Timeout, MaxChars: opts.MaxChars, UserAgent: opts.UserAgent}, nil
	case BrowserlessFetcherType:
		return browserless.New(opts.BrowserlessURL, opts.BrowserlessToken, opts.Timeout, opts.MaxChars), nil
	default:
		return nil, &Error{"unsupported fetcher type"}
	}
}
