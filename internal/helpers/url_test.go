package helpers

import (
	"strings"
	"testing"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "defaults https and cleans path",
			in:   "Example.com/news/../tech/latest",
			want: "https://example.com/tech/latest",
		},
		{
			name: "removes default port and tracking params",
			in:   "http://news.example.com:80/article?id=123&utm_source=rss#section",
			want: "http://news.example.com/article?id=123",
		},
		{
			name: "sorts query parameters and preserves trailing slash",
			in:   "https://example.com/path/?b=2&a=1&fbclid=xyz",
			want: "https://example.com/path/?a=1&b=2",
		},
		{
			name: "handles schemeless url with double slash",
			in:   "//blog.example.com/post/42?utm_medium=email",
			want: "https://blog.example.com/post/42",
		},
		{
			name: "lowercases host but not path",
			in:   "HTTPS://Example.COM/Article",
			want: "https://example.com/Article",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.in)
			if err != nil {
				t.Fatalf("NormalizeURL() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("NormalizeURL() got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeURLErrors(t *testing.T) {
	t.Parallel()
	if _, err := NormalizeURL(""); err == nil {
		t.Fatalf("expected error for empty input")
	}
	if _, err := NormalizeURL(":///invalid"); err == nil {
		t.Fatalf("expected error for malformed url")
	}
}

func TestURLFingerprintDeterministic(t *testing.T) {
	t.Parallel()
	url := "https://Example.com/Article?utm_campaign=foo&a=1&b=2"
	fp1, err := URLFingerprint(url)
	if err != nil {
		t.Fatalf("URLFingerprint: %v", err)
	}
	fp2, err := URLFingerprint(strings.ReplaceAll(url, "https://", "HTTPS://"))
	if err != nil {
		t.Fatalf("URLFingerprint: %v", err)
	}
	if fp1 == "" || fp1 != fp2 {
		t.Fatalf("expected deterministic fingerprint, got %s vs %s", fp1, fp2)
	}
}

func TestResolveRelative(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		base string
		href string
		want string
	}{
		{"absolute passes through", "https://www.google.com", "https://example.com/a", "https://example.com/a"},
		{"relative path", "https://www.google.com/search", "/url?q=x", "https://www.google.com/url?q=x"},
		{"protocol relative", "https://www.bing.com", "//cdn.example.com/img.png", "https://cdn.example.com/img.png"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveRelative(tt.base, tt.href); got != tt.want {
				t.Fatalf("ResolveRelative() got %q, want %q", got, tt.want)
			}
		})
	}
}
