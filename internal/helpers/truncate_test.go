package helpers

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"shorter than budget", "hello", 10, "hello"},
		{"exact budget", "hello", 5, "hello"},
		{"ascii cut", "hello world", 5, "hello"},
		{"zero budget", "hello", 0, ""},
		{"negative budget", "hello", -1, ""},
		{"cut between runes", "日本語", 6, "日本"},
		{"cut inside a rune backs off", "日本語", 4, "日"},
		{"cut inside first rune", "日本語", 2, ""},
		{"mixed ascii and multibyte", "ab日cd", 4, "ab"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Truncate(tc.in, tc.max); got != tc.want {
				t.Fatalf("Truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
			}
		})
	}
}

func TestTruncateAlwaysValidUTF8(t *testing.T) {
	t.Parallel()
	in := strings.Repeat("café 日本語 ", 50)
	for max := 0; max <= len(in); max++ {
		got := Truncate(in, max)
		if len(got) > max {
			t.Fatalf("Truncate exceeded budget %d: %d bytes", max, len(got))
		}
		if !utf8.ValidString(got) {
			t.Fatalf("invalid UTF-8 at budget %d: %q", max, got)
		}
	}
}
