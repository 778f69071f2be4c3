package helpers

import (
	"encoding/json"
	"strings"
)

// Model output rarely arrives as clean JSON. The salvage functions try an
// ordered list of extraction strategies and report whether any produced a
// decodable value; callers decide what their degraded fallback looks like.

// SalvageObject decodes the first JSON object found in text into out.
// Strategy order: fenced ```json block, then first balanced {...} span.
func SalvageObject(text string, out any) bool {
	return salvage(text, '{', '}', out)
}

// SalvageArray decodes the first JSON array found in text into out.
// Strategy order: fenced ```json block, then first balanced [...] span.
func SalvageArray(text string, out any) bool {
	return salvage(text, '[', ']', out)
}

func salvage(text string, open, close byte, out any) bool {
	if fenced, ok := fencedBlock(text); ok {
		if json.Unmarshal([]byte(fenced), out) == nil {
			return true
		}
	}
	if span, ok := balancedSpan(text, open, close); ok {
		if json.Unmarshal([]byte(span), out) == nil {
			return true
		}
	}
	return false
}

// fencedBlock returns the contents of the first ```json (or bare ```) fence.
func fencedBlock(text string) (string, bool) {
	start := strings.Index(text, "```")
	if start < 0 {
		return "", false
	}
	rest := text[start+3:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		lang := strings.TrimSpace(rest[:nl])
		if lang == "" || strings.EqualFold(lang, "json") {
			rest = rest[nl+1:]
		} else {
			return "", false
		}
	}
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

// balancedSpan returns the first balanced open..close span, tracking string
// literals and escapes so braces inside quoted values do not miscount.
func balancedSpan(text string, open, close byte) (string, bool) {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// QuotedStrings returns every double-quoted substring in text. Last-resort
// fallback when a model lists values in prose instead of a JSON array.
func QuotedStrings(text string) []string {
	var out []string
	for {
		start := strings.IndexByte(text, '"')
		if start < 0 {
			return out
		}
		end := strings.IndexByte(text[start+1:], '"')
		if end < 0 {
			return out
		}
		if s := text[start+1 : start+1+end]; s != "" {
			out = append(out, s)
		}
		text = text[start+end+2:]
	}
}
