package helpers

import "strings"

const (
	thinkOpen  = "<think>"
	thinkClose = "</think>"
)

// SplitThink separates reasoning emitted inside <think>...</think> tags from
// the answer around them. Multiple pairs accumulate into one reasoning blob;
// an unterminated open tag sends the remainder of the text to reasoning.
// An empty answer with non-empty reasoning means the model put everything
// inside the tags; callers must treat that as a degraded response rather
// than mining the reasoning for a conclusion.
func SplitThink(text string) (answer, reasoning string) {
	var ans, think strings.Builder
	rest := text
	for {
		open := strings.Index(rest, thinkOpen)
		if open < 0 {
			ans.WriteString(rest)
			break
		}
		ans.WriteString(rest[:open])
		rest = rest[open+len(thinkOpen):]
		close := strings.Index(rest, thinkClose)
		if close < 0 {
			think.WriteString(rest)
			break
		}
		if think.Len() > 0 {
			think.WriteString("\n")
		}
		think.WriteString(strings.TrimSpace(rest[:close]))
		rest = rest[close+len(thinkClose):]
	}
	return strings.TrimSpace(ans.String()), strings.TrimSpace(think.String())
}
