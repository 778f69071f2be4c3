package surf

import (
	"sort"
	"strings"
)

const minParagraphChars = 20

// ExtractRelevant keeps the paragraphs of text that best match the query,
// up to maxChars. Paragraphs shorter than minParagraphChars are noise
// (menu fragments, cookie banners) and are dropped before scoring.
// Scoring counts query tokens contained in the paragraph, case-insensitive.
// Selection is greedy over the score-sorted paragraphs and stops at the
// first paragraph that would overflow the budget, which keeps the output
// deterministic for a given input.
func ExtractRelevant(text, query string, maxChars int) string {
	if maxChars <= 0 || text == "" {
		return ""
	}

	tokens := strings.Fields(strings.ToLower(query))

	type scored struct {
		text  string
		score int
		order int
	}
	var paragraphs []scored
	for i, p := range strings.Split(text, "\n") {
		p = strings.TrimSpace(p)
		if len(p) < minParagraphChars {
			continue
		}
		lower := strings.ToLower(p)
		score := 0
		for _, tok := range tokens {
			if strings.Contains(lower, tok) {
				score++
			}
		}
		paragraphs = append(paragraphs, scored{text: p, score: score, order: i})
	}

	sort.SliceStable(paragraphs, func(i, j int) bool {
		if paragraphs[i].score != paragraphs[j].score {
			return paragraphs[i].score > paragraphs[j].score
		}
		return paragraphs[i].order < paragraphs[j].order
	})

	var b strings.Builder
	for _, p := range paragraphs {
		need := len(p.text)
		if b.Len() > 0 {
			need++ // joining newline
		}
		if b.Len()+need > maxChars {
			break
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(p.text)
	}
	return b.String()
}
