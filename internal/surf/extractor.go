package surf

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/surfer-dev/surfer/internal/helpers"
)

// extractCharBudgetDefault caps the combined page text handed to the model.
const extractCharBudgetDefault = 10000

// StructuredExtractor distills filtered page text into a structured dataset
// for one subtask. It never fails: unusable model output degrades to a
// dataset carrying the error and the raw response.
type StructuredExtractor struct {
	llm        CompletionProvider
	charBudget int
	logger     *log.Logger
}

func NewStructuredExtractor(llm CompletionProvider, charBudget int) *StructuredExtractor {
	if charBudget <= 0 {
		charBudget = extractCharBudgetDefault
	}
	return &StructuredExtractor{
		llm:        llm,
		charBudget: charBudget,
		logger:     log.New(log.Writer(), "[EXTRACTOR] ", log.LstdFlags),
	}
}

const extractSystem = `You extract structured data from web page text.
Respond ONLY with a single JSON object containing the extracted data.
Use descriptive keys. Do not include any other text.`

// Extract combines the subtask's pages into one prompt and asks the model
// for a JSON object matching the subtask's data category.
func (e *StructuredExtractor) Extract(ctx context.Context, pages []PageContent, name, description, category string) Dataset {
	combined := combinePages(pages, e.charBudget)
	if combined == "" {
		return Dataset{"error": "no content to extract from", "raw_text": ""}
	}

	prompt := fmt.Sprintf(`Subtask: %s
Goal: %s
Data category: %s

Web content:
%s

Extract the relevant structured data as a JSON object.`, name, description, category, combined)

	res, err := e.llm.Complete(ctx, extractSystem, prompt)
	if err != nil {
		e.logger.Printf("extract completion failed for %q: %v", name, err)
		return Dataset{"error": err.Error(), "raw_text": ""}
	}
	if res.Degraded() {
		e.logger.Printf("extract answer empty after think-tag split for %q", name)
		return Dataset{"error": "model produced no answer outside think tags", "raw_text": res.Reasoning}
	}

	var data map[string]any
	if !helpers.SalvageObject(res.Answer, &data) {
		e.logger.Printf("extract output not salvageable for %q", name)
		return Dataset{"error": "failed to parse structured data", "raw_text": res.Answer}
	}
	return Dataset(data)
}

// combinePages serializes pages as "Source/Title/content" blocks, cut at
// budget characters regardless of block boundaries.
func combinePages(pages []PageContent, budget int) string {
	var b strings.Builder
	for _, p := range pages {
		if p.Text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Source: %s\nTitle: %s\n%s", p.URL, p.Title, p.Text)
		if b.Len() >= budget {
			break
		}
	}
	return helpers.Truncate(b.String(), budget)
}
