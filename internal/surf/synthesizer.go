package surf

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/surfer-dev/surfer/internal/helpers"
)

// synthesisCharBudgetDefault caps the serialized subtask results handed to
// the model. The cut is a fixed character slice, not content-aware.
const synthesisCharBudgetDefault = 15000

// Synthesizer merges all subtask results into the final report via one
// completion call. Unusable output degrades to a report that carries the
// raw model response instead of losing it.
type Synthesizer struct {
	llm        CompletionProvider
	charBudget int
	logger     *log.Logger
}

func NewSynthesizer(llm CompletionProvider, charBudget int) *Synthesizer {
	if charBudget <= 0 {
		charBudget = synthesisCharBudgetDefault
	}
	return &Synthesizer{
		llm:        llm,
		charBudget: charBudget,
		logger:     log.New(log.Writer(), "[SYNTHESIZER] ", log.LstdFlags),
	}
}

const synthesizeSystem = `You synthesize research findings into a structured report.
Respond ONLY with a JSON object with exactly these fields:
- "summary": 2-4 sentence overview of the findings
- "detailed_sections": array of {"title", "content", "visual_elements"} where
  "visual_elements" is an array of {"type", "description", "source"}; use type
  "map" for places worth mapping, "chart" for data worth charting, and "image"
  for pictures already found
- "html_template": a self-contained HTML page presenting the report
- "task_type": echo of the task type
Do not include any other text.`

// Synthesize builds the report from the gathered subtask results.
func (s *Synthesizer) Synthesize(ctx context.Context, results []SubtaskResult, taskDescription, taskType string) Report {
	serialized := serializeResults(results, s.charBudget)

	prompt := fmt.Sprintf(`Task type: %s
Task: %s

Research findings:
%s

Produce the report JSON.`, taskType, taskDescription, serialized)

	res, err := s.llm.Complete(ctx, synthesizeSystem, prompt)
	if err != nil {
		s.logger.Printf("synthesis completion failed: %v", err)
		return degradedReport(err.Error(), taskType)
	}
	if res.Degraded() {
		s.logger.Printf("synthesis answer empty after think-tag split")
		return degradedReport(res.Reasoning, taskType)
	}

	var parsed struct {
		Summary          string    `json:"summary"`
		DetailedSections []Section `json:"detailed_sections"`
		HTMLTemplate     string    `json:"html_template"`
		TaskType         string    `json:"task_type"`
	}
	if !helpers.SalvageObject(res.Answer, &parsed) || parsed.Summary == "" {
		s.logger.Printf("synthesis output not salvageable")
		return degradedReport(res.Answer, taskType)
	}

	if parsed.TaskType == "" {
		parsed.TaskType = taskType
	}
	return Report{
		Summary:      parsed.Summary,
		Sections:     parsed.DetailedSections,
		HTMLTemplate: parsed.HTMLTemplate,
		TaskType:     parsed.TaskType,
	}
}

// serializeResults renders the results as compact JSON for the prompt.
// Screenshots are excluded by the PageContent JSON tags.
func serializeResults(results []SubtaskResult, budget int) string {
	data, err := json.Marshal(results)
	if err != nil {
		return ""
	}
	return helpers.Truncate(string(data), budget)
}

func degradedReport(raw, taskType string) Report {
	return Report{
		Summary: degradedSummary,
		Sections: []Section{{
			Title:   "Raw Response",
			Content: raw,
		}},
		HTMLTemplate: "<html><body><h1>Synthesis Error</h1><pre></pre></body></html>",
		TaskType:     taskType,
		Degraded:     true,
	}
}
