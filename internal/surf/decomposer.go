package surf

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/surfer-dev/surfer/internal/helpers"
)

// TaskDecomposer turns a research task into focused subtasks via one
// completion call. It never fails: any model or parse trouble collapses to
// a single general subtask covering the whole task.
type TaskDecomposer struct {
	llm    CompletionProvider
	logger *log.Logger
}

func NewTaskDecomposer(llm CompletionProvider) *TaskDecomposer {
	return &TaskDecomposer{
		llm:    llm,
		logger: log.New(log.Writer(), "[DECOMPOSER] ", log.LstdFlags),
	}
}

const decomposeSystem = `You are a research planner. You break a research task into focused subtasks.
Respond ONLY with a JSON array. Each element must have these fields:
- "name": short subtask title
- "description": what this subtask should find out
- "search_queries": array of 1-3 web search queries
- "needs_visual": boolean, true if images/screenshots would materially help
- "structured_data_category": one of "general", "prices", "schedule", "comparison", "locations", "statistics"
Do not include any other text.`

// Decompose asks the model to split the task. The fallback subtask keeps
// the pipeline moving when the model output is unusable.
func (d *TaskDecomposer) Decompose(ctx context.Context, description, taskType string) []Subtask {
	prompt := fmt.Sprintf("Task type: %s\nTask: %s\n\nBreak this into subtasks.", taskType, description)

	res, err := d.llm.Complete(ctx, decomposeSystem, prompt)
	if err != nil {
		d.logger.Printf("decompose completion failed: %v", err)
		return []Subtask{defaultSubtask(description)}
	}
	if res.Degraded() {
		d.logger.Printf("decompose answer empty after think-tag split")
		return []Subtask{defaultSubtask(description)}
	}

	var subtasks []Subtask
	if !helpers.SalvageArray(res.Answer, &subtasks) || len(subtasks) == 0 {
		d.logger.Printf("decompose output not salvageable, using default subtask")
		return []Subtask{defaultSubtask(description)}
	}

	for i := range subtasks {
		if subtasks[i].Name == "" {
			subtasks[i].Name = "General Information"
		}
		if len(subtasks[i].SearchQueries) == 0 {
			subtasks[i].SearchQueries = []string{description}
		}
		if subtasks[i].DataCategory == "" {
			subtasks[i].DataCategory = "general"
		}
	}
	return subtasks
}

// ExtractMainQuery distills a task description into one web search query.
// Used when the caller did not provide a query of their own.
func (d *TaskDecomposer) ExtractMainQuery(ctx context.Context, description string) string {
	prompt := fmt.Sprintf("Extract the single best web search query for this task. Respond with the query only, no quotes, no explanation.\n\nTask: %s", description)

	res, err := d.llm.Complete(ctx, "", prompt)
	if err != nil || res.Degraded() {
		return description
	}
	query := strings.TrimSpace(res.Answer)
	// Multi-line answers mean the model ignored instructions; first line wins.
	if nl := strings.IndexByte(query, '\n'); nl >= 0 {
		query = strings.TrimSpace(query[:nl])
	}
	query = strings.TrimSpace(strings.Trim(query, `"'`))
	if query == "" {
		return description
	}
	return query
}

func defaultSubtask(description string) Subtask {
	return Subtask{
		Name:          "General Information",
		Description:   description,
		SearchQueries: []string{description},
		NeedsVisual:   false,
		DataCategory:  "general",
	}
}
