package surf

import (
	"context"
	"time"

	"github.com/surfer-dev/surfer/provider"
)

// Task is one research request. VisualUnderstanding gates rendered fetches
// for the whole run; a subtask's needs_visual flag only takes effect when it
// is set.
type Task struct {
	ID                  string `json:"id"`
	Description         string `json:"description"`
	Type                string `json:"type"`  // travel, data, general, ...
	Query               string `json:"query"` // optional; extracted from the description when empty
	AdditionalContext   string `json:"additional_context,omitempty"`
	VisualUnderstanding bool   `json:"visual_understanding"`
	Depth               int    `json:"depth"` // 1..3, clamped
}

// Subtask is one angle of the research produced by the decomposer.
type Subtask struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	SearchQueries []string `json:"search_queries"`
	NeedsVisual   bool     `json:"needs_visual"`
	DataCategory  string   `json:"structured_data_category"`
}

// PageContent is a fetched page after relevance filtering.
type PageContent struct {
	URL        string   `json:"url"`
	Title      string   `json:"title"`
	Text       string   `json:"text"`
	Images     []string `json:"images,omitempty"`
	Screenshot []byte   `json:"-"`
}

// Dataset is the structured extraction for one subtask. A failed extraction
// carries the keys "error" and "raw_text" instead of real fields.
type Dataset map[string]any

// Degraded reports whether the dataset is an extraction failure marker.
func (d Dataset) Degraded() bool {
	_, failed := d["error"]
	return failed
}

// SubtaskResult bundles everything gathered for one subtask.
type SubtaskResult struct {
	Subtask Subtask         `json:"subtask"`
	Pages   []PageContent   `json:"pages"`
	Data    Dataset         `json:"data"`
	Visuals []VisualElement `json:"visuals,omitempty"`
}

// VisualElement is a visual slot inside a report section. The synthesizer
// proposes them; the enricher fills in MapURL or Chart afterwards.
type VisualElement struct {
	Type        string `json:"type"` // map, chart, graph, comparison, image, screenshot
	Description string `json:"description"`
	Source      string `json:"source,omitempty"`
	MapURL      string `json:"map_url,omitempty"`
	Chart       *Chart `json:"chart,omitempty"`
}

// Chart is render-ready chart data.
type Chart struct {
	ChartType string         `json:"chart_type"`
	Title     string         `json:"title"`
	Labels    []string       `json:"labels"`
	Datasets  []ChartDataset `json:"datasets"`
	Options   ChartOptions   `json:"options"`
}

type ChartDataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

type ChartOptions struct {
	XAxisLabel string `json:"x_axis_label"`
	YAxisLabel string `json:"y_axis_label"`
}

// Section is one titled block of the final report.
type Section struct {
	Title          string          `json:"title"`
	Content        string          `json:"content"`
	VisualElements []VisualElement `json:"visual_elements"`
}

// Report is the final synthesized output of a run.
type Report struct {
	ID           string        `json:"id"`
	Summary      string        `json:"summary"`
	Sections     []Section     `json:"detailed_sections"`
	HTMLTemplate string        `json:"html_template"`
	TaskType     string        `json:"task_type"`
	Degraded     bool          `json:"degraded,omitempty"`
	Elapsed      time.Duration `json:"elapsed_ns,omitempty"`
}

// degradedSummary marks a report whose synthesis completion could not be
// parsed; the raw model output is preserved in a "Raw Response" section.
const degradedSummary = "Failed to synthesize information properly"

// CompletionProvider is the slice of provider.Provider the pipeline needs.
// Declared locally so tests can stub completions without HTTP.
type CompletionProvider interface {
	Complete(ctx context.Context, system, user string) (provider.Result, error)
}
