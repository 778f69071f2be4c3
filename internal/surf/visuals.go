package surf

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/surfer-dev/surfer/internal/helpers"
	"github.com/surfer-dev/surfer/tools/staticmap"
)

// VisualEnricher fills in the visual slots the synthesizer proposed:
// map elements get static-map URLs, chart elements get render-ready chart
// data. Both passes only add to the report, never remove or reorder.
type VisualEnricher struct {
	llm    CompletionProvider
	maps   *staticmap.Builder
	logger *log.Logger
}

func NewVisualEnricher(llm CompletionProvider, maps *staticmap.Builder) *VisualEnricher {
	return &VisualEnricher{
		llm:    llm,
		maps:   maps,
		logger: log.New(log.Writer(), "[VISUALS] ", log.LstdFlags),
	}
}

// Enrich runs the map and chart passes over the report in place.
func (v *VisualEnricher) Enrich(ctx context.Context, report *Report, task Task) {
	if wantsMaps(report.TaskType, task.Description) {
		v.mapPass(ctx, report)
	}
	if wantsCharts(report.TaskType, task.Description) {
		v.chartPass(ctx, report)
	}
}

func wantsMaps(taskType, description string) bool {
	if taskType == "travel" {
		return true
	}
	lower := strings.ToLower(description)
	return strings.Contains(lower, "location") || strings.Contains(lower, "map")
}

func wantsCharts(taskType, description string) bool {
	if taskType == "data" {
		return true
	}
	lower := strings.ToLower(description)
	return strings.Contains(lower, "comparison") || strings.Contains(lower, "statistics")
}

func (v *VisualEnricher) mapPass(ctx context.Context, report *Report) {
	if !v.maps.Enabled() {
		v.logger.Printf("map pass skipped: no maps api key")
		return
	}
	for si := range report.Sections {
		section := &report.Sections[si]
		var extra []VisualElement
		for ei := range section.VisualElements {
			elem := &section.VisualElements[ei]
			if elem.Type != "map" {
				continue
			}
			locations := v.locations(ctx, section.Title, section.Content, elem.Description)
			if len(locations) == 0 {
				continue
			}
			elem.MapURL = v.maps.URL(locations[0])
			for _, loc := range locations[1:] {
				extra = append(extra, VisualElement{
					Type:        "map",
					Description: loc,
					MapURL:      v.maps.URL(loc),
				})
			}
		}
		section.VisualElements = append(section.VisualElements, extra...)
	}
}

// locations asks the model which places the map element should show.
// Fallback order: JSON array salvage, then any quoted strings in the answer.
func (v *VisualEnricher) locations(ctx context.Context, title, content, description string) []string {
	prompt := fmt.Sprintf(`Section: %s
%s

Map request: %s

List the specific place names this map should show.
Respond ONLY with a JSON array of location name strings.`, title, content, description)

	res, err := v.llm.Complete(ctx, "", prompt)
	if err != nil || res.Degraded() {
		return nil
	}
	var locations []string
	if helpers.SalvageArray(res.Answer, &locations) {
		return compactStrings(locations)
	}
	return compactStrings(helpers.QuotedStrings(res.Answer))
}

const chartSystem = `You turn research findings into chart data.
Respond ONLY with a JSON object with exactly these fields:
- "chart_type": "bar", "line" or "pie"
- "title": chart title
- "labels": array of axis labels for the data points
- "datasets": array of {"label", "data"} where "data" is an array of numbers
- "options": {"x_axis_label", "y_axis_label"}
Do not include any other text.`

func (v *VisualEnricher) chartPass(ctx context.Context, report *Report) {
	for si := range report.Sections {
		section := &report.Sections[si]
		for ei := range section.VisualElements {
			elem := &section.VisualElements[ei]
			switch elem.Type {
			case "chart", "graph", "comparison":
			default:
				continue
			}
			elem.Chart = v.chart(ctx, section.Title, section.Content, elem.Description)
		}
	}
}

func (v *VisualEnricher) chart(ctx context.Context, title, content, description string) *Chart {
	prompt := fmt.Sprintf(`Section: %s
%s

Chart request: %s

Produce the chart data JSON.`, title, content, description)

	res, err := v.llm.Complete(ctx, chartSystem, prompt)
	if err != nil || res.Degraded() {
		return placeholderChart()
	}
	var chart Chart
	if !helpers.SalvageObject(res.Answer, &chart) || chart.ChartType == "" {
		v.logger.Printf("chart output not salvageable")
		return placeholderChart()
	}
	return &chart
}

// placeholderChart marks a chart the model could not produce; renderers show
// the error title instead of dropping the element.
func placeholderChart() *Chart {
	return &Chart{
		ChartType: "bar",
		Title:     "Error: Could not parse chart data",
		Labels:    []string{},
		Datasets:  []ChartDataset{},
	}
}

func compactStrings(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
