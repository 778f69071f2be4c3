package models

// Result is the outcome of fetching a single page. Screenshot and Images
// are only populated by rendering fetchers.
type Result struct {
	URL        string   `json:"url"`
	Title      string   `json:"title"`
	Text       string   `json:"text"`
	Images     []string `json:"images,omitempty"`
	Screenshot []byte   `json:"screenshot,omitempty"`
	Status     int      `json:"status"`
	RenderMS   int      `json:"render_ms"`
}
