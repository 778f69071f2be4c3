package staticmap

import (
	"fmt"
	"net/url"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/staticmap"

// Builder produces Google Static Maps image URLs for named locations.
// It does no geocoding of its own; the Static Maps API accepts free-form
// location strings for both center and markers.
type Builder struct {
	APIKey  string
	Zoom    int
	Size    string
	BaseURL string
}

func New(apiKey string, zoom int, size string) *Builder {
	if zoom <= 0 {
		zoom = 13
	}
	if size == "" {
		size = "600x300"
	}
	return &Builder{APIKey: apiKey, Zoom: zoom, Size: size, BaseURL: defaultBaseURL}
}

// Enabled reports whether map URLs can be generated at all.
func (b *Builder) Enabled() bool { return b.APIKey != "" }

// URL returns a static map image URL centered on location with a single red
// marker, or "" when no API key is configured or the location is empty.
func (b *Builder) URL(location string) string {
	if !b.Enabled() || location == "" {
		return ""
	}
	loc := url.QueryEscape(location)
	return fmt.Sprintf("%s?center=%s&zoom=%d&size=%s&maptype=roadmap&markers=color:red%%7C%s&key=%s",
		b.BaseURL, loc, b.Zoom, b.Size, loc, url.QueryEscape(b.APIKey))
}
