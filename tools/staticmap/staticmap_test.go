package staticmap

import "testing"

func TestURL(t *testing.T) {
	t.Parallel()
	b := New("test-key", 0, "")
	got := b.URL("Paris, France")
	want := "https://maps.googleapis.com/maps/api/staticmap?center=Paris%2C+France&zoom=13&size=600x300&maptype=roadmap&markers=color:red%7CParis%2C+France&key=test-key"
	if got != want {
		t.Fatalf("URL() = %q, want %q", got, want)
	}
}

func TestURLWithoutKey(t *testing.T) {
	t.Parallel()
	b := New("", 13, "600x300")
	if b.Enabled() {
		t.Fatalf("expected disabled builder without key")
	}
	if got := b.URL("Paris"); got != "" {
		t.Fatalf("expected empty url, got %q", got)
	}
}

func TestURLEmptyLocation(t *testing.T) {
	t.Parallel()
	b := New("key", 13, "600x300")
	if got := b.URL(""); got != "" {
		t.Fatalf("expected empty url for empty location, got %q", got)
	}
}
