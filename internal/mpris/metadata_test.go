package mpris

import (
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"

	"musebar/internal/domain"
)

// TestExtractTrack_HappyPath verifies the common payload shape players
// actually send: title as a plain string, artist as a string list.
func TestExtractTrack_HappyPath(t *testing.T) {
	raw := dbus.MakeVariant(map[string]dbus.Variant{
		"xesam:title":  dbus.MakeVariant("Bohemian Rhapsody"),
		"xesam:artist": dbus.MakeVariant([]string{"Queen"}),
		"mpris:artUrl": dbus.MakeVariant("https://example.com/cover.jpg"),
	})

	track, err := ExtractTrack(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if track.Title != "Bohemian Rhapsody" {
		t.Errorf("Title: expected 'Bohemian Rhapsody', got %q", track.Title)
	}
	if track.Artist != "Queen" {
		t.Errorf("Artist: expected 'Queen', got %q", track.Artist)
	}
}

// TestExtractTrack_ArtistNesting covers the varying depths at which
// players wrap the artist list.
func TestExtractTrack_ArtistNesting(t *testing.T) {
	tests := []struct {
		name     string
		artist   dbus.Variant
		expected string
	}{
		{
			name:     "plain string",
			artist:   dbus.MakeVariant("Single Artist"),
			expected: "Single Artist",
		},
		{
			name:     "string list",
			artist:   dbus.MakeVariant([]string{"First", "Second"}),
			expected: "First",
		},
		{
			name:     "list of lists",
			artist:   dbus.MakeVariant([][]string{{"Nested"}, {"Other"}}),
			expected: "Nested",
		},
		{
			name: "variant wrapped list of variants",
			artist: dbus.MakeVariant([]dbus.Variant{
				dbus.MakeVariant([]dbus.Variant{dbus.MakeVariant("Deep")}),
			}),
			expected: "Deep",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := dbus.MakeVariant(map[string]dbus.Variant{
				"xesam:artist": tt.artist,
			})
			track, err := ExtractTrack(raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if track.Artist != tt.expected {
				t.Errorf("Artist: expected %q, got %q", tt.expected, track.Artist)
			}
		})
	}
}

// TestExtractTrack_MissingKeysAreNotErrors: absent title or artist leaves
// the field empty, which the caller treats as "nothing to display".
func TestExtractTrack_MissingKeysAreNotErrors(t *testing.T) {
	tests := []struct {
		name     string
		payload  map[string]dbus.Variant
		expected domain.TrackInfo
	}{
		{
			name:     "empty map",
			payload:  map[string]dbus.Variant{},
			expected: domain.TrackInfo{},
		},
		{
			name: "title only",
			payload: map[string]dbus.Variant{
				"xesam:title": dbus.MakeVariant("Instrumental"),
			},
			expected: domain.TrackInfo{Title: "Instrumental"},
		},
		{
			name: "unknown keys ignored",
			payload: map[string]dbus.Variant{
				"xesam:album":    dbus.MakeVariant("A Night at the Opera"),
				"mpris:trackid":  dbus.MakeVariant("/track/1"),
				"xesam:trackNum": dbus.MakeVariant(11),
			},
			expected: domain.TrackInfo{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track, err := ExtractTrack(dbus.MakeVariant(tt.payload))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if track != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, track)
			}
		})
	}
}

// TestExtractTrack_Malformed consolidates structural mismatches; all of
// them must yield ErrMalformedMetadata, never a panic.
func TestExtractTrack_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  dbus.Variant
	}{
		{
			name: "payload is not a map",
			raw:  dbus.MakeVariant(12345),
		},
		{
			name: "title is not a string",
			raw: dbus.MakeVariant(map[string]dbus.Variant{
				"xesam:title": dbus.MakeVariant(42),
			}),
		},
		{
			name: "artist is not a sequence",
			raw: dbus.MakeVariant(map[string]dbus.Variant{
				"xesam:artist": dbus.MakeVariant(3.14),
			}),
		},
		{
			name: "artist list empty",
			raw: dbus.MakeVariant(map[string]dbus.Variant{
				"xesam:artist": dbus.MakeVariant([]string{}),
			}),
		},
		{
			name: "nested artist list empty",
			raw: dbus.MakeVariant(map[string]dbus.Variant{
				"xesam:artist": dbus.MakeVariant([][]string{}),
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractTrack(tt.raw)
			if !errors.Is(err, ErrMalformedMetadata) {
				t.Errorf("expected ErrMalformedMetadata, got %v", err)
			}
		})
	}
}
