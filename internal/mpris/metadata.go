package mpris

import (
	"fmt"

	"github.com/godbus/dbus/v5"

	"musebar/internal/domain"
)

// artist values are modeled as nested lists on the wire; cap the descent
// so a pathological payload cannot loop forever
const maxArtistDepth = 8

// ExtractTrack decodes the semi-structured Metadata payload into a
// (title, artist) pair. The payload is a map from property names to
// polymorphic variant values: "xesam:title" decodes directly as a string,
// "xesam:artist" as a nested sequence whose first innermost element is
// the artist. Unknown keys are ignored; missing keys leave the field
// empty, which is not an error. Any structural mismatch yields
// ErrMalformedMetadata, which callers map to "player unavailable".
func ExtractTrack(raw dbus.Variant) (domain.TrackInfo, error) {
	payload, ok := raw.Value().(map[string]dbus.Variant)
	if !ok {
		return domain.TrackInfo{}, fmt.Errorf("%w: payload is %T, not a property map", ErrMalformedMetadata, raw.Value())
	}

	var track domain.TrackInfo
	for key, value := range payload {
		switch key {
		case "xesam:title":
			title, ok := value.Value().(string)
			if !ok {
				return domain.TrackInfo{}, fmt.Errorf("%w: title is %T, not a string", ErrMalformedMetadata, value.Value())
			}
			track.Title = title
		case "xesam:artist":
			artist, err := firstString(value.Value())
			if err != nil {
				return domain.TrackInfo{}, err
			}
			track.Artist = artist
		}
	}
	return track, nil
}

// firstString descends a nested sequence value, taking the first element
// at each level, until it reaches a string. Players disagree on how
// deeply the artist list is wrapped, so every plausible layering of
// variants and slices is accepted.
func firstString(v interface{}) (string, error) {
	for depth := 0; depth < maxArtistDepth; depth++ {
		switch t := v.(type) {
		case string:
			return t, nil
		case dbus.Variant:
			v = t.Value()
		case []string:
			if len(t) == 0 {
				return "", fmt.Errorf("%w: empty artist list", ErrMalformedMetadata)
			}
			v = t[0]
		case []dbus.Variant:
			if len(t) == 0 {
				return "", fmt.Errorf("%w: empty artist list", ErrMalformedMetadata)
			}
			v = t[0]
		case [][]string:
			if len(t) == 0 {
				return "", fmt.Errorf("%w: empty artist list", ErrMalformedMetadata)
			}
			v = t[0]
		case []interface{}:
			if len(t) == 0 {
				return "", fmt.Errorf("%w: empty artist list", ErrMalformedMetadata)
			}
			v = t[0]
		default:
			return "", fmt.Errorf("%w: artist is %T, not a string or sequence", ErrMalformedMetadata, v)
		}
	}
	return "", fmt.Errorf("%w: artist nesting too deep", ErrMalformedMetadata)
}
