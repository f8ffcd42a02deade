package widget

import (
	"errors"
	"fmt"

	"musebar/internal/render"
)

// ErrUnknownButton marks a configured button identifier that does not
// name a supported control. Surfaced at construction, before any button
// is created.
var ErrUnknownButton = errors.New("unknown music button identifier")

// Button is one control element of the block. Its icon may change
// between updates (the play button swaps play/pause glyphs).
type Button struct {
	name string
	icon string
}

// Name returns the button's interaction identifier
func (b *Button) Name() string {
	return b.name
}

// Icon returns the button's current glyph
func (b *Button) Icon() string {
	return b.icon
}

// SetIcon replaces the button's glyph
func (b *Button) SetIcon(icon string) {
	b.icon = icon
}

// createButtons builds the configured subset of controls. Identifiers
// are order-independent; an unknown identifier fails the whole set.
func createButtons(names []string) (play, prev, next *Button, err error) {
	for _, name := range names {
		switch name {
		case "play":
			play = &Button{name: "play", icon: render.IconPlay}
		case "prev":
			prev = &Button{name: "prev", icon: render.IconPrev}
		case "next":
			next = &Button{name: "next", icon: render.IconNext}
		default:
			return nil, nil, nil, fmt.Errorf("%w: %q", ErrUnknownButton, name)
		}
	}
	return play, prev, next, nil
}
