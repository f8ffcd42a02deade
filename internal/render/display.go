package render

import "time"

// Display abstracts how a (title, artist) pair becomes the visible text
// of a music block. The static strategy fits the pair into a fixed
// character budget once; the marquee strategy scrolls the untruncated
// pair through a fixed window over time.
type Display interface {
	// SetTrack replaces the displayed track
	SetTrack(title, artist string)

	// Clear blanks the display
	Clear()

	// Tick advances time-driven presentation. It reports whether the
	// visible text changed and, if so, the delay until the next tick.
	// A static display never changes on its own and returns (false, 0).
	Tick() (changed bool, next time.Duration)

	// Text returns the currently visible text
	Text() string
}

// StaticDisplay fits the track into maxWidth characters at set time
type StaticDisplay struct {
	maxWidth int
	text     string
}

// NewStaticDisplay creates a fixed-width display
func NewStaticDisplay(maxWidth int) *StaticDisplay {
	return &StaticDisplay{maxWidth: maxWidth}
}

// SetTrack replaces the displayed track
func (d *StaticDisplay) SetTrack(title, artist string) {
	d.text = Fit(title, artist, d.maxWidth)
}

// Clear blanks the display
func (d *StaticDisplay) Clear() {
	d.text = ""
}

// Tick is a no-op for a static display
func (d *StaticDisplay) Tick() (bool, time.Duration) {
	return false, 0
}

// Text returns the fitted text
func (d *StaticDisplay) Text() string {
	return d.text
}

// MarqueeDisplay scrolls the full joined track through a rotating window
type MarqueeDisplay struct {
	rot *RotatingText
}

// NewMarqueeDisplay creates a scrolling display of the given window width
func NewMarqueeDisplay(width int, interval, speed time.Duration) *MarqueeDisplay {
	return &MarqueeDisplay{rot: NewRotatingText(width, interval, speed)}
}

// SetTrack replaces the scrolled track. The joined string is not width
// capped here; the rotating window takes care of presentation.
func (d *MarqueeDisplay) SetTrack(title, artist string) {
	switch {
	case title == "" && artist == "":
		d.rot.Set("")
	case title == "":
		d.rot.Set(artist)
	case artist == "":
		d.rot.Set(title)
	default:
		d.rot.Set(title + separator + artist)
	}
}

// Clear blanks the display
func (d *MarqueeDisplay) Clear() {
	d.rot.Set("")
}

// Tick advances the rotation
func (d *MarqueeDisplay) Tick() (bool, time.Duration) {
	return d.rot.Tick()
}

// Text returns the currently visible window
func (d *MarqueeDisplay) Text() string {
	return d.rot.Text()
}
