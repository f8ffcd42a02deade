package render

import "time"

// RotatingText cycles a long string through a fixed-width window, one
// character per tick. Content that already fits the window never rotates.
// At the wrap point the rotation rests for the configured interval before
// the next cycle starts.
type RotatingText struct {
	width    int
	interval time.Duration
	speed    time.Duration

	content []rune
	offset  int
}

// gap separates the tail of the content from its head inside the window
// while the text wraps around
var gap = []rune(separator)

// NewRotatingText creates a marquee window of the given width. interval
// is the rest period between full rotations, speed the time per scrolled
// character.
func NewRotatingText(width int, interval, speed time.Duration) *RotatingText {
	return &RotatingText{
		width:    width,
		interval: interval,
		speed:    speed,
	}
}

// Set replaces the rotated content. Setting the same content is a no-op
// so an in-progress rotation is not disturbed by identical refreshes.
func (r *RotatingText) Set(text string) {
	if string(r.content) == text {
		return
	}
	r.content = []rune(text)
	r.offset = 0
}

// Text returns the currently visible window
func (r *RotatingText) Text() string {
	if len(r.content) <= r.width {
		return string(r.content)
	}
	ring := append(append([]rune{}, r.content...), gap...)
	window := make([]rune, 0, r.width)
	for i := 0; i < r.width; i++ {
		window = append(window, ring[(r.offset+i)%len(ring)])
	}
	return string(window)
}

// Tick advances the rotation by one character. It reports whether the
// visible text changed and the suggested delay until the next tick: the
// per-character speed mid-rotation, or the rest interval at the wrap
// point. Content that fits the window reports (false, 0).
func (r *RotatingText) Tick() (bool, time.Duration) {
	if len(r.content) <= r.width {
		return false, 0
	}
	r.offset++
	if r.offset >= len(r.content)+len(gap) {
		r.offset = 0
		return true, r.interval
	}
	return true, r.speed
}
