package domain

import "time"

// Block defines the interface the scheduler drives.
// Update, Click and View are always called from the scheduler goroutine,
// never concurrently; a Block needs no internal locking.
type Block interface {
	// ID returns the block's unique identifier, used to route wake
	// events and click events back to it
	ID() string

	// Update refreshes the block's display state and returns the delay
	// until the next scheduled update
	Update() (time.Duration, error)

	// Click handles an interaction with one of the block's segments.
	// Unrecognized instances are a no-op, not an error.
	Click(instance string) error

	// View returns the block's renderable segments in display order
	View() []Segment
}

// Renderer consumes the assembled views of all blocks and presents them
type Renderer interface {
	Render(views []BlockView) error
}
