package domain

import "time"

// PlaybackStatus represents the current state of the media player
type PlaybackStatus string

const (
	// StatusPlaying indicates the media is currently playing
	StatusPlaying PlaybackStatus = "Playing"
	// StatusPaused indicates the media is paused
	StatusPaused PlaybackStatus = "Paused"
	// StatusStopped indicates the media is stopped
	StatusStopped PlaybackStatus = "Stopped"
	// StatusUnknown indicates the player reported something unrecognized
	// or could not be queried at all
	StatusUnknown PlaybackStatus = "Unknown"
)

// TrackInfo is the (title, artist) pair extracted from player metadata.
// Both fields may be empty; an empty pair means "nothing to display".
type TrackInfo struct {
	Title  string
	Artist string
}

// Empty reports whether the track carries no displayable information
func (t TrackInfo) Empty() bool {
	return t.Title == "" && t.Artist == ""
}

// WakeEvent is a lightweight cross-thread notification asking the
// scheduler to re-run a widget's update ahead of its normal poll interval
type WakeEvent struct {
	WidgetID string
	At       time.Time
}

// Segment is one renderable element of a block: the text area
// (Instance == "") or a control button (Instance == "prev"/"play"/"next")
type Segment struct {
	Instance string
	Icon     string
	Text     string
}

// BlockView is a block's rendered output, segments in display order
type BlockView struct {
	Name     string
	Segments []Segment
}

// ClickEvent identifies a user interaction with a rendered segment.
// Name addresses the block, Instance the segment within it.
type ClickEvent struct {
	Name     string `json:"name"`
	Instance string `json:"instance"`
	Button   int    `json:"button"`
}
