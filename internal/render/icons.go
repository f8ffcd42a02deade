package render

// Icon glyphs for the music block and its control buttons
const (
	IconMusic = "♪"
	IconPrev  = "⏮"
	IconPlay  = "▶"
	IconPause = "⏸"
	IconNext  = "⏭"
)
