package widget

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"musebar/internal/domain"
	"musebar/internal/mpris"
	"musebar/internal/render"
)

// defaultPollInterval is the re-poll delay suggested when the marquee
// does not ask for a finer one
const defaultPollInterval = time.Second

// Options configures a music block
type Options struct {
	// Player is the MPRIS name of the tracked player (e.g. "spotify")
	Player string
	// MaxWidth is the display budget in characters, excluding buttons
	MaxWidth int
	// Marquee selects the scrolling presentation
	Marquee bool
	// MarqueeInterval is the rest period between full rotations
	MarqueeInterval time.Duration
	// MarqueeSpeed is the scroll time per character
	MarqueeSpeed time.Duration
	// Buttons is the set of enabled controls: "prev", "play", "next"
	Buttons []string
}

// Music tracks one MPRIS player and renders it as a bar block. All
// methods are driven by the scheduler goroutine; the only concurrent
// collaborator is the signal listener, which shares nothing with the
// widget but the wake channel.
type Music struct {
	id     string
	logger *zap.Logger

	player  *mpris.Player
	display render.Display

	playerAvail bool
	icon        string

	prev *Button
	play *Button
	next *Button
}

// NewMusic builds a music block over an established bus connection.
// The connection is exclusively owned by the widget and must stay open
// for its full lifetime; it is never shared with the signal listener.
func NewMusic(opts Options, bus mpris.BusClient, logger *zap.Logger) (*Music, error) {
	play, prev, next, err := createButtons(opts.Buttons)
	if err != nil {
		return nil, err
	}

	var display render.Display
	if opts.Marquee {
		display = render.NewMarqueeDisplay(opts.MaxWidth, opts.MarqueeInterval, opts.MarqueeSpeed)
	} else {
		display = render.NewStaticDisplay(opts.MaxWidth)
	}

	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return &Music{
		id:      id,
		logger:  logger.With(zap.String("widget", id), zap.String("player", opts.Player)),
		player:  mpris.NewPlayer(bus, opts.Player, logger),
		display: display,
		prev:    prev,
		play:    play,
		next:    next,
	}, nil
}

// ID returns the block's unique identifier
func (m *Music) ID() string {
	return m.id
}

// Update refreshes the block from the player. A marquee rotation step
// that already changed the visible text skips the bus round-trip. Query
// failures are absorbed here: they flip the block to "player
// unavailable" and blank the text, they never propagate.
func (m *Music) Update() (time.Duration, error) {
	rotated, next := m.display.Tick()

	if !rotated {
		m.refreshTrack()
		if m.play != nil {
			m.play.SetIcon(m.playIcon())
		}
	}

	if next > 0 {
		return next, nil
	}
	return defaultPollInterval, nil
}

func (m *Music) refreshTrack() {
	raw, err := m.player.Metadata()
	if err != nil {
		m.setUnavailable()
		return
	}

	track, err := mpris.ExtractTrack(raw)
	if err != nil {
		m.logger.Debug("Failed to extract track metadata", zap.Error(err))
		track = domain.TrackInfo{}
	}

	if track.Empty() {
		m.setUnavailable()
		return
	}

	m.playerAvail = true
	m.icon = render.IconMusic
	m.display.SetTrack(track.Title, track.Artist)
}

func (m *Music) setUnavailable() {
	m.playerAvail = false
	m.icon = ""
	m.display.Clear()
}

// playIcon picks the play button glyph: the "pause" glyph while the
// player reports Playing, the "play" glyph for every other status and
// for query failures.
func (m *Music) playIcon() string {
	status, err := m.player.PlaybackStatus()
	if err != nil || status != domain.StatusPlaying {
		return render.IconPlay
	}
	return render.IconPause
}

// Click maps an interaction identifier to a player command. Identifiers
// without a configured button and unrecognized identifiers are
// successful no-ops. A failed send is the one runtime error surfaced to
// the caller: a click should be able to report that it failed.
func (m *Music) Click(instance string) error {
	var cmd mpris.Command
	switch instance {
	case "play":
		if m.play == nil {
			return nil
		}
		cmd = mpris.CmdPlayPause
	case "next":
		if m.next == nil {
			return nil
		}
		cmd = mpris.CmdNext
	case "prev":
		if m.prev == nil {
			return nil
		}
		cmd = mpris.CmdPrevious
	default:
		return nil
	}

	if err := m.player.Command(cmd); err != nil {
		return fmt.Errorf("click %q: %w", instance, err)
	}
	return nil
}

// View returns the renderable segments: just the text when the player is
// unavailable, otherwise text followed by the configured buttons in
// prev, play, next order.
func (m *Music) View() []domain.Segment {
	segments := []domain.Segment{{
		Instance: "",
		Icon:     m.icon,
		Text:     m.display.Text(),
	}}

	if !m.playerAvail {
		return segments
	}

	for _, b := range []*Button{m.prev, m.play, m.next} {
		if b != nil {
			segments = append(segments, domain.Segment{
				Instance: b.Name(),
				Icon:     b.Icon(),
			})
		}
	}
	return segments
}
