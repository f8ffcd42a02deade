package mpris

import (
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"

	"musebar/internal/domain"
)

// Well-known MPRIS addressing constants
const (
	// BusNamePrefix prefixes the player name to form its bus name
	BusNamePrefix = "org.mpris.MediaPlayer2."
	// ObjectPath is the fixed object path every MPRIS player exports
	ObjectPath = "/org/mpris/MediaPlayer2"
	// PlayerInterface is the playback control/status interface
	PlayerInterface = "org.mpris.MediaPlayer2.Player"

	propsInterface  = "org.freedesktop.DBus.Properties"
	propsChangedSig = propsInterface + ".PropertiesChanged"
)

var (
	// ErrQueryFailed is the uniform error for any failed property query:
	// player not running, interface absent, malformed reply. Callers only
	// need "unavailable" and must not distinguish reasons.
	ErrQueryFailed = errors.New("player property query failed")

	// ErrMalformedMetadata marks a metadata payload whose structure does
	// not match the expected wire format
	ErrMalformedMetadata = errors.New("malformed player metadata")
)

// Command is a one-way control method on the Player interface
type Command string

// Control commands understood by MPRIS players
const (
	CmdNone      Command = ""
	CmdPlayPause Command = "PlayPause"
	CmdNext      Command = "Next"
	CmdPrevious  Command = "Previous"
)

// BusClient defines the interface for D-Bus operations.
// This abstraction allows us to mock D-Bus interactions in tests.
//
//go:generate mockgen -source=client.go -destination=mocks/bus_client_mock.go -package=mocks
type BusClient interface {
	// Close closes the D-Bus connection
	Close() error

	// AddMatchSignal adds a signal match rule
	AddMatchSignal(options ...dbus.MatchOption) error

	// Signal registers a channel to receive D-Bus signals
	Signal(ch chan<- *dbus.Signal)

	// GetProperty retrieves a property from a D-Bus object
	// dest: the bus name (e.g., "org.mpris.MediaPlayer2.spotify")
	// path: the object path (e.g., "/org/mpris/MediaPlayer2")
	// prop: the property name (e.g., "org.mpris.MediaPlayer2.Player.Metadata")
	GetProperty(dest, path, prop string) (dbus.Variant, error)

	// Send issues a fire-and-forget method call; no reply is awaited
	Send(dest, path, method string) error
}

// SessionBus is the real BusClient implementation using godbus
type SessionBus struct {
	conn *dbus.Conn
}

// NewSessionBus opens a private connection to the session bus.
// Failure here is fatal to widget construction and is not retried.
func NewSessionBus() (*SessionBus, error) {
	conn, err := dbus.SessionBusPrivate()
	if err != nil {
		return nil, fmt.Errorf("session bus connection failed: %w", err)
	}
	if err := conn.Auth(nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("session bus auth failed: %w", err)
	}
	if err := conn.Hello(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("session bus hello failed: %w", err)
	}
	return &SessionBus{conn: conn}, nil
}

// Close closes the D-Bus connection
func (c *SessionBus) Close() error {
	return c.conn.Close()
}

// AddMatchSignal adds a signal match rule
func (c *SessionBus) AddMatchSignal(options ...dbus.MatchOption) error {
	return c.conn.AddMatchSignal(options...)
}

// Signal registers a channel to receive D-Bus signals
func (c *SessionBus) Signal(ch chan<- *dbus.Signal) {
	c.conn.Signal(ch)
}

// GetProperty retrieves a property from a D-Bus object
func (c *SessionBus) GetProperty(dest, path, prop string) (dbus.Variant, error) {
	obj := c.conn.Object(dest, dbus.ObjectPath(path))
	return obj.GetProperty(prop)
}

// Send issues a fire-and-forget method call
func (c *SessionBus) Send(dest, path, method string) error {
	obj := c.conn.Object(dest, dbus.ObjectPath(path))
	call := obj.Call(method, dbus.FlagNoReplyExpected)
	return call.Err
}

// Player addresses one named MPRIS player on a bus connection.
// The bus name and object path are fixed at construction.
type Player struct {
	logger *zap.Logger
	bus    BusClient
	name   string
}

// NewPlayer binds a player name (e.g. "spotify") to a bus connection
func NewPlayer(bus BusClient, player string, logger *zap.Logger) *Player {
	return &Player{
		logger: logger,
		bus:    bus,
		name:   BusNamePrefix + player,
	}
}

// BusName returns the player's well-known bus name
func (p *Player) BusName() string {
	return p.name
}

// Metadata queries the player's Metadata property. Any failure collapses
// to ErrQueryFailed; the caller treats it as "player unavailable".
func (p *Player) Metadata() (dbus.Variant, error) {
	v, err := p.bus.GetProperty(p.name, ObjectPath, PlayerInterface+".Metadata")
	if err != nil {
		p.logger.Debug("Metadata query failed",
			zap.String("player", p.name),
			zap.Error(err))
		return dbus.Variant{}, fmt.Errorf("%s: %w", p.name, ErrQueryFailed)
	}
	return v, nil
}

// PlaybackStatus queries the player's PlaybackStatus property
func (p *Player) PlaybackStatus() (domain.PlaybackStatus, error) {
	v, err := p.bus.GetProperty(p.name, ObjectPath, PlayerInterface+".PlaybackStatus")
	if err != nil {
		p.logger.Debug("PlaybackStatus query failed",
			zap.String("player", p.name),
			zap.Error(err))
		return domain.StatusUnknown, fmt.Errorf("%s: %w", p.name, ErrQueryFailed)
	}
	s, ok := v.Value().(string)
	if !ok {
		return domain.StatusUnknown, fmt.Errorf("%s: %w", p.name, ErrQueryFailed)
	}
	switch domain.PlaybackStatus(s) {
	case domain.StatusPlaying:
		return domain.StatusPlaying, nil
	case domain.StatusPaused:
		return domain.StatusPaused, nil
	case domain.StatusStopped:
		return domain.StatusStopped, nil
	default:
		return domain.StatusUnknown, nil
	}
}

// Command sends a one-way control call to the player. CmdNone is a
// silent no-op. Failures are reported to the caller but never retried.
func (p *Player) Command(cmd Command) error {
	if cmd == CmdNone {
		return nil
	}
	if err := p.bus.Send(p.name, ObjectPath, PlayerInterface+"."+string(cmd)); err != nil {
		return fmt.Errorf("failed to send %s to %s: %w", cmd, p.name, err)
	}
	p.logger.Debug("Sent player command",
		zap.String("player", p.name),
		zap.String("command", string(cmd)))
	return nil
}
