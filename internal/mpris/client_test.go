package mpris

import (
	"errors"
	"fmt"
	"testing"

	"github.com/godbus/dbus/v5"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"musebar/internal/domain"
	"musebar/internal/mpris/mocks"
)

func TestPlayer_Metadata(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	bus := mocks.NewMockBusClient(ctrl)
	player := NewPlayer(bus, "spotify", zap.NewNop())

	expected := dbus.MakeVariant(map[string]dbus.Variant{
		"xesam:title": dbus.MakeVariant("Song A"),
	})
	bus.EXPECT().
		GetProperty("org.mpris.MediaPlayer2.spotify", ObjectPath, "org.mpris.MediaPlayer2.Player.Metadata").
		Return(expected, nil)

	got, err := player.Metadata()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := got.Value().(map[string]dbus.Variant); !ok {
		t.Errorf("expected property map, got %T", got.Value())
	}
}

// TestPlayer_Metadata_UniformError: every query failure collapses to
// ErrQueryFailed regardless of the underlying reason.
func TestPlayer_Metadata_UniformError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	bus := mocks.NewMockBusClient(ctrl)
	player := NewPlayer(bus, "spotify", zap.NewNop())

	bus.EXPECT().
		GetProperty(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(dbus.Variant{}, fmt.Errorf("name has no owner"))

	_, err := player.Metadata()
	if !errors.Is(err, ErrQueryFailed) {
		t.Errorf("expected ErrQueryFailed, got %v", err)
	}
}

func TestPlayer_PlaybackStatus(t *testing.T) {
	tests := []struct {
		name        string
		variant     dbus.Variant
		queryErr    error
		expected    domain.PlaybackStatus
		expectError bool
	}{
		{
			name:     "playing",
			variant:  dbus.MakeVariant("Playing"),
			expected: domain.StatusPlaying,
		},
		{
			name:     "paused",
			variant:  dbus.MakeVariant("Paused"),
			expected: domain.StatusPaused,
		},
		{
			name:     "stopped",
			variant:  dbus.MakeVariant("Stopped"),
			expected: domain.StatusStopped,
		},
		{
			name:     "unrecognized status string",
			variant:  dbus.MakeVariant("Buffering"),
			expected: domain.StatusUnknown,
		},
		{
			name:        "wrong type",
			variant:     dbus.MakeVariant(7),
			expected:    domain.StatusUnknown,
			expectError: true,
		},
		{
			name:        "query failure",
			variant:     dbus.Variant{},
			queryErr:    fmt.Errorf("player gone"),
			expected:    domain.StatusUnknown,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			bus := mocks.NewMockBusClient(ctrl)
			bus.EXPECT().
				GetProperty("org.mpris.MediaPlayer2.vlc", ObjectPath, "org.mpris.MediaPlayer2.Player.PlaybackStatus").
				Return(tt.variant, tt.queryErr)

			player := NewPlayer(bus, "vlc", zap.NewNop())
			status, err := player.PlaybackStatus()

			if tt.expectError {
				if !errors.Is(err, ErrQueryFailed) {
					t.Errorf("expected ErrQueryFailed, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if status != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, status)
			}
		})
	}
}

func TestPlayer_Command(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	bus := mocks.NewMockBusClient(ctrl)
	player := NewPlayer(bus, "spotify", zap.NewNop())

	bus.EXPECT().
		Send("org.mpris.MediaPlayer2.spotify", ObjectPath, "org.mpris.MediaPlayer2.Player.PlayPause").
		Return(nil)

	if err := player.Command(CmdPlayPause); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestPlayer_Command_NoneIsNoop: an unmapped command never touches the bus.
func TestPlayer_Command_NoneIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	bus := mocks.NewMockBusClient(ctrl)
	player := NewPlayer(bus, "spotify", zap.NewNop())

	if err := player.Command(CmdNone); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPlayer_Command_SendFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	bus := mocks.NewMockBusClient(ctrl)
	player := NewPlayer(bus, "spotify", zap.NewNop())

	bus.EXPECT().
		Send(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("connection closed"))

	if err := player.Command(CmdNext); err == nil {
		t.Error("expected error, got nil")
	}
}
