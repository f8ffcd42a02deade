package mpris

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"

	"musebar/internal/domain"
)

const (
	// defaultDebounce coalesces signal bursts from players that emit a
	// flurry of PropertiesChanged per track change
	defaultDebounce = 50 * time.Millisecond

	// dropWarnInterval rate-limits "wake channel full" warnings
	dropWarnInterval = 5 * time.Second
)

// Listener subscribes to PropertiesChanged signals on its own session bus
// connection and emits debounced wake events for one widget into the
// shared wake channel. It runs as a long-lived goroutine created at
// widget construction and never touches widget state directly; the wake
// channel is the only resource it shares with the scheduler.
type Listener struct {
	logger   *zap.Logger
	widgetID string
	wake     chan<- domain.WakeEvent
	debounce time.Duration

	mu       sync.Mutex
	running  bool
	cancel   context.CancelFunc
	bus      BusClient // Injectable for tests; opened on Start when nil
	wg       sync.WaitGroup
	lastWake time.Time
	lastDrop time.Time
}

// NewListener creates a listener for the given widget. The sender side of
// the scheduler's wake channel is injected at construction.
func NewListener(widgetID string, wake chan<- domain.WakeEvent, logger *zap.Logger) *Listener {
	return &Listener{
		logger:   logger,
		widgetID: widgetID,
		wake:     wake,
		debounce: defaultDebounce,
	}
}

// Start opens the listener's own bus connection (never shared with the
// widget's query connection), subscribes to all PropertiesChanged signals
// and launches the signal loop. Cancelling ctx stops the loop and closes
// the connection.
func (l *Listener) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return nil
	}
	l.running = true

	listenCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	bus := l.bus
	l.mu.Unlock()

	if bus == nil {
		conn, err := NewSessionBus()
		if err != nil {
			l.mu.Lock()
			l.running = false
			l.cancel = nil
			l.mu.Unlock()
			return fmt.Errorf("listener bus connection failed: %w", err)
		}
		bus = conn
		l.mu.Lock()
		l.bus = bus
		l.mu.Unlock()
	}

	// The bus does not support path-scoped subscriptions in this design;
	// subscribe to every properties notification and filter in the loop.
	if err := bus.AddMatchSignal(
		dbus.WithMatchInterface(propsInterface),
		dbus.WithMatchMember("PropertiesChanged"),
	); err != nil {
		l.mu.Lock()
		l.running = false
		l.cancel = nil
		l.mu.Unlock()
		cancel()
		return fmt.Errorf("failed to add match signal: %w", err)
	}

	signals := make(chan *dbus.Signal, 16)
	bus.Signal(signals)

	l.wg.Add(1)
	go l.run(listenCtx, bus, signals)

	l.logger.Info("Signal listener started", zap.String("widget", l.widgetID))
	return nil
}

// Stop cancels the signal loop and waits for it to exit
func (l *Listener) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	if l.cancel != nil {
		l.cancel()
	}
	l.mu.Unlock()

	l.wg.Wait()
	l.logger.Info("Signal listener stopped", zap.String("widget", l.widgetID))
}

func (l *Listener) run(ctx context.Context, bus BusClient, signals chan *dbus.Signal) {
	defer l.wg.Done()

	for {
		select {
		case <-ctx.Done():
			if err := bus.Close(); err != nil {
				l.logger.Warn("Failed to close listener connection", zap.Error(err))
			}
			return
		case sig := <-signals:
			if sig == nil {
				continue
			}
			if sig.Path != ObjectPath || sig.Name != propsChangedSig {
				continue
			}
			l.emit()
		}
	}
}

// emit pushes a wake event unless one was sent within the debounce
// window. The send is non-blocking: the scheduler is expected to drain
// faster than players emit changes, and a dropped wake only delays the
// refresh until the next poll.
func (l *Listener) emit() {
	now := time.Now()

	l.mu.Lock()
	if now.Sub(l.lastWake) < l.debounce {
		l.mu.Unlock()
		return
	}
	l.lastWake = now
	l.mu.Unlock()

	select {
	case l.wake <- domain.WakeEvent{WidgetID: l.widgetID, At: now}:
		l.logger.Debug("Wake event emitted", zap.String("widget", l.widgetID))
	default:
		l.warnDropped()
	}
}

func (l *Listener) warnDropped() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastDrop) >= dropWarnInterval {
		l.logger.Warn("Wake channel full, dropping event",
			zap.String("widget", l.widgetID))
		l.lastDrop = now
	}
}
