package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"musebar/internal/bar"
	"musebar/internal/config"
	"musebar/internal/domain"
	"musebar/internal/engine"
	"musebar/internal/mpris"
	"musebar/internal/widget"
)

func main() {
	var cfgPath string
	pflag.StringVarP(&cfgPath, "config", "c", "", "path to the configuration file")
	pflag.Parse()

	app := fx.New(appOptions(cfgPath))

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Wait for interrupt signal
	<-ctx.Done()

	if err := app.Stop(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// appOptions assembles the dependency graph. Exposed as a function so
// tests can validate the graph without starting the daemon.
func appOptions(cfgPath string) fx.Option {
	return fx.Options(
		// Logs must not share stdout with the i3bar protocol stream
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),

		fx.Provide(
			func() (*config.Config, error) { return config.Load(cfgPath) },
			newLogger,
			newWakeChannel,
			newBlockSet,
			newReader,
			newWriter,
			newEngine,
		),

		fx.Invoke(func(lc fx.Lifecycle, logger *zap.Logger, eng *engine.Engine, set *blockSet, reader *bar.Reader) {
			registerHooks(lc, logger, cfgPath, eng, set, reader)
		}),
	)
}

// newLogger creates a zap logger writing to stderr, leveled from config
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if level, err := zapcore.ParseLevel(cfg.Log.Level); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(level)
	}
	return zcfg.Build()
}

// newWakeChannel creates the shared wake channel: every block's signal
// listener produces into it, the engine is the single consumer
func newWakeChannel() chan domain.WakeEvent {
	return make(chan domain.WakeEvent, 64)
}

// blockSet bundles the constructed blocks with the resources that share
// their lifetime
type blockSet struct {
	blocks    []domain.Block
	listeners []*mpris.Listener
	buses     []*mpris.SessionBus
}

// newBlockSet builds one music block per configured [[block]] table.
// Each block owns a private query connection; each listener opens its own
// on Start. A failed connection or an unknown button identifier is fatal
// here, before anything starts.
func newBlockSet(cfg *config.Config, logger *zap.Logger, wake chan domain.WakeEvent) (*blockSet, error) {
	set := &blockSet{}
	for _, bc := range cfg.Blocks {
		bus, err := mpris.NewSessionBus()
		if err != nil {
			return nil, err
		}
		set.buses = append(set.buses, bus)

		w, err := widget.NewMusic(widget.Options{
			Player:          bc.Player,
			MaxWidth:        bc.MaxWidth,
			Marquee:         bc.MarqueeEnabled(),
			MarqueeInterval: bc.MarqueeInterval.Duration,
			MarqueeSpeed:    bc.MarqueeSpeed.Duration,
			Buttons:         bc.Buttons,
		}, bus, logger)
		if err != nil {
			return nil, fmt.Errorf("block %q: %w", bc.Player, err)
		}

		set.blocks = append(set.blocks, w)
		set.listeners = append(set.listeners, mpris.NewListener(w.ID(), wake, logger))
	}
	return set, nil
}

func newReader(logger *zap.Logger) *bar.Reader {
	return bar.NewReader(os.Stdin, logger)
}

func newWriter(logger *zap.Logger) *bar.Writer {
	return bar.NewWriter(os.Stdout, logger)
}

func newEngine(logger *zap.Logger, set *blockSet, wake chan domain.WakeEvent, reader *bar.Reader, writer *bar.Writer) *engine.Engine {
	return engine.New(logger, set.blocks, wake, reader.Events(), writer)
}

// registerHooks ties the long-running loops to the fx lifecycle
func registerHooks(lc fx.Lifecycle, logger *zap.Logger, cfgPath string, eng *engine.Engine, set *blockSet, reader *bar.Reader) {
	var cancel context.CancelFunc

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			runCtx, c := context.WithCancel(context.Background())
			cancel = c

			if err := reader.Start(runCtx); err != nil {
				return err
			}
			for _, l := range set.listeners {
				if err := l.Start(runCtx); err != nil {
					return err
				}
			}
			if cfgPath != "" {
				if err := config.Watch(runCtx, cfgPath, logger, eng.Refresh); err != nil {
					logger.Warn("Config watching disabled", zap.Error(err))
				}
			}

			logger.Info("musebar started", zap.Int("blocks", len(set.blocks)))
			return eng.Start(runCtx)
		},
		OnStop: func(context.Context) error {
			if cancel != nil {
				cancel()
			}
			for _, l := range set.listeners {
				l.Stop()
			}
			for _, bus := range set.buses {
				if err := bus.Close(); err != nil {
					logger.Warn("Failed to close bus connection", zap.Error(err))
				}
			}
			logger.Info("Shutting down")
			return nil
		},
	})
}
