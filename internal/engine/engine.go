package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"musebar/internal/domain"
)

// Engine is the scheduler that owns all block state. A single goroutine
// drives Update, Click and View, so blocks need no locking; listener
// goroutines reach the engine only through the wake channel, which is
// the sole shared resource (multiple producers, this one consumer).
type Engine struct {
	logger   *zap.Logger
	blocks   []domain.Block
	byID     map[string]domain.Block
	wake     <-chan domain.WakeEvent
	clicks   <-chan domain.ClickEvent
	refresh  chan struct{}
	renderer domain.Renderer
}

// New creates the scheduling engine. The wake channel's sender ends are
// held by the blocks' signal listeners, the click channel's by the bar
// input reader.
func New(
	logger *zap.Logger,
	blocks []domain.Block,
	wake <-chan domain.WakeEvent,
	clicks <-chan domain.ClickEvent,
	renderer domain.Renderer,
) *Engine {
	byID := make(map[string]domain.Block, len(blocks))
	for _, b := range blocks {
		byID[b.ID()] = b
	}
	return &Engine{
		logger:   logger,
		blocks:   blocks,
		byID:     byID,
		wake:     wake,
		clicks:   clicks,
		refresh:  make(chan struct{}, 1),
		renderer: renderer,
	}
}

// Start launches the scheduling loop in a goroutine and returns
// immediately
func (e *Engine) Start(ctx context.Context) error {
	e.logger.Info("Engine starting", zap.Int("blocks", len(e.blocks)))
	go e.runLoop(ctx)
	return nil
}

// Refresh asks the loop to update every block on its next pass. Used by
// the config watcher; safe from any goroutine.
func (e *Engine) Refresh() {
	select {
	case e.refresh <- struct{}{}:
	default:
	}
}

func (e *Engine) runLoop(ctx context.Context) {
	deadlines := make(map[string]time.Time, len(e.blocks))
	now := time.Now()
	for _, b := range e.blocks {
		deadlines[b.ID()] = now
	}
	e.updateDue(now, deadlines)

	timer := time.NewTimer(e.untilNext(deadlines))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Engine loop stopped")
			return

		case ev, ok := <-e.wake:
			if !ok {
				e.logger.Info("Wake channel closed")
				return
			}
			if _, known := deadlines[ev.WidgetID]; known {
				deadlines[ev.WidgetID] = ev.At
			} else {
				e.logger.Debug("Wake event for unknown widget",
					zap.String("widget", ev.WidgetID))
			}
			e.updateDue(time.Now(), deadlines)

		case click, ok := <-e.clicks:
			if !ok {
				e.logger.Info("Click channel closed")
				return
			}
			e.handleClick(click)

		case <-e.refresh:
			now := time.Now()
			for id := range deadlines {
				deadlines[id] = now
			}
			e.updateDue(now, deadlines)

		case now := <-timer.C:
			e.updateDue(now, deadlines)
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(e.untilNext(deadlines))
	}
}

// updateDue runs Update on every block whose deadline has passed and
// re-renders the bar when any of them ran
func (e *Engine) updateDue(now time.Time, deadlines map[string]time.Time) {
	ran := false
	for _, b := range e.blocks {
		if deadlines[b.ID()].After(now) {
			continue
		}
		interval, err := b.Update()
		if err != nil {
			e.logger.Error("Block update failed",
				zap.String("widget", b.ID()),
				zap.Error(err))
			interval = time.Second
		}
		deadlines[b.ID()] = now.Add(interval)
		ran = true
	}
	if ran {
		e.render()
	}
}

// handleClick routes an interaction to the owning block. Send failures
// are logged here: there is no caller left to surface them to.
func (e *Engine) handleClick(click domain.ClickEvent) {
	b, ok := e.byID[click.Name]
	if !ok {
		return
	}
	if err := b.Click(click.Instance); err != nil {
		e.logger.Error("Click failed",
			zap.String("widget", click.Name),
			zap.String("instance", click.Instance),
			zap.Error(err))
		return
	}
	e.render()
}

func (e *Engine) render() {
	views := make([]domain.BlockView, 0, len(e.blocks))
	for _, b := range e.blocks {
		views = append(views, domain.BlockView{
			Name:     b.ID(),
			Segments: b.View(),
		})
	}
	if err := e.renderer.Render(views); err != nil {
		e.logger.Error("Render failed", zap.Error(err))
	}
}

// untilNext returns the delay to the soonest deadline, floored so a
// passed deadline still yields a live timer
func (e *Engine) untilNext(deadlines map[string]time.Time) time.Duration {
	if len(deadlines) == 0 {
		return time.Minute
	}
	var soonest time.Time
	for _, t := range deadlines {
		if soonest.IsZero() || t.Before(soonest) {
			soonest = t
		}
	}
	d := time.Until(soonest)
	if d < time.Millisecond {
		d = time.Millisecond
	}
	return d
}
