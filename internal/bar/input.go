package bar

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"

	"go.uber.org/zap"

	"musebar/internal/domain"
)

// Reader decodes i3bar click events from an input stream. The bar sends
// an infinite JSON array with one event object per line; lines are
// stripped of array framing and decoded individually.
type Reader struct {
	logger *zap.Logger
	r      io.Reader
	events chan domain.ClickEvent
}

// NewReader creates a click event reader
func NewReader(r io.Reader, logger *zap.Logger) *Reader {
	return &Reader{
		logger: logger,
		r:      r,
		events: make(chan domain.ClickEvent, 16),
	}
}

// Events returns the decoded click event stream
func (r *Reader) Events() <-chan domain.ClickEvent {
	return r.events
}

// Start launches the decode loop in a goroutine. The loop ends when the
// input stream closes or ctx is cancelled.
func (r *Reader) Start(ctx context.Context) error {
	go r.run(ctx)
	return nil
}

func (r *Reader) run(ctx context.Context) {
	scanner := bufio.NewScanner(r.r)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		line = strings.TrimPrefix(line, "[")
		line = strings.TrimPrefix(line, ",")
		line = strings.TrimSpace(line)
		if line == "" || line == "]" {
			continue
		}

		var event domain.ClickEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			r.logger.Warn("Failed to decode click event",
				zap.String("line", line),
				zap.Error(err))
			continue
		}

		select {
		case r.events <- event:
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		r.logger.Warn("Click input stream error", zap.Error(err))
	}
}
