package bar

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"musebar/internal/domain"
)

// block is one element of an i3bar status line
type block struct {
	Name                string `json:"name"`
	Instance            string `json:"instance,omitempty"`
	FullText            string `json:"full_text"`
	Separator           bool   `json:"separator"`
	SeparatorBlockWidth int    `json:"separator_block_width,omitempty"`
}

// Writer emits the i3bar protocol on an output stream: a version header,
// then an infinite JSON array with one status line per render. The first
// Render call writes the header; click event support is announced there.
type Writer struct {
	logger *zap.Logger

	mu      sync.Mutex
	w       io.Writer
	started bool
}

// NewWriter creates an i3bar protocol writer
func NewWriter(w io.Writer, logger *zap.Logger) *Writer {
	return &Writer{logger: logger, w: w}
}

// Render writes one status line for the given views
func (wr *Writer) Render(views []domain.BlockView) error {
	wr.mu.Lock()
	defer wr.mu.Unlock()

	if !wr.started {
		if _, err := fmt.Fprint(wr.w, "{\"version\":1,\"click_events\":true}\n[\n"); err != nil {
			return fmt.Errorf("failed to write i3bar header: %w", err)
		}
		wr.started = true
	}

	line := make([]block, 0, len(views))
	for _, view := range views {
		for i, seg := range view.Segments {
			line = append(line, block{
				Name:     view.Name,
				Instance: seg.Instance,
				FullText: segmentText(seg),
				// Draw the bar separator only after the block's last segment
				Separator: i == len(view.Segments)-1,
			})
		}
	}

	payload, err := json.Marshal(line)
	if err != nil {
		return fmt.Errorf("failed to encode status line: %w", err)
	}
	if _, err := fmt.Fprintf(wr.w, "%s,\n", payload); err != nil {
		return fmt.Errorf("failed to write status line: %w", err)
	}
	return nil
}

func segmentText(seg domain.Segment) string {
	switch {
	case seg.Icon != "" && seg.Text != "":
		return seg.Icon + " " + seg.Text
	case seg.Icon != "":
		return seg.Icon
	default:
		return seg.Text
	}
}
