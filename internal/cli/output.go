package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/mcoot/tetrisparty/internal/api/response"
	"github.com/mcoot/tetrisparty/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case []model.ScoreEntry:
		o.printScores(v)
	case response.Health:
		o.printHealth(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printScores(entries []model.ScoreEntry) {
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(o.w, "No scores yet")
		return
	}

	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "#\tPOINTS\tLINES\tWHEN")
	for i, e := range entries {
		_, _ = fmt.Fprintf(tw, "%d\t%d\t%d\t%s\n", i+1, e.Points, e.Lines, e.Timestamp.UTC().Format(time.RFC3339))
	}
	_ = tw.Flush()
}

func (o *Output) printHealth(h response.Health) {
	_, _ = fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	if h.Arcade == nil {
		return
	}

	playing := "no"
	if h.Arcade.Playing {
		playing = "yes"
	}
	_, _ = fmt.Fprintf(o.w, "Playing: %s\n", playing)
	_, _ = fmt.Fprintf(o.w, "Queued: %d\n", h.Arcade.Queued)
	_, _ = fmt.Fprintf(o.w, "Viewers: %d\n", h.Arcade.Viewers)
	if h.Arcade.Replaying {
		_, _ = fmt.Fprintln(o.w, "Replaying: yes")
	}
}
