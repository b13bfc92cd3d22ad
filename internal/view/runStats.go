package view

import (
	"context"
	"fmt"
	"io"
	"time"

	"glarchive/internal/color"
	"glarchive/internal/counter"
)

// RunStats holds the counters a run summary is rendered from. The archive
// loop increments them; the render loop reads them from its own goroutine.
type RunStats struct {
	Projects   *counter.Counter
	Done       *counter.Counter
	Failed     *counter.Counter
	Exceptions *counter.Counter
	StartTime  time.Time
}

func NewRunStats() *RunStats {
	return &RunStats{
		Projects:   counter.NewCounter(),
		Done:       counter.NewCounter(),
		Failed:     counter.NewCounter(),
		Exceptions: counter.NewCounter(),
		StartTime:  time.Now(),
	}
}

const renderedLines = 2

func (s *RunStats) render(out io.Writer) {
	fmt.Fprintf(out, "%s done, %s failed, %s exceptions of %s projects\n%s seconds\n",
		color.FgGreen(fmt.Sprintf("%d", s.Done.Count())),
		color.FgRed(fmt.Sprintf("%d", s.Failed.Count())),
		color.FgRed(fmt.Sprintf("%d", s.Exceptions.Count())),
		color.FgMagenta(fmt.Sprintf("%d", s.Projects.Count())),
		color.FgGreen(fmt.Sprintf("%.2f", time.Since(s.StartTime).Seconds())))
}

// StartTTYRenderLoop refreshes the summary in place until ctx is cancelled.
func (s *RunStats) StartTTYRenderLoop(ctx context.Context, out io.Writer) {
	s.render(out)
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintf(out, "\033[%dA", renderedLines)
			s.render(out)
			return
		case <-time.After(100 * time.Millisecond):
			fmt.Fprintf(out, "\033[%dA", renderedLines)
			s.render(out)
		}
	}
}

// RenderFinal prints the summary once, for non-TTY output.
func (s *RunStats) RenderFinal(out io.Writer) {
	s.render(out)
}
