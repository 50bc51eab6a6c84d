package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/poiesic/deepread/core"
	"github.com/poiesic/deepread/explore"
	"github.com/schollz/progressbar/v3"
)

// consoleMonitor renders job progress to a terminal: a progress bar for the
// top-level exploration pass and one line per deep-dive. Deep-dive batches
// tick the same bar description instead of spawning nested bars.
type consoleMonitor struct {
	mu    sync.Mutex
	out   io.Writer
	bar   *progressbar.ProgressBar
	total int
}

var _ explore.Monitor = (*consoleMonitor)(nil)

func newConsoleMonitor(out io.Writer) *consoleMonitor {
	return &consoleMonitor{out: out}
}

func (m *consoleMonitor) Start(query string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fmt.Fprintf(m.out, "%s %s\n", color.CyanString("Query:"), query)
}

func (m *consoleMonitor) AfterSegmentation(total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fmt.Fprintf(m.out, "Segmented into %d segments\n", total)
}

func (m *consoleMonitor) AfterScoring(kept, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fmt.Fprintf(m.out, "Scored %d segments, %d above threshold\n", total, kept)
	if kept > 0 {
		m.total = kept
		m.bar = newBar(m.out, kept, "Exploring segments")
	}
}

func (m *consoleMonitor) BatchCompleted(depth, processed, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bar == nil {
		return
	}
	if depth == 0 {
		m.bar.Set(processed)
		return
	}
	m.bar.Describe(color.BlueString("Deep-dive depth %d (%d/%d)", depth, processed, total))
}

func (m *consoleMonitor) DiveStarted(segmentId core.ID, depth int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearBar()
	fmt.Fprintf(m.out, "%s segment %d at depth %d\n", color.BlueString("Diving into"), segmentId, depth)
}

func (m *consoleMonitor) DiveFinished(segmentId core.ID, state explore.DiveState, confidence float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	line := fmt.Sprintf("Dive on segment %d: %s (confidence %.2f)", segmentId, state, confidence)
	if state == explore.DiveConverged {
		fmt.Fprintln(m.out, color.GreenString(line))
	} else {
		fmt.Fprintln(m.out, color.YellowString(line))
	}
}

func (m *consoleMonitor) Finish(answer *core.SynthesizedAnswer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearBar()
	if answer.Partial {
		fmt.Fprintln(m.out, color.YellowString("Finished with a partial answer"))
		return
	}
	fmt.Fprintln(m.out, color.GreenString("Finished"))
}

func (m *consoleMonitor) clearBar() {
	if m.bar != nil {
		m.bar.Finish()
		m.bar = nil
		fmt.Fprintln(m.out)
	}
}

func newBar(out io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("segments"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}
