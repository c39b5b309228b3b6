package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/nkzzz-xD/EasyPastPapers/internal/models"
)

const (
	clearLine   = "\r\033[K"
	maxBarWidth = 40
	minBarWidth = 10
)

// ProgressBar renders download progress on a single terminal line and prints
// the result when the download ends. On a non-terminal only results are printed.
type ProgressBar struct {
	printer     *Printer
	out         io.Writer
	bar         progress.Model
	interactive bool
	name        string
	active      bool
}

// NewProgressBar creates a progress bar that reports results through printer
func NewProgressBar(printer *Printer) *ProgressBar {
	out := printer.Writer()
	width := Width(out) / 3
	width = max(minBarWidth, min(width, maxBarWidth))
	return &ProgressBar{
		printer:     printer,
		out:         out,
		bar:         progress.New(progress.WithDefaultGradient(), progress.WithWidth(width), progress.WithoutPercentage()),
		interactive: IsTerminal(out),
	}
}

// Start implements the download progress sink
func (b *ProgressBar) Start(fileName string, expected int64) {
	b.name = fileName
	b.active = true
	b.render(0, expected, 0)
}

// Update implements the download progress sink
func (b *ProgressBar) Update(written, expected int64, percent int) {
	if !b.active {
		return
	}
	b.render(written, expected, percent)
}

// Finish clears the bar and prints the result
func (b *ProgressBar) Finish(result *models.DownloadResult) {
	b.Clear()
	b.printer.DownloadResult(result)
}

// Clear removes the bar without printing anything
func (b *ProgressBar) Clear() {
	if b.active && b.interactive {
		fmt.Fprint(b.out, clearLine)
	}
	b.active = false
}

func (b *ProgressBar) render(written, expected int64, percent int) {
	if !b.interactive {
		return
	}
	if expected < 0 {
		fmt.Fprintf(b.out, "%s%s %s", clearLine, b.name, b.printer.Bytes(written))
		return
	}
	fmt.Fprintf(b.out, "%s%s %s %3d%% %s",
		clearLine, b.name, b.bar.ViewAs(float64(percent)/100), percent,
		dimStyle.Render(b.printer.Bytes(written)+" / "+b.printer.Bytes(expected)))
}
