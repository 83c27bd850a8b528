package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ColorForPct returns a bar color that warms up as work completes.
func ColorForPct(pct float64) string {
	switch {
	case pct >= 1:
		return string(ColorGreen)
	case pct >= 0.5:
		return string(ColorAccent)
	default:
		return string(ColorBlue)
	}
}

// RenderProgress renders a labeled progress bar with a done/total counter.
func RenderProgress(label string, current, total, width int) string {
	if total <= 0 {
		return ""
	}
	pct := float64(current) / float64(total)
	if pct > 1 {
		pct = 1
	}
	if pct < 0 {
		pct = 0
	}

	bar := progress.New(
		progress.WithSolidFill(ColorForPct(pct)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(ColorTextDim)

	labelStyle := lipgloss.NewStyle().Foreground(ColorTextMuted)
	return fmt.Sprintf("%s %s %s/%s",
		labelStyle.Render(label),
		bar.ViewAs(pct),
		FormatNumber(int64(current)),
		FormatNumber(int64(total)),
	)
}

// Progress redraws a single progress line on w. Safe for concurrent use.
type Progress struct {
	mu    sync.Mutex
	w     io.Writer
	label string
	width int
	last  int
}

// NewProgress creates a progress line writer.
func NewProgress(w io.Writer, label string, width int) *Progress {
	if width <= 0 {
		width = 30
	}
	return &Progress{w: w, label: label, width: width, last: -1}
}

// Update redraws the bar when current moves past the furthest value seen.
// Matches the pipeline's progress callback signature.
func (p *Progress) Update(current, total int) {
	if p == nil || total <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	// Workers finish out of order; never redraw behind the furthest point.
	if current <= p.last {
		return
	}
	p.last = current
	fmt.Fprintf(p.w, "\r  %s", RenderProgress(p.label, current, total, p.width))
	if current >= total {
		fmt.Fprint(p.w, "\n")
	}
}
