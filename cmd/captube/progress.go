package main

import (
	"fmt"
	"io"

	"github.com/ytget/captube/internal/model"
)

// progressPrinter redraws a single status line on a terminal stream.
// Updates arrive from one goroutine at a time.
type progressPrinter struct {
	w       io.Writer
	stage   model.Stage
	percent int
	drawn   bool
}

func newProgressPrinter(w io.Writer) *progressPrinter {
	return &progressPrinter{w: w, percent: -1}
}

// Update redraws the line when the stage or whole percentage changes
func (p *progressPrinter) Update(progress model.Progress) {
	percent := int(progress.Fraction() * 100)
	if progress.Stage == p.stage && percent == p.percent {
		return
	}
	p.stage = progress.Stage
	p.percent = percent
	p.drawn = true

	label := "downloading"
	if progress.Stage == model.StageTranscode {
		label = "converting"
	}
	if progress.Total > 0 {
		fmt.Fprintf(p.w, "\r%-11s %3d%% (%s / %s)", label, percent, formatBytes(progress.Downloaded), formatBytes(progress.Total))
		return
	}
	fmt.Fprintf(p.w, "\r%-11s %3d%%", label, percent)
}

// Finish ends the status line if one was drawn
func (p *progressPrinter) Finish() {
	if p.drawn {
		fmt.Fprintln(p.w)
		p.drawn = false
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
