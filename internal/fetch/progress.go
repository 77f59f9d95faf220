package fetch

import (
	"io"
	"time"

	"github.com/ytget/captube/internal/download"
	"github.com/ytget/captube/internal/model"
)

// progressInterval limits how often byte-level progress is reported
const progressInterval = 200 * time.Millisecond

// progressWriter counts bytes written and reports them as download progress
type progressWriter struct {
	w       io.Writer
	req     download.FetchRequest
	total   int64
	written int64
	last    time.Time
}

func newProgressWriter(w io.Writer, req download.FetchRequest, total int64) *progressWriter {
	return &progressWriter{w: w, req: req, total: total}
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.written += int64(n)
	if now := time.Now(); now.Sub(p.last) >= progressInterval {
		p.last = now
		p.report()
	}
	return n, err
}

// finish emits a final report with the exact byte count
func (p *progressWriter) finish() {
	p.report()
}

func (p *progressWriter) report() {
	progress := model.Progress{Stage: model.StageDownload, Downloaded: p.written, Total: p.total}
	if p.total > 0 {
		progress.Percent = float64(p.written) / float64(p.total) * 100
	}
	p.req.Report(progress)
}
