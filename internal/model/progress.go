package model

// Stage identifies which phase of a request a Progress report belongs to
type Stage string

const (
	StageDownload  Stage = "download"
	StageTranscode Stage = "transcode"
)

// Progress reports how far a running request has come
type Progress struct {
	Stage      Stage
	Downloaded int64   // bytes written so far (download stage)
	Total      int64   // total bytes, 0 if unknown
	Percent    float64 // 0 to 100, 0 if unknown
}

// Fraction returns progress as 0.0 to 1.0, clamped
func (p Progress) Fraction() float64 {
	percent := p.Percent
	if percent <= 0 && p.Total > 0 {
		percent = float64(p.Downloaded) / float64(p.Total) * 100
	}
	switch {
	case percent < 0:
		return 0
	case percent > 100:
		return 1
	}
	return percent / 100
}
