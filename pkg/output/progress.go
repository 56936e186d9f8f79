package output

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/ritzau/jsgraph/pkg/analysis"
)

// Progress renders merge progress as a terminal bar
type Progress struct {
	bar *progressbar.ProgressBar
	w   io.Writer
}

// NewProgress creates a bar writing to w. The bar is sized on the first update.
func NewProgress(w io.Writer) *Progress {
	return &Progress{w: w}
}

// Func returns the callback for analysis.Options.Progress
func (p *Progress) Func() analysis.ProgressFunc {
	return func(done, total int, path string) {
		if p.bar == nil {
			p.bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(p.w),
				progressbar.OptionSetDescription("Processing files"),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(30),
				progressbar.OptionThrottle(65*time.Millisecond),
				progressbar.OptionClearOnFinish(),
			)
		}
		_ = p.bar.Set(done)
	}
}

// Finish completes and clears the bar. The next update starts a new one.
func (p *Progress) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
		p.bar = nil
	}
}
