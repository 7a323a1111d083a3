package main

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// progressBar adapts a terminal progress bar to core.Progress
type progressBar struct {
	bar *progressbar.ProgressBar
}

func newProgressBar(w io.Writer, description string) *progressBar {
	bar := progressbar.NewOptions64(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			_, _ = io.WriteString(w, "\n")
		}),
	)
	return &progressBar{bar: bar}
}

// SetTotal implements core.Progress
func (p *progressBar) SetTotal(total int) {
	p.bar.Reset()
	p.bar.ChangeMax(total)
}

// Add implements core.Progress
func (p *progressBar) Add(n int) {
	_ = p.bar.Add(n)
}

// Finish completes the bar
func (p *progressBar) Finish() {
	_ = p.bar.Finish()
}
