package main

import (
	"io"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/adamwoolhether/pixeldrain/client/transfer"
)

const (
	progressBar  = "bar"
	progressLog  = "log"
	progressNone = "none"
)

// barProgress renders transfer progress as a terminal bar.
type barProgress struct {
	bar *progressbar.ProgressBar
}

func (p *barProgress) Report(transferred int64) {
	_ = p.bar.Set64(transferred)
}

// observer returns the progress observer for one transfer of total
// bytes, or nil when progress is disabled. total is -1 when unknown.
func observer(mode string, w io.Writer, logger *slog.Logger, description string, total int64) transfer.Progress {
	switch mode {
	case progressBar:
		bar := progressbar.NewOptions64(total,
			progressbar.OptionSetDescription(description),
			progressbar.OptionSetWriter(w),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionShowCount(),
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionOnCompletion(func() { _, _ = io.WriteString(w, "\n") }),
		)
		return &barProgress{bar: bar}
	case progressLog:
		return transfer.LogProgress(logger, description, total)
	default:
		return nil
	}
}
