package transfer

import (
	"fmt"
	"log/slog"
	"time"
)

// Progress observes a single transfer. Report receives the cumulative
// number of bytes moved so far and is never called with a value lower
// than a previous one within the same pass.
type Progress interface {
	Report(transferred int64)
}

// ProgressFunc adapts an ordinary function to a Progress observer.
type ProgressFunc func(transferred int64)

// Report calls f(transferred).
func (f ProgressFunc) Report(transferred int64) { f(transferred) }

// LogProgress returns a Progress that logs at most once per second
// and once more when total bytes have been moved. A negative total
// means the length is unknown.
func LogProgress(logger *slog.Logger, name string, total int64) Progress {
	now := time.Now()
	return &progressLogger{
		logger:    logger,
		name:      name,
		total:     total,
		startTime: now,
		lastLog:   now,
	}
}

// progressLogger is a Progress, logging transfer progress.
type progressLogger struct {
	logger      *slog.Logger
	name        string
	transferred int64
	total       int64
	startTime   time.Time
	lastLog     time.Time
}

func (pl *progressLogger) Report(transferred int64) {
	pl.transferred = transferred

	if pl.total >= 0 && pl.transferred == pl.total {
		pl.log("transfer complete")
		return
	}

	if time.Since(pl.lastLog) >= time.Second {
		pl.lastLog = time.Now()
		pl.log("transferring")
	}
}

func (pl *progressLogger) log(msg string) {
	elapsed := time.Since(pl.startTime)

	progress := "unknown"
	if pl.total > 0 {
		progress = fmt.Sprintf("%.1f%%", float64(pl.transferred)/float64(pl.total)*100)
	}

	var mbps float64
	if secs := elapsed.Seconds(); secs > 0 {
		mbps = float64(pl.transferred) / secs / (1024 * 1024)
	}

	pl.logger.Info(msg,
		"name", pl.name,
		"progress", progress,
		"elapsed", elapsed.Round(time.Millisecond),
		"transferred", pl.transferred,
		"total", pl.total,
		"mbps", fmt.Sprintf("%.2f", mbps),
	)
}
