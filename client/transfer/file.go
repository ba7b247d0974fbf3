package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// WriteFile streams src into a temp file in the same directory as
// destPath, then renames it over destPath on success. On any error the
// temp file is removed and destPath is left untouched. When
// contentLength is not negative, a byte count that differs from it
// fails with ErrContentLengthMismatch.
func WriteFile(ctx context.Context, destPath string, src io.Reader, contentLength int64, logger *slog.Logger, optFns ...Option) (int64, error) {
	if destPath == "" {
		return 0, errors.New("destPath must not be empty")
	}

	settings, err := parseOptions(optFns)
	if err != nil {
		return 0, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	file, err := os.CreateTemp(filepath.Dir(destPath), ".pixeldrain-dl-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}

	var successful bool
	defer func() {
		if err := file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			logger.Error("defer closing temp file", "error", err)
		}
		if !successful {
			if err := os.Remove(file.Name()); err != nil {
				logger.Error("failed to remove temp file", "error", err)
			}
		}
	}()

	n, err := copyChunks(ctx, file, src, make([]byte, settings.chunkSize), settings.progress)
	if err != nil {
		return n, fmt.Errorf("copying body to file: %w", err)
	}

	if contentLength >= 0 && n != contentLength {
		return n, &Error{
			Err:    ErrContentLengthMismatch,
			Detail: fmt.Sprintf("expected %d bytes, got %d", contentLength, n),
		}
	}

	if err := file.Sync(); err != nil {
		return n, fmt.Errorf("syncing temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		return n, fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(file.Name(), destPath); err != nil {
		return n, fmt.Errorf("renaming temp file: %w", err)
	}

	successful = true

	return n, nil
}
