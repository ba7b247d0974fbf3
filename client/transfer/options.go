package transfer

import (
	"fmt"
)

// Option defines optional settings for a transfer.
//
// WithChunkSize sets the number of bytes moved per read/write cycle,
// which is also the granularity of progress reports and cancellation
// checks. It defaults to DefaultChunkSize.
//
// WithProgress registers an observer that receives the cumulative
// byte count after each chunk is written. A nil observer disables
// progress reporting.
type Option func(*options) error

type options struct {
	chunkSize int
	progress  Progress
}

func WithChunkSize(n int) Option {
	return func(opts *options) error {
		if n <= 0 {
			return fmt.Errorf("chunk size[%d]: %w", n, ErrInvalidChunkSize)
		}

		opts.chunkSize = n
		return nil
	}
}

func WithProgress(p Progress) Option {
	return func(opts *options) error {
		opts.progress = p
		return nil
	}
}

func parseOptions(optFns []Option) (options, error) {
	opts := options{chunkSize: DefaultChunkSize}
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return options{}, fmt.Errorf("applying option: %w", err)
		}
	}

	return opts, nil
}

// ValidateOptions reports the first invalid option without starting a
// transfer, so callers can reject bad settings before any I/O.
func ValidateOptions(optFns ...Option) error {
	_, err := parseOptions(optFns)
	return err
}
