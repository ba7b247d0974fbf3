package transfer

import (
	"errors"
	"fmt"

	"github.com/adamwoolhether/pixeldrain/errs"
)

// DefaultChunkSize is the number of bytes moved per read/write cycle.
const DefaultChunkSize = 81920

var (
	// ErrInvalidChunkSize is returned for a chunk size that is not positive.
	ErrInvalidChunkSize = errors.New("chunk size must be greater than zero")
	// ErrAlreadyConsumed is wrapped by the error returned when a sequential
	// source is serialized a second time.
	ErrAlreadyConsumed = errors.New("source has already been read")
	// ErrCancelled is joined with the context error when a transfer is
	// cancelled at a chunk boundary.
	ErrCancelled = errors.New("transfer cancelled")
	// ErrBodyClosed is returned when serializing a released Body.
	ErrBodyClosed = errors.New("transfer body closed")
	// ErrContentLengthMismatch indicates the byte count did not match the declared length.
	ErrContentLengthMismatch = errors.New("content length mismatch")
)

// Error wraps a sentinel error with additional detail.
type Error struct {
	Detail string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func alreadyConsumed() error {
	return errs.Wrap(errs.ErrResourceState, errs.CodeAlreadyConsumed,
		"the source cannot be reset and has already been sent", ErrAlreadyConsumed)
}

func cancelled(err error) error {
	return fmt.Errorf("%w: %w", ErrCancelled, err)
}
