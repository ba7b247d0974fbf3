package transfer

import (
	"context"
	"errors"
	"io"
)

// bodyState tracks serialization passes over a Body.
type bodyState int

const (
	stateFresh bodyState = iota
	stateConsumed
	stateFailed
)

// Body is an outbound request payload that reports progress while its
// Source is streamed to the transport. It is safe to serialize again
// only if the Source can be reset.
//
// A Body is driven by one request at a time. Its methods must not be
// called concurrently.
type Body struct {
	ctx      context.Context
	src      *Source
	progress Progress
	chunk    int

	state    bodyState
	stream   *stream
	released bool
}

// stream is an in-flight pass feeding a pipe read by the transport.
type stream struct {
	pr   *io.PipeReader
	done chan struct{}
}

// NewBody wraps src as a request payload. NewBody takes ownership of src:
// it is closed by Body.Close, or immediately if NewBody fails. ctx is
// checked at every chunk boundary.
func NewBody(ctx context.Context, src *Source, optFns ...Option) (*Body, error) {
	opts, err := parseOptions(optFns)
	if err != nil {
		_ = src.Close()
		return nil, err
	}

	b := Body{
		ctx:      ctx,
		src:      src,
		progress: opts.progress,
		chunk:    opts.chunkSize,
	}

	return &b, nil
}

// ContentLength returns the declared length of the Body, or -1 if it
// is unknown and the transport must use chunked encoding.
func (b *Body) ContentLength() int64 {
	if n, ok := b.src.Len(); ok {
		return n
	}

	return -1
}

// WriteTo serializes the Body into w synchronously.
func (b *Body) WriteTo(w io.Writer) (int64, error) {
	b.stop()

	if err := b.prepare(); err != nil {
		return 0, err
	}

	return copyChunks(b.ctx, w, b.src, make([]byte, b.chunk), b.progress)
}

// Reader serializes the Body asynchronously, returning a stream that the
// transport reads as the request body. Each chunk is reported only once
// the reader has consumed it. It is suitable for http.Request.GetBody.
func (b *Body) Reader() (io.ReadCloser, error) {
	b.stop()

	if err := b.prepare(); err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	s := &stream{pr: pr, done: make(chan struct{})}
	b.stream = s

	go func() {
		defer close(s.done)

		_, err := copyChunks(b.ctx, pw, b.src, make([]byte, b.chunk), b.progress)
		pw.CloseWithError(err)
	}()

	return pr, nil
}

// Close releases the Source. It waits for any in-flight stream to stop.
// Subsequent calls are no-ops.
func (b *Body) Close() error {
	if b.released {
		return nil
	}
	b.released = true

	b.stop()

	return b.src.Close()
}

// prepare moves the Body into a new pass. The first pass proceeds
// directly; later passes rewind the Source or fail.
func (b *Body) prepare() error {
	if b.released {
		return ErrBodyClosed
	}

	switch b.state {
	case stateFresh:
		b.state = stateConsumed
		return nil

	case stateConsumed:
		if !b.src.CanReset() {
			b.state = stateFailed
			return alreadyConsumed()
		}

		return b.src.reset()

	default:
		return alreadyConsumed()
	}
}

// stop ends the previous stream, if any, and waits for it to exit so
// the Source is never read by two passes at once.
func (b *Body) stop() {
	if b.stream == nil {
		return
	}

	b.stream.pr.CloseWithError(errStreamStopped)
	<-b.stream.done
	b.stream = nil
}

var errStreamStopped = errors.New("transfer stream stopped")
