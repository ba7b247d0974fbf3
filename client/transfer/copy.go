package transfer

import (
	"context"
	"errors"
	"io"
)

// Copy streams src into dst in chunks, reporting the cumulative count to
// the observer set with WithProgress after each chunk is written. It
// returns the number of bytes written. Read and write errors are returned
// unchanged; a cancelled ctx yields an error wrapping ErrCancelled.
func Copy(ctx context.Context, dst io.Writer, src io.Reader, opts ...Option) (int64, error) {
	settings, err := parseOptions(opts)
	if err != nil {
		return 0, err
	}

	return copyChunks(ctx, dst, src, make([]byte, settings.chunkSize), settings.progress)
}

// copyChunks is shared by Copy and Body. A read that yields no bytes ends
// the stream, and each read is written as-is without further buffering.
func copyChunks(ctx context.Context, dst io.Writer, src io.Reader, buf []byte, progress Progress) (int64, error) {
	if progress == nil {
		n, err := io.CopyBuffer(dst, &contextReader{ctx: ctx, r: src}, buf)
		if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return n, cancelled(err)
		}

		return n, err
	}

	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, cancelled(err)
		}

		n, rerr := src.Read(buf)
		if n > 0 {
			if err := ctx.Err(); err != nil {
				return written, cancelled(err)
			}

			wn, werr := dst.Write(buf[:n])
			written += int64(wn)
			if werr != nil {
				return written, werr
			}
			if wn != n {
				return written, io.ErrShortWrite
			}

			progress.Report(written)
		}

		switch {
		case errors.Is(rerr, io.EOF):
			return written, nil
		case rerr != nil:
			return written, rerr
		case n == 0:
			return written, nil
		}
	}
}

// contextReader checks ctx before every read and treats an empty
// read as the end of the stream.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}

	n, err := cr.r.Read(p)
	if n == 0 && err == nil && len(p) > 0 {
		return 0, io.EOF
	}

	return n, err
}
