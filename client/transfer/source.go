package transfer

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Source is a byte producer handed to a Body. Its capabilities are fixed
// by the constructor: whether the length is known up front and whether
// it can be rewound for a second pass.
//
// A Source is owned by whoever consumes it; once given to NewBody the
// Body is responsible for closing it.
type Source struct {
	r      io.Reader
	closer io.Closer

	// seeker is set only for sources that can be reset to start.
	seeker io.Seeker
	start  int64

	// size is -1 when unknown.
	size   int64
	closed bool
}

// NewSource returns a sequential Source of unknown length. It is read
// exactly once. If r is also an io.Closer it is closed on release.
func NewSource(r io.Reader) *Source {
	return &Source{
		r:      r,
		closer: closerOf(r),
		size:   -1,
	}
}

// NewSizedSource returns a sequential Source that declares size bytes.
func NewSizedSource(r io.Reader, size int64) *Source {
	if size < 0 {
		size = -1
	}

	return &Source{
		r:      r,
		closer: closerOf(r),
		size:   size,
	}
}

// NewSeekableSource returns a Source that can be replayed. Its start
// is the current offset of rs and its length is the number of bytes
// between that offset and the end of rs.
func NewSeekableSource(rs io.ReadSeeker) (*Source, error) {
	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("locating start offset: %w", err)
	}

	end, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("locating end offset: %w", err)
	}

	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding to start offset: %w", err)
	}

	return &Source{
		r:      rs,
		closer: closerOf(rs),
		seeker: rs,
		start:  start,
		size:   end - start,
	}, nil
}

// Bytes returns a replayable Source over b.
func Bytes(b []byte) *Source {
	r := bytes.NewReader(b)
	return &Source{
		r:      r,
		seeker: r,
		size:   int64(len(b)),
	}
}

// Open opens the named file as a replayable Source.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening source: %w", err)
	}

	src, err := NewSeekableSource(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return src, nil
}

// Len reports the declared length and whether it is known.
func (s *Source) Len() (int64, bool) {
	return s.size, s.size >= 0
}

// CanReset reports whether the source can be rewound to its start.
func (s *Source) CanReset() bool {
	return s.seeker != nil
}

func (s *Source) Read(p []byte) (int, error) {
	return s.r.Read(p)
}

// Close releases the underlying reader. Subsequent calls are no-ops.
func (s *Source) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.closer == nil {
		return nil
	}

	return s.closer.Close()
}

func (s *Source) reset() error {
	if s.seeker == nil {
		return alreadyConsumed()
	}

	if _, err := s.seeker.Seek(s.start, io.SeekStart); err != nil {
		return fmt.Errorf("resetting source: %w", err)
	}

	return nil
}

func closerOf(r io.Reader) io.Closer {
	if c, ok := r.(io.Closer); ok {
		return c
	}

	return nil
}
