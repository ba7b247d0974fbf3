package client

import (
	"io"
	"net/http"
)

// DefaultBaseURL is the root of the pixeldrain HTTP API.
const DefaultBaseURL = "https://pixeldrain.com/api/"

// maxErrBodySize caps the amount of response body read when
// building an error for a failed response. This prevents
// unbounded memory usage when a large response arrives with a
// failure status.
const maxErrBodySize = 4 << 10 // 4KB

// execFn represents a func to operate on a response.
type execFn func(response *http.Response) error

// Streamer is a request body that can be produced more than once.
// ContentLength reports -1 when the length is unknown. Reader is called
// for the first attempt and again whenever the transport needs to
// resend the body; it fails when the body cannot be replayed.
//
// [github.com/adamwoolhether/pixeldrain/client/transfer.Body] is the
// canonical implementation.
type Streamer interface {
	ContentLength() int64
	Reader() (io.ReadCloser, error)
}
