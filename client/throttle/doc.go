// Package throttle provides an [http.RoundTripper] that rate-limits
// outbound API calls with a token bucket from [golang.org/x/time/rate].
//
// The pixeldrain API rejects clients that exceed its request rate; the
// client enables this transport through client.WithThrottle:
//
//	rt, err := throttle.New(throttle.Config{RPS: 10, Burst: 5},
//		func() *slog.Logger { return slog.Default() },
//		http.DefaultTransport,
//	)
//
// Requests over the limit block until a token is available or the
// request context ends.
package throttle
