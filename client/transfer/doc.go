// Package transfer moves bytes between callers and HTTP bodies in fixed
// size chunks while reporting cumulative progress.
//
// # Uploads
//
// A [Source] describes what the caller can offer: a plain reader, a reader
// of known length, or a seekable reader that can be replayed. [NewBody]
// wraps a Source as an outbound request payload:
//
//	src, err := transfer.Open("/tmp/report.pdf")
//	body, err := transfer.NewBody(ctx, src,
//		transfer.WithProgress(transfer.ProgressFunc(func(n int64) {
//			fmt.Println("sent", n)
//		})),
//	)
//	defer body.Close()
//
// A Body can be serialized more than once when its Source can be rewound,
// which lets the HTTP transport replay it on redirects and retries. A Body
// over a sequential Source fails the second serialization with a
// resource state error rather than sending a truncated payload.
//
// # Downloads
//
// [Copy] is the inbound mirror, streaming a response body into any
// [io.Writer] with the same chunking and progress accounting:
//
//	n, err := transfer.Copy(ctx, file, resp.Body, transfer.WithChunkSize(64<<10))
//
// Progress is reported only after a chunk has been fully written to its
// destination. Without an observer the copy is a plain buffered copy.
package transfer
