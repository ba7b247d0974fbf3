// Package pixeldrain is a client for the pixeldrain file-hosting API.
//
// A [Client] groups the API into Files, Lists and User services:
//
//	pd, err := pixeldrain.New(client.WithAPIKey(key))
//	if err != nil { ... }
//
//	src, err := transfer.Open("report.pdf")
//	if err != nil { ... }
//	id, err := pd.Files.Upload(ctx, "report.pdf", src,
//		transfer.WithProgress(transfer.LogProgress(slog.Default(), "report.pdf", size)),
//	)
//
// Uploads and downloads move data in fixed-size chunks without buffering
// the whole payload. Progress observers see the cumulative byte count
// after each chunk has been handed to the transport (uploads) or written
// to the destination (downloads).
//
// Every failure the API reports is an *errs.Error whose message starts
// with the machine code, so callers can display it or branch on it:
//
//	if errs.IsCode(err, "not_found") { ... }
package pixeldrain
