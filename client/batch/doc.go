// Package batch runs independent transfers concurrently under an
// optional concurrency limit.
//
// Each job receives its own context derived from the one passed to
// [Queue.Go]; a job owns whatever source or sink it opens and must
// release it before returning:
//
//	q := batch.NewQueue(4, batch.WithLogger(logger))
//	for _, path := range paths {
//		q.Go(ctx, path, func(ctx context.Context) error {
//			_, err := pd.Files.UploadFile(ctx, path)
//			return err
//		})
//	}
//	err := q.Wait() // every failure as a *batch.JobError, joined
package batch
