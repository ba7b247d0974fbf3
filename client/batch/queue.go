package batch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrShutdown is the error of every job that had not started running
// when [Queue.Shutdown] was called.
var ErrShutdown = errors.New("batch queue shut down")

// WorkFunc is a single unit of work run by the queue.
type WorkFunc func(ctx context.Context) error

// JobError names the job a failure came from.
type JobError struct {
	Name string
	Err  error
}

func (e *JobError) Error() string { return e.Name + ": " + e.Err.Error() }

func (e *JobError) Unwrap() error { return e.Err }

// Option configures a Queue.
type Option func(*Queue)

// WithLogger logs job failures and skips to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(q *Queue) {
		if logger != nil {
			q.logger = logger
		}
	}
}

// WithFailFast shuts the queue down after the first job fails.
func WithFailFast() Option {
	return func(q *Queue) {
		q.failFast = true
	}
}

// Queue runs jobs concurrently, at most limit at a time, and collects
// their errors.
type Queue struct {
	wg       sync.WaitGroup
	slots    chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
	failFast bool
	logger   *slog.Logger

	mu   sync.Mutex
	errs []error
}

// NewQueue creates a Queue running at most limit jobs at once.
// A limit <= 0 means no limit.
func NewQueue(limit int, opts ...Option) *Queue {
	q := &Queue{
		stopped: make(chan struct{}),
		logger:  slog.Default(),
	}
	if limit > 0 {
		q.slots = make(chan struct{}, limit)
	}
	for _, opt := range opts {
		opt(q)
	}

	return q
}

// Go schedules fn under name and returns its Job. fn receives a
// context derived from ctx that the Job can cancel on its own.
func (q *Queue) Go(ctx context.Context, name string, fn WorkFunc) *Job {
	ctx, cancel := context.WithCancel(ctx)
	j := &Job{
		name:   name,
		done:   make(chan struct{}),
		cancel: cancel,
	}

	q.wg.Add(1)
	go func() {
		defer func() {
			cancel()
			close(j.done)
			q.wg.Done()
		}()

		j.err = q.run(ctx, fn)
		if j.err != nil {
			q.record(name, j.err)
		}
	}()

	return j
}

// Wait blocks until every job scheduled so far completes and returns
// their failures joined, each as a *JobError.
func (q *Queue) Wait() error {
	q.wg.Wait()

	q.mu.Lock()
	defer q.mu.Unlock()

	return errors.Join(q.errs...)
}

// Shutdown stops jobs that are not yet running, including those
// waiting for a slot. Running jobs are left to finish.
func (q *Queue) Shutdown() {
	q.stopOnce.Do(func() { close(q.stopped) })
}

func (q *Queue) run(ctx context.Context, fn WorkFunc) error {
	if q.slots != nil {
		select {
		case q.slots <- struct{}{}:
			defer func() { <-q.slots }()
		case <-q.stopped:
			return ErrShutdown
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	// A free slot and a shutdown can be ready together.
	select {
	case <-q.stopped:
		return ErrShutdown
	default:
	}

	return fn(ctx)
}

func (q *Queue) record(name string, err error) {
	q.mu.Lock()
	q.errs = append(q.errs, &JobError{Name: name, Err: err})
	q.mu.Unlock()

	if errors.Is(err, ErrShutdown) {
		q.logger.Debug("batch job skipped", "job", name)
		return
	}

	q.logger.Error("batch job failed", "job", name, "error", err)
	if q.failFast {
		q.Shutdown()
	}
}

// Job is a handle on one scheduled WorkFunc.
type Job struct {
	name   string
	done   chan struct{}
	err    error
	cancel context.CancelFunc
}

// Name returns the name the job was scheduled under.
func (j *Job) Name() string { return j.name }

// Done is closed when the job completes.
func (j *Job) Done() <-chan struct{} { return j.done }

// Err blocks until the job completes and returns its error.
func (j *Job) Err() error {
	<-j.done
	return j.err
}

// Cancel cancels the job's context.
func (j *Job) Cancel() { j.cancel() }
