package ziptree

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Runner executes Pack and Unpack on background goroutines with bounded
// concurrency. Each operation still runs sequentially on its own goroutine
// and cannot be interrupted once started; the context passed to Runner
// methods only bounds the time spent waiting for a free slot.
//
// Operations that target the same output path or overlapping directories
// must not be submitted concurrently.
type Runner struct {
	sem *semaphore.Weighted
	wg  sync.WaitGroup
}

// NewRunner creates a Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	cfg := runnerConfig{concurrency: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.concurrency < 1 {
		cfg.concurrency = 1
	}
	return &Runner{sem: semaphore.NewWeighted(int64(cfg.concurrency))}
}

// Pack schedules Pack(sourceDir, outputPath, opts...) and returns immediately.
func (r *Runner) Pack(ctx context.Context, sourceDir, outputPath string, opts ...PackOption) *Task[int] {
	return submit(ctx, r, func() (int, error) {
		return Pack(sourceDir, outputPath, opts...)
	})
}

// Unpack schedules Unpack(archivePath, outputDir, opts...) and returns immediately.
func (r *Runner) Unpack(ctx context.Context, archivePath, outputDir string, opts ...UnpackOption) *Task[struct{}] {
	return submit(ctx, r, func() (struct{}, error) {
		return struct{}{}, Unpack(archivePath, outputDir, opts...)
	})
}

// Wait blocks until every scheduled operation has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func submit[T any](ctx context.Context, r *Runner, fn func() (T, error)) *Task[T] {
	t := &Task[T]{done: make(chan struct{})}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer close(t.done)
		if err := ctx.Err(); err != nil {
			t.err = err
			return
		}
		if err := r.sem.Acquire(ctx, 1); err != nil {
			t.err = err
			return
		}
		defer r.sem.Release(1)
		t.val, t.err = fn()
	}()
	return t
}

// Task is the handle for an operation scheduled on a Runner.
type Task[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Done returns a channel that is closed when the operation has finished.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the operation finishes or ctx is done, and returns the
// operation's result. A done ctx abandons the wait, not the operation.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.val, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
