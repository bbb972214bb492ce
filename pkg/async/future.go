package async

import (
	"context"
	"sync"
	"time"
)

// Future represents the pending result of an asynchronous computation.
type Future[T any] struct {
	value T
	err   error
	once  sync.Once
	done  chan struct{}
}

// Resolve settles the future it was created with. It is idempotent; only
// the first call wins.
type Resolve[T any] func(value T, err error)

// New creates an unresolved future and its resolver.
func New[T any]() (*Future[T], Resolve[T]) {
	f := &Future[T]{done: make(chan struct{})}
	resolve := func(value T, err error) {
		f.once.Do(func() {
			f.value = value
			f.err = err
			close(f.done)
		})
	}
	return f, resolve
}

// Go runs fn in a new goroutine and returns the future of its result.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f, resolve := New[T]()
	go func() {
		resolve(fn(ctx))
	}()
	return f
}

// Await blocks until the future settles and returns its outcome.
func (f *Future[T]) Await() (T, error) {
	<-f.done
	return f.value, f.err
}

// AwaitContext waits for the future to settle or the context to end,
// whichever comes first.
func (f *Future[T]) AwaitContext(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// AwaitWithTimeout waits for the future to settle within the given
// duration and returns ErrTimeout otherwise.
func (f *Future[T]) AwaitWithTimeout(timeout time.Duration) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-time.After(timeout):
		var zero T
		return zero, ErrTimeout
	}
}

// IsComplete reports whether the future has settled, without blocking.
func (f *Future[T]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Done exposes the settlement channel for select-based coordination.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// WaitAll awaits every future and returns their results in order. The
// first error encountered is returned alongside the partial results.
func WaitAll[T any](futures ...*Future[T]) ([]T, error) {
	results := make([]T, len(futures))
	var firstErr error
	for i, f := range futures {
		value, err := f.Await()
		results[i] = value
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return results, firstErr
}

// WaitAny waits for the first future to settle and returns its index and
// outcome.
func WaitAny[T any](futures ...*Future[T]) (int, T, error) {
	if len(futures) == 0 {
		var zero T
		return -1, zero, ErrNoFutures
	}
	type settled struct {
		index int
		value T
		err   error
	}
	done := make(chan settled, 1)
	for i, f := range futures {
		go func(index int, f *Future[T]) {
			value, err := f.Await()
			select {
			case done <- settled{index, value, err}:
			default:
			}
		}(i, f)
	}
	s := <-done
	return s.index, s.value, s.err
}
