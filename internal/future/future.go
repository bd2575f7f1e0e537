package future

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNilError is the error a Future settles with when it is rejected with nil.
var ErrNilError = errors.New("future rejected with nil error")

// Waiter is the type-independent view of a Future used by After.
type Waiter interface {
	// Done is closed once the Future is settled.
	Done() <-chan struct{}

	// Err returns the settlement error. It is nil until Done is closed.
	Err() error
}

// Future is a value that becomes available at some later point.
type Future[T any] struct {
	done chan struct{}
	once sync.Once
	val  T
	err  error
}

var _ Waiter = (*Future[int])(nil)

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// settle records the outcome. Only the first call has any effect.
func (f *Future[T]) settle(v T, err error) bool {
	settled := false
	f.once.Do(func() {
		f.val = v
		f.err = err
		settled = true
		close(f.done)
	})
	return settled
}

// Done returns a channel that is closed when the Future is settled.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Err returns the error the Future failed with, or nil if it resolved or is
// still pending.
func (f *Future[T]) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}

// Poll returns the settled value without blocking. ok is false while the
// Future is pending.
func (f *Future[T]) Poll() (v T, ok bool, err error) {
	select {
	case <-f.done:
		return f.val, true, f.err
	default:
		var zero T
		return zero, false, nil
	}
}

// value returns the resolved value. Callers must have observed Done.
func (f *Future[T]) value() T {
	return f.val
}

// Await blocks until the Future is settled or ctx is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Promise is the write side of a Future.
type Promise[T any] struct {
	f *Future[T]
}

// New returns a pending Future together with the Promise that settles it.
func New[T any]() (*Future[T], *Promise[T]) {
	f := newFuture[T]()
	return f, &Promise[T]{f: f}
}

// Resolve settles the Future with v. It reports whether this call settled it.
func (p *Promise[T]) Resolve(v T) bool {
	return p.f.settle(v, nil)
}

// Reject settles the Future with err. It reports whether this call settled it.
func (p *Promise[T]) Reject(err error) bool {
	if err == nil {
		err = ErrNilError
	}
	var zero T
	return p.f.settle(zero, err)
}

// Future returns the read side of the Promise.
func (p *Promise[T]) Future() *Future[T] {
	return p.f
}

// Resolved returns a Future already settled with v.
func Resolved[T any](v T) *Future[T] {
	f := newFuture[T]()
	f.settle(v, nil)
	return f
}

// Failed returns a Future already settled with err.
func Failed[T any](err error) *Future[T] {
	f, p := New[T]()
	p.Reject(err)
	return f
}

// Go runs fn on a new goroutine and returns a Future for its result.
// A panic in fn fails the Future instead of crashing the process.
func Go[T any](fn func() (T, error)) *Future[T] {
	out := newFuture[T]()
	go func() {
		v, err := call(fn)
		out.settle(v, err)
	}()
	return out
}

// call invokes fn, converting a panic into an error.
func call[T any](fn func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v = zero
			err = fmt.Errorf("panic in deferred computation: %v", r)
		}
	}()
	return fn()
}
