package future

import "fmt"

// Map registers fn to run once f resolves and returns a Future for its result.
// If f fails, the returned Future fails with the same error and fn never runs.
func Map[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	out := newFuture[U]()
	go func() {
		<-f.done
		if f.err != nil {
			var zero U
			out.settle(zero, f.err)
			return
		}
		v, err := call(func() (U, error) { return fn(f.val) })
		out.settle(v, err)
	}()
	return out
}

// Then registers fn to run once f resolves; fn returns another Future whose
// outcome becomes the outcome of the returned Future.
func Then[T, U any](f *Future[T], fn func(T) *Future[U]) *Future[U] {
	out := newFuture[U]()
	go func() {
		<-f.done
		if f.err != nil {
			var zero U
			out.settle(zero, f.err)
			return
		}
		next, err := call(func() (*Future[U], error) { return fn(f.val), nil })
		if err != nil {
			var zero U
			out.settle(zero, err)
			return
		}
		if next == nil {
			var zero U
			out.settle(zero, fmt.Errorf("continuation returned a nil future"))
			return
		}
		<-next.done
		out.settle(next.val, next.err)
	}()
	return out
}

// Catch registers fn to rewrite the error of f. Resolved values pass through
// unchanged. Returning nil from fn keeps the original error.
func Catch[T any](f *Future[T], fn func(error) error) *Future[T] {
	out := newFuture[T]()
	go func() {
		<-f.done
		if f.err == nil {
			out.settle(f.val, nil)
			return
		}
		err := fn(f.err)
		if err == nil {
			err = f.err
		}
		var zero T
		out.settle(zero, err)
	}()
	return out
}

// JoinError reports which input of a join failed first.
type JoinError struct {
	// Index is the position of the failed input in the join's argument list.
	Index int

	// Err is the error the input failed with.
	Err error
}

func (e *JoinError) Error() string {
	return fmt.Sprintf("join input %d: %v", e.Index, e.Err)
}

func (e *JoinError) Unwrap() error {
	return e.Err
}

// All joins fs into a single Future holding every value in input order.
//
// The join fails as soon as any input fails, without waiting for the rest;
// the error is a *JoinError naming the input that failed first in completion
// order. No partial result is ever exposed. An empty input resolves to an
// empty slice.
func All[T any](fs []*Future[T]) *Future[[]T] {
	out := newFuture[[]T]()
	ws := make([]Waiter, len(fs))
	for i, f := range fs {
		ws[i] = f
	}
	go func() {
		if err := join(ws); err != nil {
			out.settle(nil, err)
			return
		}
		vals := make([]T, len(fs))
		for i, f := range fs {
			vals[i] = f.value()
		}
		out.settle(vals, nil)
	}()
	return out
}

// After returns a Future that resolves once every dependency has resolved.
// It fails fast like All, but with the failed dependency's own error rather
// than a JoinError. It lets a computation depend on Futures of different
// types; read their values with Value afterwards.
func After(deps ...Waiter) *Future[struct{}] {
	out := newFuture[struct{}]()
	go func() {
		if err := join(deps); err != nil {
			out.settle(struct{}{}, err.Err)
			return
		}
		out.settle(struct{}{}, nil)
	}()
	return out
}

// Value returns the resolved value of f. It must only be called from a
// computation registered on After(f, ...) or on f itself, when f is known to
// have resolved successfully.
func Value[T any](f *Future[T]) T {
	select {
	case <-f.done:
		return f.val
	default:
		panic("future: Value called on a pending future")
	}
}

// join waits for every waiter and returns the first failure, if any.
func join(ws []Waiter) *JoinError {
	if len(ws) == 0 {
		return nil
	}
	settled := make(chan int, len(ws))
	for i, w := range ws {
		go func(i int, w Waiter) {
			<-w.Done()
			settled <- i
		}(i, w)
	}
	for range ws {
		i := <-settled
		if err := ws[i].Err(); err != nil {
			return &JoinError{Index: i, Err: err}
		}
	}
	return nil
}
