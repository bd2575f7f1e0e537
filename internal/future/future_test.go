package future_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/geodeploy/internal/future"
)

var errBoom = errors.New("boom")

func await[T any](t *testing.T, f *future.Future[T]) (T, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return f.Await(ctx)
}

func TestPromise(t *testing.T) {
	t.Run("first settlement wins", func(t *testing.T) {
		f, p := future.New[string]()
		assert.True(t, p.Resolve("a"))
		assert.False(t, p.Resolve("b"))
		assert.False(t, p.Reject(errBoom))

		v, err := await(t, f)
		require.NoError(t, err)
		assert.Equal(t, "a", v)
	})

	t.Run("reject with nil error still fails", func(t *testing.T) {
		f, p := future.New[int]()
		p.Reject(nil)
		_, err := await(t, f)
		assert.ErrorIs(t, err, future.ErrNilError)
	})

	t.Run("poll reports pending", func(t *testing.T) {
		f, p := future.New[int]()
		_, ok, _ := f.Poll()
		assert.False(t, ok)
		assert.NoError(t, f.Err())

		p.Reject(errBoom)
		_, ok, err := f.Poll()
		assert.True(t, ok)
		assert.ErrorIs(t, err, errBoom)
		assert.ErrorIs(t, f.Err(), errBoom)
	})
}

func TestAwait_ContextCancelled(t *testing.T) {
	f, _ := future.New[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Await(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGo_RecoversPanic(t *testing.T) {
	f := future.Go(func() (int, error) {
		panic("kaboom")
	})
	_, err := await(t, f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestMap(t *testing.T) {
	t.Run("transforms resolved value", func(t *testing.T) {
		f := future.Map(future.Resolved(21), func(v int) (string, error) {
			return strconv.Itoa(v * 2), nil
		})
		v, err := await(t, f)
		require.NoError(t, err)
		assert.Equal(t, "42", v)
	})

	t.Run("propagates failure without running", func(t *testing.T) {
		ran := false
		f := future.Map(future.Failed[int](errBoom), func(v int) (int, error) {
			ran = true
			return v, nil
		})
		_, err := await(t, f)
		assert.ErrorIs(t, err, errBoom)
		assert.False(t, ran)
	})

	t.Run("does not block the caller", func(t *testing.T) {
		src, p := future.New[int]()
		mapped := future.Map(src, func(v int) (int, error) { return v + 1, nil })

		_, ok, _ := mapped.Poll()
		assert.False(t, ok)

		p.Resolve(1)
		v, err := await(t, mapped)
		require.NoError(t, err)
		assert.Equal(t, 2, v)
	})
}

func TestThen(t *testing.T) {
	f := future.Then(future.Resolved("x"), func(s string) *future.Future[string] {
		return future.Map(future.Resolved(s), func(v string) (string, error) { return v + "y", nil })
	})
	v, err := await(t, f)
	require.NoError(t, err)
	assert.Equal(t, "xy", v)

	nilNext := future.Then(future.Resolved(1), func(int) *future.Future[int] { return nil })
	_, err = await(t, nilNext)
	assert.Error(t, err)
}

func TestCatch(t *testing.T) {
	wrapped := future.Catch(future.Failed[int](errBoom), func(err error) error {
		return errors.Join(errors.New("wrapped"), err)
	})
	_, err := await(t, wrapped)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "wrapped")

	passthrough := future.Catch(future.Resolved(7), func(err error) error { return err })
	v, err := await(t, passthrough)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestAll(t *testing.T) {
	t.Run("preserves input order regardless of completion order", func(t *testing.T) {
		fs := make([]*future.Future[int], 0, 4)
		promises := make([]*future.Promise[int], 0, 4)
		for range 4 {
			f, p := future.New[int]()
			fs = append(fs, f)
			promises = append(promises, p)
		}
		joined := future.All(fs)

		// Resolve in reverse order.
		for i := len(promises) - 1; i >= 0; i-- {
			promises[i].Resolve(i * 10)
		}

		vals, err := await(t, joined)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 10, 20, 30}, vals)
	})

	t.Run("fails fast without waiting for pending inputs", func(t *testing.T) {
		pending, _ := future.New[int]()
		joined := future.All([]*future.Future[int]{pending, future.Failed[int](errBoom)})

		_, err := await(t, joined)
		require.ErrorIs(t, err, errBoom)

		var joinErr *future.JoinError
		require.ErrorAs(t, err, &joinErr)
		assert.Equal(t, 1, joinErr.Index)
	})

	t.Run("empty input resolves to empty slice", func(t *testing.T) {
		vals, err := await(t, future.All[int](nil))
		require.NoError(t, err)
		assert.Empty(t, vals)
	})
}

func TestAfter(t *testing.T) {
	a := future.Resolved("a")
	b := future.Resolved(2)

	f := future.Map(future.After(a, b), func(struct{}) (string, error) {
		return future.Value(a) + strconv.Itoa(future.Value(b)), nil
	})
	v, err := await(t, f)
	require.NoError(t, err)
	assert.Equal(t, "a2", v)

	_, err = await(t, future.After(a, future.Failed[int](errBoom)))
	assert.Equal(t, errBoom, err, "dependency errors pass through unwrapped")
}

func TestValue_PanicsWhenPending(t *testing.T) {
	f, _ := future.New[int]()
	assert.Panics(t, func() { future.Value(f) })
}
