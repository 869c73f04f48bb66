package async_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/crowdpredictor/trafficmap/pkg/async"
)

func TestExec(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	f := async.Exec(context.Background(), 3, func(_ context.Context, n int) error {
		calls.Add(int32(n))
		return nil
	})
	assert.Equal(t, []error{nil}, async.Settle(f))
	assert.Equal(t, int32(3), calls.Load())
}

func TestExec_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var called atomic.Bool
	errs := async.Settle(async.Exec(ctx, 0, func(context.Context, int) error {
		called.Store(true)
		return nil
	}))
	assert.ErrorIs(t, errs[0], context.Canceled)
	assert.False(t, called.Load())
}

func TestSettle(t *testing.T) {
	t.Parallel()

	errA := errors.New("a")
	errB := errors.New("b")
	run := func(err error, d time.Duration) *async.Future {
		return async.Exec(context.Background(), err, func(_ context.Context, e error) error {
			time.Sleep(d)
			return e
		})
	}

	// The slowest future comes first; results keep argument order.
	errs := async.Settle(run(errA, 20*time.Millisecond), run(nil, 0), run(errB, time.Millisecond))
	assert.Equal(t, []error{errA, nil, errB}, errs)
	assert.Empty(t, async.Settle())
}
