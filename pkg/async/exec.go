package async

import "context"

// Future is the pending error of a function running in its own goroutine.
type Future struct {
	err  error
	done chan struct{}
}

func (f *Future) wait() error {
	<-f.done
	return f.err
}

// Exec runs fn(ctx, param) in a new goroutine. A context that is already
// done short-circuits to its error without calling fn.
func Exec[T any](ctx context.Context, param T, fn func(context.Context, T) error) *Future {
	f := &Future{done: make(chan struct{})}

	go func() {
		defer close(f.done)
		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}
		f.err = fn(ctx, param)
	}()

	return f
}

// Settle waits for every future and returns their errors in argument order.
func Settle(futures ...*Future) []error {
	errs := make([]error, len(futures))
	for i, f := range futures {
		errs[i] = f.wait()
	}
	return errs
}
