// Package deadline races a cancellable operation against an independent timer.
package deadline

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	SimpleTimeout  = 8 * time.Second
	GradingTimeout = 30 * time.Second
)

var ErrTimeout = errors.New("operation timed out")

type outcome[T any] struct {
	val T
	err error
}

// Race runs op and a timer of length d concurrently. Whichever settles first
// decides the result; the timer is stopped and op's context cancelled in every
// case, so nothing is left pending once Race returns.
func Race[T any](ctx context.Context, d time.Duration, op func(ctx context.Context) (T, error)) (T, error) {
	opCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	timer := time.NewTimer(d)
	defer timer.Stop()

	// buffered so op's goroutine can always deliver and exit after losing
	done := make(chan outcome[T], 1)
	go func() {
		v, err := op(opCtx)
		done <- outcome[T]{val: v, err: err}
	}()

	var zero T
	select {
	case res := <-done:
		return res.val, res.err
	case <-timer.C:
		return zero, fmt.Errorf("%w after %v", ErrTimeout, d)
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
