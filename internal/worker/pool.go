package worker

import (
	"context"
	"sync"
)

// ProcessFunc processes a single input. Failures are carried inside R;
// the pool itself never aborts.
type ProcessFunc[T any, R any] func(ctx context.Context, input T) R

// Pool runs inputs through a bounded number of workers and hands every
// result to a single sink callback. The sink runs on one goroutine, so it
// is the one safe place to accumulate shared totals.
type Pool[T any, R any] struct {
	workers int
	process ProcessFunc[T, R]
}

// NewPool creates a pool with the given concurrency.
func NewPool[T any, R any](workers int, fn ProcessFunc[T, R]) *Pool[T, R] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T, R]{workers: workers, process: fn}
}

// Run processes all inputs, invoking sink once per completed input in
// completion order. It returns when every input has been processed or the
// context is cancelled.
func (p *Pool[T, R]) Run(ctx context.Context, inputs []T, sink func(R)) {
	inputCh := make(chan T)
	resultCh := make(chan R)

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case in, ok := <-inputCh:
					if !ok {
						return
					}
					select {
					case resultCh <- p.process(ctx, in):
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	go func() {
		defer close(inputCh)
		for _, in := range inputs {
			select {
			case <-ctx.Done():
				return
			case inputCh <- in:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	for r := range resultCh {
		sink(r)
	}
}
