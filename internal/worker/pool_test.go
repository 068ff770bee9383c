package worker

import (
	"context"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolProcessesAllInputs(t *testing.T) {
	t.Parallel()

	pool := NewPool(4, func(_ context.Context, n int) int { return n * 2 })

	var results []int
	pool.Run(context.Background(), []int{1, 2, 3, 4, 5}, func(r int) {
		results = append(results, r)
	})

	sort.Ints(results)
	assert.Equal(t, []int{2, 4, 6, 8, 10}, results)
}

func TestPoolSinkRunsSingleThreaded(t *testing.T) {
	t.Parallel()

	var inFlight atomic.Int32
	pool := NewPool(8, func(_ context.Context, n int) int { return n })

	inputs := make([]int, 200)
	for i := range inputs {
		inputs[i] = i
	}

	seen := 0
	pool.Run(context.Background(), inputs, func(int) {
		require.Equal(t, int32(1), inFlight.Add(1))
		seen++
		inFlight.Add(-1)
	})
	assert.Equal(t, len(inputs), seen)
}

func TestPoolStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	var processed atomic.Int32
	pool := NewPool(1, func(_ context.Context, n int) int {
		if processed.Add(1) == 2 {
			cancel()
		}
		return n
	})

	inputs := make([]int, 100)
	pool.Run(ctx, inputs, func(int) {})

	assert.Less(t, int(processed.Load()), len(inputs))
}

func TestPoolClampsWorkerCount(t *testing.T) {
	t.Parallel()

	pool := NewPool(0, func(_ context.Context, n int) int { return n })

	count := 0
	pool.Run(context.Background(), []int{1, 2, 3}, func(int) { count++ })
	assert.Equal(t, 3, count)
}
