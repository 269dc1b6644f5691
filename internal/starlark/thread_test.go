package starlark

import (
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
)

func TestThreadPool_Reuse(t *testing.T) {
	pool := NewThreadPool(4, 0)

	thread := pool.Get("performance")
	require.NotNil(t, thread)
	assert.Equal(t, "performance", thread.Name)

	pool.Put(thread)
	assert.Equal(t, 1, pool.Idle())
	assert.Empty(t, thread.Name, "returned threads are unnamed")

	again := pool.Get("address")
	assert.Same(t, thread, again)
	assert.Equal(t, "address", again.Name)
	assert.Equal(t, 0, pool.Idle())
}

func TestThreadPool_Size(t *testing.T) {
	pool := NewThreadPool(2, 0)

	threads := make([]*starlark.Thread, 3)
	for i := range threads {
		threads[i] = pool.Get("cell")
	}
	for _, thread := range threads {
		pool.Put(thread)
	}
	assert.Equal(t, 2, pool.Idle())

	assert.Equal(t, runtime.GOMAXPROCS(0), NewThreadPool(0, 0).size)
}

func TestThreadPool_StepBudget(t *testing.T) {
	pool := NewThreadPool(1, 500)

	slow, err := Compile("slow", "len([x for x in range(100000)])", pool, nil)
	require.NoError(t, err)
	_, err = slow.Eval(1, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many steps")

	// The thread that ran out is reused with a fresh budget.
	require.Equal(t, 1, pool.Idle())
	fast, err := Compile("fast", "str(value + 1)", pool, nil)
	require.NoError(t, err)
	out, err := fast.Eval(41, nil)
	require.NoError(t, err)
	assert.Equal(t, "42", out)

	// Repeated cheap calls never accumulate into the limit.
	for i := 0; i < 200; i++ {
		_, err := fast.Eval(i, nil)
		require.NoError(t, err)
	}
}

func TestThreadPool_Concurrent(t *testing.T) {
	pool := NewThreadPool(4, 0)
	r, err := Compile("pct", "pct(value)", pool, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			out, err := r.Eval(float64(n), nil)
			assert.NoError(t, err)
			assert.NotEmpty(t, out)
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, pool.Idle(), 4)
}
