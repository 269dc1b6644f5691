package starlark

import (
	"runtime"
	"sync"

	"go.starlark.net/starlark"
)

// DefaultMaxSteps bounds a single render call. Formatting a cell takes a
// few hundred steps.
const DefaultMaxSteps uint64 = 100_000

// ThreadPool hands out Starlark threads to renderers. Each Get comes with a
// fresh execution budget, so an expensive expression fails its cell instead
// of stalling the whole table.
type ThreadPool struct {
	mu       sync.Mutex
	idle     []*starlark.Thread
	size     int
	maxSteps uint64
}

// NewThreadPool keeps up to size idle threads (GOMAXPROCS when size <= 0)
// and allows maxSteps per call (DefaultMaxSteps when 0).
func NewThreadPool(size int, maxSteps uint64) *ThreadPool {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}
	if maxSteps == 0 {
		maxSteps = DefaultMaxSteps
	}
	return &ThreadPool{
		idle:     make([]*starlark.Thread, 0, size),
		size:     size,
		maxSteps: maxSteps,
	}
}

// Get takes an idle thread or creates one. The name shows up in Starlark
// error messages.
func (p *ThreadPool) Get(name string) *starlark.Thread {
	p.mu.Lock()
	var thread *starlark.Thread
	if n := len(p.idle); n > 0 {
		thread = p.idle[n-1]
		p.idle = p.idle[:n-1]
	}
	p.mu.Unlock()

	if thread == nil {
		thread = &starlark.Thread{
			// Renderers have no output stream
			Print: func(*starlark.Thread, string) {},
		}
	}
	thread.Name = name
	// A thread that ran out of steps stays cancelled until told otherwise.
	thread.Uncancel()
	thread.SetMaxExecutionSteps(thread.ExecutionSteps() + p.maxSteps)
	return thread
}

// Put returns a thread for reuse. It is dropped when the pool is full.
func (p *ThreadPool) Put(thread *starlark.Thread) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.idle) < p.size {
		thread.Name = ""
		p.idle = append(p.idle, thread)
	}
}

// Idle returns the number of threads waiting for reuse.
func (p *ThreadPool) Idle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}
