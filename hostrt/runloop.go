package hostrt

import (
	"sync"
	"sync/atomic"
)

// RunLoop is the single-threaded cooperative event loop.
//
// One goroutine calls Run (or drives Step by hand); everything else talks
// to the loop only through Perform, which queues work for the loop thread.
// Events are delivered strictly in the order they were queued; the loop
// adds no batching or coalescing.
//
// Before Run is called the loop is in its construction phase and dispatch
// is permitted from the constructing goroutine. Once running, dispatch off
// the loop thread panics.
type RunLoop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	running atomic.Bool
	inDrain atomic.Bool
	done    chan struct{}
}

// NewRunLoop creates a stopped run loop.
func NewRunLoop() *RunLoop {
	return &RunLoop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Perform queues fn for execution on the loop thread. Safe to call from
// any goroutine; this is the only cross-thread entry point.
func (l *RunLoop) Perform(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Step drains everything currently queued and returns the number of
// callbacks run. Step is how tests and the construction phase pump the
// loop without blocking in Run.
func (l *RunLoop) Step() int {
	n := 0
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return n
		}
		fn := l.queue[0]
		l.queue = l.queue[1:]
		l.mu.Unlock()

		l.inDrain.Store(true)
		fn()
		l.inDrain.Store(false)
		n++
	}
}

// Run blocks on the calling goroutine, draining the queue as work arrives,
// until Stop is called. The calling goroutine becomes the loop thread.
func (l *RunLoop) Run() {
	l.running.Store(true)
	defer l.running.Store(false)

	for {
		l.Step()
		select {
		case <-l.wake:
		case <-l.done:
			l.Step()
			return
		}
	}
}

// Stop makes Run return after draining remaining work. Idempotent.
func (l *RunLoop) Stop() {
	select {
	case <-l.done:
	default:
		close(l.done)
	}
}

// Running reports whether Run is active.
func (l *RunLoop) Running() bool {
	return l.running.Load()
}

// assertLoop panics when dispatch happens off the loop thread while the
// loop is running. During construction (loop not yet running) dispatch from
// the constructing goroutine is allowed.
func (l *RunLoop) assertLoop(selector string) {
	if l.running.Load() && !l.inDrain.Load() {
		panic("hostrt: dispatch of " + selector + " off the loop thread")
	}
}
