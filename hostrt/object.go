package hostrt

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Handle is an opaque reference to a runtime-owned object instance.
//
// Handles are marker-encoded words rather than pointers: the high byte tags
// the word as an instance handle and the low bits carry a registry ID, so a
// handle never exposes an address and never dangles into reallocated
// storage. The zero Handle is the none sentinel.
type Handle uint64

// instanceMarker tags a word as an instance handle.
const instanceMarker uint64 = 0x5B << 56

// instanceIDMask extracts the registry ID from a handle word.
const instanceIDMask uint64 = (1 << 56) - 1

// IsHandle reports whether a raw word carries the instance marker.
func IsHandle(w uint64) bool {
	return w&(0xFF<<56) == instanceMarker
}

// instance is the registry entry behind a live handle.
type instance struct {
	class *Class
}

// instanceTable tracks every live instance by handle ID.
//
// The registry is the single owner of instance identity: Release removes
// the entry exactly once, and a second Release of the same handle is a
// fatal bug surfaced by panic.
type instanceTable struct {
	mu     sync.RWMutex
	live   map[uint64]*instance
	nextID atomic.Uint64
}

func newInstanceTable() *instanceTable {
	t := &instanceTable{
		live: make(map[uint64]*instance),
	}
	// Start IDs at 1; ID 0 would collide with the none sentinel.
	t.nextID.Store(1)
	return t
}

func (t *instanceTable) new(class *Class) Handle {
	id := t.nextID.Add(1) - 1
	t.mu.Lock()
	t.live[id] = &instance{class: class}
	t.mu.Unlock()
	return Handle(instanceMarker | id)
}

func (t *instanceTable) get(h Handle) *instance {
	if !IsHandle(uint64(h)) {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.live[uint64(h)&instanceIDMask]
}

func (t *instanceTable) release(h Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := uint64(h) & instanceIDMask
	if _, ok := t.live[id]; !ok {
		panic(fmt.Sprintf("hostrt: release of dead or unknown handle %#x", uint64(h)))
	}
	delete(t.live, id)
}

func (t *instanceTable) count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.live)
}

// ---------------------------------------------------------------------------
// Runtime instance API
// ---------------------------------------------------------------------------

// NewInstance creates a new instance of the class and returns its handle.
// A nil class is a construction failure: no handle means no UI can ever
// render, so it is surfaced as an error rather than a sentinel.
func (rt *Runtime) NewInstance(class *Class) (Handle, error) {
	if class == nil {
		return 0, ErrNoClass
	}
	return rt.instances.new(class), nil
}

// Alive reports whether the handle refers to a live instance.
func (rt *Runtime) Alive(h Handle) bool {
	return rt.instances.get(h) != nil
}

// ClassOf returns the class of a live instance, or nil.
func (rt *Runtime) ClassOf(h Handle) *Class {
	inst := rt.instances.get(h)
	if inst == nil {
		return nil
	}
	return inst.class
}

// Release frees the instance behind the handle. Release is exactly-once;
// releasing a dead handle panics. Associated state must be detached first:
// releasing a handle that still carries state panics, which turns the
// use-after-free bug class into an immediate construction-time failure.
func (rt *Runtime) Release(h Handle) {
	if n := rt.assoc.countFor(h); n > 0 {
		panic(fmt.Sprintf("hostrt: release of handle %#x with %d attached state blocks", uint64(h), n))
	}
	rt.instances.release(h)
}

// LiveInstances returns the number of live instances, for teardown checks.
func (rt *Runtime) LiveInstances() int {
	return rt.instances.count()
}
