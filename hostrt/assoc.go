package hostrt

import (
	"fmt"
	"sync"
)

// Tag partitions the associated-state space when one instance plays several
// protocol roles. Tags are small per-role constants chosen by the adapter
// layer; two roles sharing a tag on the same instance would silently corrupt
// each other, so Attach refuses to overwrite.
type Tag uint8

type assocKey struct {
	h   Handle
	tag Tag
}

// assocTable attaches heap-owned state blocks to instances out of band,
// keyed by (handle, tag). The table retains whatever is attached until it
// is explicitly detached; the constructing adapter owns the block and must
// detach it before releasing the instance handle.
type assocTable struct {
	mu     sync.RWMutex
	blocks map[assocKey]any
}

func newAssocTable() *assocTable {
	return &assocTable{
		blocks: make(map[assocKey]any),
	}
}

func (t *assocTable) countFor(h Handle) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for k := range t.blocks {
		if k.h == h {
			n++
		}
	}
	return n
}

// ---------------------------------------------------------------------------
// Runtime associated-state API
// ---------------------------------------------------------------------------

// Attach stores state under (h, tag) with retain semantics: the block stays
// reachable after the registering call returns. Attaching to a dead handle
// or over an existing block panics; both are ordering bugs in the caller.
func (rt *Runtime) Attach(h Handle, tag Tag, state any) {
	if !rt.Alive(h) {
		panic(fmt.Sprintf("hostrt: attach tag %d to dead handle %#x", tag, uint64(h)))
	}
	key := assocKey{h, tag}
	rt.assoc.mu.Lock()
	defer rt.assoc.mu.Unlock()
	if _, ok := rt.assoc.blocks[key]; ok {
		panic(fmt.Sprintf("hostrt: tag %d already attached on handle %#x", tag, uint64(h)))
	}
	rt.assoc.blocks[key] = state
}

// State retrieves the block attached under (h, tag).
func (rt *Runtime) State(h Handle, tag Tag) (any, bool) {
	rt.assoc.mu.RLock()
	defer rt.assoc.mu.RUnlock()
	s, ok := rt.assoc.blocks[assocKey{h, tag}]
	return s, ok
}

// Detach removes the block attached under (h, tag). Detach is exactly-once;
// detaching an absent block panics, catching double-free at the site of the
// second free instead of at a later event.
func (rt *Runtime) Detach(h Handle, tag Tag) {
	key := assocKey{h, tag}
	rt.assoc.mu.Lock()
	defer rt.assoc.mu.Unlock()
	if _, ok := rt.assoc.blocks[key]; !ok {
		panic(fmt.Sprintf("hostrt: detach of absent tag %d on handle %#x", tag, uint64(h)))
	}
	delete(rt.assoc.blocks, key)
}
