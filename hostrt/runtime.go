package hostrt

import "errors"

// ErrNoClass indicates instance construction was attempted without a class.
var ErrNoClass = errors.New("no class for instance")

// rootClassName is the base class every adapter class ultimately descends
// from. It is registered when the runtime is created and binds nothing.
const rootClassName = "Object"

// Runtime is the host object runtime: the class registry, selector table,
// live-instance registry, associated-state table, and the run loop that
// delivers every dispatch.
//
// One Runtime backs one application shell. Construction and class
// registration are single-threaded; after the loop starts, all dispatch
// happens on the loop thread.
type Runtime struct {
	selectors *SelectorTable
	classes   *ClassTable
	instances *instanceTable
	assoc     *assocTable
	loop      *RunLoop

	root *Class
}

// NewRuntime creates a runtime with an empty class table and a fresh run
// loop. The root class is registered immediately.
func NewRuntime() *Runtime {
	rt := &Runtime{
		selectors: NewSelectorTable(),
		classes:   NewClassTable(),
		instances: newInstanceTable(),
		assoc:     newAssocTable(),
		loop:      NewRunLoop(),
	}
	rt.root = rt.classes.registerOrGet(rt, rootClassName, nil)
	rt.root.Seal()
	return rt
}

// Root returns the base class adapters derive from.
func (rt *Runtime) Root() *Class {
	return rt.root
}

// Loop returns the runtime's run loop.
func (rt *Runtime) Loop() *RunLoop {
	return rt.loop
}

// Selectors returns the runtime's selector table.
func (rt *Runtime) Selectors() *SelectorTable {
	return rt.selectors
}

// RegisterOrGet returns the class registered under name, creating it as a
// subclass of base if absent. The call is idempotent: a second request for
// the same name returns the existing class unchanged, without touching its
// method table. A nil base defaults to the root class.
func (rt *Runtime) RegisterOrGet(name string, base *Class) *Class {
	if base == nil {
		base = rt.root
	}
	return rt.classes.registerOrGet(rt, name, base)
}

// LookupClass finds a registered class by name, or nil. This is the probe
// side of the create-vs-reuse branch: callers bind trampolines only when
// the probe misses.
func (rt *Runtime) LookupClass(name string) *Class {
	return rt.classes.Lookup(name)
}
