package hostrt

import (
	"fmt"
	"sync"
)

// Class is a named runtime class. Classes live for the whole process: they
// are created once, populated with bindings, sealed, and never destroyed.
type Class struct {
	Name   string
	Super  *Class
	vtable *VTable
	sealed bool

	rt *Runtime
}

// VTablePtr returns the class's dispatch table.
func (c *Class) VTablePtr() *VTable {
	return c.vtable
}

// Sealed reports whether the class has been sealed against further bindings.
func (c *Class) Sealed() bool {
	return c.sealed
}

// Seal closes the class's method table. All bindings must be installed
// before sealing; Bind panics afterwards.
func (c *Class) Seal() {
	c.sealed = true
}

// Bind installs a trampoline on the class under the given selector name,
// tagged with its type encoding.
//
// Binding after Seal, binding the same selector twice, or supplying a
// malformed encoding are programming errors: the create-vs-reuse branch in
// the caller is responsible for never reaching them, and a mismatched
// encoding would corrupt every call through the selector, so all three
// panic instead of returning.
func (c *Class) Bind(selector string, tramp Trampoline, encoding string) {
	if c.sealed {
		panic(fmt.Sprintf("hostrt: bind %q on sealed class %s", selector, c.Name))
	}
	if !ValidEncoding(encoding) {
		panic(fmt.Sprintf("hostrt: bad encoding %q for %s.%s", encoding, c.Name, selector))
	}
	id := c.rt.selectors.Intern(selector)
	if c.vtable.Has(id) {
		panic(fmt.Sprintf("hostrt: duplicate binding %s.%s", c.Name, selector))
	}
	c.vtable.Add(&Binding{
		Selector: id,
		Name:     selector,
		Encoding: encoding,
		Tramp:    tramp,
	})
}

// RespondsTo reports whether the class (or a base class) binds the selector.
func (c *Class) RespondsTo(selector string) bool {
	id := c.rt.selectors.Lookup(selector)
	if id < 0 {
		return false
	}
	return c.vtable.Lookup(id) != nil
}

// Selectors returns the names of all selectors the class responds to,
// including inherited ones.
func (c *Class) Selectors() []string {
	seen := make(map[int]bool)
	var names []string
	for vt := c.vtable; vt != nil; vt = vt.parent {
		for id := range vt.Local() {
			if !seen[id] {
				seen[id] = true
				names = append(names, c.rt.selectors.Name(id))
			}
		}
	}
	return names
}

// IsSubclassOf reports whether c is other or descends from it.
func (c *Class) IsSubclassOf(other *Class) bool {
	for cur := c; cur != nil; cur = cur.Super {
		if cur == other {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (c *Class) String() string {
	return c.Name
}

// ---------------------------------------------------------------------------
// ClassTable: process-wide class registry
// ---------------------------------------------------------------------------

// ClassTable manages registered classes by name. The table is append-only;
// a class, once registered, is never replaced or removed.
type ClassTable struct {
	mu      sync.RWMutex
	classes map[string]*Class
}

// NewClassTable creates a new empty class table.
func NewClassTable() *ClassTable {
	return &ClassTable{
		classes: make(map[string]*Class),
	}
}

// Lookup finds a class by name, or nil.
func (ct *ClassTable) Lookup(name string) *Class {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	return ct.classes[name]
}

// Has reports whether a class with this name is registered.
func (ct *ClassTable) Has(name string) bool {
	return ct.Lookup(name) != nil
}

// Len returns the number of registered classes.
func (ct *ClassTable) Len() int {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	return len(ct.classes)
}

// registerOrGet returns the class registered under name, creating it with
// the given base if absent. An existing class is returned untouched: its
// method table is not re-registered, matching the host's one-shot class
// registration model.
func (ct *ClassTable) registerOrGet(rt *Runtime, name string, base *Class) *Class {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	if c, ok := ct.classes[name]; ok {
		return c
	}

	var parentVT *VTable
	if base != nil {
		parentVT = base.vtable
	}
	c := &Class{
		Name:  name,
		Super: base,
		rt:    rt,
	}
	c.vtable = NewVTable(c, parentVT)
	ct.classes[name] = c
	return c
}
