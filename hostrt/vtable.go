package hostrt

// VTable holds the bindings of a class, indexed by selector ID.
//
// Lookup walks the parent chain when a selector is not bound locally, so a
// subclass inherits every binding of its base. The table only ever grows;
// bindings are installed during single-threaded construction and read from
// the loop thread afterwards.
type VTable struct {
	class    *Class
	parent   *VTable
	bindings []*Binding // indexed by selector ID
}

// NewVTable creates a new vtable for a class.
func NewVTable(class *Class, parent *VTable) *VTable {
	return &VTable{
		class:    class,
		parent:   parent,
		bindings: make([]*Binding, 0, 16),
	}
}

// Lookup finds a binding by selector ID, walking the inheritance chain.
// Returns nil if no binding is found.
func (vt *VTable) Lookup(selector int) *Binding {
	for v := vt; v != nil; v = v.parent {
		if selector >= 0 && selector < len(v.bindings) {
			if b := v.bindings[selector]; b != nil {
				return b
			}
		}
	}
	return nil
}

// LookupLocal finds a binding by selector ID in this vtable only.
func (vt *VTable) LookupLocal(selector int) *Binding {
	if selector >= 0 && selector < len(vt.bindings) {
		return vt.bindings[selector]
	}
	return nil
}

// Add installs a binding at its selector ID, growing the table as needed.
func (vt *VTable) Add(b *Binding) {
	if b.Selector >= len(vt.bindings) {
		grown := make([]*Binding, b.Selector+1)
		copy(grown, vt.bindings)
		vt.bindings = grown
	}
	vt.bindings[b.Selector] = b
}

// Has reports whether this vtable (not parents) binds the selector.
func (vt *VTable) Has(selector int) bool {
	return vt.LookupLocal(selector) != nil
}

// Parent returns the parent vtable.
func (vt *VTable) Parent() *VTable {
	return vt.parent
}

// Class returns the class this vtable belongs to.
func (vt *VTable) Class() *Class {
	return vt.class
}

// Local returns all bindings installed directly on this vtable, keyed by
// selector ID.
func (vt *VTable) Local() map[int]*Binding {
	result := make(map[int]*Binding)
	for i, b := range vt.bindings {
		if b != nil {
			result[i] = b
		}
	}
	return result
}
