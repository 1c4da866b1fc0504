package native

import (
	"github.com/tliron/commonlog"

	"github.com/skylightui/skylight/hostrt"
)

var log = commonlog.GetLogger("skylight.native")

// Associated-state tags, one per protocol role. The tag space is partitioned
// statically here: an instance playing several roles keeps a disjoint state
// block per role, and no two adapter kinds may ever share a constant.
const (
	TagOutline  hostrt.Tag = 1
	TagTable    hostrt.Tag = 2
	TagMenu     hostrt.Tag = 3
	TagDragSrc  hostrt.Tag = 4
	TagDragDest hostrt.Tag = 5
	TagPreview  hostrt.Tag = 6
	TagKeys     hostrt.Tag = 7
)

// ensureClass is the create-vs-reuse branch every adapter constructor goes
// through. On first use the class is created, bound, and sealed; afterwards
// the registered class is returned untouched, so trampolines are never
// registered twice.
func ensureClass(rt *hostrt.Runtime, name string, bind func(c *hostrt.Class)) *hostrt.Class {
	if c := rt.LookupClass(name); c != nil {
		return c
	}
	c := rt.RegisterOrGet(name, nil)
	bind(c)
	c.Seal()
	return c
}

// newAdapterInstance creates an instance of the (possibly reused) class and
// attaches its state block under the role tag.
func newAdapterInstance(rt *hostrt.Runtime, class *hostrt.Class, tag hostrt.Tag, state any) (hostrt.Handle, error) {
	h, err := rt.NewInstance(class)
	if err != nil {
		return 0, err
	}
	rt.Attach(h, tag, state)
	return h, nil
}

// closeAdapter tears an adapter instance down in reverse construction
// order: the state block is detached first, then the handle is released.
func closeAdapter(rt *hostrt.Runtime, h hostrt.Handle, tag hostrt.Tag) {
	rt.Detach(h, tag)
	rt.Release(h)
}
