package hostrt

import (
	"fmt"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("skylight.hostrt")

// Send dispatches a selector to an instance with the given arguments and
// returns the trampoline's result.
//
// The marshaling contract is bit-exact: arguments and return value are
// verified against the binding's type encoding, and any mismatch panics
// immediately rather than proceeding with a corrupted frame.
//
// An unbound selector returns Nil. The host treats its data-source
// callbacks as non-throwing, so a missing binding is reported as "nothing
// here", not an error; callers probe with Responds first when the
// distinction matters.
//
// Dispatching to a released handle is a use-after-free and panics: the
// teardown order (unregister, detach, release) exists precisely so that no
// event can reach a dead instance.
func (rt *Runtime) Send(h Handle, selector string, args ...Value) Value {
	rt.loop.assertLoop(selector)

	inst := rt.instances.get(h)
	if inst == nil {
		panic(fmt.Sprintf("hostrt: send %q to dead handle %#x", selector, uint64(h)))
	}

	id := rt.selectors.Lookup(selector)
	if id < 0 {
		log.Debugf("send %q: selector never interned", selector)
		return Nil
	}
	b := inst.class.VTablePtr().Lookup(id)
	if b == nil {
		log.Debugf("send %q: %s does not respond", selector, inst.class.Name)
		return Nil
	}

	if err := checkArgs(b, args); err != nil {
		panic("hostrt: " + err.Error())
	}
	ret := b.Tramp.Invoke(rt, h, args)
	if err := checkReturn(b, ret); err != nil {
		panic("hostrt: " + err.Error())
	}
	return ret
}

// Responds reports whether the instance behind h responds to the selector.
func (rt *Runtime) Responds(h Handle, selector string) bool {
	inst := rt.instances.get(h)
	if inst == nil {
		return false
	}
	return inst.class.RespondsTo(selector)
}
