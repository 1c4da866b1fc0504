package native

import (
	"github.com/skylightui/skylight/hostrt"
)

// KeyCode is a hardware-independent virtual key code.
type KeyCode uint16

// Virtual key codes for the routed keys.
const (
	KeyReturn KeyCode = 36
	KeySpace  KeyCode = 49
	KeyDelete KeyCode = 51
	KeyEscape KeyCode = 53
	KeyLeft   KeyCode = 123
	KeyRight  KeyCode = 124
	KeyDown   KeyCode = 125
	KeyUp     KeyCode = 126
)

// keyNameCodes maps shortcut key tokens (the Key half of a parsed
// Shortcut) to virtual key codes. Letters and digits use the ANSI layout
// codes.
var keyNameCodes = map[string]KeyCode{
	"return": KeyReturn, "enter": KeyReturn,
	"space":  KeySpace,
	"delete": KeyDelete, "backspace": KeyDelete,
	"escape": KeyEscape, "esc": KeyEscape,
	"left": KeyLeft, "right": KeyRight, "down": KeyDown, "up": KeyUp,
	"tab": 48,

	"a": 0, "s": 1, "d": 2, "f": 3, "h": 4, "g": 5, "z": 6, "x": 7,
	"c": 8, "v": 9, "b": 11, "q": 12, "w": 13, "e": 14, "r": 15,
	"y": 16, "t": 17, "o": 31, "u": 32, "i": 34, "p": 35, "l": 37,
	"j": 38, "k": 40, "n": 45, "m": 46,

	"1": 18, "2": 19, "3": 20, "4": 21, "6": 22, "5": 23, "9": 25,
	"7": 26, "8": 28, "0": 29,
}

// KeyCodeForName resolves a shortcut key token to its virtual key code.
// Unknown tokens report false; callers degrade with a log, never an error.
func KeyCodeForName(name string) (KeyCode, bool) {
	code, ok := keyNameCodes[name]
	return code, ok
}

// SelKeyDown is the key-handling entry point bound on both deployments of
// the router.
const SelKeyDown = "keyDown:mods:"

const keyMonitorClassName = "SkylightKeyMonitor"

// KeyEvent is one decoded key press.
type KeyEvent struct {
	Code KeyCode
	Mods Modifiers
}

type keyRouterState struct {
	onSpace  func()
	onReturn func()
	onDelete func()
	onEscape func()
	onUp     func()
	onDown   func()
	onLeft   func()
	onRight  func()

	// onKey is the generic catch-all; returning true claims the event and
	// suppresses further handling.
	onKey func(KeyEvent) bool
}

// dispatch is the single routine both deployments share. It returns true
// when the event was claimed by a named callback or the catch-all.
func (st *keyRouterState) dispatch(ev KeyEvent) bool {
	named := map[KeyCode]func(){
		KeySpace:  st.onSpace,
		KeyReturn: st.onReturn,
		KeyDelete: st.onDelete,
		KeyEscape: st.onEscape,
		KeyUp:     st.onUp,
		KeyDown:   st.onDown,
		KeyLeft:   st.onLeft,
		KeyRight:  st.onRight,
	}
	if fn, ok := named[ev.Code]; ok && fn != nil {
		fn()
		return true
	}
	if st.onKey != nil {
		return st.onKey(ev)
	}
	return false
}

// KeyRouter maps a fixed table of key codes to single-purpose callbacks,
// with a generic catch-all for everything else. The same dispatch routine
// backs both deployment shapes: an app-wide monitor instance, and a
// key-handling override bound onto a view class that falls back to default
// handling for unclaimed keys.
type KeyRouter struct {
	rt     *hostrt.Runtime
	handle hostrt.Handle
	state  *keyRouterState
}

// NewKeyMonitor creates the app-wide monitor deployment: a standalone
// instance the host forwards key events to while the window is focused.
func NewKeyMonitor(rt *hostrt.Runtime) (*KeyRouter, error) {
	class := ensureClass(rt, keyMonitorClassName, BindKeyHandling)
	state := &keyRouterState{}
	h, err := newAdapterInstance(rt, class, TagKeys, state)
	if err != nil {
		return nil, err
	}
	return &KeyRouter{rt: rt, handle: h, state: state}, nil
}

// AttachKeyRouting creates the view-override deployment: the key-handling
// selector is bound onto the given (unsealed) view class, and the returned
// router's state is attached to the given view instance. Unclaimed keys
// return false to the host, which falls back to the view's default
// handling.
func AttachKeyRouting(rt *hostrt.Runtime, view hostrt.Handle) *KeyRouter {
	state := &keyRouterState{}
	rt.Attach(view, TagKeys, state)
	return &KeyRouter{rt: rt, handle: view, state: state}
}

// BindKeyHandling installs the key-handling entry point on a class. View
// classes that want routed keys call this before sealing.
func BindKeyHandling(c *hostrt.Class) {
	c.Bind(SelKeyDown, hostrt.F2(keyDown), "Bqq")
}

// Handle returns the router's instance handle.
func (k *KeyRouter) Handle() hostrt.Handle {
	return k.handle
}

// OnSpace registers the space callback, replacing any previous one.
func (k *KeyRouter) OnSpace(fn func()) { k.state.onSpace = fn }

// OnReturn registers the return callback, replacing any previous one.
func (k *KeyRouter) OnReturn(fn func()) { k.state.onReturn = fn }

// OnDelete registers the delete callback, replacing any previous one.
func (k *KeyRouter) OnDelete(fn func()) { k.state.onDelete = fn }

// OnEscape registers the escape callback, replacing any previous one.
func (k *KeyRouter) OnEscape(fn func()) { k.state.onEscape = fn }

// OnUp registers the up-arrow callback, replacing any previous one.
func (k *KeyRouter) OnUp(fn func()) { k.state.onUp = fn }

// OnDown registers the down-arrow callback, replacing any previous one.
func (k *KeyRouter) OnDown(fn func()) { k.state.onDown = fn }

// OnLeft registers the left-arrow callback, replacing any previous one.
func (k *KeyRouter) OnLeft(fn func()) { k.state.onLeft = fn }

// OnRight registers the right-arrow callback, replacing any previous one.
func (k *KeyRouter) OnRight(fn func()) { k.state.onRight = fn }

// OnKey registers the generic catch-all, replacing any previous one.
// Returning true claims the event.
func (k *KeyRouter) OnKey(fn func(KeyEvent) bool) { k.state.onKey = fn }

// Close tears the monitor deployment down. For the view-override
// deployment the view owns its handle; only the router state detaches.
func (k *KeyRouter) Close() {
	k.state.onKey = nil
	closeAdapter(k.rt, k.handle, TagKeys)
}

// DetachFromView removes the router state from a view without releasing
// the view's handle.
func (k *KeyRouter) DetachFromView() {
	k.rt.Detach(k.handle, TagKeys)
}

// ---------------------------------------------------------------------------
// Trampoline
// ---------------------------------------------------------------------------

func keyRouterStateOf(rt *hostrt.Runtime, h hostrt.Handle) *keyRouterState {
	s, ok := rt.State(h, TagKeys)
	if !ok {
		return nil
	}
	return s.(*keyRouterState)
}

func keyDown(rt *hostrt.Runtime, recv hostrt.Handle, code, mods hostrt.Value) hostrt.Value {
	st := keyRouterStateOf(rt, recv)
	if st == nil {
		return hostrt.Bool(false)
	}
	handled := st.dispatch(KeyEvent{
		Code: KeyCode(code.Int()),
		Mods: Modifiers(mods.Int()),
	})
	return hostrt.Bool(handled)
}
