package native

import (
	"errors"

	"github.com/google/uuid"

	"github.com/skylightui/skylight/hostrt"
)

// Operation is the drag operation bit-mask.
type Operation uint8

const (
	OpNone Operation = 0
	OpCopy Operation = 1 << 0
	OpMove Operation = 1 << 1
)

// ErrDragActive indicates a drag session was started while the previous one
// had not yet ended; session state is freed exactly once at session end and
// only then may another session begin.
var ErrDragActive = errors.New("drag session already active")

// Selector names of the drag protocol, source and destination sides.
const (
	SelDragSourceMask = "dragSourceOperationMask:"
	SelDragEnded      = "draggingEnded:"
	SelDragEntered    = "draggingEntered:"
	SelDragUpdated    = "draggingUpdated:"
	SelDragExited     = "draggingExited"
	SelDragPerform    = "performDrop:"
)

const (
	dragSourceClassName = "SkylightDragSource"
	dragDestClassName   = "SkylightDragDestination"
)

// DragSession is one drag gesture from begin to end. Exactly one begin and
// one end happen per session.
type DragSession struct {
	ID       string
	SourceID string
	ItemIDs  []string
	Allowed  Operation
}

type dragSourceState struct {
	session *DragSession

	// pointerInOrigin reports whether the pointer is inside the window the
	// drag started from. Inside allows copy+move, outside copy only.
	pointerInOrigin func() bool

	onBegin func(*DragSession)
	onEnd   func(*DragSession, Operation)
}

// DragSource owns the source side of the drag state machine:
// Idle -> Dragging (Begin) -> Idle (host reports the gesture end, with an
// accepted operation or OpNone for a cancelled drag).
type DragSource struct {
	rt     *hostrt.Runtime
	handle hostrt.Handle
	state  *dragSourceState
}

// NewDragSource registers the source class on first use and creates an
// idle source adapter.
func NewDragSource(rt *hostrt.Runtime) (*DragSource, error) {
	class := ensureClass(rt, dragSourceClassName, bindDragSource)
	state := &dragSourceState{}
	h, err := newAdapterInstance(rt, class, TagDragSrc, state)
	if err != nil {
		return nil, err
	}
	return &DragSource{rt: rt, handle: h, state: state}, nil
}

// Handle returns the source's instance handle.
func (d *DragSource) Handle() hostrt.Handle {
	return d.handle
}

// SetPointerLocator registers the predicate deciding whether the pointer is
// inside the originating window. Without one the source assumes inside.
func (d *DragSource) SetPointerLocator(fn func() bool) {
	d.state.pointerInOrigin = fn
}

// OnBegin registers the session-begin callback, replacing any previous one.
func (d *DragSource) OnBegin(fn func(*DragSession)) {
	d.state.onBegin = fn
}

// OnEnd registers the session-end callback, replacing any previous one.
// A cancelled drag ends with OpNone.
func (d *DragSource) OnEnd(fn func(*DragSession, Operation)) {
	d.state.onEnd = fn
}

// Begin starts a drag session for the given ordered items. The begin
// callback fires exactly once per session, here; starting while a session
// is live fails with ErrDragActive.
func (d *DragSource) Begin(sourceID string, itemIDs []string) (*DragSession, error) {
	st := d.state
	if st.session != nil {
		return nil, ErrDragActive
	}
	ids := make([]string, len(itemIDs))
	copy(ids, itemIDs)
	st.session = &DragSession{
		ID:       uuid.NewString(),
		SourceID: sourceID,
		ItemIDs:  ids,
		Allowed:  OpCopy | OpMove,
	}
	if st.onBegin != nil {
		st.onBegin(st.session)
	}
	return st.session, nil
}

// Session returns the live session, or nil when idle.
func (d *DragSource) Session() *DragSession {
	return d.state.session
}

// Close detaches state and releases the handle. Closing with a live
// session drops it without an end callback; callers should let the gesture
// finish first.
func (d *DragSource) Close() {
	if d.state.session != nil {
		log.Warningf("drag source closed with live session %s", d.state.session.ID)
		d.state.session = nil
	}
	d.state.onBegin = nil
	d.state.onEnd = nil
	closeAdapter(d.rt, d.handle, TagDragSrc)
}

// ---------------------------------------------------------------------------
// Source trampolines
// ---------------------------------------------------------------------------

func bindDragSource(c *hostrt.Class) {
	c.Bind(SelDragSourceMask, hostrt.F1(dragSourceMask), "qB")
	c.Bind(SelDragEnded, hostrt.F1(dragEnded), "vq")
}

func dragSourceStateOf(rt *hostrt.Runtime, h hostrt.Handle) *dragSourceState {
	s, ok := rt.State(h, TagDragSrc)
	if !ok {
		return nil
	}
	return s.(*dragSourceState)
}

// dragSourceMask answers the host's operation-mask query. The mask depends
// on where the pointer is: inside the originating window both copy and
// move are allowed, outside only copy.
func dragSourceMask(rt *hostrt.Runtime, recv hostrt.Handle, inOrigin hostrt.Value) hostrt.Value {
	st := dragSourceStateOf(rt, recv)
	if st == nil || st.session == nil {
		return hostrt.Int(int64(OpNone))
	}
	inside := inOrigin.Bool()
	if st.pointerInOrigin != nil {
		inside = st.pointerInOrigin()
	}
	mask := OpCopy
	if inside {
		mask |= OpMove
	}
	st.session.Allowed = mask
	return hostrt.Int(int64(mask))
}

// dragEnded closes the session: the end callback fires exactly once and
// session state is freed before another session can start.
func dragEnded(rt *hostrt.Runtime, recv hostrt.Handle, op hostrt.Value) hostrt.Value {
	st := dragSourceStateOf(rt, recv)
	if st == nil || st.session == nil {
		log.Debugf("drag end with no live session")
		return hostrt.Nil
	}
	session := st.session
	st.session = nil
	if st.onEnd != nil {
		st.onEnd(session, Operation(op.Int()))
	}
	return hostrt.Nil
}

// ---------------------------------------------------------------------------
// Destination side
// ---------------------------------------------------------------------------

// DragInfo describes an in-flight drag as seen by a destination.
type DragInfo struct {
	Proposed Operation
}

type dragDestState struct {
	onEnter   func(DragInfo) Operation
	onUpdate  func(DragInfo) Operation
	onExit    func()
	onPerform func(DragInfo) bool
}

// DragDestination answers the host's enter/update/exit/perform queries for
// a drop target. Without registered handlers every query accepts copy+move
// and every drop succeeds.
type DragDestination struct {
	rt     *hostrt.Runtime
	handle hostrt.Handle
	state  *dragDestState
}

// NewDragDestination registers the destination class on first use and
// creates an adapter with default-accept behavior.
func NewDragDestination(rt *hostrt.Runtime) (*DragDestination, error) {
	class := ensureClass(rt, dragDestClassName, bindDragDest)
	state := &dragDestState{}
	h, err := newAdapterInstance(rt, class, TagDragDest, state)
	if err != nil {
		return nil, err
	}
	return &DragDestination{rt: rt, handle: h, state: state}, nil
}

// Handle returns the destination's instance handle.
func (d *DragDestination) Handle() hostrt.Handle {
	return d.handle
}

// OnEnter registers the enter predicate, replacing any previous one.
func (d *DragDestination) OnEnter(fn func(DragInfo) Operation) {
	d.state.onEnter = fn
}

// OnUpdate registers the update predicate, replacing any previous one.
func (d *DragDestination) OnUpdate(fn func(DragInfo) Operation) {
	d.state.onUpdate = fn
}

// OnExit registers the exit callback, replacing any previous one.
func (d *DragDestination) OnExit(fn func()) {
	d.state.onExit = fn
}

// OnPerform registers the drop handler, replacing any previous one.
func (d *DragDestination) OnPerform(fn func(DragInfo) bool) {
	d.state.onPerform = fn
}

// Close detaches state and releases the handle.
func (d *DragDestination) Close() {
	d.state.onEnter = nil
	d.state.onUpdate = nil
	d.state.onExit = nil
	d.state.onPerform = nil
	closeAdapter(d.rt, d.handle, TagDragDest)
}

// ---------------------------------------------------------------------------
// Destination trampolines
// ---------------------------------------------------------------------------

func bindDragDest(c *hostrt.Class) {
	c.Bind(SelDragEntered, hostrt.F1(dragEntered), "qq")
	c.Bind(SelDragUpdated, hostrt.F1(dragUpdated), "qq")
	c.Bind(SelDragExited, hostrt.F0(dragExited), "v")
	c.Bind(SelDragPerform, hostrt.F1(dragPerform), "Bq")
}

func dragDestStateOf(rt *hostrt.Runtime, h hostrt.Handle) *dragDestState {
	s, ok := rt.State(h, TagDragDest)
	if !ok {
		return nil
	}
	return s.(*dragDestState)
}

func dragEntered(rt *hostrt.Runtime, recv hostrt.Handle, proposed hostrt.Value) hostrt.Value {
	st := dragDestStateOf(rt, recv)
	if st == nil || st.onEnter == nil {
		return hostrt.Int(int64(OpCopy | OpMove))
	}
	return hostrt.Int(int64(st.onEnter(DragInfo{Proposed: Operation(proposed.Int())})))
}

func dragUpdated(rt *hostrt.Runtime, recv hostrt.Handle, proposed hostrt.Value) hostrt.Value {
	st := dragDestStateOf(rt, recv)
	if st == nil || st.onUpdate == nil {
		return hostrt.Int(int64(OpCopy | OpMove))
	}
	return hostrt.Int(int64(st.onUpdate(DragInfo{Proposed: Operation(proposed.Int())})))
}

func dragExited(rt *hostrt.Runtime, recv hostrt.Handle) hostrt.Value {
	st := dragDestStateOf(rt, recv)
	if st != nil && st.onExit != nil {
		st.onExit()
	}
	return hostrt.Nil
}

func dragPerform(rt *hostrt.Runtime, recv hostrt.Handle, proposed hostrt.Value) hostrt.Value {
	st := dragDestStateOf(rt, recv)
	if st == nil || st.onPerform == nil {
		return hostrt.Bool(true)
	}
	return hostrt.Bool(st.onPerform(DragInfo{Proposed: Operation(proposed.Int())}))
}
