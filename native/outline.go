package native

import (
	"github.com/skylightui/skylight/hostrt"
)

// Selector names of the hierarchical list protocol.
const (
	SelOutlineChildCount = "outlineChildCount:"
	SelOutlineChildAt    = "outlineChild:at:"
	SelOutlineExpandable = "outlineExpandable:"
	SelOutlineValue      = "outlineValue:"
	SelOutlineSelect     = "outlineSelect:"
)

const outlineClassName = "SkylightOutlineSource"

// Item is one leaf row of a sidebar section.
type Item struct {
	ID    string
	Label string
	Icon  string
	Badge string
}

// Section is one top-level group of the sidebar hierarchy. Items are
// leaves: they have no children and are never expandable.
type Section struct {
	ID    string
	Label string
	Icon  string
	Items []Item
}

// outlineState is the per-instance state block (TagOutline).
type outlineState struct {
	sections []Section
	epoch    uint16

	onSelect func(itemID string)
}

// Outline adapts a two-level section/item model to the host's hierarchical
// list protocol. The host traverses it through value-encoded identities;
// replacing the data invalidates all outstanding identities wholesale (a
// full reload, never an incremental patch).
type Outline struct {
	rt     *hostrt.Runtime
	handle hostrt.Handle
	state  *outlineState
}

// NewOutline registers the outline class on first use and creates a fresh
// adapter instance with empty data.
func NewOutline(rt *hostrt.Runtime) (*Outline, error) {
	class := ensureClass(rt, outlineClassName, bindOutline)
	state := &outlineState{}
	h, err := newAdapterInstance(rt, class, TagOutline, state)
	if err != nil {
		return nil, err
	}
	return &Outline{rt: rt, handle: h, state: state}, nil
}

// Handle returns the instance handle the host attaches to its list view.
func (o *Outline) Handle() hostrt.Handle {
	return o.handle
}

// SetSections replaces the backing data and starts a new reload cycle:
// every identity minted before this call decodes as stale afterwards.
func (o *Outline) SetSections(sections []Section) {
	o.state.sections = sections
	o.state.epoch++
}

// Sections returns the current backing data.
func (o *Outline) Sections() []Section {
	return o.state.sections
}

// OnSelect registers the selection callback. One subscriber per adapter:
// registering again replaces the previous callback.
func (o *Outline) OnSelect(fn func(itemID string)) {
	o.state.onSelect = fn
}

// Close tears the adapter down: state detaches before the handle is
// released, so no traversal can ever observe freed state.
func (o *Outline) Close() {
	o.state.onSelect = nil
	closeAdapter(o.rt, o.handle, TagOutline)
}

// ---------------------------------------------------------------------------
// Trampolines
// ---------------------------------------------------------------------------

func bindOutline(c *hostrt.Class) {
	c.Bind(SelOutlineChildCount, hostrt.F1(outlineChildCount), "qQ")
	c.Bind(SelOutlineChildAt, hostrt.F2(outlineChildAt), "QQq")
	c.Bind(SelOutlineExpandable, hostrt.F1(outlineExpandable), "BQ")
	c.Bind(SelOutlineValue, hostrt.F1(outlineValue), "*Q")
	c.Bind(SelOutlineSelect, hostrt.F1(outlineSelect), "vQ")
}

func outlineStateOf(rt *hostrt.Runtime, h hostrt.Handle) *outlineState {
	s, ok := rt.State(h, TagOutline)
	if !ok {
		return nil
	}
	return s.(*outlineState)
}

// resolve decodes an identity argument against the current reload cycle.
// Stale or foreign identities resolve to nothing; the protocol is
// non-throwing, so every trampoline degrades to zero/none.
func (st *outlineState) resolve(v hostrt.Value) (ItemID, bool) {
	id, ok := identFrom(v)
	if !ok {
		return 0, false
	}
	if id.Epoch() != st.epoch {
		log.Debugf("stale outline identity %#x (epoch %d, current %d)",
			uint64(id), id.Epoch(), st.epoch)
		return 0, false
	}
	if id.Section() >= len(st.sections) {
		return 0, false
	}
	if id.IsItem() && id.Item() >= len(st.sections[id.Section()].Items) {
		return 0, false
	}
	return id, true
}

// outlineChildCount answers the root sentinel with the section count, a
// section identity with its item count, and anything else with zero.
func outlineChildCount(rt *hostrt.Runtime, recv hostrt.Handle, ident hostrt.Value) hostrt.Value {
	st := outlineStateOf(rt, recv)
	if st == nil {
		return hostrt.Int(0)
	}
	if ident.IsNil() {
		return hostrt.Int(int64(len(st.sections)))
	}
	id, ok := st.resolve(ident)
	if !ok || id.IsItem() {
		return hostrt.Int(0)
	}
	return hostrt.Int(int64(len(st.sections[id.Section()].Items)))
}

// outlineChildAt returns the identity of child idx under the given parent,
// or nil when out of range.
func outlineChildAt(rt *hostrt.Runtime, recv hostrt.Handle, ident, idx hostrt.Value) hostrt.Value {
	st := outlineStateOf(rt, recv)
	if st == nil {
		return hostrt.Nil
	}
	i := int(idx.Int())
	if i < 0 {
		return hostrt.Nil
	}
	if ident.IsNil() {
		if i >= len(st.sections) {
			return hostrt.Nil
		}
		return SectionID(st.epoch, i).Value()
	}
	id, ok := st.resolve(ident)
	if !ok || id.IsItem() {
		return hostrt.Nil
	}
	if i >= len(st.sections[id.Section()].Items) {
		return hostrt.Nil
	}
	return ItemLeafID(st.epoch, id.Section(), i).Value()
}

// outlineExpandable is true only for a section with at least one item.
func outlineExpandable(rt *hostrt.Runtime, recv hostrt.Handle, ident hostrt.Value) hostrt.Value {
	st := outlineStateOf(rt, recv)
	if st == nil {
		return hostrt.Bool(false)
	}
	id, ok := st.resolve(ident)
	if !ok || id.IsItem() {
		return hostrt.Bool(false)
	}
	return hostrt.Bool(len(st.sections[id.Section()].Items) > 0)
}

// outlineValue returns the display label for an identity.
func outlineValue(rt *hostrt.Runtime, recv hostrt.Handle, ident hostrt.Value) hostrt.Value {
	st := outlineStateOf(rt, recv)
	if st == nil {
		return hostrt.Str("")
	}
	id, ok := st.resolve(ident)
	if !ok {
		return hostrt.Str("")
	}
	sec := st.sections[id.Section()]
	if id.IsSection() {
		return hostrt.Str(sec.Label)
	}
	return hostrt.Str(sec.Items[id.Item()].Label)
}

// outlineSelect decodes the selected identity and invokes the registered
// selection callback with the item's declared ID.
func outlineSelect(rt *hostrt.Runtime, recv hostrt.Handle, ident hostrt.Value) hostrt.Value {
	st := outlineStateOf(rt, recv)
	if st == nil || st.onSelect == nil {
		return hostrt.Nil
	}
	id, ok := st.resolve(ident)
	if !ok || !id.IsItem() {
		return hostrt.Nil
	}
	st.onSelect(st.sections[id.Section()].Items[id.Item()].ID)
	return hostrt.Nil
}
