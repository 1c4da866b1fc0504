package native

import (
	"github.com/skylightui/skylight/hostrt"
)

// Selector names of the context-menu protocol.
const (
	SelMenuClicked   = "menuItemClicked:"
	SelMenuDismissed = "menuDismissed"
)

const menuClassName = "SkylightMenuController"

// MenuKind distinguishes the three node shapes a declarative menu supports.
type MenuKind int

const (
	MenuNormal MenuKind = iota
	MenuSeparator
	MenuSubmenu
)

// MenuNode is one declarative menu entry. Submenus nest one level: a
// submenu's children must be normal items or separators.
type MenuNode struct {
	ID       string
	Title    string
	Icon     string
	Shortcut string
	Enabled  bool
	Kind     MenuKind
	Submenu  []MenuNode
}

// BuiltItem is one emitted menu row. Clickable rows carry a sequential
// integer tag; separators and submenu headers carry no tag and can never be
// clicked.
type BuiltItem struct {
	Tag       int64 // -1 when untagged
	Title     string
	Icon      string
	Shortcut  Shortcut
	Enabled   bool
	Separator bool
	Indent    int
}

type menuState struct {
	built []BuiltItem
	tags  map[int64]string // tag -> declared node ID
	open  bool

	targetID   string
	targetKind string

	onAction func(itemID, targetID, targetKind string)
}

// Menu builds host menus from declarative node lists and routes clicks back
// through a single action callback. State machine: Closed -> Open (Show) ->
// Closed (click or dismissal); showing while already open replaces the
// displayed menu.
type Menu struct {
	rt     *hostrt.Runtime
	handle hostrt.Handle
	state  *menuState
}

// NewMenu registers the menu controller class on first use and creates an
// instance with no items.
func NewMenu(rt *hostrt.Runtime) (*Menu, error) {
	class := ensureClass(rt, menuClassName, bindMenu)
	state := &menuState{tags: make(map[int64]string)}
	h, err := newAdapterInstance(rt, class, TagMenu, state)
	if err != nil {
		return nil, err
	}
	return &Menu{rt: rt, handle: h, state: state}, nil
}

// Handle returns the controller's instance handle.
func (m *Menu) Handle() hostrt.Handle {
	return m.handle
}

// Build compiles the declarative nodes into emitted rows, assigning
// sequential tags to clickable items and recording the tag-to-ID side
// table. Rebuilding discards the previous rows and table.
func (m *Menu) Build(nodes []MenuNode) {
	st := m.state
	st.built = st.built[:0]
	st.tags = make(map[int64]string)
	nextTag := int64(1)

	emit := func(n MenuNode, indent int) {
		switch n.Kind {
		case MenuSeparator:
			st.built = append(st.built, BuiltItem{Tag: -1, Separator: true, Indent: indent})
		default:
			tag := nextTag
			nextTag++
			st.tags[tag] = n.ID
			st.built = append(st.built, BuiltItem{
				Tag:      tag,
				Title:    n.Title,
				Icon:     n.Icon,
				Shortcut: ParseShortcut(n.Shortcut),
				Enabled:  n.Enabled,
				Indent:   indent,
			})
		}
	}

	for _, n := range nodes {
		if n.Kind == MenuSubmenu {
			// Submenu headers are containers, not click targets.
			st.built = append(st.built, BuiltItem{
				Tag:     -1,
				Title:   n.Title,
				Icon:    n.Icon,
				Enabled: n.Enabled,
			})
			for _, child := range n.Submenu {
				if child.Kind == MenuSubmenu {
					log.Warningf("menu %q: nested submenu %q flattened, one level supported",
						n.ID, child.ID)
					child.Kind = MenuNormal
				}
				emit(child, 1)
			}
			continue
		}
		emit(n, 0)
	}
}

// Items returns the emitted rows for the host to render.
func (m *Menu) Items() []BuiltItem {
	return m.state.built
}

// Show opens the menu against a target. Showing while open replaces the
// currently displayed menu, keeping the state machine in Open.
func (m *Menu) Show(targetID, targetKind string) {
	st := m.state
	if st.open {
		log.Debugf("menu replaced while open (target %s)", targetID)
	}
	st.open = true
	st.targetID = targetID
	st.targetKind = targetKind
}

// Open reports whether the menu is currently displayed.
func (m *Menu) Open() bool {
	return m.state.open
}

// OnAction registers the single action callback, replacing any previous
// one. It receives the clicked item's declared ID plus the target the menu
// was shown against.
func (m *Menu) OnAction(fn func(itemID, targetID, targetKind string)) {
	m.state.onAction = fn
}

// Close detaches state and releases the controller handle.
func (m *Menu) Close() {
	m.state.onAction = nil
	closeAdapter(m.rt, m.handle, TagMenu)
}

// ---------------------------------------------------------------------------
// Trampolines
// ---------------------------------------------------------------------------

func bindMenu(c *hostrt.Class) {
	c.Bind(SelMenuClicked, hostrt.F1(menuClicked), "vq")
	c.Bind(SelMenuDismissed, hostrt.F0(menuDismissed), "v")
}

func menuStateOf(rt *hostrt.Runtime, h hostrt.Handle) *menuState {
	s, ok := rt.State(h, TagMenu)
	if !ok {
		return nil
	}
	return s.(*menuState)
}

// menuClicked resolves the clicked tag through the side table and invokes
// the action callback. Tags with no mapping (separators, stale menus) are
// ignored; a click always closes the menu.
func menuClicked(rt *hostrt.Runtime, recv hostrt.Handle, tag hostrt.Value) hostrt.Value {
	st := menuStateOf(rt, recv)
	if st == nil || !st.open {
		return hostrt.Nil
	}
	st.open = false
	id, ok := st.tags[tag.Int()]
	if !ok {
		log.Debugf("menu click on unmapped tag %d", tag.Int())
		return hostrt.Nil
	}
	if st.onAction != nil {
		st.onAction(id, st.targetID, st.targetKind)
	}
	return hostrt.Nil
}

// menuDismissed closes the menu without invoking the action callback.
func menuDismissed(rt *hostrt.Runtime, recv hostrt.Handle) hostrt.Value {
	st := menuStateOf(rt, recv)
	if st != nil {
		st.open = false
	}
	return hostrt.Nil
}
