package native

import (
	"github.com/skylightui/skylight/hostrt"
)

// Selector names of the preview-panel protocol.
const (
	SelPreviewCount     = "previewItemCount"
	SelPreviewPathAt    = "previewPathAt:"
	SelPreviewTitleAt   = "previewTitleAt:"
	SelPreviewCurrent   = "previewCurrentIndex"
	SelPreviewDismissed = "previewDismissed"
)

const previewClassName = "SkylightPreviewController"

// PreviewItem is one entry of the preview panel's ordered item list.
type PreviewItem struct {
	ID       string
	FilePath string
	Title    string
}

type previewState struct {
	items   []PreviewItem
	current int
	visible bool

	// generation counts reload requests; the host re-queries count and
	// items whenever it observes a new generation.
	generation uint64

	onVisibility func(visible bool)
}

// Preview owns the quick-preview panel's item list and current index. The
// panel queries the controller on every show and refresh; item data is
// answered by value, so nothing handed to the host outlives the controller
// ambiguously.
//
// Visibility is derived from the dismissal notification rather than from
// the Close call alone: the host sends previewDismissed for user-initiated
// dismissal, and Close routes through the same path, so the externally
// observable open flag has a single source of truth.
type Preview struct {
	rt     *hostrt.Runtime
	handle hostrt.Handle
	state  *previewState
}

// NewPreview registers the preview controller class on first use and
// creates a closed panel controller with no items.
func NewPreview(rt *hostrt.Runtime) (*Preview, error) {
	class := ensureClass(rt, previewClassName, bindPreview)
	state := &previewState{}
	h, err := newAdapterInstance(rt, class, TagPreview, state)
	if err != nil {
		return nil, err
	}
	return &Preview{rt: rt, handle: h, state: state}, nil
}

// Handle returns the controller's instance handle.
func (p *Preview) Handle() hostrt.Handle {
	return p.handle
}

// SetItems replaces the ordered item list. The current index is clamped
// into the new list; the host re-queries on the next show or refresh.
func (p *Preview) SetItems(items []PreviewItem) {
	st := p.state
	st.items = items
	if st.current >= len(items) {
		st.current = 0
	}
	st.generation++
}

// Items returns the current item list.
func (p *Preview) Items() []PreviewItem {
	return p.state.items
}

// Show opens the panel. The host observes the new generation and queries
// the item count and items.
func (p *Preview) Show() {
	st := p.state
	if st.visible {
		return
	}
	st.visible = true
	st.generation++
	if st.onVisibility != nil {
		st.onVisibility(true)
	}
}

// Close closes the panel. Programmatic close is folded through the same
// dismissal path the host uses, so the visible flag cannot desync from a
// host that skips the notification for programmatic closes.
func (p *Preview) Close() {
	if !p.state.visible {
		return
	}
	p.rt.Send(p.handle, SelPreviewDismissed)
}

// Toggle shows the panel when closed and closes it when visible.
func (p *Preview) Toggle() {
	if p.state.visible {
		p.Close()
	} else {
		p.Show()
	}
}

// Visible reports whether the panel is open. The flag is maintained by the
// dismissal notification, not by Close itself.
func (p *Preview) Visible() bool {
	return p.state.visible
}

// SetCurrentIndex moves the panel to the item at i. Out-of-range indexes
// are ignored.
func (p *Preview) SetCurrentIndex(i int) {
	if i < 0 || i >= len(p.state.items) {
		log.Debugf("preview index %d out of range (%d items)", i, len(p.state.items))
		return
	}
	p.state.current = i
}

// CurrentIndex returns the panel's current item index.
func (p *Preview) CurrentIndex() int {
	return p.state.current
}

// Refresh forces the panel to re-query count and items by bumping the
// generation the host watches.
func (p *Preview) Refresh() {
	p.state.generation++
}

// Generation returns the reload counter the host compares against.
func (p *Preview) Generation() uint64 {
	return p.state.generation
}

// OnVisibility registers the visibility callback, replacing any previous
// one. It fires on show and on dismissal, whether user- or app-initiated.
func (p *Preview) OnVisibility(fn func(visible bool)) {
	p.state.onVisibility = fn
}

// CloseAdapter tears the controller down (state first, then handle).
func (p *Preview) CloseAdapter() {
	p.state.onVisibility = nil
	closeAdapter(p.rt, p.handle, TagPreview)
}

// ---------------------------------------------------------------------------
// Trampolines
// ---------------------------------------------------------------------------

func bindPreview(c *hostrt.Class) {
	c.Bind(SelPreviewCount, hostrt.F0(previewCount), "q")
	c.Bind(SelPreviewPathAt, hostrt.F1(previewPathAt), "*q")
	c.Bind(SelPreviewTitleAt, hostrt.F1(previewTitleAt), "*q")
	c.Bind(SelPreviewCurrent, hostrt.F0(previewCurrent), "q")
	c.Bind(SelPreviewDismissed, hostrt.F0(previewDismissed), "v")
}

func previewStateOf(rt *hostrt.Runtime, h hostrt.Handle) *previewState {
	s, ok := rt.State(h, TagPreview)
	if !ok {
		return nil
	}
	return s.(*previewState)
}

func previewCount(rt *hostrt.Runtime, recv hostrt.Handle) hostrt.Value {
	st := previewStateOf(rt, recv)
	if st == nil {
		return hostrt.Int(0)
	}
	return hostrt.Int(int64(len(st.items)))
}

func previewPathAt(rt *hostrt.Runtime, recv hostrt.Handle, idx hostrt.Value) hostrt.Value {
	st := previewStateOf(rt, recv)
	if st == nil {
		return hostrt.Str("")
	}
	i := int(idx.Int())
	if i < 0 || i >= len(st.items) {
		return hostrt.Str("")
	}
	return hostrt.Str(st.items[i].FilePath)
}

func previewTitleAt(rt *hostrt.Runtime, recv hostrt.Handle, idx hostrt.Value) hostrt.Value {
	st := previewStateOf(rt, recv)
	if st == nil {
		return hostrt.Str("")
	}
	i := int(idx.Int())
	if i < 0 || i >= len(st.items) {
		return hostrt.Str("")
	}
	return hostrt.Str(st.items[i].Title)
}

func previewCurrent(rt *hostrt.Runtime, recv hostrt.Handle) hostrt.Value {
	st := previewStateOf(rt, recv)
	if st == nil {
		return hostrt.Int(0)
	}
	return hostrt.Int(int64(st.current))
}

// previewDismissed is the single path that turns the visible flag off,
// for user-driven dismissal and programmatic Close alike.
func previewDismissed(rt *hostrt.Runtime, recv hostrt.Handle) hostrt.Value {
	st := previewStateOf(rt, recv)
	if st == nil || !st.visible {
		return hostrt.Nil
	}
	st.visible = false
	if st.onVisibility != nil {
		st.onVisibility(false)
	}
	return hostrt.Nil
}
