// Package window is the thin native-window plumbing: one window class and
// one embedded web view class, both dispatched through the host runtime
// like every other protocol adapter.
package window

import (
	"github.com/tliron/commonlog"

	"github.com/skylightui/skylight/hostrt"
)

var log = commonlog.GetLogger("skylight.window")

// State tags, disjoint from the protocol adapter tags.
const (
	tagWindow  hostrt.Tag = 16
	tagWebView hostrt.Tag = 17
)

// Selector names the host sends at the window and its web view.
const (
	SelWindowShouldClose = "windowShouldClose"
	SelWindowDidResize   = "windowDidResize:height:"
	SelWindowDidMove     = "windowDidMove:y:"
	SelPointerEntered    = "pointerEntered"
	SelPointerExited     = "pointerExited"

	SelWebViewDidFinish = "webViewDidFinishLoad"
	SelWebViewDidFail   = "webViewDidFailLoad:"
)

const (
	windowClassName  = "SkylightWindow"
	webViewClassName = "SkylightWebView"
)

// Config describes the single application window.
type Config struct {
	Title      string
	Width      int
	Height     int
	MinWidth   int
	MinHeight  int
	Background Color
	URL        string
}

// Frame is the window's position and size in screen points.
type Frame struct {
	X, Y, W, H int
}

type windowState struct {
	title      string
	frame      Frame
	minW, minH int
	background Color

	visible       bool
	pointerInside bool

	onClose  func() bool
	onResize func(w, h int)
	onMove   func(x, y int)
}

type webViewState struct {
	url   string
	ready bool

	onReady func()
	onFail  func(reason string)
}

// Window owns the native window instance and its embedded web view.
type Window struct {
	rt      *hostrt.Runtime
	handle  hostrt.Handle
	webview hostrt.Handle
	state   *windowState
	web     *webViewState
	closed  bool
}

// New registers the window classes on first use and creates the window
// with its web view pointed at cfg.URL.
func New(rt *hostrt.Runtime, cfg Config) (*Window, error) {
	wc := ensureClass(rt, windowClassName, bindWindow)
	vc := ensureClass(rt, webViewClassName, bindWebView)

	ws := &windowState{
		title:      cfg.Title,
		frame:      Frame{W: cfg.Width, H: cfg.Height},
		minW:       cfg.MinWidth,
		minH:       cfg.MinHeight,
		background: cfg.Background,
	}
	vs := &webViewState{url: cfg.URL}

	wh, err := rt.NewInstance(wc)
	if err != nil {
		return nil, err
	}
	vh, err := rt.NewInstance(vc)
	if err != nil {
		rt.Release(wh)
		return nil, err
	}
	rt.Attach(wh, tagWindow, ws)
	rt.Attach(vh, tagWebView, vs)

	return &Window{rt: rt, handle: wh, webview: vh, state: ws, web: vs}, nil
}

// Handle returns the window instance handle.
func (w *Window) Handle() hostrt.Handle { return w.handle }

// WebViewHandle returns the embedded web view instance handle.
func (w *Window) WebViewHandle() hostrt.Handle { return w.webview }

// Title returns the configured window title.
func (w *Window) Title() string { return w.state.title }

// Background returns the configured background color.
func (w *Window) Background() Color { return w.state.background }

// Frame returns the last reported window frame.
func (w *Window) Frame() Frame { return w.state.frame }

// SetFrame records a restored frame, for example from saved UI state.
// Sizes below the configured minimum are clamped.
func (w *Window) SetFrame(f Frame) {
	if f.W < w.state.minW {
		f.W = w.state.minW
	}
	if f.H < w.state.minH {
		f.H = w.state.minH
	}
	w.state.frame = f
}

// Show marks the window visible.
func (w *Window) Show() {
	if w.state.visible {
		return
	}
	w.state.visible = true
	log.Debugf("window %q shown at %dx%d", w.state.title, w.state.frame.W, w.state.frame.H)
}

// Visible reports whether the window has been shown and not yet closed.
func (w *Window) Visible() bool { return w.state.visible && !w.closed }

// PointerInside reports whether the pointer was last seen inside the
// window. Drag sources consult this when computing operation masks.
func (w *Window) PointerInside() bool { return w.state.pointerInside }

// URL returns the web view's current location.
func (w *Window) URL() string { return w.web.url }

// Ready reports whether the web view has finished loading.
func (w *Window) Ready() bool { return w.web.ready }

// Navigate points the web view at a new location and clears the ready flag
// until the host reports the load finished.
func (w *Window) Navigate(url string) {
	w.web.url = url
	w.web.ready = false
}

// OnClose registers the close veto callback. Returning false keeps the
// window open. One subscriber: registering again replaces the previous.
func (w *Window) OnClose(fn func() bool) { w.state.onClose = fn }

// OnResize registers the resize observer.
func (w *Window) OnResize(fn func(width, height int)) { w.state.onResize = fn }

// OnMove registers the move observer.
func (w *Window) OnMove(fn func(x, y int)) { w.state.onMove = fn }

// OnReady registers the web view load-finished observer.
func (w *Window) OnReady(fn func()) { w.web.onReady = fn }

// OnLoadFail registers the web view load-failure observer.
func (w *Window) OnLoadFail(fn func(reason string)) { w.web.onFail = fn }

// Close tears the window down: web view first, then the window itself.
// Closing twice is a no-op.
func (w *Window) Close() {
	if w.closed {
		return
	}
	w.closed = true
	w.state.visible = false
	w.rt.Detach(w.webview, tagWebView)
	w.rt.Release(w.webview)
	w.rt.Detach(w.handle, tagWindow)
	w.rt.Release(w.handle)
}

// ---------------------------------------------------------------------------
// Trampolines
// ---------------------------------------------------------------------------

func ensureClass(rt *hostrt.Runtime, name string, bind func(c *hostrt.Class)) *hostrt.Class {
	if c := rt.LookupClass(name); c != nil {
		return c
	}
	c := rt.RegisterOrGet(name, nil)
	bind(c)
	c.Seal()
	return c
}

func bindWindow(c *hostrt.Class) {
	c.Bind(SelWindowShouldClose, hostrt.F0(windowShouldClose), "B")
	c.Bind(SelWindowDidResize, hostrt.F2(windowDidResize), "vqq")
	c.Bind(SelWindowDidMove, hostrt.F2(windowDidMove), "vqq")
	c.Bind(SelPointerEntered, hostrt.F0(pointerEntered), "v")
	c.Bind(SelPointerExited, hostrt.F0(pointerExited), "v")
}

func bindWebView(c *hostrt.Class) {
	c.Bind(SelWebViewDidFinish, hostrt.F0(webViewDidFinish), "v")
	c.Bind(SelWebViewDidFail, hostrt.F1(webViewDidFail), "v*")
}

func windowStateOf(rt *hostrt.Runtime, h hostrt.Handle) *windowState {
	s, ok := rt.State(h, tagWindow)
	if !ok {
		return nil
	}
	return s.(*windowState)
}

func webViewStateOf(rt *hostrt.Runtime, h hostrt.Handle) *webViewState {
	s, ok := rt.State(h, tagWebView)
	if !ok {
		return nil
	}
	return s.(*webViewState)
}

// windowShouldClose consults the veto callback; without one the window
// always closes.
func windowShouldClose(rt *hostrt.Runtime, recv hostrt.Handle) hostrt.Value {
	st := windowStateOf(rt, recv)
	if st == nil || st.onClose == nil {
		return hostrt.Bool(true)
	}
	return hostrt.Bool(st.onClose())
}

func windowDidResize(rt *hostrt.Runtime, recv hostrt.Handle, width, height hostrt.Value) hostrt.Value {
	st := windowStateOf(rt, recv)
	if st == nil {
		return hostrt.Nil
	}
	st.frame.W = int(width.Int())
	st.frame.H = int(height.Int())
	if st.onResize != nil {
		st.onResize(st.frame.W, st.frame.H)
	}
	return hostrt.Nil
}

func windowDidMove(rt *hostrt.Runtime, recv hostrt.Handle, x, y hostrt.Value) hostrt.Value {
	st := windowStateOf(rt, recv)
	if st == nil {
		return hostrt.Nil
	}
	st.frame.X = int(x.Int())
	st.frame.Y = int(y.Int())
	if st.onMove != nil {
		st.onMove(st.frame.X, st.frame.Y)
	}
	return hostrt.Nil
}

func pointerEntered(rt *hostrt.Runtime, recv hostrt.Handle) hostrt.Value {
	if st := windowStateOf(rt, recv); st != nil {
		st.pointerInside = true
	}
	return hostrt.Nil
}

func pointerExited(rt *hostrt.Runtime, recv hostrt.Handle) hostrt.Value {
	if st := windowStateOf(rt, recv); st != nil {
		st.pointerInside = false
	}
	return hostrt.Nil
}

func webViewDidFinish(rt *hostrt.Runtime, recv hostrt.Handle) hostrt.Value {
	st := webViewStateOf(rt, recv)
	if st == nil {
		return hostrt.Nil
	}
	st.ready = true
	if st.onReady != nil {
		st.onReady()
	}
	return hostrt.Nil
}

func webViewDidFail(rt *hostrt.Runtime, recv hostrt.Handle, reason hostrt.Value) hostrt.Value {
	st := webViewStateOf(rt, recv)
	if st == nil {
		return hostrt.Nil
	}
	st.ready = false
	log.Warningf("web view load failed: %s", reason.Str())
	if st.onFail != nil {
		st.onFail(reason.Str())
	}
	return hostrt.Nil
}
