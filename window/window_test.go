package window

import (
	"testing"

	"github.com/skylightui/skylight/hostrt"
)

func testConfig() Config {
	return Config{
		Title:      "Notes",
		Width:      1100,
		Height:     720,
		MinWidth:   640,
		MinHeight:  400,
		Background: ParseColor("#1e1e24"),
		URL:        "http://127.0.0.1:8400/",
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want Color
	}{
		{"#1e1e24", Color{0x1e, 0x1e, 0x24, 0xff}},
		{"1e1e24", Color{0x1e, 0x1e, 0x24, 0xff}},
		{"#ABC", Color{0xaa, 0xbb, 0xcc, 0xff}},
		{"#11223344", Color{0x11, 0x22, 0x33, 0x44}},
		{"white", Color{0xff, 0xff, 0xff, 0xff}},
		{"CLEAR", Color{0, 0, 0, 0}},
		{"", DefaultBackground},
		{"#xyz", DefaultBackground},
		{"#12345", DefaultBackground},
		{"not-a-color", DefaultBackground},
	}
	for _, c := range cases {
		if got := ParseColor(c.in); got != c.want {
			t.Errorf("ParseColor(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestColorString(t *testing.T) {
	if s := (Color{0x1e, 0x1e, 0x24, 0xff}).String(); s != "#1e1e24ff" {
		t.Errorf("String = %q", s)
	}
}

func TestWindowLifecycle(t *testing.T) {
	rt := hostrt.NewRuntime()
	w, err := New(rt, testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if w.Visible() {
		t.Error("new window should not be visible")
	}
	w.Show()
	if !w.Visible() {
		t.Error("Show should make the window visible")
	}
	if w.Frame().W != 1100 || w.Frame().H != 720 {
		t.Errorf("frame = %+v", w.Frame())
	}

	w.Close()
	if w.Visible() {
		t.Error("Close should hide the window")
	}
	w.Close() // second close is a no-op
}

func TestWindowResizeMoveNotifications(t *testing.T) {
	rt := hostrt.NewRuntime()
	w, _ := New(rt, testConfig())
	defer w.Close()

	var gotW, gotH, gotX, gotY int
	w.OnResize(func(width, height int) { gotW, gotH = width, height })
	w.OnMove(func(x, y int) { gotX, gotY = x, y })

	rt.Send(w.Handle(), SelWindowDidResize, hostrt.Int(900), hostrt.Int(600))
	rt.Send(w.Handle(), SelWindowDidMove, hostrt.Int(40), hostrt.Int(80))

	if gotW != 900 || gotH != 600 {
		t.Errorf("resize observer got %dx%d", gotW, gotH)
	}
	if gotX != 40 || gotY != 80 {
		t.Errorf("move observer got %d,%d", gotX, gotY)
	}
	if (w.Frame() != Frame{X: 40, Y: 80, W: 900, H: 600}) {
		t.Errorf("frame = %+v", w.Frame())
	}
}

func TestWindowSetFrameClampsToMinimum(t *testing.T) {
	rt := hostrt.NewRuntime()
	w, _ := New(rt, testConfig())
	defer w.Close()

	w.SetFrame(Frame{X: 10, Y: 10, W: 100, H: 100})
	if w.Frame().W != 640 || w.Frame().H != 400 {
		t.Errorf("restored frame %+v should clamp to minimum", w.Frame())
	}
}

func TestWindowShouldCloseVeto(t *testing.T) {
	rt := hostrt.NewRuntime()
	w, _ := New(rt, testConfig())
	defer w.Close()

	if !rt.Send(w.Handle(), SelWindowShouldClose).Bool() {
		t.Error("without a veto callback the window should close")
	}
	w.OnClose(func() bool { return false })
	if rt.Send(w.Handle(), SelWindowShouldClose).Bool() {
		t.Error("veto callback should keep the window open")
	}
}

func TestWindowPointerTracking(t *testing.T) {
	rt := hostrt.NewRuntime()
	w, _ := New(rt, testConfig())
	defer w.Close()

	if w.PointerInside() {
		t.Error("pointer starts outside")
	}
	rt.Send(w.Handle(), SelPointerEntered)
	if !w.PointerInside() {
		t.Error("pointer should be inside after enter")
	}
	rt.Send(w.Handle(), SelPointerExited)
	if w.PointerInside() {
		t.Error("pointer should be outside after exit")
	}
}

func TestWebViewLoadTracking(t *testing.T) {
	rt := hostrt.NewRuntime()
	w, _ := New(rt, testConfig())
	defer w.Close()

	ready := 0
	var failReason string
	w.OnReady(func() { ready++ })
	w.OnLoadFail(func(reason string) { failReason = reason })

	if w.Ready() {
		t.Error("web view starts not ready")
	}
	rt.Send(w.WebViewHandle(), SelWebViewDidFinish)
	if !w.Ready() || ready != 1 {
		t.Errorf("ready = %v, observer fired %d times", w.Ready(), ready)
	}

	w.Navigate("http://127.0.0.1:8400/other")
	if w.Ready() {
		t.Error("Navigate should clear the ready flag")
	}
	rt.Send(w.WebViewHandle(), SelWebViewDidFail, hostrt.Str("connection refused"))
	if failReason != "connection refused" {
		t.Errorf("fail reason = %q", failReason)
	}
}
