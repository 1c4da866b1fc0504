package native

import (
	"testing"

	"github.com/skylightui/skylight/hostrt"
)

func sendKey(rt *hostrt.Runtime, h hostrt.Handle, code KeyCode, mods Modifiers) bool {
	return rt.Send(h, SelKeyDown, hostrt.Int(int64(code)), hostrt.Int(int64(mods))).Bool()
}

// ---------------------------------------------------------------------------
// Key router tests
// ---------------------------------------------------------------------------

func TestKeyMonitorNamedCallbacks(t *testing.T) {
	rt := hostrt.NewRuntime()
	k, err := NewKeyMonitor(rt)
	if err != nil {
		t.Fatalf("NewKeyMonitor: %v", err)
	}
	defer k.Close()

	hits := make(map[string]int)
	k.OnSpace(func() { hits["space"]++ })
	k.OnReturn(func() { hits["return"]++ })
	k.OnDelete(func() { hits["delete"]++ })
	k.OnEscape(func() { hits["escape"]++ })
	k.OnUp(func() { hits["up"]++ })
	k.OnDown(func() { hits["down"]++ })
	k.OnLeft(func() { hits["left"]++ })
	k.OnRight(func() { hits["right"]++ })

	keys := map[string]KeyCode{
		"space": KeySpace, "return": KeyReturn, "delete": KeyDelete,
		"escape": KeyEscape, "up": KeyUp, "down": KeyDown,
		"left": KeyLeft, "right": KeyRight,
	}
	for name, code := range keys {
		if !sendKey(rt, k.Handle(), code, 0) {
			t.Errorf("%s should be claimed", name)
		}
		if hits[name] != 1 {
			t.Errorf("%s fired %d times, want 1", name, hits[name])
		}
	}
}

func TestKeyCatchAllClaims(t *testing.T) {
	rt := hostrt.NewRuntime()
	k, _ := NewKeyMonitor(rt)
	defer k.Close()

	var got KeyEvent
	k.OnKey(func(ev KeyEvent) bool {
		got = ev
		return ev.Mods.Has(ModCommand)
	})

	// cmd+<other key>: claimed.
	if !sendKey(rt, k.Handle(), 45, ModCommand) {
		t.Error("catch-all claiming should suppress further handling")
	}
	if got.Code != 45 || !got.Mods.Has(ModCommand) {
		t.Errorf("catch-all saw %+v", got)
	}
	// plain <other key>: unclaimed, host falls back.
	if sendKey(rt, k.Handle(), 45, 0) {
		t.Error("unclaimed key should report unhandled")
	}
}

func TestKeyUnhandledWithoutCallbacks(t *testing.T) {
	rt := hostrt.NewRuntime()
	k, _ := NewKeyMonitor(rt)
	defer k.Close()

	if sendKey(rt, k.Handle(), KeySpace, 0) {
		t.Error("space without a callback should fall through to the catch-all path and report unhandled")
	}
}

func TestKeyCodeForName(t *testing.T) {
	cases := []struct {
		name string
		code KeyCode
	}{
		{"space", KeySpace},
		{"return", KeyReturn},
		{"enter", KeyReturn},
		{"delete", KeyDelete},
		{"escape", KeyEscape},
		{"esc", KeyEscape},
		{"left", KeyLeft},
		{"n", 45},
		{"p", 35},
		{"0", 29},
	}
	for _, c := range cases {
		code, ok := KeyCodeForName(c.name)
		if !ok || code != c.code {
			t.Errorf("KeyCodeForName(%q) = %d, %v; want %d", c.name, code, ok, c.code)
		}
	}
	if _, ok := KeyCodeForName("hyperspace"); ok {
		t.Error("unknown key name should report false")
	}
}

func TestKeyRoutingOnViewClass(t *testing.T) {
	rt := hostrt.NewRuntime()

	// A specialized list view overrides its key-handling entry point and
	// routes through the same dispatch as the monitor.
	c := rt.RegisterOrGet("SidebarListView", nil)
	BindKeyHandling(c)
	c.Seal()

	view, err := rt.NewInstance(c)
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	k := AttachKeyRouting(rt, view)

	downs := 0
	k.OnDown(func() { downs++ })

	if !sendKey(rt, view, KeyDown, 0) {
		t.Error("down arrow should be claimed by the view router")
	}
	if downs != 1 {
		t.Errorf("down fired %d times, want 1", downs)
	}
	// Unclaimed key falls back to the view's default handling.
	if sendKey(rt, view, 12, 0) {
		t.Error("unclaimed key should report unhandled")
	}

	k.DetachFromView()
	rt.Release(view)
}

func TestKeyCallbackReplaces(t *testing.T) {
	rt := hostrt.NewRuntime()
	k, _ := NewKeyMonitor(rt)
	defer k.Close()

	first, second := 0, 0
	k.OnSpace(func() { first++ })
	k.OnSpace(func() { second++ })
	sendKey(rt, k.Handle(), KeySpace, 0)
	if first != 0 || second != 1 {
		t.Errorf("first/second = %d/%d, want 0/1", first, second)
	}
}
