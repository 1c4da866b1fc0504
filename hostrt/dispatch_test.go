package hostrt

import "testing"

// newCounterClass registers a class with one int-returning selector and one
// void selector that records its argument.
func newCounterClass(t *testing.T, rt *Runtime, got *[]int64) *Class {
	t.Helper()
	c := rt.RegisterOrGet("Counter", nil)
	c.Bind("count", F0(func(rt *Runtime, r Handle) Value {
		return Int(int64(len(*got)))
	}), "q")
	c.Bind("record:", F1(func(rt *Runtime, r Handle, a Value) Value {
		*got = append(*got, a.Int())
		return Nil
	}), "vq")
	c.Seal()
	return c
}

// ---------------------------------------------------------------------------
// Dispatch tests
// ---------------------------------------------------------------------------

func TestSendRoundTrip(t *testing.T) {
	rt := NewRuntime()
	var got []int64
	c := newCounterClass(t, rt, &got)

	h, err := rt.NewInstance(c)
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}

	if n := rt.Send(h, "count").Int(); n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
	rt.Send(h, "record:", Int(7))
	rt.Send(h, "record:", Int(9))
	if n := rt.Send(h, "count").Int(); n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
	if got[0] != 7 || got[1] != 9 {
		t.Errorf("recorded %v, want [7 9]", got)
	}

	rt.Release(h)
}

func TestSendUnknownSelectorReturnsNil(t *testing.T) {
	rt := NewRuntime()
	var got []int64
	c := newCounterClass(t, rt, &got)
	h, _ := rt.NewInstance(c)
	defer rt.Release(h)

	if v := rt.Send(h, "nothingHere"); !v.IsNil() {
		t.Errorf("unknown selector returned %s, want nil", v)
	}
	if rt.Responds(h, "nothingHere") {
		t.Error("Responds should be false for unbound selector")
	}
	if !rt.Responds(h, "count") {
		t.Error("Responds should be true for bound selector")
	}
}

func TestSendEncodingMismatchPanics(t *testing.T) {
	rt := NewRuntime()
	var got []int64
	c := newCounterClass(t, rt, &got)
	h, _ := rt.NewInstance(c)
	defer rt.Release(h)

	defer func() {
		if recover() == nil {
			t.Error("arg kind mismatch should panic")
		}
	}()
	rt.Send(h, "record:", Str("not an int"))
}

func TestSendArgCountMismatchPanics(t *testing.T) {
	rt := NewRuntime()
	var got []int64
	c := newCounterClass(t, rt, &got)
	h, _ := rt.NewInstance(c)
	defer rt.Release(h)

	defer func() {
		if recover() == nil {
			t.Error("arg count mismatch should panic")
		}
	}()
	rt.Send(h, "record:")
}

func TestSendToReleasedHandlePanics(t *testing.T) {
	rt := NewRuntime()
	var got []int64
	c := newCounterClass(t, rt, &got)
	h, _ := rt.NewInstance(c)
	rt.Release(h)

	defer func() {
		if recover() == nil {
			t.Error("send to released handle should panic")
		}
	}()
	rt.Send(h, "count")
}

func TestNilAcceptedForIdentityArg(t *testing.T) {
	rt := NewRuntime()
	c := rt.RegisterOrGet("RootProbe", nil)
	c.Bind("childCount:", F1(func(rt *Runtime, r Handle, a Value) Value {
		if a.IsNil() {
			return Int(3) // root sentinel
		}
		return Int(0)
	}), "qQ")
	c.Seal()

	h, _ := rt.NewInstance(c)
	defer rt.Release(h)

	if n := rt.Send(h, "childCount:", Nil).Int(); n != 3 {
		t.Errorf("root childCount = %d, want 3", n)
	}
}

// ---------------------------------------------------------------------------
// Instance and associated-state lifecycle tests
// ---------------------------------------------------------------------------

func TestNewInstanceNilClass(t *testing.T) {
	rt := NewRuntime()
	if _, err := rt.NewInstance(nil); err == nil {
		t.Error("NewInstance(nil) should fail")
	}
}

func TestDoubleReleasePanics(t *testing.T) {
	rt := NewRuntime()
	h, _ := rt.NewInstance(rt.Root())
	rt.Release(h)

	defer func() {
		if recover() == nil {
			t.Error("double release should panic")
		}
	}()
	rt.Release(h)
}

func TestAssocAttachLookupDetach(t *testing.T) {
	rt := NewRuntime()
	h, _ := rt.NewInstance(rt.Root())

	type block struct{ n int }
	rt.Attach(h, 1, &block{n: 42})

	s, ok := rt.State(h, 1)
	if !ok {
		t.Fatal("State should find attached block")
	}
	if s.(*block).n != 42 {
		t.Errorf("state n = %d, want 42", s.(*block).n)
	}
	if _, ok := rt.State(h, 2); ok {
		t.Error("different tag should not collide")
	}

	rt.Detach(h, 1)
	if _, ok := rt.State(h, 1); ok {
		t.Error("State after Detach should miss")
	}
	rt.Release(h)
}

func TestMultiRoleTagsAreDisjoint(t *testing.T) {
	rt := NewRuntime()
	h, _ := rt.NewInstance(rt.Root())

	rt.Attach(h, 1, "outline")
	rt.Attach(h, 2, "drag")

	a, _ := rt.State(h, 1)
	b, _ := rt.State(h, 2)
	if a.(string) != "outline" || b.(string) != "drag" {
		t.Errorf("tag partition broken: %v / %v", a, b)
	}

	rt.Detach(h, 1)
	rt.Detach(h, 2)
	rt.Release(h)
}

func TestReleaseWithAttachedStatePanics(t *testing.T) {
	rt := NewRuntime()
	h, _ := rt.NewInstance(rt.Root())
	rt.Attach(h, 1, "block")

	defer func() {
		if recover() == nil {
			t.Error("release with live state should panic")
		}
		rt.Detach(h, 1)
		rt.Release(h)
	}()
	rt.Release(h)
}

func TestDoubleDetachPanics(t *testing.T) {
	rt := NewRuntime()
	h, _ := rt.NewInstance(rt.Root())
	rt.Attach(h, 1, "block")
	rt.Detach(h, 1)

	defer func() {
		if recover() == nil {
			t.Error("double detach should panic")
		}
		rt.Release(h)
	}()
	rt.Detach(h, 1)
}

func TestAttachOverwritePanics(t *testing.T) {
	rt := NewRuntime()
	h, _ := rt.NewInstance(rt.Root())
	rt.Attach(h, 1, "first")

	defer func() {
		if recover() == nil {
			t.Error("colliding attach should panic")
		}
		rt.Detach(h, 1)
		rt.Release(h)
	}()
	rt.Attach(h, 1, "second")
}
