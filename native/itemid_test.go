package native

import "testing"

// ---------------------------------------------------------------------------
// Identity encoding tests
// ---------------------------------------------------------------------------

func TestItemIDRoundTrip(t *testing.T) {
	shapes := []struct{ s, i int }{
		{0, 0},
		{1, 2},
		{7, 0},
		{MaxSections - 1, 0},
		{0, MaxItems - 1},
		{MaxSections - 1, MaxItems - 1},
	}
	for _, sh := range shapes {
		id := ItemLeafID(3, sh.s, sh.i)
		if !id.IsItem() {
			t.Errorf("(%d,%d): not an item identity", sh.s, sh.i)
		}
		if id.Section() != sh.s || id.Item() != sh.i {
			t.Errorf("(%d,%d) decoded as (%d,%d)", sh.s, sh.i, id.Section(), id.Item())
		}
		if id.Epoch() != 3 {
			t.Errorf("(%d,%d): epoch = %d, want 3", sh.s, sh.i, id.Epoch())
		}
	}
}

func TestSectionIDRoundTrip(t *testing.T) {
	for _, s := range []int{0, 1, 42, MaxSections - 1} {
		id := SectionID(9, s)
		if !id.IsSection() || id.IsItem() {
			t.Errorf("section %d: wrong kind", s)
		}
		if id.Section() != s {
			t.Errorf("section %d decoded as %d", s, id.Section())
		}
		if id.Epoch() != 9 {
			t.Errorf("section %d: epoch = %d, want 9", s, id.Epoch())
		}
	}
}

func TestItemIDValueEquality(t *testing.T) {
	// Two identities minted in separate calls for the same tuple must be
	// equal; the host's expand/selection bookkeeping depends on it.
	a := ItemLeafID(1, 4, 2)
	b := ItemLeafID(1, 4, 2)
	if a != b {
		t.Error("identical tuples should encode identically")
	}
	if a.Value() != b.Value() {
		t.Error("wrapped identities should compare equal")
	}
	if ItemLeafID(2, 4, 2) == a {
		t.Error("different epochs must not compare equal")
	}
	if SectionID(1, 4) == ItemID(uint64(ItemLeafID(1, 4, 0))) {
		t.Error("section and item identities must differ")
	}
}

func TestItemIDMarker(t *testing.T) {
	if !IsItemID(uint64(SectionID(0, 0))) {
		t.Error("section identity should carry the marker")
	}
	if IsItemID(0) {
		t.Error("zero word should not look like an identity")
	}
	if IsItemID(0xFFFFFFFFFFFFFFFF) {
		t.Error("all-ones word should not look like an identity")
	}
}
