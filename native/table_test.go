package native

import (
	"testing"

	"github.com/skylightui/skylight/hostrt"
)

func tableFixture() []Row {
	return []Row{
		{ID: "r1", Cells: []string{"one", "1"}},
		{ID: "r2", Cells: []string{"two", "2"}},
	}
}

// ---------------------------------------------------------------------------
// Table adapter tests
// ---------------------------------------------------------------------------

func TestTableQueries(t *testing.T) {
	rt := hostrt.NewRuntime()
	tbl, err := NewTable(rt)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	defer tbl.Close()
	tbl.SetRows(tableFixture())
	h := tbl.Handle()

	if n := rt.Send(h, SelTableRowCount).Int(); n != 2 {
		t.Errorf("row count = %d, want 2", n)
	}
	if s := rt.Send(h, SelTableValueAt, hostrt.Int(1), hostrt.Int(0)).Str(); s != "two" {
		t.Errorf("cell(1,0) = %q", s)
	}
	if s := rt.Send(h, SelTableValueAt, hostrt.Int(5), hostrt.Int(0)).Str(); s != "" {
		t.Errorf("out-of-range row = %q, want empty", s)
	}
	if s := rt.Send(h, SelTableValueAt, hostrt.Int(0), hostrt.Int(9)).Str(); s != "" {
		t.Errorf("out-of-range col = %q, want empty", s)
	}
}

func TestTableColumns(t *testing.T) {
	rt := hostrt.NewRuntime()
	tbl, _ := NewTable(rt)
	defer tbl.Close()
	h := tbl.Handle()

	// No declared columns: every query answers zero/empty.
	if n := rt.Send(h, SelTableColumnCount).Int(); n != 0 {
		t.Errorf("empty column count = %d", n)
	}

	tbl.SetColumns([]Column{
		{ID: "title", Title: "Title", Width: 320},
		{ID: "size", Title: "Size", Width: 80},
	})
	if n := rt.Send(h, SelTableColumnCount).Int(); n != 2 {
		t.Errorf("column count = %d, want 2", n)
	}
	if s := rt.Send(h, SelTableColumnTitle, hostrt.Int(1)).Str(); s != "Size" {
		t.Errorf("column title = %q", s)
	}
	if w := rt.Send(h, SelTableColumnWidth, hostrt.Int(0)).Int(); w != 320 {
		t.Errorf("column width = %d", w)
	}
	if s := rt.Send(h, SelTableColumnTitle, hostrt.Int(9)).Str(); s != "" {
		t.Errorf("out-of-range title = %q, want empty", s)
	}
	if w := rt.Send(h, SelTableColumnWidth, hostrt.Int(-1)).Int(); w != 0 {
		t.Errorf("negative width = %d, want 0", w)
	}
}

func TestTableSelection(t *testing.T) {
	rt := hostrt.NewRuntime()
	tbl, _ := NewTable(rt)
	defer tbl.Close()
	tbl.SetRows(tableFixture())

	var selected []string
	tbl.OnSelect(func(id string) { selected = append(selected, id) })

	rt.Send(tbl.Handle(), SelTableSelect, hostrt.Int(1))
	rt.Send(tbl.Handle(), SelTableSelect, hostrt.Int(99)) // ignored

	if len(selected) != 1 || selected[0] != "r2" {
		t.Errorf("selected = %v, want [r2]", selected)
	}
}

func TestTableAndOutlineShareInstanceTags(t *testing.T) {
	// One runtime hosting both adapter kinds: their state blocks live under
	// disjoint tags and never collide.
	rt := hostrt.NewRuntime()
	o, _ := NewOutline(rt)
	tbl, _ := NewTable(rt)
	o.SetSections(sidebarFixture())
	tbl.SetRows(tableFixture())

	if n := rt.Send(o.Handle(), SelOutlineChildCount, hostrt.Nil).Int(); n != 2 {
		t.Errorf("outline sections = %d, want 2", n)
	}
	if n := rt.Send(tbl.Handle(), SelTableRowCount).Int(); n != 2 {
		t.Errorf("table rows = %d, want 2", n)
	}

	tbl.Close()
	o.Close()
}
