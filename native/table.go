package native

import (
	"github.com/skylightui/skylight/hostrt"
)

// Selector names of the flat table protocol.
const (
	SelTableRowCount    = "tableRowCount"
	SelTableValueAt     = "tableValue:col:"
	SelTableSelect      = "tableSelect:"
	SelTableColumnCount = "tableColumnCount"
	SelTableColumnTitle = "tableColumnTitle:"
	SelTableColumnWidth = "tableColumnWidth:"
)

const tableClassName = "SkylightTableSource"

// Column is one declared table column. Cell order in Row follows the
// column order.
type Column struct {
	ID    string
	Title string
	Width int
}

// Row is one table row: a stable ID plus one cell string per column.
type Row struct {
	ID    string
	Cells []string
}

type tableState struct {
	cols []Column
	rows []Row

	onSelect func(rowID string)
}

// Table adapts a flat row list to the host's table protocol. Rows are
// addressed by index; out-of-range queries answer zero/empty, matching the
// host's non-throwing data-source contract.
type Table struct {
	rt     *hostrt.Runtime
	handle hostrt.Handle
	state  *tableState
}

// NewTable registers the table class on first use and creates an empty
// adapter instance.
func NewTable(rt *hostrt.Runtime) (*Table, error) {
	class := ensureClass(rt, tableClassName, bindTable)
	state := &tableState{}
	h, err := newAdapterInstance(rt, class, TagTable, state)
	if err != nil {
		return nil, err
	}
	return &Table{rt: rt, handle: h, state: state}, nil
}

// Handle returns the instance handle the host attaches to its table view.
func (t *Table) Handle() hostrt.Handle {
	return t.handle
}

// SetColumns replaces the declared columns; the host is expected to
// rebuild the table view.
func (t *Table) SetColumns(cols []Column) {
	t.state.cols = cols
}

// Columns returns the declared columns.
func (t *Table) Columns() []Column {
	return t.state.cols
}

// SetRows replaces the backing rows; the host is expected to reload.
func (t *Table) SetRows(rows []Row) {
	t.state.rows = rows
}

// Rows returns the current backing rows.
func (t *Table) Rows() []Row {
	return t.state.rows
}

// OnSelect registers the row selection callback, replacing any previous one.
func (t *Table) OnSelect(fn func(rowID string)) {
	t.state.onSelect = fn
}

// Close detaches state and releases the instance handle.
func (t *Table) Close() {
	t.state.onSelect = nil
	closeAdapter(t.rt, t.handle, TagTable)
}

// ---------------------------------------------------------------------------
// Trampolines
// ---------------------------------------------------------------------------

func bindTable(c *hostrt.Class) {
	c.Bind(SelTableRowCount, hostrt.F0(tableRowCount), "q")
	c.Bind(SelTableValueAt, hostrt.F2(tableValueAt), "*qq")
	c.Bind(SelTableSelect, hostrt.F1(tableSelect), "vq")
	c.Bind(SelTableColumnCount, hostrt.F0(tableColumnCount), "q")
	c.Bind(SelTableColumnTitle, hostrt.F1(tableColumnTitle), "*q")
	c.Bind(SelTableColumnWidth, hostrt.F1(tableColumnWidth), "qq")
}

func tableStateOf(rt *hostrt.Runtime, h hostrt.Handle) *tableState {
	s, ok := rt.State(h, TagTable)
	if !ok {
		return nil
	}
	return s.(*tableState)
}

func tableRowCount(rt *hostrt.Runtime, recv hostrt.Handle) hostrt.Value {
	st := tableStateOf(rt, recv)
	if st == nil {
		return hostrt.Int(0)
	}
	return hostrt.Int(int64(len(st.rows)))
}

func tableValueAt(rt *hostrt.Runtime, recv hostrt.Handle, row, col hostrt.Value) hostrt.Value {
	st := tableStateOf(rt, recv)
	if st == nil {
		return hostrt.Str("")
	}
	r, c := int(row.Int()), int(col.Int())
	if r < 0 || r >= len(st.rows) {
		return hostrt.Str("")
	}
	cells := st.rows[r].Cells
	if c < 0 || c >= len(cells) {
		return hostrt.Str("")
	}
	return hostrt.Str(cells[c])
}

func tableColumnCount(rt *hostrt.Runtime, recv hostrt.Handle) hostrt.Value {
	st := tableStateOf(rt, recv)
	if st == nil {
		return hostrt.Int(0)
	}
	return hostrt.Int(int64(len(st.cols)))
}

func tableColumnTitle(rt *hostrt.Runtime, recv hostrt.Handle, col hostrt.Value) hostrt.Value {
	st := tableStateOf(rt, recv)
	if st == nil {
		return hostrt.Str("")
	}
	c := int(col.Int())
	if c < 0 || c >= len(st.cols) {
		return hostrt.Str("")
	}
	return hostrt.Str(st.cols[c].Title)
}

func tableColumnWidth(rt *hostrt.Runtime, recv hostrt.Handle, col hostrt.Value) hostrt.Value {
	st := tableStateOf(rt, recv)
	if st == nil {
		return hostrt.Int(0)
	}
	c := int(col.Int())
	if c < 0 || c >= len(st.cols) {
		return hostrt.Int(0)
	}
	return hostrt.Int(int64(st.cols[c].Width))
}

func tableSelect(rt *hostrt.Runtime, recv hostrt.Handle, row hostrt.Value) hostrt.Value {
	st := tableStateOf(rt, recv)
	if st == nil || st.onSelect == nil {
		return hostrt.Nil
	}
	r := int(row.Int())
	if r < 0 || r >= len(st.rows) {
		return hostrt.Nil
	}
	st.onSelect(st.rows[r].ID)
	return hostrt.Nil
}
