package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/skylightui/skylight/native"
)

const sample = `
[app]
name = "Notes"
id = "com.example.notes"
version = "0.3.0"

[window]
title = "Notes"
width = 1100
height = 720
background = "#1e1e24"
url = "http://127.0.0.1:8400/"

[bridge]
listen = "127.0.0.1:8400"

[[sidebar.section]]
id = "favorites"
title = "Favorites"

  [[sidebar.section.item]]
  id = "fav-inbox"
  title = "Inbox"
  icon = "tray"

  [[sidebar.section.item]]
  id = "fav-today"
  title = "Today"
  badge = "4"

[[sidebar.section]]
id = "tags"
title = "Tags"

[[menu]]
id = "open"
title = "Open"
shortcut = "cmd+o"

[[menu]]
separator = true

[[menu]]
id = "share"
title = "Share"

  [[menu.item]]
  id = "share-mail"
  title = "Mail"

[preview]
enabled = true

  [[preview.item]]
  id = "readme"
  path = "docs/readme.pdf"
  title = "Read Me"

  [[preview.item]]
  id = "logo"
  path = "/assets/logo.png"

[[column]]
id = "title"
title = "Title"
width = 320

[keys]
preview = "space"
delete-item = "cmd+delete"
`

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "skylight.toml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeManifest(t, sample)
	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if m.App.Name != "Notes" || m.App.ID != "com.example.notes" {
		t.Errorf("app = %+v", m.App)
	}
	if m.Window.Width != 1100 || m.Window.Height != 720 {
		t.Errorf("window = %+v", m.Window)
	}
	if m.Window.MinWidth != 480 {
		t.Errorf("min-width default = %d, want 480", m.Window.MinWidth)
	}
	if len(m.Sidebar.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(m.Sidebar.Sections))
	}
	if m.Sidebar.Sections[0].Items[1].Badge != "4" {
		t.Error("badge not parsed")
	}
	if !m.Preview.Enabled {
		t.Error("preview should be enabled")
	}
	if len(m.Preview.Items) != 2 {
		t.Errorf("preview items = %d, want 2", len(m.Preview.Items))
	}
	if len(m.Table) != 1 || m.Table[0].Width != 320 {
		t.Errorf("columns = %+v", m.Table)
	}
	if m.Keys.Preview != "space" {
		t.Errorf("keys = %+v", m.Keys)
	}
	if m.Dir != dir {
		t.Errorf("Dir = %q, want %q", m.Dir, dir)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := writeManifest(t, "[app]\nname = \"Bare\"\n")
	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Window.Title != "Bare" {
		t.Errorf("window title should default to app name, got %q", m.Window.Title)
	}
	if m.Window.Width != 1024 || m.Window.Height != 700 {
		t.Errorf("window defaults = %dx%d", m.Window.Width, m.Window.Height)
	}
	if m.Bridge.Listen != "127.0.0.1:8400" {
		t.Errorf("bridge default = %q", m.Bridge.Listen)
	}
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	dir := writeManifest(t, `
[[sidebar.section]]
id = "a"
title = "A"
  [[sidebar.section.item]]
  id = "a"
  title = "Dup"
`)
	if _, err := Load(dir); err == nil {
		t.Fatal("duplicate sidebar ids should be rejected")
	}
}

func TestLoadRejectsDeepSubmenu(t *testing.T) {
	dir := writeManifest(t, `
[[menu]]
id = "a"
title = "A"
  [[menu.item]]
  id = "b"
  title = "B"
    [[menu.item.item]]
    id = "c"
    title = "C"
`)
	if _, err := Load(dir); err == nil {
		t.Fatal("submenu nesting past one level should be rejected")
	}
}

func TestFindAndLoadWalksUp(t *testing.T) {
	dir := writeManifest(t, sample)
	nested := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad: %v", err)
	}
	if m == nil || m.Dir != dir {
		t.Fatalf("FindAndLoad found %+v, want manifest at %q", m, dir)
	}
}

func TestSidebarSections(t *testing.T) {
	dir := writeManifest(t, sample)
	m, _ := Load(dir)

	secs := m.SidebarSections()
	if len(secs) != 2 {
		t.Fatalf("sections = %d, want 2", len(secs))
	}
	want := native.Item{ID: "fav-inbox", Label: "Inbox", Icon: "tray"}
	if secs[0].Items[0] != want {
		t.Errorf("item = %+v, want %+v", secs[0].Items[0], want)
	}
	if len(secs[1].Items) != 0 {
		t.Error("empty section should convert with no items")
	}
}

func TestPreviewItems(t *testing.T) {
	dir := writeManifest(t, sample)
	m, _ := Load(dir)

	items := m.PreviewItems()
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	want := native.PreviewItem{
		ID:       "readme",
		FilePath: filepath.Join(dir, "docs", "readme.pdf"),
		Title:    "Read Me",
	}
	if items[0] != want {
		t.Errorf("item = %+v, want %+v", items[0], want)
	}
	if items[1].FilePath != "/assets/logo.png" {
		t.Errorf("absolute path should pass through, got %q", items[1].FilePath)
	}
}

func TestLoadRejectsPreviewItemWithoutPath(t *testing.T) {
	dir := writeManifest(t, `
[preview]
enabled = true
  [[preview.item]]
  id = "x"
  title = "No Path"
`)
	if _, err := Load(dir); err == nil {
		t.Fatal("preview item without a path should be rejected")
	}
}

func TestTableColumns(t *testing.T) {
	dir := writeManifest(t, sample)
	m, _ := Load(dir)

	cols := m.TableColumns()
	if len(cols) != 1 {
		t.Fatalf("columns = %d, want 1", len(cols))
	}
	want := native.Column{ID: "title", Title: "Title", Width: 320}
	if cols[0] != want {
		t.Errorf("column = %+v, want %+v", cols[0], want)
	}
}

func TestMenuNodes(t *testing.T) {
	dir := writeManifest(t, sample)
	m, _ := Load(dir)

	nodes := m.MenuNodes()
	if len(nodes) != 3 {
		t.Fatalf("nodes = %d, want 3", len(nodes))
	}
	if nodes[0].Shortcut != "cmd+o" || !nodes[0].Enabled {
		t.Errorf("open node = %+v", nodes[0])
	}
	if nodes[1].Kind != native.MenuSeparator {
		t.Error("second node should be a separator")
	}
	if nodes[2].Kind != native.MenuSubmenu || len(nodes[2].Submenu) != 1 {
		t.Errorf("share node = %+v", nodes[2])
	}
}
