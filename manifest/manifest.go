// Package manifest handles skylight.toml application configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/skylightui/skylight/native"
)

// Manifest represents a skylight.toml application configuration.
type Manifest struct {
	App     App       `toml:"app"`
	Window  Window    `toml:"window"`
	Bridge  Bridge    `toml:"bridge"`
	Sidebar Sidebar   `toml:"sidebar"`
	Menu    []Menu    `toml:"menu"`
	Preview Preview   `toml:"preview"`
	Table   []Column  `toml:"column"`
	Keys    Shortcuts `toml:"keys"`

	// Dir is the directory containing the skylight.toml file (set at load time).
	Dir string `toml:"-"`
}

// App contains application metadata.
type App struct {
	Name    string `toml:"name"`
	ID      string `toml:"id"`
	Version string `toml:"version"`
}

// Window configures the single application window.
type Window struct {
	Title      string `toml:"title"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	MinWidth   int    `toml:"min-width"`
	MinHeight  int    `toml:"min-height"`
	Background string `toml:"background"`
	URL        string `toml:"url"`
}

// Bridge configures the web-content bridge endpoint.
type Bridge struct {
	Listen string `toml:"listen"`
}

// Sidebar declares the hierarchical source list.
type Sidebar struct {
	Sections []Section `toml:"section"`
}

// Section is one top-level sidebar group.
type Section struct {
	ID    string `toml:"id"`
	Title string `toml:"title"`
	Icon  string `toml:"icon"`
	Items []Item `toml:"item"`
}

// Item is one leaf row inside a sidebar section.
type Item struct {
	ID    string `toml:"id"`
	Title string `toml:"title"`
	Icon  string `toml:"icon"`
	Badge string `toml:"badge"`
}

// Menu is one context-menu entry. Submenus nest one level via Items;
// Separator and Items are mutually exclusive with an actionable entry.
type Menu struct {
	ID        string `toml:"id"`
	Title     string `toml:"title"`
	Icon      string `toml:"icon"`
	Shortcut  string `toml:"shortcut"`
	Disabled  bool   `toml:"disabled"`
	Separator bool   `toml:"separator"`
	Items     []Menu `toml:"item"`
}

// Preview configures the quick-look style preview panel and its initial
// item list.
type Preview struct {
	Enabled bool          `toml:"enabled"`
	Items   []PreviewItem `toml:"item"`
}

// PreviewItem is one previewable file declared in the manifest.
type PreviewItem struct {
	ID    string `toml:"id"`
	Path  string `toml:"path"`
	Title string `toml:"title"`
}

// Column declares one flat-table column.
type Column struct {
	ID    string `toml:"id"`
	Title string `toml:"title"`
	Width int    `toml:"width"`
}

// Shortcuts maps app actions to keystroke strings ("cmd+shift+n").
type Shortcuts struct {
	NewItem    string `toml:"new-item"`
	DeleteItem string `toml:"delete-item"`
	Preview    string `toml:"preview"`
	Search     string `toml:"search"`
}

// Load parses a skylight.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "skylight.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	m.applyDefaults()
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return &m, nil
}

// FindAndLoad walks up from startDir to find a skylight.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "skylight.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

func (m *Manifest) applyDefaults() {
	if m.App.Name == "" {
		m.App.Name = "Skylight"
	}
	if m.Window.Title == "" {
		m.Window.Title = m.App.Name
	}
	if m.Window.Width <= 0 {
		m.Window.Width = 1024
	}
	if m.Window.Height <= 0 {
		m.Window.Height = 700
	}
	if m.Window.MinWidth <= 0 {
		m.Window.MinWidth = 480
	}
	if m.Window.MinHeight <= 0 {
		m.Window.MinHeight = 320
	}
	if m.Bridge.Listen == "" {
		m.Bridge.Listen = "127.0.0.1:8400"
	}
}

func (m *Manifest) validate() error {
	seen := make(map[string]bool)
	for _, s := range m.Sidebar.Sections {
		if s.ID == "" {
			return fmt.Errorf("sidebar section %q has no id", s.Title)
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate sidebar id %q", s.ID)
		}
		seen[s.ID] = true
		for _, it := range s.Items {
			if it.ID == "" {
				return fmt.Errorf("sidebar item %q in section %q has no id", it.Title, s.ID)
			}
			if seen[it.ID] {
				return fmt.Errorf("duplicate sidebar id %q", it.ID)
			}
			seen[it.ID] = true
		}
	}
	for _, e := range m.Menu {
		if err := validateMenu(e, true); err != nil {
			return err
		}
	}
	for _, it := range m.Preview.Items {
		if it.ID == "" || it.Path == "" {
			return fmt.Errorf("preview item %q needs both id and path", it.Title)
		}
	}
	for _, c := range m.Table {
		if c.ID == "" {
			return fmt.Errorf("column %q has no id", c.Title)
		}
	}
	return nil
}

func validateMenu(e Menu, allowSub bool) error {
	if e.Separator {
		return nil
	}
	if e.ID == "" && len(e.Items) == 0 {
		return fmt.Errorf("menu entry %q has no id", e.Title)
	}
	if len(e.Items) > 0 && !allowSub {
		return fmt.Errorf("menu entry %q nests deeper than one submenu level", e.Title)
	}
	for _, c := range e.Items {
		if err := validateMenu(c, false); err != nil {
			return err
		}
	}
	return nil
}

// SidebarSections converts the declared sidebar to the adapter model.
func (m *Manifest) SidebarSections() []native.Section {
	out := make([]native.Section, 0, len(m.Sidebar.Sections))
	for _, s := range m.Sidebar.Sections {
		sec := native.Section{ID: s.ID, Label: s.Title, Icon: s.Icon}
		for _, it := range s.Items {
			sec.Items = append(sec.Items, native.Item{
				ID:    it.ID,
				Label: it.Title,
				Icon:  it.Icon,
				Badge: it.Badge,
			})
		}
		out = append(out, sec)
	}
	return out
}

// MenuNodes converts the declared context menu to the adapter model.
func (m *Manifest) MenuNodes() []native.MenuNode {
	return menuNodes(m.Menu)
}

func menuNodes(entries []Menu) []native.MenuNode {
	out := make([]native.MenuNode, 0, len(entries))
	for _, e := range entries {
		switch {
		case e.Separator:
			out = append(out, native.MenuNode{Kind: native.MenuSeparator})
		case len(e.Items) > 0:
			out = append(out, native.MenuNode{
				ID:      e.ID,
				Title:   e.Title,
				Icon:    e.Icon,
				Enabled: !e.Disabled,
				Kind:    native.MenuSubmenu,
				Submenu: menuNodes(e.Items),
			})
		default:
			out = append(out, native.MenuNode{
				ID:       e.ID,
				Title:    e.Title,
				Icon:     e.Icon,
				Shortcut: e.Shortcut,
				Enabled:  !e.Disabled,
			})
		}
	}
	return out
}

// PreviewItems converts the declared preview items to the adapter model.
// Relative paths resolve against the manifest directory.
func (m *Manifest) PreviewItems() []native.PreviewItem {
	out := make([]native.PreviewItem, 0, len(m.Preview.Items))
	for _, it := range m.Preview.Items {
		path := it.Path
		if path != "" && !filepath.IsAbs(path) {
			path = filepath.Join(m.Dir, path)
		}
		out = append(out, native.PreviewItem{ID: it.ID, FilePath: path, Title: it.Title})
	}
	return out
}

// TableColumns converts the declared columns to the adapter model.
func (m *Manifest) TableColumns() []native.Column {
	out := make([]native.Column, 0, len(m.Table))
	for _, c := range m.Table {
		out = append(out, native.Column{ID: c.ID, Title: c.Title, Width: c.Width})
	}
	return out
}

// StatePath returns the path to the UI-state database next to the manifest.
func (m *Manifest) StatePath() string {
	return filepath.Join(m.Dir, ".skylight", "state.db")
}
