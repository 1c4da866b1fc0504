// Skylight CLI - runs a web-content application inside the native shell
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/skylightui/skylight/bridge"
	"github.com/skylightui/skylight/hostrt"
	"github.com/skylightui/skylight/manifest"
	"github.com/skylightui/skylight/native"
	"github.com/skylightui/skylight/store"
	"github.com/skylightui/skylight/window"
)

const version = "0.1.0"

var log = commonlog.GetLogger("skylight.cmd")

func main() {
	verbose := flag.Bool("v", false, "Verbose output")
	dir := flag.String("dir", ".", "Application directory (searched upward for skylight.toml)")
	ready := flag.Bool("ready", false, "Announce the bridge address on stdout once listening")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: skylight [options]\n\n")
		fmt.Fprintf(os.Stderr, "Runs the application described by skylight.toml in a native shell.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  skylight                  # Run the app in the current directory\n")
		fmt.Fprintf(os.Stderr, "  skylight -dir ./app       # Run the app under ./app\n")
		fmt.Fprintf(os.Stderr, "  skylight -ready           # Print the bridge address for the web side\n")
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("skylight %s\n", version)
		return
	}

	verbosity := 0
	if *verbose {
		verbosity = 1
	}
	commonlog.Configure(verbosity, nil)

	if err := run(*dir, *ready); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(dir string, announce bool) error {
	m, err := manifest.FindAndLoad(dir)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("no skylight.toml found in or above %s", dir)
	}

	st, err := store.Open(m.StatePath())
	if err != nil {
		return err
	}
	defer st.Close()

	rt := hostrt.NewRuntime()

	win, err := window.New(rt, window.Config{
		Title:      m.Window.Title,
		Width:      m.Window.Width,
		Height:     m.Window.Height,
		MinWidth:   m.Window.MinWidth,
		MinHeight:  m.Window.MinHeight,
		Background: window.ParseColor(m.Window.Background),
		URL:        m.Window.URL,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	if f, err := st.WindowFrame(); err == nil {
		win.SetFrame(window.Frame{X: f.X, Y: f.Y, W: f.W, H: f.H})
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Warningf("restoring window frame: %v", err)
	}

	app, err := buildAdapters(rt, m, st, win)
	if err != nil {
		return err
	}
	defer app.close()

	srv := bridge.NewServer(rt.Loop())
	registerBridgeHandlers(srv, m, st, win, app)
	app.broadcast = srv.Broadcast

	if err := srv.Listen(m.Bridge.Listen); err != nil {
		return fmt.Errorf("bridge listen on %s: %w", m.Bridge.Listen, err)
	}
	defer srv.Close()
	go func() {
		if err := srv.Serve(); err != nil {
			log.Debugf("bridge server stopped: %v", err)
		}
	}()
	if announce {
		fmt.Printf("SKYLIGHT_READY %s\n", srv.Addr())
	}
	log.Infof("%s %s: bridge on %s", m.App.Name, m.App.Version, srv.Addr())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		rt.Loop().Stop()
	}()

	win.Show()
	rt.Loop().Run()

	f := win.Frame()
	if err := st.SaveWindowFrame(store.WindowFrame{X: f.X, Y: f.Y, W: f.W, H: f.H}); err != nil {
		log.Warningf("saving window frame: %v", err)
	}
	return nil
}

// adapters bundles the protocol adapters serving one window.
type adapters struct {
	outline *native.Outline
	table   *native.Table
	menu    *native.Menu
	preview *native.Preview
	dragSrc *native.DragSource
	dragDst *native.DragDestination
	keys    *native.KeyRouter

	broadcast func(bridge.Envelope)
}

func (a *adapters) close() {
	a.keys.Close()
	if a.preview != nil {
		a.preview.CloseAdapter()
	}
	a.dragDst.Close()
	a.dragSrc.Close()
	a.menu.Close()
	a.table.Close()
	a.outline.Close()
}

func (a *adapters) send(typ string, payload any) {
	if a.broadcast == nil {
		return
	}
	env, err := bridge.NewEnvelope(typ, payload)
	if err != nil {
		log.Errorf("encoding %s event: %v", typ, err)
		return
	}
	a.broadcast(env)
}

func buildAdapters(rt *hostrt.Runtime, m *manifest.Manifest, st *store.Store, win *window.Window) (*adapters, error) {
	a := &adapters{}

	// Sidebar titles, for the recents list.
	titles := make(map[string]string)
	for _, s := range m.Sidebar.Sections {
		for _, it := range s.Items {
			titles[it.ID] = it.Title
		}
	}

	var err error
	if a.outline, err = native.NewOutline(rt); err != nil {
		return nil, err
	}
	a.outline.SetSections(m.SidebarSections())
	a.outline.OnSelect(func(itemID string) {
		if err := st.SaveSelection(itemID); err != nil {
			log.Warningf("saving selection: %v", err)
		}
		if title, ok := titles[itemID]; ok {
			if err := st.TouchRecent(itemID, title); err != nil {
				log.Warningf("recording recent: %v", err)
			}
		}
		a.send(bridge.TypeSelect, map[string]string{"id": itemID})
	})

	if a.table, err = native.NewTable(rt); err != nil {
		return nil, err
	}
	a.table.SetColumns(m.TableColumns())

	if a.menu, err = native.NewMenu(rt); err != nil {
		return nil, err
	}
	a.menu.Build(m.MenuNodes())
	a.menu.OnAction(func(itemID, targetID, targetKind string) {
		a.send(bridge.TypeMenuAction, map[string]string{
			"item":   itemID,
			"target": targetID,
			"kind":   targetKind,
		})
	})

	if a.dragSrc, err = native.NewDragSource(rt); err != nil {
		return nil, err
	}
	a.dragSrc.SetPointerLocator(win.PointerInside)
	a.dragSrc.OnBegin(func(s *native.DragSession) {
		a.send(bridge.TypeDragBegin, map[string]any{"session": s.ID, "items": s.ItemIDs})
	})
	a.dragSrc.OnEnd(func(s *native.DragSession, op native.Operation) {
		a.send(bridge.TypeDragEnd, map[string]any{"session": s.ID, "operation": int(op)})
	})

	if a.dragDst, err = native.NewDragDestination(rt); err != nil {
		return nil, err
	}

	if m.Preview.Enabled {
		if a.preview, err = native.NewPreview(rt); err != nil {
			return nil, err
		}
		a.preview.SetItems(m.PreviewItems())
		a.preview.OnVisibility(func(visible bool) {
			a.send(bridge.TypePreview, map[string]bool{"visible": visible})
		})
	}

	if a.keys, err = native.NewKeyMonitor(rt); err != nil {
		return nil, err
	}
	bindShortcuts(a, m)

	return a, nil
}

// bindShortcuts routes the manifest's [keys] shortcuts through the key
// router's catch-all. Unknown keys degrade with a warning; a shortcut
// never aborts startup.
func bindShortcuts(a *adapters, m *manifest.Manifest) {
	type binding struct {
		ev native.KeyEvent
		fn func()
	}
	var bindings []binding
	add := func(spec string, fn func()) {
		if spec == "" || fn == nil {
			return
		}
		sc := native.ParseShortcut(spec)
		code, ok := native.KeyCodeForName(sc.Key)
		if !ok {
			log.Warningf("shortcut %q: unknown key %q", spec, sc.Key)
			return
		}
		bindings = append(bindings, binding{native.KeyEvent{Code: code, Mods: sc.Mods}, fn})
	}

	command := func(name string) func() {
		return func() {
			a.send(bridge.TypeCommand, map[string]string{"action": name})
		}
	}
	if a.preview != nil {
		spec := m.Keys.Preview
		if spec == "" {
			spec = "space"
		}
		add(spec, a.preview.Toggle)
		a.keys.OnEscape(func() {
			if a.preview.Visible() {
				a.preview.Close()
			}
		})
	}
	add(m.Keys.NewItem, command("new-item"))
	add(m.Keys.DeleteItem, command("delete-item"))
	add(m.Keys.Search, command("search"))

	a.keys.OnKey(func(ev native.KeyEvent) bool {
		for _, b := range bindings {
			if b.ev == ev {
				b.fn()
				return true
			}
		}
		return false
	})
}

func registerBridgeHandlers(srv *bridge.Server, m *manifest.Manifest, st *store.Store, win *window.Window, a *adapters) {
	srv.Handle(bridge.TypeReload, func(env bridge.Envelope) (bridge.Envelope, bool) {
		a.outline.SetSections(m.SidebarSections())
		if a.preview != nil {
			a.preview.Refresh()
		}
		return bridge.Envelope{}, false
	})

	srv.Handle(bridge.TypeShowMenu, func(env bridge.Envelope) (bridge.Envelope, bool) {
		var p struct {
			Target string `json:"target"`
			Kind   string `json:"kind"`
		}
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return errorReply(env, err)
		}
		a.menu.Show(p.Target, p.Kind)
		return bridge.Envelope{}, false
	})

	srv.Handle(bridge.TypeNavigate, func(env bridge.Envelope) (bridge.Envelope, bool) {
		var p struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return errorReply(env, err)
		}
		win.Navigate(p.URL)
		return bridge.Envelope{}, false
	})

	srv.Handle(bridge.TypeSetRows, func(env bridge.Envelope) (bridge.Envelope, bool) {
		var p struct {
			Rows []struct {
				ID    string            `json:"id"`
				Cells map[string]string `json:"cells"`
			} `json:"rows"`
		}
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return errorReply(env, err)
		}
		cols := a.table.Columns()
		rows := make([]native.Row, 0, len(p.Rows))
		for _, r := range p.Rows {
			cells := make([]string, len(cols))
			for i, c := range cols {
				cells[i] = r.Cells[c.ID]
			}
			rows = append(rows, native.Row{ID: r.ID, Cells: cells})
		}
		a.table.SetRows(rows)
		return bridge.Envelope{}, false
	})

	srv.Handle(bridge.TypeSaveState, func(env bridge.Envelope) (bridge.Envelope, bool) {
		var p struct {
			Expanded []string `json:"expanded"`
		}
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return errorReply(env, err)
		}
		if err := st.SaveExpanded(p.Expanded); err != nil {
			return errorReply(env, err)
		}
		return bridge.Envelope{}, false
	})
}

func errorReply(env bridge.Envelope, err error) (bridge.Envelope, bool) {
	reply, rerr := env.Reply(bridge.TypeError, bridge.ErrorPayload{Message: err.Error()})
	if rerr != nil {
		log.Errorf("building error reply: %v", rerr)
		return bridge.Envelope{}, false
	}
	return reply, true
}
