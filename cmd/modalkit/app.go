package main

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/modalkit/internal/config"
	"github.com/dshills/modalkit/internal/editor"
	"github.com/dshills/modalkit/internal/engine/search"
	"github.com/dshills/modalkit/internal/host/membuf"
	"github.com/dshills/modalkit/internal/input/key"
	"github.com/dshills/modalkit/internal/input/keymap"
	"github.com/dshills/modalkit/internal/input/mode"
	"github.com/dshills/modalkit/internal/logging"
)

// app hosts one editor over a tcell screen. It owns everything the
// interpreter leaves to the host: the buffer, file I/O, the mapping
// timeout timer, rendering, and quitting.
type app struct {
	log        *logging.Logger
	logFile    *os.File
	store      *config.Store
	configPath string
	hasConfig  bool
	watcher    *config.Watcher

	screen tcell.Screen
	inited bool

	ed     *editor.Editor
	buf    *membuf.Buffer
	hist   *membuf.History
	search *search.Service

	path  string
	saved string

	top, left  int
	message    string
	msgIsErr   bool
	cmdlineEnd int

	quitc    chan struct{}
	quitOnce sync.Once
}

func newApp(opts options) (*app, error) {
	a := &app{
		search:     search.NewService(),
		cmdlineEnd: -1,
		quitc:      make(chan struct{}),
	}

	a.log = logging.Discard()
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		a.logFile = f
		a.log = logging.New(logging.Config{
			Level:  logging.ParseLevel(opts.logLevel),
			Output: f,
			Prefix: "modalkit",
		})
	}

	a.store = config.NewStore()
	mappings, err := a.loadConfig(opts.configPath)
	if err != nil {
		a.close()
		return nil, err
	}

	text, path, err := loadFile(opts.file)
	if err != nil {
		a.close()
		return nil, err
	}
	a.path = path
	name := path
	if name == "" {
		name = "[scratch]"
	}
	a.buf = membuf.New(name, text)
	a.hist = membuf.NewHistory(a.buf, 0)
	a.saved = a.buf.String()

	ed, err := editor.New(a.buf,
		editor.WithUndoHistory(a.hist),
		editor.WithNotifier(a),
		editor.WithClipboard(systemClipboard{}),
		editor.WithOptions(a.store),
		editor.WithLogger(a.log.WithComponent("editor")),
	)
	if err != nil {
		a.close()
		return nil, err
	}
	a.ed = ed

	a.installMappings(mappings)
	a.watchConfig()

	screen, err := tcell.NewScreen()
	if err != nil {
		a.close()
		return nil, fmt.Errorf("creating terminal screen: %w", err)
	}
	a.screen = screen
	return a, nil
}

// loadConfig applies the configuration file and the environment
// overlay onto the option store and returns the file's key mappings.
func (a *app) loadConfig(path string) ([]config.Mapping, error) {
	if path == "" {
		path = config.DefaultConfigPath()
	}
	a.configPath = path

	var mappings []config.Mapping
	file, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if file != nil {
		a.hasConfig = true
		if err := a.store.Apply(file.Options); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
		mappings = file.Mappings
	}

	for name, value := range config.LoadEnv(config.DefaultEnvPrefix) {
		if err := a.store.Set(name, value); err != nil {
			a.log.Warn("ignoring environment option", "option", name, "error", err)
		}
	}
	return mappings, nil
}

// installMappings registers user mappings from a configuration file.
// An empty mode list means the :map family scope.
func (a *app) installMappings(mappings []config.Mapping) {
	for _, m := range mappings {
		modes := m.Modes
		if len(modes) == 0 {
			modes = []string{
				string(mode.Normal),
				string(mode.VisualCharacter),
				string(mode.VisualLine),
				string(mode.VisualBlock),
				string(mode.Select),
			}
		}
		err := a.ed.Keymaps().Add(keymap.Mapping{
			Keys:        m.From,
			Replacement: m.To,
			Modes:       modes,
			NoRemap:     m.NoRemap,
			Source:      "config",
		})
		if err != nil {
			a.log.Warn("invalid mapping", "from", m.From, "error", err)
		}
	}
}

// watchConfig arms live reload for the configuration file. Option
// values reapply through the store; mappings reinstall here.
func (a *app) watchConfig() {
	if !a.hasConfig {
		return
	}
	w, err := config.NewWatcher(a.store)
	if err != nil {
		a.log.Warn("config watcher unavailable", "error", err)
		return
	}
	w.OnReload(func(path string, file *config.File) {
		if file == nil {
			return
		}
		a.installMappings(file.Mappings)
	})
	if err := w.Watch(a.configPath); err != nil {
		a.log.Warn("cannot watch config file", "path", a.configPath, "error", err)
		_ = w.Close()
		return
	}
	a.watcher = w
}

// loadFile reads the named file. A missing file opens empty, the way
// editing a new file does.
func loadFile(path string) (text, name string, err error) {
	if path == "" {
		return "", "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", path, nil
		}
		return "", "", err
	}
	return strings.TrimSuffix(string(data), "\n"), path, nil
}

// loop runs the screen event loop until quit. The mapping timeout
// timer re-arms on every key and flushes pending input when it fires.
func (a *app) loop() error {
	if err := a.screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	a.inited = true
	a.screen.EnablePaste()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	var flush *time.Timer
	var flushC <-chan time.Time
	disarm := func() {
		if flush != nil {
			flush.Stop()
			flush = nil
		}
		flushC = nil
	}
	arm := func() {
		disarm()
		ms := a.store.Int("timeoutlen")
		if ms <= 0 {
			ms = 1000
		}
		flush = time.NewTimer(time.Duration(ms) * time.Millisecond)
		flushC = flush.C
	}

	a.render()
	for {
		select {
		case <-a.quitc:
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch e := ev.(type) {
			case *tcell.EventResize:
				a.screen.Sync()
			case *tcell.EventKey:
				if a.handleKey(e) {
					return nil
				}
				if a.ed.PendingKeys() != "" {
					arm()
				} else {
					disarm()
				}
			}

		case <-flushC:
			disarm()
			if _, err := a.ed.FlushPending(); err != nil {
				a.Error(err.Error())
			}
		}
		a.render()
	}
}

// handleKey feeds one key through the interpreter and reports whether
// the host should quit.
func (a *app) handleKey(ev *tcell.EventKey) (quit bool) {
	in, ok := translateKey(ev)
	if !ok {
		return false
	}

	if handled, quit := a.hostExCommand(in); handled {
		return quit
	}

	a.message = ""
	a.msgIsErr = false
	if _, err := a.ed.ProcessKey(in); err != nil {
		a.Error(err.Error())
	}
	return false
}

// hostExCommand intercepts the ex commands the host owns: writing the
// file and quitting. Everything else stays with the interpreter.
func (a *app) hostExCommand(in key.Input) (handled, quit bool) {
	if in.Key != key.KeyEnter || in.Mods != key.ModNone {
		return false, false
	}
	prompt, text, ok := a.ed.CommandLine()
	if !ok || prompt != ':' {
		return false, false
	}

	name, arg, _ := strings.Cut(strings.TrimSpace(text), " ")
	arg = strings.TrimSpace(arg)

	dismiss := func() {
		esc := key.NewSpecial(key.KeyEscape, key.ModNone)
		if _, err := a.ed.ProcessKey(esc); err != nil {
			a.log.Warn("dismissing command line", "error", err)
		}
	}

	switch name {
	case "w", "write":
		dismiss()
		a.writeFile(arg)
		return true, false
	case "wq", "x", "xit":
		dismiss()
		return true, a.writeFile(arg)
	case "q", "quit":
		dismiss()
		if a.dirty() {
			a.Error("unsaved changes (add ! to override)")
			return true, false
		}
		return true, true
	case "q!", "quit!":
		dismiss()
		return true, true
	default:
		return false, false
	}
}

// writeFile saves the buffer and reports success.
func (a *app) writeFile(path string) bool {
	if path == "" {
		path = a.path
	}
	if path == "" {
		a.Error("no file name")
		return false
	}
	if err := os.WriteFile(path, []byte(a.buf.String()+"\n"), 0o644); err != nil {
		a.Error(err.Error())
		return false
	}
	if a.path == "" {
		a.path = path
	}
	if path == a.path {
		a.saved = a.buf.String()
	}
	a.Info(fmt.Sprintf("%q %dL written", path, a.buf.LineCount()))
	return true
}

func (a *app) dirty() bool {
	return a.buf.String() != a.saved
}

// Info and Error implement the notifier; messages land on the bottom
// line at the next render.
func (a *app) Info(msg string) {
	a.message, a.msgIsErr = msg, false
}

func (a *app) Error(msg string) {
	a.message, a.msgIsErr = msg, true
}

// requestQuit unblocks the event loop. Safe to call more than once and
// from other goroutines.
func (a *app) requestQuit() {
	a.quitOnce.Do(func() { close(a.quitc) })
}

// shutdown restores the terminal and releases everything. Safe on
// every exit path, including a half-built app.
func (a *app) shutdown() {
	if a.inited {
		a.screen.Fini()
		a.inited = false
	}
	a.close()
}

func (a *app) close() {
	if a.watcher != nil {
		_ = a.watcher.Close()
		a.watcher = nil
	}
	if a.ed != nil {
		a.ed.Close()
		a.ed = nil
	}
	if a.hist != nil {
		a.hist.Close()
		a.hist = nil
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
}
