package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[options]\ntimeoutlen = 1000\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore()
	w, err := NewWatcher(s, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	reloaded := make(chan *File, 1)
	w.OnReload(func(_ string, f *File) {
		select {
		case reloaded <- f:
		default:
		}
	})

	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	if err := os.WriteFile(path, []byte("[options]\ntimeoutlen = 123\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case f := <-reloaded:
		if f == nil {
			t.Fatal("reload delivered nil file")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("reload callback never fired")
	}

	if got := s.Int("timeoutlen"); got != 123 {
		t.Errorf("timeoutlen after reload = %d, want 123", got)
	}
}

func TestWatcherClose(t *testing.T) {
	s := NewStore()
	w, err := NewWatcher(s)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}

	if err := w.Watch("somefile.toml"); err != ErrWatcherClosed {
		t.Errorf("Watch after Close = %v, want ErrWatcherClosed", err)
	}
}

func TestWatcherUnwatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[options]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore()
	w, err := NewWatcher(s, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	fired := make(chan struct{}, 1)
	w.OnReload(func(string, *File) {
		select {
		case fired <- struct{}{}:
		default:
		}
	})

	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}
	if err := w.Unwatch(path); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("[options]\ntimeoutlen = 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fired:
		t.Error("reload fired for unwatched file")
	case <-time.After(300 * time.Millisecond):
	}

	if got := s.Int("timeoutlen"); got != 1000 {
		t.Errorf("unwatched file modified the store: timeoutlen = %d", got)
	}
}
