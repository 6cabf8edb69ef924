package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
)

// TestNewWatcherSignalsDataFileChange verifies behavior for the covered scenario.
func TestNewWatcherSignalsDataFileChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	watcher, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	t.Cleanup(func() {
		_ = watcher.Close()
	})

	m := NewModel(newFakeService(nil, nil, nil), WithWatcher(watcher, path))
	cmd := m.waitForChange()
	if cmd == nil {
		t.Fatal("expected watch cmd")
	}

	msgs := make(chan tea.Msg, 1)
	go func() {
		msgs <- cmd()
	}()

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte(`{"tasks": []}`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	select {
	case msg := <-msgs:
		changed, ok := msg.(fileChangedMsg)
		if !ok {
			t.Fatalf("expected fileChangedMsg, got %T", msg)
		}
		if changed.err != nil {
			t.Fatalf("unexpected watch error: %v", changed.err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}
}

// TestNewWatcherMissingDir verifies behavior for the covered scenario.
func TestNewWatcherMissingDir(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "missing", "tasks.json")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

// TestWaitForChangeWithoutWatcher verifies behavior for the covered scenario.
func TestWaitForChangeWithoutWatcher(t *testing.T) {
	m := NewModel(newFakeService(nil, nil, nil))
	if m.waitForChange() != nil {
		t.Fatal("expected nil cmd without watcher")
	}
}
