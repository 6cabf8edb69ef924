package tui

import (
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"github.com/fsnotify/fsnotify"
)

// NewWatcher watches the directory holding path rather than the file
// itself, so the atomic rename that replaces the data file is seen as
// well as plain writes.
func NewWatcher(path string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return watcher, nil
}

// waitForChange blocks until the watched data file changes on disk.
func (m Model) waitForChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	watcher, base := m.watcher, m.watchBase
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Base(event.Name) != base {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				return fileChangedMsg{}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				return fileChangedMsg{err: err}
			}
		}
	}
}
