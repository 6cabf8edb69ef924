package tui

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/evanschultz/kanbo/internal/theme"
)

type Option func(*Model)

func WithStyles(styles theme.Styles) Option {
	return func(m *Model) {
		m.styles = styles
	}
}

// WithWatcher wires a filesystem watcher so edits to the data file made
// outside the process show up without pressing reload. The caller owns
// the watcher's lifetime.
func WithWatcher(watcher *fsnotify.Watcher, path string) Option {
	return func(m *Model) {
		m.watcher = watcher
		m.watchBase = filepath.Base(path)
	}
}
