// Package fswatcher wraps fsnotify so the data catalog and config reloader
// share one watcher construction point.
package fswatcher

import "github.com/fsnotify/fsnotify"

// Event is a filesystem change notification.
type Event = fsnotify.Event

// Watcher watches a set of paths for changes.
type Watcher = fsnotify.Watcher

// New creates a filesystem watcher. Callers are responsible for closing it.
func New() (*fsnotify.Watcher, error) {
	return fsnotify.NewWatcher()
}
