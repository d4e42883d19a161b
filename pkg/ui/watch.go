package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/poemtyper/pkg/poem"
	"github.com/vanderheijden86/poemtyper/pkg/watcher"
)

// reloadTimeout bounds one dataset reload.
const reloadTimeout = 10 * time.Second

// ReloadFunc rebuilds the collection from the configured datasets.
type ReloadFunc func(ctx context.Context) (*poem.Collection, error)

// DatasetReloadedMsg carries the outcome of a reload triggered by the watcher.
type DatasetReloadedMsg struct {
	Collection *poem.Collection
	Err        error
}

// WatchDatasetsCmd waits for the next change reported by w, then reloads.
// The model re-arms it after every DatasetReloadedMsg. Stopping w releases
// the wait with no message.
func WatchDatasetsCmd(w *watcher.Watcher, reload ReloadFunc) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-w.Changed():
		case <-w.Done():
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
		defer cancel()
		c, err := reload(ctx)
		return DatasetReloadedMsg{Collection: c, Err: err}
	}
}
