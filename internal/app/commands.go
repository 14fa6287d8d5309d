package app

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mlegeay/treble/internal/library"
	"github.com/mlegeay/treble/internal/ui/collectionview"
)

type scanProgressMsg library.ScanProgress

type scanDoneMsg struct{}

// waitStoreEvent blocks on the store subscription. It re-arms itself from
// Update after every delivered event.
func (a App) waitStoreEvent() tea.Cmd {
	ch := a.storeEvents
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return collectionview.StoreEventMsg(ev)
	}
}

// waitArtResult blocks on the coordinator's result stream.
func (a App) waitArtResult() tea.Cmd {
	ch := a.art.Results()
	return func() tea.Msg {
		res, ok := <-ch
		if !ok {
			return nil
		}
		return collectionview.ArtLoadedMsg(res)
	}
}

// loadTotals fetches the footer counters once at startup. Afterwards the
// store pushes them with every mutation.
func (a App) loadTotals() tea.Cmd {
	store := a.store
	return func() tea.Msg {
		totals, err := store.Totals()
		if err != nil {
			slog.Warn("loading totals failed", "error", err)
			return nil
		}
		return collectionview.StoreEventMsg(library.Event{
			Type:   library.EventTotalsUpdated,
			Totals: totals,
		})
	}
}

// reload runs the bulk fetch for a rebuild off the UI goroutine.
func (a App) reload(req collectionview.ReloadRequested) tea.Cmd {
	store := a.store
	return func() tea.Msg {
		songs, err := store.Songs(req.Filter)
		return collectionview.ReloadDoneMsg{
			Generation: req.Generation,
			Songs:      songs,
			Err:        err,
		}
	}
}

// startScan kicks off a background scan of the configured sources. The
// store publishes added, changed and removed songs as it goes; progress
// arrives through scanCh.
func (a App) startScan() tea.Cmd {
	store, sources, ch := a.store, a.cfg.LibrarySources, a.scanCh
	go func() {
		if err := store.Scan(sources, ch); err != nil {
			slog.Error("library scan failed", "error", err)
		}
	}()
	return a.waitScanProgress()
}

func (a App) waitScanProgress() tea.Cmd {
	ch := a.scanCh
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return scanDoneMsg{}
		}
		return scanProgressMsg(p)
	}
}
