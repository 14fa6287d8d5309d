// Package app assembles the collection browser, the library store and the
// artwork pipeline into the top-level bubbletea program.
package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mlegeay/treble/internal/artwork"
	"github.com/mlegeay/treble/internal/collection"
	"github.com/mlegeay/treble/internal/config"
	"github.com/mlegeay/treble/internal/library"
	"github.com/mlegeay/treble/internal/state"
	"github.com/mlegeay/treble/internal/ui/collectionview"
)

// App is the root model. It owns the long-lived channels and routes
// messages between the store, the art coordinator and the browser.
type App struct {
	cfg      *config.Config
	store    *library.Store
	art      *artwork.Coordinator
	stateMgr *state.Manager

	collection collectionview.Model

	storeEvents <-chan library.Event
	scanCh      chan library.ScanProgress

	scanStatus string

	width  int
	height int
}

// New builds the application model. The store, coordinator and state
// manager stay owned by the caller, which closes them after the program
// exits.
func New(cfg *config.Config, store *library.Store, art *artwork.Coordinator, stateMgr *state.Manager) App {
	opts := cfg.CollectionOptions()

	var saved *state.BrowserState
	if stateMgr != nil {
		if bs, err := stateMgr.GetBrowser(); err == nil && bs != nil {
			saved = bs
			if saved.Grouping != "" {
				opts.Grouping = collection.DecodeGrouping(saved.Grouping)
			}
		}
	}

	engine := collection.NewModel(opts)
	view := collectionview.New(engine, art)
	if saved != nil {
		view.SetExpandedKeys(saved.Expanded)
	}

	return App{
		cfg:         cfg,
		store:       store,
		art:         art,
		stateMgr:    stateMgr,
		collection:  view,
		storeEvents: store.Subscribe(),
		scanCh:      make(chan library.ScanProgress, 16),
	}
}

// saveState schedules a debounced snapshot of the browser state.
func (a App) saveState() {
	if a.stateMgr == nil {
		return
	}
	a.stateMgr.SaveBrowser(state.BrowserState{
		Grouping: a.collection.Engine().Grouping().Encode(),
		Expanded: a.collection.ExpandedKeys(),
	})
}

// Init schedules the initial library load and starts the event listeners.
func (a App) Init() tea.Cmd {
	// The debounced reset turns into a ReloadRequested action on an
	// upcoming tick, which fetches the songs from the store.
	a.collection.Engine().ScheduleReset(time.Now())

	cmds := []tea.Cmd{
		a.collection.Init(),
		a.waitStoreEvent(),
		a.loadTotals(),
	}
	if a.art != nil {
		cmds = append(cmds, a.waitArtResult())
	}
	if len(a.cfg.LibrarySources) > 0 {
		cmds = append(cmds, a.startScan())
	}
	return tea.Batch(cmds...)
}
