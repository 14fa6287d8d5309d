package app

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mlegeay/treble/internal/collection"
	"github.com/mlegeay/treble/internal/config"
	"github.com/mlegeay/treble/internal/library"
	"github.com/mlegeay/treble/internal/state"
	"github.com/mlegeay/treble/internal/ui/action"
	"github.com/mlegeay/treble/internal/ui/collectionview"
)

func newTestApp(t *testing.T) (App, *library.Store) {
	t.Helper()

	store, err := library.Open(filepath.Join(t.TempDir(), "treble.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	a := New(&config.Config{}, store, nil, nil)
	a.width = 80
	a.height = 24
	a.resizeCollection()
	return a, store
}

func update(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()

	model, cmd := a.Update(msg)
	next, ok := model.(App)
	if !ok {
		t.Fatalf("Update returned %T, want App", model)
	}
	return next, cmd
}

func TestReloadActionFetchesFromStore(t *testing.T) {
	a, store := newTestApp(t)

	err := store.AddSongs([]collection.Song{
		{Artist: "Alpha", AlbumArtist: "Alpha", Album: "First", Title: "One", Location: "/m/1.flac"},
		{Artist: "Alpha", AlbumArtist: "Alpha", Album: "First", Title: "Two", Location: "/m/2.flac"},
	})
	if err != nil {
		t.Fatalf("AddSongs: %v", err)
	}

	req := collectionview.ReloadRequested{Generation: a.collection.Engine().Generation()}
	a, cmd := update(t, a, action.Msg{Source: "collectionview", Action: req})
	if cmd == nil {
		t.Fatal("expected a reload command")
	}

	done, ok := cmd().(collectionview.ReloadDoneMsg)
	if !ok {
		t.Fatalf("reload produced %T, want ReloadDoneMsg", cmd())
	}
	if done.Err != nil {
		t.Fatalf("reload error: %v", done.Err)
	}
	if len(done.Songs) != 2 {
		t.Fatalf("reload fetched %d songs, want 2", len(done.Songs))
	}

	// Feeding the result back and ticking lands the songs in the tree.
	a, _ = update(t, a, done)
	a, _ = update(t, a, collectionview.TickMsg(time.Now()))
	if got := a.collection.Engine().SongCount(); got != 2 {
		t.Errorf("engine songs = %d, want 2", got)
	}
}

func TestStoreEventRearmsListener(t *testing.T) {
	a, _ := newTestApp(t)

	ev := collectionview.StoreEventMsg(library.Event{
		Type:  library.EventSongsAdded,
		Songs: []collection.Song{{ID: 1, Artist: "Beta", Album: "B", Title: "T", Location: "/m/3.flac"}},
	})
	a, cmd := update(t, a, ev)
	if cmd == nil {
		t.Fatal("expected the listener to re-arm")
	}
	if !a.collection.Engine().HasPendingUpdates() {
		t.Error("expected the event to queue an update")
	}
}

func TestScanStatusLifecycle(t *testing.T) {
	a, _ := newTestApp(t)

	a, cmd := update(t, a, scanProgressMsg{Phase: "processing", Current: 1, Total: 4, CurrentFile: "x.flac"})
	if a.scanStatus == "" {
		t.Error("expected a scan status line while processing")
	}
	if cmd == nil {
		t.Error("expected the progress listener to re-arm")
	}

	a, _ = update(t, a, scanDoneMsg{})
	if a.scanStatus != "" {
		t.Errorf("scan status after done = %q, want empty", a.scanStatus)
	}
}

func TestNewRestoresBrowserState(t *testing.T) {
	store, err := library.Open(filepath.Join(t.TempDir(), "treble.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	statePath := filepath.Join(t.TempDir(), "state.db")
	st, err := state.OpenPath(statePath)
	if err != nil {
		t.Fatalf("opening state: %v", err)
	}
	st.SaveBrowser(state.BrowserState{Grouping: "020300", Expanded: []string{"alpha"}})
	st.Close()

	st, err = state.OpenPath(statePath)
	if err != nil {
		t.Fatalf("reopening state: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	a := New(&config.Config{}, store, nil, st)
	if got := a.collection.Engine().Grouping().First; got != collection.GroupByArtist {
		t.Errorf("restored grouping first = %v, want artist", got)
	}
	if keys := a.collection.ExpandedKeys(); len(keys) != 1 || keys[0] != "alpha" {
		t.Errorf("restored expanded keys = %v, want [alpha]", keys)
	}
}

func TestQuitKeys(t *testing.T) {
	a, _ := newTestApp(t)

	_, cmd := update(t, a, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("ctrl+c produced %T, want QuitMsg", cmd())
	}
}

func TestQTypesIntoFilter(t *testing.T) {
	a, _ := newTestApp(t)

	a, _ = update(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	if !a.collection.Filtering() {
		t.Fatal("expected filter mode after /")
	}

	_, cmd := update(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd != nil {
		if _, ok := cmd().(tea.QuitMsg); ok {
			t.Error("q while filtering must not quit")
		}
	}
}
