// Package collectionview renders the grouped collection tree with expand
// and collapse, free-text filtering and cover art markers.
package collectionview

import (
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mlegeay/treble/internal/artwork"
	"github.com/mlegeay/treble/internal/collection"
	"github.com/mlegeay/treble/internal/library"
	"github.com/mlegeay/treble/internal/ui/cursor"
)

// TickMsg drives the engine's batch drain and debounced rebuild.
type TickMsg time.Time

// StoreEventMsg delivers a library store notification to the view.
type StoreEventMsg library.Event

// ReloadDoneMsg delivers the songs fetched for a rebuild.
type ReloadDoneMsg struct {
	Generation uint64
	Songs      []collection.Song
	Err        error
}

// ArtLoadedMsg delivers a finished cover load.
type ArtLoadedMsg artwork.Result

type row struct {
	id    collection.NodeID
	depth int
	info  collection.NodeInfo
}

// Model is the collection browser state.
type Model struct {
	engine *collection.Model
	art    *artwork.Coordinator

	rows      []row
	rowsStale bool
	// expanded is keyed on container key so open branches survive
	// incremental updates and rebuilds.
	expanded map[string]bool

	cur cursor.Cursor

	filterInput textinput.Model
	filtering   bool

	errText string

	focused bool
	width   int
	height  int
}

// New creates a collection browser over an engine and an optional art
// coordinator.
func New(engine *collection.Model, art *artwork.Coordinator) Model {
	input := textinput.New()
	input.Prompt = "/"
	input.Placeholder = "filter"
	input.CharLimit = 120

	m := Model{
		engine:      engine,
		art:         art,
		expanded:    make(map[string]bool),
		cur:         cursor.New(3),
		filterInput: input,
		rowsStale:   true,
		focused:     true,
	}
	if art != nil {
		engine.SetContainerRemovedFunc(art.Forget)
	}
	return m
}

// Init starts the engine tick.
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(collection.DrainInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Engine exposes the underlying collection model.
func (m Model) Engine() *collection.Model {
	return m.engine
}

// SetFocused sets keyboard focus.
func (m *Model) SetFocused(focused bool) {
	m.focused = focused
}

// SetSize updates the component dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ExpandedKeys returns the container keys currently open, for persistence.
func (m Model) ExpandedKeys() []string {
	keys := make([]string, 0, len(m.expanded))
	for key := range m.expanded {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// SetExpandedKeys opens the given container keys, typically restored from
// a previous run. Keys that no longer exist are ignored at render time.
func (m *Model) SetExpandedKeys(keys []string) {
	for _, key := range keys {
		m.expanded[key] = true
	}
	m.rowsStale = true
}

// Filtering reports whether the filter input has keyboard focus.
func (m Model) Filtering() bool {
	return m.filtering
}

// SelectedNode returns the node under the cursor, InvalidNode when the
// view is empty.
func (m Model) SelectedNode() collection.NodeID {
	if len(m.rows) == 0 || m.cur.Pos() >= len(m.rows) {
		return collection.InvalidNode
	}
	return m.rows[m.cur.Pos()].id
}

// rebuildRows re-flattens the tree into the visible row list.
func (m *Model) rebuildRows() {
	m.rows = m.rows[:0]
	for _, id := range m.engine.Children(m.engine.Root()) {
		m.appendRows(id, 0)
	}
	m.cur.ClampToBounds(len(m.rows))
	m.cur.EnsureVisible(len(m.rows), m.listHeight())
	m.rowsStale = false
}

func (m *Model) appendRows(id collection.NodeID, depth int) {
	info := m.engine.NodeInfo(id)
	m.rows = append(m.rows, row{id: id, depth: depth, info: info})
	if info.Type == collection.NodeContainer && m.expanded[info.Key] {
		for _, child := range m.engine.Children(id) {
			m.appendRows(child, depth+1)
		}
	}
}

// listHeight is the number of rows the list area can show.
func (m Model) listHeight() int {
	// Header, separator and footer each take one line; the filter line
	// appears below the footer while active.
	h := m.height - 3
	if m.filtering {
		h--
	}
	return max(h, 1)
}
