package collectionview

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mlegeay/treble/internal/collection"
	"github.com/mlegeay/treble/internal/errmsg"
	"github.com/mlegeay/treble/internal/library"
)

// groupingPresets are the grouping triples reachable from number keys.
var groupingPresets = map[string]collection.Grouping{
	"1": {First: collection.GroupByAlbumArtist, Second: collection.GroupByAlbumDisc},
	"2": {First: collection.GroupByAlbumArtist, Second: collection.GroupByAlbum},
	"3": {First: collection.GroupByArtist, Second: collection.GroupByAlbum},
	"4": {First: collection.GroupByAlbum},
	"5": {First: collection.GroupByGenre, Second: collection.GroupByAlbum},
	"6": {First: collection.GroupByGenre, Second: collection.GroupByAlbumArtist, Third: collection.GroupByAlbum},
	"7": {First: collection.GroupByYearAlbum},
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case TickMsg:
		cmd = m.handleTick(time.Time(msg))
	case StoreEventMsg:
		m.handleStoreEvent(library.Event(msg))
	case ReloadDoneMsg:
		m.handleReloadDone(msg)
	case ArtLoadedMsg:
		// The coordinator already cached the image; re-rendering picks
		// it up through the row markers.
	case tea.KeyMsg:
		m, cmd = m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	if m.rowsStale {
		m.rebuildRows()
	}
	return m, cmd
}

func (m *Model) handleTick(now time.Time) tea.Cmd {
	var cmds []tea.Cmd

	if m.engine.HasPendingUpdates() {
		m.engine.DrainOne()
		m.rowsStale = true
	}
	if req := m.engine.TickReset(now); req != nil {
		m.rowsStale = true
		reload := ReloadRequested{Generation: req.Generation, Filter: req.Filter}
		cmds = append(cmds, func() tea.Msg { return ActionMsg(reload) })
	}

	cmds = append(cmds, tick())
	return tea.Batch(cmds...)
}

func (m *Model) handleStoreEvent(ev library.Event) {
	switch ev.Type {
	case library.EventSongsAdded:
		m.engine.SongsAdded(ev.Songs)
	case library.EventSongsRemoved:
		m.engine.SongsRemoved(ev.Songs)
	case library.EventSongsChanged:
		m.engine.SongsChanged(ev.Songs)
	case library.EventTotalsUpdated:
		m.engine.SetTotals(ev.Totals.Songs, ev.Totals.Artists, ev.Totals.Albums)
	case library.EventReset:
		m.engine.ScheduleReset(time.Now())
	}
}

func (m *Model) handleReloadDone(msg ReloadDoneMsg) {
	if msg.Err != nil {
		m.errText = errmsg.Format(errmsg.OpLibraryLoad, msg.Err)
		return
	}
	m.errText = ""
	m.engine.ApplyReload(msg.Generation, msg.Songs)
	m.rowsStale = true
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.filtering {
		return m.handleFilterKey(msg)
	}

	key := msg.String()
	height := m.listHeight()

	if m.cur.HandleKey(key, len(m.rows), height) {
		return m, nil
	}
	if grouping, ok := groupingPresets[key]; ok {
		m.engine.SetGrouping(grouping, nil)
		return m, nil
	}

	switch key {
	case "/":
		m.filtering = true
		m.filterInput.Focus()
		return m, textinput.Blink
	case "l", "right":
		m.expandSelected()
	case "h", "left":
		m.collapseSelected()
	case " ":
		m.toggleSelected()
	case "enter":
		return m.activateSelected()
	case "d":
		m.engine.SetShowDividers(!m.engine.ShowDividers())
	case "c":
		m.engine.SetPrettyCovers(!m.engine.PrettyCovers())
	case "r":
		m.engine.ScheduleReset(time.Now())
	}
	return m, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filterInput.Blur()
		m.filterInput.SetValue("")
		m.engine.SetFilterText("")
		return m, nil
	case "enter":
		m.filtering = false
		m.filterInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	// The engine debounces the rebuild, so filtering as the user types
	// stays cheap.
	m.engine.SetFilterText(m.filterInput.Value())
	return m, cmd
}

func (m *Model) expandSelected() {
	id := m.SelectedNode()
	if id == collection.InvalidNode {
		return
	}
	info := m.engine.NodeInfo(id)
	if info.Type == collection.NodeContainer && info.HasChildren && !m.expanded[info.Key] {
		m.expanded[info.Key] = true
		m.rowsStale = true
	}
}

func (m *Model) collapseSelected() {
	id := m.SelectedNode()
	if id == collection.InvalidNode {
		return
	}
	info := m.engine.NodeInfo(id)
	if info.Type == collection.NodeContainer && m.expanded[info.Key] {
		delete(m.expanded, info.Key)
		m.rowsStale = true
		return
	}
	// Collapsed already, or a song: move to the parent row.
	parent := m.engine.Parent(id)
	for i, r := range m.rows {
		if r.id == parent {
			m.cur.Jump(i, len(m.rows), m.listHeight())
			return
		}
	}
}

func (m *Model) toggleSelected() {
	id := m.SelectedNode()
	if id == collection.InvalidNode {
		return
	}
	info := m.engine.NodeInfo(id)
	if info.Type != collection.NodeContainer || !info.HasChildren {
		return
	}
	if m.expanded[info.Key] {
		delete(m.expanded, info.Key)
	} else {
		m.expanded[info.Key] = true
	}
	m.rowsStale = true
}

func (m Model) activateSelected() (Model, tea.Cmd) {
	id := m.SelectedNode()
	if id == collection.InvalidNode {
		return m, nil
	}
	info := m.engine.NodeInfo(id)
	switch info.Type {
	case collection.NodeContainer:
		m.toggleSelected()
		return m, nil
	case collection.NodeSong:
	default:
		return m, nil
	}

	songs, locations := m.engine.ChildSongs(id)
	if len(songs) == 0 {
		return m, nil
	}
	activated := SongsActivated{Songs: songs, Locations: locations}
	return m, func() tea.Msg { return ActionMsg(activated) }
}
