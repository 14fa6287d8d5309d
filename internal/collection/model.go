package collection

import (
	"log/slog"
	"strconv"
	"time"
)

const variousArtists = "Various artists"

// Options configures a collection model.
type Options struct {
	Grouping                 Grouping
	SeparateAlbumsByGrouping bool
	ShowDividers             bool
	ShowVariousArtists       bool
	SortSkipsArticles        bool
	PrettyCovers             bool
	Filter                   FilterOptions

	// Source names the collection this model indexes; it prefixes art
	// cache keys so multiple sources sharing a disk cache never collide.
	Source string
}

// DefaultOptions returns the settings of a fresh install.
func DefaultOptions() Options {
	return Options{
		Grouping:           DefaultGrouping(),
		ShowDividers:       true,
		ShowVariousArtists: true,
		SortSkipsArticles:  true,
		PrettyCovers:       true,
		Source:             "collection",
	}
}

// Model owns the collection tree and all of its indices. It must only be
// mutated from a single goroutine (the UI loop); async work hands its
// results back through ApplyReload and the art coordinator.
type Model struct {
	opts Options

	tree *Tree

	// songs is the registry of every known song, in or out of the tree.
	songs map[int64]Song
	// songNodes maps song id to its unique leaf node.
	songNodes map[int64]NodeID
	// containerNodes maps composite key to container, one index per level.
	containerNodes [3]map[string]NodeID
	// dividerNodes maps divider key to divider, top level only.
	dividerNodes map[string]NodeID

	loadingNode NodeID

	updates      []pendingUpdate
	resetPending bool
	resetDue     time.Time
	generation   uint64

	totalSongs   int
	totalArtists int
	totalAlbums  int

	onNodeChanged      func(NodeID)
	onContainerRemoved func(cacheKey string)
}

// NewModel creates an empty model.
func NewModel(opts Options) *Model {
	m := &Model{opts: opts}
	m.clear()
	return m
}

// SetNodeChangedFunc registers a callback fired when an existing node's
// display data changes in place.
func (m *Model) SetNodeChangedFunc(fn func(NodeID)) {
	m.onNodeChanged = fn
}

// SetContainerRemovedFunc registers a callback fired with the art cache key
// of every pruned container, so cached and in-flight artwork can be dropped.
func (m *Model) SetContainerRemovedFunc(fn func(cacheKey string)) {
	m.onContainerRemoved = fn
}

func (m *Model) clear() {
	m.tree = NewTree()
	m.songs = make(map[int64]Song)
	m.songNodes = make(map[int64]NodeID)
	for i := range m.containerNodes {
		m.containerNodes[i] = make(map[string]NodeID)
	}
	m.dividerNodes = make(map[string]NodeID)
	m.loadingNode = InvalidNode
}

func (m *Model) beginReset() {
	m.clear()
	m.loadingNode = m.tree.Append(m.tree.Root(), Item{
		Type:           NodeLoading,
		DisplayText:    "Loading songs...",
		ContainerLevel: -1,
	})
}

// IsLoading reports whether a bulk reload is in progress.
func (m *Model) IsLoading() bool {
	return m.loadingNode != InvalidNode && m.tree.Valid(m.loadingNode)
}

// Event entry points. These only enqueue; mutation happens on drain ticks.

// SongsAdded queues songs for insertion.
func (m *Model) SongsAdded(songs []Song) { m.scheduleUpdate(UpdateAdd, songs) }

// SongsRemoved queues songs for removal.
func (m *Model) SongsRemoved(songs []Song) { m.scheduleUpdate(UpdateRemove, songs) }

// SongsChanged queues changed songs whose kind of change is unknown.
func (m *Model) SongsChanged(songs []Song) { m.scheduleUpdate(UpdateChange, songs) }

// SongsUpdated queues metadata-only updates that cannot move a song.
func (m *Model) SongsUpdated(songs []Song) { m.scheduleUpdate(UpdateMetadata, songs) }

// Settings. Every structural setter schedules a debounced rebuild.

// Grouping returns the active grouping triple.
func (m *Model) Grouping() Grouping { return m.opts.Grouping }

// SetGrouping changes the grouping triple and, optionally, whether albums
// are separated by the grouping tag.
func (m *Model) SetGrouping(g Grouping, separateAlbumsByGrouping *bool) {
	m.opts.Grouping = g
	if separateAlbumsByGrouping != nil {
		m.opts.SeparateAlbumsByGrouping = *separateAlbumsByGrouping
	}
	m.ScheduleReset(time.Now())
}

// SetFilterMode switches between showing all songs and only recent ones.
func (m *Model) SetFilterMode(mode FilterMode) {
	m.opts.Filter.Mode = mode
	m.ScheduleReset(time.Now())
}

// SetFilterAge bounds the age of songs shown in FilterModeNew.
func (m *Model) SetFilterAge(age time.Duration) {
	m.opts.Filter.MaxAge = age
	m.ScheduleReset(time.Now())
}

// SetFilterText sets the free-text filter.
func (m *Model) SetFilterText(text string) {
	if text == m.opts.Filter.Text {
		return
	}
	m.opts.Filter.Text = text
	m.ScheduleReset(time.Now())
}

// FilterText returns the active free-text filter.
func (m *Model) FilterText() string { return m.opts.Filter.Text }

// PrettyCovers reports whether album containers should show cover art.
func (m *Model) PrettyCovers() bool { return m.opts.PrettyCovers }

// SetPrettyCovers toggles cover art on album containers.
func (m *Model) SetPrettyCovers(on bool) {
	if on != m.opts.PrettyCovers {
		m.opts.PrettyCovers = on
		m.ScheduleReset(time.Now())
	}
}

// ShowDividers reports whether alphabetic/numeric dividers are shown.
func (m *Model) ShowDividers() bool { return m.opts.ShowDividers }

// SetShowDividers toggles divider rows.
func (m *Model) SetShowDividers(on bool) {
	if on != m.opts.ShowDividers {
		m.opts.ShowDividers = on
		m.ScheduleReset(time.Now())
	}
}

// SetSortSkipsArticles toggles moving leading articles ("The", "A") to the
// end of artist sort text.
func (m *Model) SetSortSkipsArticles(on bool) {
	if on != m.opts.SortSkipsArticles {
		m.opts.SortSkipsArticles = on
		m.ScheduleReset(time.Now())
	}
}

// SortSkipsArticles reports whether article skipping is active.
func (m *Model) SortSkipsArticles() bool { return m.opts.SortSkipsArticles }

// Totals mirrors the storage layer's collection-wide counters.

// SetTotals stores the song/artist/album totals reported by storage.
func (m *Model) SetTotals(songs, artists, albums int) {
	m.totalSongs, m.totalArtists, m.totalAlbums = songs, artists, albums
}

// Totals returns the last reported song, artist and album counts.
func (m *Model) Totals() (songs, artists, albums int) {
	return m.totalSongs, m.totalArtists, m.totalAlbums
}

// Tree mutation.

func (m *Model) addSongs(songs []Song) {
	for _, song := range songs {
		m.songs[song.ID] = song

		// Songs outside the active filter stay in the registry only.
		if !m.opts.Filter.Matches(song) {
			continue
		}
		// Already in the tree; adding again is a no-op.
		if _, ok := m.songNodes[song.ID]; ok {
			continue
		}

		// Walk the configured levels root-down, creating any missing
		// containers along the song's path.
		container := m.tree.Root()
		key := ""
		for level := 0; level < 3; level++ {
			groupBy := m.opts.Grouping.Level(level)
			if groupBy == GroupByNone {
				break
			}
			if key != "" {
				key += "-"
			}

			// Compilation songs group under the shared Various
			// artists node at artist levels, whatever their
			// literal artist tag says.
			if IsArtistGroupBy(groupBy) && song.IsCompilation() && m.opts.ShowVariousArtists {
				if m.tree.Item(container).CompilationArtist == InvalidNode {
					m.createCompilationArtistNode(container)
				}
				container = m.tree.Item(container).CompilationArtist
				key = m.tree.Item(container).Key
				continue
			}

			key += ContainerKey(groupBy, m.opts.SeparateAlbumsByGrouping, song)
			if id, ok := m.containerNodes[level][key]; ok {
				container = id
			} else {
				container = m.itemFromSong(groupBy, level == 0, container, song, level)
				m.containerNodes[level][key] = container
			}
		}

		m.songNodes[song.ID] = m.itemFromSong(GroupByNone, false, container, song, -1)
	}
}

func (m *Model) removeSongs(songs []Song) {
	// Delete the leaf nodes first, collecting their former parents for
	// emptiness sweeping.
	parents := make(map[NodeID]struct{})
	for _, song := range songs {
		delete(m.songs, song.ID)
		node, ok := m.songNodes[song.ID]
		if !ok {
			continue
		}
		if p := m.tree.Item(node).Parent; p != m.tree.Root() {
			parents[p] = struct{}{}
		}
		m.tree.Remove(node)
		delete(m.songNodes, song.ID)
	}

	// Sweep empty containers upward until nothing more empties out.
	dividerKeys := make(map[string]struct{})
	for len(parents) > 0 {
		next := make(map[NodeID]struct{})
		for node := range parents {
			if !m.tree.Valid(node) {
				continue
			}
			it := m.tree.Item(node)
			if len(it.Children) != 0 {
				continue
			}

			if it.Parent != m.tree.Root() {
				next[it.Parent] = struct{}{}
			}
			if it.ContainerLevel == 0 {
				if key := DividerKey(m.opts.Grouping.Level(0), it); key != "" {
					dividerKeys[key] = struct{}{}
				}
			}

			if m.isCompilationArtistNode(node) {
				m.tree.Item(it.Parent).CompilationArtist = InvalidNode
			} else if it.ContainerLevel >= 0 {
				delete(m.containerNodes[it.ContainerLevel], it.Key)
			}

			if m.onContainerRemoved != nil {
				m.onContainerRemoved(m.ArtCacheKey(node))
			}

			m.tree.Remove(node)
		}
		parents = next
	}

	// Delete dividers that no longer have a container mapping to them.
	for key := range dividerKeys {
		id, ok := m.dividerNodes[key]
		if !ok {
			continue
		}
		stillUsed := false
		for _, cid := range m.containerNodes[0] {
			if DividerKey(m.opts.Grouping.Level(0), m.tree.Item(cid)) == key {
				stillUsed = true
				break
			}
		}
		if stillUsed {
			continue
		}
		m.tree.Remove(id)
		delete(m.dividerNodes, key)
	}
}

func (m *Model) updateSongs(songs []Song) {
	for _, song := range songs {
		if _, ok := m.songs[song.ID]; ok {
			m.songs[song.ID] = song
		}
		node, ok := m.songNodes[song.ID]
		if !ok {
			slog.Warn("update for song not in tree", "id", song.ID, "title", song.Title)
			continue
		}
		parentLevel := m.tree.Item(m.tree.Item(node).Parent).ContainerLevel
		it := m.tree.Item(node)
		changed := !MetadataEqual(song, it.Metadata)
		it.Metadata = song
		if changed {
			it.DisplayText = song.TitleWithCompilationArtist()
			it.SortText = m.songSortText(song, parentLevel)
			if m.onNodeChanged != nil {
				m.onNodeChanged(node)
			}
		}
	}
}

func (m *Model) reAddOrUpdate(songs []Song) {
	var added, removed, updated []Song
	for _, song := range songs {
		node, ok := m.songNodes[song.ID]
		if !ok {
			slog.Warn("change for song not in tree",
				"id", song.ID, "artist", song.EffectiveAlbumArtist(), "title", song.Title)
			continue
		}
		old := m.tree.Item(node).Metadata

		moved := false
		for level := 0; level < 3; level++ {
			groupBy := m.opts.Grouping.Level(level)
			if ContainerKey(groupBy, m.opts.SeparateAlbumsByGrouping, song) !=
				ContainerKey(groupBy, m.opts.SeparateAlbumsByGrouping, old) {
				moved = true
				break
			}
		}
		if moved {
			removed = append(removed, old)
			added = append(added, song)
		} else {
			updated = append(updated, song)
		}
	}

	if len(updated) > 0 {
		m.scheduleUpdate(UpdateMetadata, updated)
	}
	if len(removed) > 0 {
		m.scheduleUpdate(UpdateRemove, removed)
	}
	if len(added) > 0 {
		m.scheduleUpdate(UpdateAdd, added)
	}
}

// itemFromSong creates one container (groupBy != GroupByNone) or song node
// from a song's metadata and attaches it under parent.
func (m *Model) itemFromSong(groupBy GroupBy, createDivider bool, parent NodeID, s Song, level int) NodeID {
	p := m.tree.Item(parent)
	parentKey := p.Key
	parentLevel := p.ContainerLevel
	isRoot := parent == m.tree.Root()

	it := Item{ContainerLevel: level, CompilationArtist: InvalidNode}
	if groupBy == GroupByNone {
		it.Type = NodeSong
	} else {
		it.Type = NodeContainer
	}
	if !isRoot && parentKey != "" {
		it.Key = parentKey + "-"
	}

	sep := m.opts.SeparateAlbumsByGrouping
	skip := m.opts.SortSkipsArticles

	switch groupBy {
	case GroupByAlbumArtist:
		it.Metadata.AlbumArtist = s.EffectiveAlbumArtist()
		it.Key += ContainerKey(groupBy, sep, s)
		it.DisplayText = TextOrUnknown(s.EffectiveAlbumArtist())
		it.SortText = SortTextForArtist(s.EffectiveAlbumArtist(), skip)

	case GroupByArtist:
		it.Metadata.Artist = s.Artist
		it.Key += ContainerKey(groupBy, sep, s)
		it.DisplayText = TextOrUnknown(s.Artist)
		it.SortText = SortTextForArtist(s.Artist, skip)

	case GroupByAlbum:
		it.Metadata.Album = s.Album
		it.Metadata.AlbumID = s.AlbumID
		it.Metadata.Grouping = s.Grouping
		it.Key += ContainerKey(groupBy, sep, s)
		it.DisplayText = TextOrUnknown(s.Album)
		it.SortText = SortTextForArtist(s.Album, skip)

	case GroupByAlbumDisc:
		it.Metadata.Album = s.Album
		it.Metadata.AlbumID = s.AlbumID
		it.Metadata.Disc = s.Disc
		it.Metadata.Grouping = s.Grouping
		it.Key += ContainerKey(groupBy, sep, s)
		it.DisplayText = PrettyAlbumDisc(s.Album, s.Disc)
		it.SortText = s.Album + SortTextForNumber(max(0, s.Disc))

	case GroupByYearAlbum:
		it.Metadata.Year = s.Year
		it.Metadata.Album = s.Album
		it.Metadata.AlbumID = s.AlbumID
		it.Metadata.Grouping = s.Grouping
		it.Key += ContainerKey(groupBy, sep, s)
		it.DisplayText = PrettyYearAlbum(s.Year, s.Album)
		it.SortText = SortTextForNumber(max(0, s.Year)) + s.Grouping + s.Album

	case GroupByYearAlbumDisc:
		it.Metadata.Year = s.Year
		it.Metadata.Album = s.Album
		it.Metadata.AlbumID = s.AlbumID
		it.Metadata.Disc = s.Disc
		it.Metadata.Grouping = s.Grouping
		it.Key += ContainerKey(groupBy, sep, s)
		it.DisplayText = PrettyYearAlbumDisc(s.Year, s.Album, s.Disc)
		it.SortText = SortTextForNumber(max(0, s.Year)) + s.Album + SortTextForNumber(max(0, s.Disc))

	case GroupByOriginalYearAlbum:
		it.Metadata.Year = s.Year
		it.Metadata.OriginalYear = s.OriginalYear
		it.Metadata.Album = s.Album
		it.Metadata.AlbumID = s.AlbumID
		it.Metadata.Grouping = s.Grouping
		it.Key += ContainerKey(groupBy, sep, s)
		it.DisplayText = PrettyYearAlbum(s.EffectiveOriginalYear(), s.Album)
		it.SortText = SortTextForNumber(max(0, s.EffectiveOriginalYear())) + s.Grouping + s.Album

	case GroupByOriginalYearAlbumDisc:
		it.Metadata.Year = s.Year
		it.Metadata.OriginalYear = s.OriginalYear
		it.Metadata.Album = s.Album
		it.Metadata.AlbumID = s.AlbumID
		it.Metadata.Disc = s.Disc
		it.Metadata.Grouping = s.Grouping
		it.Key += ContainerKey(groupBy, sep, s)
		it.DisplayText = PrettyYearAlbumDisc(s.EffectiveOriginalYear(), s.Album, s.Disc)
		it.SortText = SortTextForNumber(max(0, s.EffectiveOriginalYear())) + s.Album + SortTextForNumber(max(0, s.Disc))

	case GroupByDisc:
		it.Metadata.Disc = s.Disc
		it.Key += ContainerKey(groupBy, sep, s)
		disc := max(0, s.Disc)
		it.DisplayText = PrettyDisc(disc)
		it.SortText = SortTextForNumber(disc)

	case GroupByYear:
		it.Metadata.Year = s.Year
		it.Key += ContainerKey(groupBy, sep, s)
		year := max(0, s.Year)
		it.DisplayText = numberOrUnknown(year)
		it.SortText = SortTextForNumber(year) + " "

	case GroupByOriginalYear:
		it.Metadata.OriginalYear = s.EffectiveOriginalYear()
		it.Key += ContainerKey(groupBy, sep, s)
		year := max(0, s.EffectiveOriginalYear())
		it.DisplayText = numberOrUnknown(year)
		it.SortText = SortTextForNumber(year) + " "

	case GroupByGenre:
		it.Metadata.Genre = s.Genre
		it.Key += ContainerKey(groupBy, sep, s)
		it.DisplayText = TextOrUnknown(s.Genre)
		it.SortText = SortTextForArtist(s.Genre, skip)

	case GroupByComposer:
		it.Metadata.Composer = s.Composer
		it.Key += ContainerKey(groupBy, sep, s)
		it.DisplayText = TextOrUnknown(s.Composer)
		it.SortText = SortTextForArtist(s.Composer, skip)

	case GroupByPerformer:
		it.Metadata.Performer = s.Performer
		it.Key += ContainerKey(groupBy, sep, s)
		it.DisplayText = TextOrUnknown(s.Performer)
		it.SortText = SortTextForArtist(s.Performer, skip)

	case GroupByGrouping:
		it.Metadata.Grouping = s.Grouping
		it.Key += ContainerKey(groupBy, sep, s)
		it.DisplayText = TextOrUnknown(s.Grouping)
		it.SortText = SortTextForArtist(s.Grouping, skip)

	case GroupByFileType:
		it.Metadata.Filetype = s.Filetype
		it.Key += ContainerKey(groupBy, sep, s)
		it.DisplayText = TextOrUnknown(s.Filetype)
		it.SortText = TextOrUnknown(s.Filetype)

	case GroupByFormat:
		it.Metadata.Filetype = s.Filetype
		it.Metadata.Samplerate = s.Samplerate
		it.Metadata.Bitdepth = s.Bitdepth
		local := ContainerKey(groupBy, sep, s)
		it.Key += local
		it.DisplayText = local
		it.SortText = local

	case GroupBySamplerate:
		it.Metadata.Samplerate = s.Samplerate
		it.Key += ContainerKey(groupBy, sep, s)
		v := max(0, s.Samplerate)
		it.DisplayText = numberOrUnknown(v)
		it.SortText = SortTextForNumber(v) + " "

	case GroupByBitdepth:
		it.Metadata.Bitdepth = s.Bitdepth
		it.Key += ContainerKey(groupBy, sep, s)
		v := max(0, s.Bitdepth)
		it.DisplayText = numberOrUnknown(v)
		it.SortText = SortTextForNumber(v) + " "

	case GroupByBitrate:
		it.Metadata.Bitrate = s.Bitrate
		it.Key += ContainerKey(groupBy, sep, s)
		v := max(0, s.Bitrate)
		it.DisplayText = numberOrUnknown(v)
		it.SortText = SortTextForNumber(v) + " "

	default: // GroupByNone: a song leaf
		it.Metadata = s
		it.Key += TextOrUnknown(s.Title)
		it.DisplayText = s.TitleWithCompilationArtist()
		it.SortText = m.songSortText(s, parentLevel)
	}

	if createDivider && m.opts.ShowDividers && groupBy != GroupByNone {
		if dividerKey := DividerKey(groupBy, &it); dividerKey != "" {
			m.ensureDivider(groupBy, dividerKey)
			it.SortText = dividerKey + " " + it.SortText
		}
	}

	return m.tree.Append(parent, it)
}

// numberOrUnknown renders a positive number, mapping zero and below to the
// unknown placeholder.
func numberOrUnknown(n int) string {
	if n <= 0 {
		return unknownText
	}
	return strconv.Itoa(n)
}

// songSortText picks the sort key for a song leaf: disc/track ordering
// under an album-grouped ancestry, normalized title otherwise.
func (m *Model) songSortText(s Song, parentLevel int) string {
	if parentLevel >= 0 && m.opts.Grouping.HasAlbumLevel(parentLevel) {
		return SortTextForSong(s)
	}
	return SortText(s.Title)
}

func (m *Model) ensureDivider(groupBy GroupBy, key string) {
	if _, ok := m.dividerNodes[key]; ok {
		return
	}
	id := m.tree.Append(m.tree.Root(), Item{
		Type:           NodeDivider,
		Key:            key,
		DisplayText:    DividerDisplayText(groupBy, key),
		SortText:       key + "  ",
		ContainerLevel: -1,
	})
	m.dividerNodes[key] = id
}

func (m *Model) createCompilationArtistNode(parent NodeID) NodeID {
	p := m.tree.Item(parent)
	it := Item{
		Type:           NodeContainer,
		ContainerLevel: p.ContainerLevel + 1,
		DisplayText:    variousArtists,
		SortText:       " various",
	}
	if parent != m.tree.Root() && p.Key != "" {
		it.Key = p.Key + "-"
	}
	it.Key += variousArtists

	id := m.tree.Append(parent, it)
	m.tree.Item(parent).CompilationArtist = id
	return id
}

func (m *Model) isCompilationArtistNode(id NodeID) bool {
	parent := m.tree.Item(id).Parent
	return parent != InvalidNode && m.tree.Item(parent).CompilationArtist == id
}
