package collection

import (
	"sort"
	"strings"
)

// Read-side accessors. Views navigate the tree exclusively through these;
// they never see Item pointers, only handles and copied-out data.

// NodeInfo is a copied-out snapshot of one node, safe to hold across
// later tree mutations.
type NodeInfo struct {
	Type        NodeType
	DisplayText string
	SortText    string
	Key         string

	// GroupBy is the grouping criterion of a container node, GroupByNone
	// for every other node type.
	GroupBy        GroupBy
	ContainerLevel int

	Artist string
	SongID int64

	HasChildren bool
	Editable    bool
}

// Root returns the handle of the invisible root node.
func (m *Model) Root() NodeID {
	return m.tree.Root()
}

// Valid reports whether id is a live handle in the current tree.
func (m *Model) Valid(id NodeID) bool {
	return m.tree.Valid(id)
}

// Parent returns a node's parent handle, InvalidNode for the root and for
// dead handles.
func (m *Model) Parent(id NodeID) NodeID {
	if !m.tree.Valid(id) {
		return InvalidNode
	}
	return m.tree.Item(id).Parent
}

// NodeInfo snapshots a node. The zero NodeInfo is returned for dead handles.
func (m *Model) NodeInfo(id NodeID) NodeInfo {
	if !m.tree.Valid(id) {
		return NodeInfo{}
	}
	it := m.tree.Item(id)
	info := NodeInfo{
		Type:           it.Type,
		DisplayText:    it.DisplayText,
		SortText:       it.SortText,
		Key:            it.Key,
		GroupBy:        GroupByNone,
		ContainerLevel: it.ContainerLevel,
		Artist:         it.Metadata.Artist,
		HasChildren:    len(it.Children) > 0,
	}
	if it.Type == NodeContainer && it.ContainerLevel >= 0 {
		info.GroupBy = m.opts.Grouping.Level(it.ContainerLevel)
	}
	if it.Type == NodeSong {
		info.SongID = it.Metadata.ID
	}
	info.Editable = m.editable(id)
	return info
}

// editable reports whether a node only covers songs backed by local files.
// Containers require at least one child; an empty container is not editable.
func (m *Model) editable(id NodeID) bool {
	it := m.tree.Item(id)
	switch it.Type {
	case NodeSong:
		return it.Metadata.IsEditable()
	case NodeContainer, NodeRoot:
		if len(it.Children) == 0 {
			return false
		}
		for _, child := range it.Children {
			if !m.editable(child) {
				return false
			}
		}
		return true
	}
	return false
}

// Children returns a node's children sorted for display. Dividers and
// containers interleave at the top level through their sort text prefixes.
func (m *Model) Children(id NodeID) []NodeID {
	if !m.tree.Valid(id) {
		return nil
	}
	children := append([]NodeID(nil), m.tree.Item(id).Children...)
	sort.SliceStable(children, func(i, j int) bool {
		return m.tree.Item(children[i]).SortText < m.tree.Item(children[j]).SortText
	})
	return children
}

// ChildSongs collects every distinct song under the given nodes, in display
// order, together with the location of each. Songs reachable through more
// than one selected node appear once.
func (m *Model) ChildSongs(ids ...NodeID) ([]Song, []string) {
	var songs []Song
	var locations []string
	seen := make(map[int64]struct{})
	for _, id := range ids {
		m.collectSongs(id, seen, &songs, &locations)
	}
	return songs, locations
}

func (m *Model) collectSongs(id NodeID, seen map[int64]struct{}, songs *[]Song, locations *[]string) {
	if !m.tree.Valid(id) {
		return
	}
	it := m.tree.Item(id)
	if it.Type == NodeSong {
		if _, ok := seen[it.Metadata.ID]; ok {
			return
		}
		seen[it.Metadata.ID] = struct{}{}
		*songs = append(*songs, it.Metadata)
		*locations = append(*locations, it.Metadata.Location)
		return
	}
	for _, child := range m.Children(id) {
		m.collectSongs(child, seen, songs, locations)
	}
}

// ArtCacheKey derives the cache key for a node's cover art from its source
// name and display path, so the same album maps to the same key across
// rebuilds.
func (m *Model) ArtCacheKey(id NodeID) string {
	if !m.tree.Valid(id) {
		return ""
	}
	var path []string
	for cur := id; cur != m.tree.Root(); cur = m.tree.Item(cur).Parent {
		path = append(path, m.tree.Item(cur).DisplayText)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return m.opts.Source + "/" + strings.Join(path, "/")
}

// IsAlbumNode reports whether a container's grouping criterion carries an
// album, meaning cover art applies to it.
func (m *Model) IsAlbumNode(id NodeID) bool {
	if !m.tree.Valid(id) {
		return false
	}
	it := m.tree.Item(id)
	return it.Type == NodeContainer && it.ContainerLevel >= 0 &&
		IsAlbumGroupBy(m.opts.Grouping.Level(it.ContainerLevel))
}

// FirstSong returns the first song under a node in display order. The second
// return is false when the subtree holds no songs.
func (m *Model) FirstSong(id NodeID) (Song, bool) {
	songs, _ := m.ChildSongs(id)
	if len(songs) == 0 {
		return Song{}, false
	}
	return songs[0], true
}

// SongFromID looks a song up in the registry, which also covers songs
// currently filtered out of the tree.
func (m *Model) SongFromID(id int64) (Song, bool) {
	song, ok := m.songs[id]
	return song, ok
}

// SongNode returns the leaf node of a song currently in the tree.
func (m *Model) SongNode(id int64) (NodeID, bool) {
	node, ok := m.songNodes[id]
	return node, ok
}

// ContainerCount returns the number of live containers at one level.
func (m *Model) ContainerCount(level int) int {
	if level < 0 || level >= len(m.containerNodes) {
		return 0
	}
	return len(m.containerNodes[level])
}

// DividerCount returns the number of live divider rows.
func (m *Model) DividerCount() int {
	return len(m.dividerNodes)
}

// SongCount returns the number of song leaves currently in the tree.
func (m *Model) SongCount() int {
	return len(m.songNodes)
}
