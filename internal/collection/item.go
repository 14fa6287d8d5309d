package collection

// NodeType identifies what a tree item represents.
type NodeType int

const (
	NodeRoot NodeType = iota
	NodeContainer
	NodeSong
	NodeDivider
	NodeLoading
)

// NodeID is a stable handle into the tree arena. Handles stay valid until
// the node is removed; indices hold handles, never pointers, so pruning a
// subtree cannot leave anything dangling.
type NodeID int32

// InvalidNode is the null handle.
const InvalidNode NodeID = -1

// Item is one node of the collection tree.
type Item struct {
	Type        NodeType
	DisplayText string
	SortText    string
	Key         string
	Metadata    Song

	// ContainerLevel is the grouping level (0..2) for containers and -1
	// for every other node type.
	ContainerLevel int

	Parent   NodeID
	Children []NodeID

	// CompilationArtist is a non-owning reference to this container's
	// "Various artists" child, InvalidNode when absent. The referenced
	// node is also an ordinary owned child.
	CompilationArtist NodeID
}

// Tree is an arena of items. The root always exists.
type Tree struct {
	items []Item
	used  []bool
	free  []NodeID
	root  NodeID
}

// NewTree creates a tree holding only a root node.
func NewTree() *Tree {
	t := &Tree{}
	t.root = t.alloc(Item{
		Type:              NodeRoot,
		ContainerLevel:    -1,
		Parent:            InvalidNode,
		CompilationArtist: InvalidNode,
	})
	return t
}

// Root returns the root handle.
func (t *Tree) Root() NodeID {
	return t.root
}

// Valid reports whether id refers to a live node.
func (t *Tree) Valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.items) && t.used[id]
}

// Item returns the node for a live handle. The pointer is only valid until
// the next Append call.
func (t *Tree) Item(id NodeID) *Item {
	return &t.items[id]
}

// Len returns the number of live nodes, including the root.
func (t *Tree) Len() int {
	return len(t.items) - len(t.free)
}

func (t *Tree) alloc(it Item) NodeID {
	if n := len(t.free); n > 0 {
		id := t.free[n-1]
		t.free = t.free[:n-1]
		t.items[id] = it
		t.used[id] = true
		return id
	}
	t.items = append(t.items, it)
	t.used = append(t.used, true)
	return NodeID(len(t.items) - 1)
}

// Append creates a node as the last child of parent and returns its handle.
func (t *Tree) Append(parent NodeID, it Item) NodeID {
	it.Parent = parent
	// Zero value means unset here; the root (id 0) can never be anyone's
	// compilation-artist child.
	if it.CompilationArtist == 0 {
		it.CompilationArtist = InvalidNode
	}
	id := t.alloc(it)
	p := t.Item(parent)
	p.Children = append(p.Children, id)
	return id
}

// Remove detaches id from its parent and frees its whole subtree. The
// caller is responsible for any index entries referring to removed nodes.
func (t *Tree) Remove(id NodeID) {
	if !t.Valid(id) {
		return
	}
	parent := t.items[id].Parent
	if parent != InvalidNode {
		p := t.Item(parent)
		for i, child := range p.Children {
			if child == id {
				p.Children = append(p.Children[:i], p.Children[i+1:]...)
				break
			}
		}
		if p.CompilationArtist == id {
			p.CompilationArtist = InvalidNode
		}
	}
	t.freeSubtree(id)
}

func (t *Tree) freeSubtree(id NodeID) {
	for _, child := range t.items[id].Children {
		t.freeSubtree(child)
	}
	t.items[id] = Item{}
	t.used[id] = false
	t.free = append(t.free, id)
}
