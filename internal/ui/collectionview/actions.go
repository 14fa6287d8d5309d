package collectionview

import (
	"github.com/mlegeay/treble/internal/collection"
	"github.com/mlegeay/treble/internal/ui/action"
)

// ReloadRequested asks the app to fetch all songs matching the filter and
// answer with a ReloadDoneMsg carrying the same generation.
type ReloadRequested struct {
	Generation uint64
	Filter     collection.FilterOptions
}

// ActionType implements action.Action.
func (ReloadRequested) ActionType() string { return "collectionview.reload_requested" }

// SongsActivated is emitted when the user activates a node; it carries the
// distinct songs under it in display order.
type SongsActivated struct {
	Songs     []collection.Song
	Locations []string
}

// ActionType implements action.Action.
func (SongsActivated) ActionType() string { return "collectionview.songs_activated" }

// ActionMsg wraps a collectionview action.
func ActionMsg(a action.Action) action.Msg {
	return action.Msg{Source: "collectionview", Action: a}
}
