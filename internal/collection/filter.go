package collection

import (
	"strings"
	"time"
)

// FilterMode restricts which songs enter the tree.
type FilterMode int

const (
	// FilterModeAll shows every song in the library.
	FilterModeAll FilterMode = iota
	// FilterModeNew shows only songs created within MaxAge.
	FilterModeNew
)

// FilterOptions is the filter specification applied both to the bulk reload
// query and to every incrementally added song.
type FilterOptions struct {
	Mode   FilterMode
	MaxAge time.Duration // only consulted in FilterModeNew; 0 means unlimited
	Text   string        // whitespace-separated tokens, all must match
}

// Matches reports whether a song passes the filter.
func (o FilterOptions) Matches(song Song) bool {
	return o.matchesAt(song, time.Now())
}

func (o FilterOptions) matchesAt(song Song, now time.Time) bool {
	if o.Mode == FilterModeNew && o.MaxAge > 0 {
		cutoff := now.Add(-o.MaxAge).Unix()
		if song.CTime < cutoff {
			return false
		}
	}

	for _, token := range strings.Fields(strings.ToLower(o.Text)) {
		if !songContains(song, token) {
			return false
		}
	}
	return true
}

func songContains(song Song, token string) bool {
	for _, field := range []string{
		song.Title, song.Artist, song.AlbumArtist, song.Album,
		song.Genre, song.Composer, song.Performer, song.Grouping,
	} {
		if strings.Contains(strings.ToLower(field), token) {
			return true
		}
	}
	return false
}
