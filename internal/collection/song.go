// Package collection maintains an in-memory hierarchical index over the
// music library and keeps it consistent under incremental updates.
package collection

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Song is the collection metadata for a single track.
type Song struct {
	ID           int64
	Title        string
	Artist       string
	AlbumArtist  string
	Album        string
	AlbumID      string
	Genre        string
	Composer     string
	Performer    string
	Grouping     string
	Year         int
	OriginalYear int
	Disc         int
	Track        int
	Bitrate      int
	Samplerate   int
	Bitdepth     int
	Filetype     string
	Compilation  bool
	Location     string
	CTime        int64
	MTime        int64
}

// EffectiveAlbumArtist returns the album artist, falling back to the track
// artist when no album artist is tagged.
func (s Song) EffectiveAlbumArtist() string {
	if s.AlbumArtist == "" {
		return s.Artist
	}
	return s.AlbumArtist
}

// EffectiveAlbum returns the album, falling back to the title.
func (s Song) EffectiveAlbum() string {
	if s.Album == "" {
		return s.Title
	}
	return s.Album
}

// EffectiveOriginalYear returns the original release year, falling back to
// the release year when unknown.
func (s Song) EffectiveOriginalYear() int {
	if s.OriginalYear <= 0 {
		return s.Year
	}
	return s.OriginalYear
}

// IsCompilation reports whether the song belongs to a compilation album.
func (s Song) IsCompilation() bool {
	return s.Compilation
}

// IsEditable reports whether the song's tags can be rewritten, which requires
// a local file location.
func (s Song) IsEditable() bool {
	return s.Location != "" && !strings.Contains(s.Location, "://")
}

// TitleWithCompilationArtist returns the display title for a song node,
// prefixed with the track artist for compilation songs so tracks under the
// shared "Various artists" container stay attributable.
func (s Song) TitleWithCompilationArtist() string {
	title := s.Title
	if title == "" {
		title = filepath.Base(s.Location)
	}
	if s.IsCompilation() && s.Artist != "" && !strings.Contains(strings.ToLower(s.Artist), "various") {
		title = s.Artist + " - " + title
	}
	return title
}

var albumDiscPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s+-*\s*(Disc|CD)\s*[0-9]{1,2}$`),
	regexp.MustCompile(`(?i)\s+-*\s*\(\s*(Disc|CD)\s*[0-9]{1,2}\)$`),
	regexp.MustCompile(`(?i)\s+-*\s*\[\s*(Disc|CD)\s*[0-9]{1,2}\]$`),
}

// AlbumContainsDisc reports whether the album title already carries a disc
// suffix, in which case the pretty album/disc text must not add another.
func AlbumContainsDisc(album string) bool {
	for _, re := range albumDiscPatterns {
		if re.MatchString(album) {
			return true
		}
	}
	return false
}

// MetadataEqual reports whether two songs are equal in every field that
// affects how the collection tree displays them.
func MetadataEqual(a, b Song) bool {
	return a.Title == b.Title &&
		a.Album == b.Album &&
		a.Artist == b.Artist &&
		a.AlbumArtist == b.AlbumArtist &&
		a.Track == b.Track &&
		a.Disc == b.Disc &&
		a.Year == b.Year &&
		a.OriginalYear == b.OriginalYear &&
		a.Genre == b.Genre &&
		a.Compilation == b.Compilation &&
		a.Composer == b.Composer &&
		a.Performer == b.Performer &&
		a.Grouping == b.Grouping &&
		a.Bitrate == b.Bitrate &&
		a.Samplerate == b.Samplerate &&
		a.Bitdepth == b.Bitdepth
}
