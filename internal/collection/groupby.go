package collection

import (
	"fmt"
	"log/slog"
	"strconv"
)

// GroupBy selects the grouping criterion for one tree level.
// The numeric codes are persisted, so existing values must not change.
type GroupBy int

const (
	GroupByNone GroupBy = iota
	GroupByAlbumArtist
	GroupByArtist
	GroupByAlbum
	GroupByAlbumDisc
	GroupByYearAlbum
	GroupByYearAlbumDisc
	GroupByOriginalYearAlbum
	GroupByOriginalYearAlbumDisc
	GroupByDisc
	GroupByYear
	GroupByOriginalYear
	GroupByGenre
	GroupByComposer
	GroupByPerformer
	GroupByGrouping
	GroupByFileType
	GroupByFormat
	GroupBySamplerate
	GroupByBitdepth
	GroupByBitrate

	groupByCount
)

var groupByNames = map[GroupBy]string{
	GroupByNone:                  "None",
	GroupByAlbumArtist:           "Album artist",
	GroupByArtist:                "Artist",
	GroupByAlbum:                 "Album",
	GroupByAlbumDisc:             "Album - Disc",
	GroupByYearAlbum:             "Year - Album",
	GroupByYearAlbumDisc:         "Year - Album - Disc",
	GroupByOriginalYearAlbum:     "Original year - Album",
	GroupByOriginalYearAlbumDisc: "Original year - Album - Disc",
	GroupByDisc:                  "Disc",
	GroupByYear:                  "Year",
	GroupByOriginalYear:          "Original year",
	GroupByGenre:                 "Genre",
	GroupByComposer:              "Composer",
	GroupByPerformer:             "Performer",
	GroupByGrouping:              "Grouping",
	GroupByFileType:              "File type",
	GroupByFormat:                "Format",
	GroupBySamplerate:            "Sample rate",
	GroupByBitdepth:              "Bit depth",
	GroupByBitrate:               "Bitrate",
}

func (g GroupBy) String() string {
	if name, ok := groupByNames[g]; ok {
		return name
	}
	return fmt.Sprintf("GroupBy(%d)", int(g))
}

// IsArtistGroupBy reports whether the criterion groups by an artist field,
// which is where compilation songs are routed to "Various artists".
func IsArtistGroupBy(g GroupBy) bool {
	return g == GroupByArtist || g == GroupByAlbumArtist
}

// IsAlbumGroupBy reports whether the criterion groups by an album field,
// which is where cover art applies.
func IsAlbumGroupBy(g GroupBy) bool {
	switch g {
	case GroupByAlbum, GroupByAlbumDisc, GroupByYearAlbum, GroupByYearAlbumDisc,
		GroupByOriginalYearAlbum, GroupByOriginalYearAlbumDisc:
		return true
	}
	return false
}

// Grouping is the ordered triple of criteria that defines the tree shape.
// GroupByNone terminates the hierarchy at that level.
type Grouping struct {
	First  GroupBy
	Second GroupBy
	Third  GroupBy
}

// DefaultGrouping matches a fresh install: artist, then album split by disc.
func DefaultGrouping() Grouping {
	return Grouping{First: GroupByAlbumArtist, Second: GroupByAlbumDisc, Third: GroupByNone}
}

// Level returns the criterion at level i. An out-of-range index falls back
// to the first level rather than panicking.
func (g Grouping) Level(i int) GroupBy {
	switch i {
	case 0:
		return g.First
	case 1:
		return g.Second
	case 2:
		return g.Third
	}
	slog.Warn("grouping level index out of range", "index", i)
	return g.First
}

// Depth returns the number of container levels before song nodes.
func (g Grouping) Depth() int {
	for i := 0; i < 3; i++ {
		if g.Level(i) == GroupByNone {
			return i
		}
	}
	return 3
}

// HasAlbumLevel reports whether any level up to and including maxLevel
// groups by an album field.
func (g Grouping) HasAlbumLevel(maxLevel int) bool {
	for i := 0; i <= maxLevel && i < 3; i++ {
		if IsAlbumGroupBy(g.Level(i)) {
			return true
		}
	}
	return false
}

// Encode serializes the triple as three fixed-width two-digit level codes.
func (g Grouping) Encode() string {
	return fmt.Sprintf("%02d%02d%02d", int(g.First), int(g.Second), int(g.Third))
}

// DecodeGrouping parses an encoded grouping. Malformed input yields the
// default grouping; an individual out-of-range code decodes as GroupByNone.
func DecodeGrouping(s string) Grouping {
	if len(s) != 6 {
		if s != "" {
			slog.Warn("malformed grouping code", "value", s)
		}
		return DefaultGrouping()
	}
	decode := func(part string) GroupBy {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n >= int(groupByCount) {
			slog.Warn("grouping level code out of range", "value", part)
			return GroupByNone
		}
		return GroupBy(n)
	}
	return Grouping{
		First:  decode(s[0:2]),
		Second: decode(s[2:4]),
		Third:  decode(s[4:6]),
	}
}
