package collection

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Key and sort-text derivation. Everything in this file is a pure function
// of a song (or a finished item) and the grouping criterion.

const unknownText = "Unknown"

// TextOrUnknown substitutes a placeholder for empty tag fields.
func TextOrUnknown(text string) string {
	if text == "" {
		return unknownText
	}
	return text
}

// PrettyYearAlbum renders "2003 - Album", or just the album when the year
// is unknown.
func PrettyYearAlbum(year int, album string) string {
	if year <= 0 {
		return TextOrUnknown(album)
	}
	return strconv.Itoa(year) + " - " + TextOrUnknown(album)
}

// PrettyAlbumDisc renders "Album - (Disc 2)" unless the album title already
// carries a disc suffix.
func PrettyAlbumDisc(album string, disc int) string {
	if disc <= 0 || AlbumContainsDisc(album) {
		return TextOrUnknown(album)
	}
	return TextOrUnknown(album) + " - (Disc " + strconv.Itoa(disc) + ")"
}

// PrettyYearAlbumDisc combines the year and disc renderings.
func PrettyYearAlbumDisc(year int, album string, disc int) string {
	var str string
	if year <= 0 {
		str = TextOrUnknown(album)
	} else {
		str = strconv.Itoa(year) + " - " + TextOrUnknown(album)
	}
	if !AlbumContainsDisc(album) && disc > 0 {
		str += " - (Disc " + strconv.Itoa(disc) + ")"
	}
	return str
}

// PrettyDisc renders "Disc N", treating missing disc numbers as disc 1.
func PrettyDisc(disc int) string {
	return "Disc " + strconv.Itoa(max(1, disc))
}

var sortTextStripRe = regexp.MustCompile(`[^\p{L}\p{N}_ ]`)

// SortText lowercases text and strips punctuation for locale-friendly
// lexical comparison. Empty text sorts before everything else.
func SortText(text string) string {
	if text == "" {
		return " unknown"
	}
	return sortTextStripRe.ReplaceAllString(strings.ToLower(text), "")
}

// articles recognized by the skip-leading-article transform. Each entry
// includes the trailing space so "them" is not split.
var articles = []string{"the ", "a ", "an "}

// SortTextForArtist normalizes an artist name, optionally moving a leading
// article to the end ("The Kinks" sorts as "kinks, the").
func SortTextForArtist(artist string, skipArticles bool) string {
	artist = SortText(artist)
	if skipArticles {
		for _, article := range articles {
			if strings.HasPrefix(artist, article) {
				artist = artist[len(article):] + ", " + strings.TrimSuffix(article, " ")
				break
			}
		}
	}
	return artist
}

// SortTextForNumber zero-pads a number to four digits so numeric levels
// sort correctly as text.
func SortTextForNumber(n int) string {
	return fmt.Sprintf("%04d", n)
}

// SortTextForSong orders songs within an album by disc then track, with the
// song location as a stable tiebreaker.
func SortTextForSong(song Song) string {
	return fmt.Sprintf("%06d", max(0, song.Disc)*1000+max(0, song.Track)) + song.Location
}

// ContainerKey derives the grouping key for a song at one level. Album-level
// keys carry the album id (and the grouping tag when albums are separated by
// grouping) to keep distinct releases with identical titles apart.
func ContainerKey(groupBy GroupBy, separateAlbumsByGrouping bool, song Song) string {
	albumSuffix := func(key string) string {
		if song.AlbumID != "" {
			key += "-" + song.AlbumID
		}
		if separateAlbumsByGrouping && song.Grouping != "" {
			key += "-" + song.Grouping
		}
		return key
	}

	switch groupBy {
	case GroupByAlbumArtist:
		return TextOrUnknown(song.EffectiveAlbumArtist())
	case GroupByArtist:
		return TextOrUnknown(song.Artist)
	case GroupByAlbum:
		return albumSuffix(TextOrUnknown(song.Album))
	case GroupByAlbumDisc:
		return albumSuffix(PrettyAlbumDisc(song.Album, song.Disc))
	case GroupByYearAlbum:
		return albumSuffix(PrettyYearAlbum(song.Year, song.Album))
	case GroupByYearAlbumDisc:
		return albumSuffix(PrettyYearAlbumDisc(song.Year, song.Album, song.Disc))
	case GroupByOriginalYearAlbum:
		return albumSuffix(PrettyYearAlbum(song.EffectiveOriginalYear(), song.Album))
	case GroupByOriginalYearAlbumDisc:
		return albumSuffix(PrettyYearAlbumDisc(song.EffectiveOriginalYear(), song.Album, song.Disc))
	case GroupByDisc:
		return PrettyDisc(song.Disc)
	case GroupByYear:
		return strconv.Itoa(max(0, song.Year))
	case GroupByOriginalYear:
		return strconv.Itoa(max(0, song.EffectiveOriginalYear()))
	case GroupByGenre:
		return TextOrUnknown(song.Genre)
	case GroupByComposer:
		return TextOrUnknown(song.Composer)
	case GroupByPerformer:
		return TextOrUnknown(song.Performer)
	case GroupByGrouping:
		return TextOrUnknown(song.Grouping)
	case GroupByFileType:
		return TextOrUnknown(song.Filetype)
	case GroupByFormat:
		return formatKey(song)
	case GroupBySamplerate:
		return strconv.Itoa(max(0, song.Samplerate))
	case GroupByBitdepth:
		return strconv.Itoa(max(0, song.Bitdepth))
	case GroupByBitrate:
		return strconv.Itoa(max(0, song.Bitrate))
	}
	return ""
}

// formatKey renders "FLAC (44.1/16)" style keys from the stream properties.
func formatKey(song Song) string {
	filetype := TextOrUnknown(song.Filetype)
	if song.Samplerate <= 0 {
		return filetype
	}
	khz := strconv.FormatFloat(float64(song.Samplerate)/1000.0, 'g', 5, 64)
	if song.Bitdepth <= 0 {
		return fmt.Sprintf("%s (%s)", filetype, khz)
	}
	return fmt.Sprintf("%s (%s/%d)", filetype, khz, song.Bitdepth)
}

// DividerKey buckets a finished top-level item under a divider. Items that
// must share a divider produce the same key; an empty key suppresses the
// divider for that item.
func DividerKey(groupBy GroupBy, item *Item) string {
	if item.SortText == "" {
		return ""
	}

	switch groupBy {
	case GroupByAlbumArtist, GroupByArtist, GroupByAlbum, GroupByAlbumDisc,
		GroupByComposer, GroupByPerformer, GroupByGrouping, GroupByDisc,
		GroupByGenre, GroupByFormat, GroupByFileType:
		c := []rune(item.SortText)[0]
		if unicode.IsDigit(c) {
			return "0"
		}
		if c == ' ' {
			return ""
		}
		return string(foldRune(c))

	case GroupByYear:
		return SortTextForNumber(max(0, item.Metadata.Year) / 10 * 10)
	case GroupByOriginalYear:
		return SortTextForNumber(max(0, item.Metadata.EffectiveOriginalYear()) / 10 * 10)
	case GroupByYearAlbum, GroupByYearAlbumDisc:
		return SortTextForNumber(max(0, item.Metadata.Year))
	case GroupByOriginalYearAlbum, GroupByOriginalYearAlbumDisc:
		return SortTextForNumber(max(0, item.Metadata.EffectiveOriginalYear()))
	case GroupBySamplerate:
		return SortTextForNumber(max(0, item.Metadata.Samplerate))
	case GroupByBitdepth:
		return SortTextForNumber(max(0, item.Metadata.Bitdepth))
	case GroupByBitrate:
		return SortTextForNumber(max(0, item.Metadata.Bitrate))
	}
	return ""
}

// foldRune strips diacritics from a letter by taking the base rune of its
// canonical decomposition. Only the first decomposition stage is folded.
func foldRune(c rune) rune {
	decomposed := norm.NFD.String(string(c))
	for _, r := range decomposed {
		return r
	}
	return c
}

// DividerDisplayText renders the label shown on a divider row.
func DividerDisplayText(groupBy GroupBy, key string) string {
	switch groupBy {
	case GroupByAlbumArtist, GroupByArtist, GroupByAlbum, GroupByAlbumDisc,
		GroupByComposer, GroupByPerformer, GroupByDisc, GroupByGrouping,
		GroupByGenre, GroupByFileType, GroupByFormat:
		if key == "0" {
			return "0-9"
		}
		return strings.ToUpper(key)

	case GroupByYearAlbum, GroupByYearAlbumDisc, GroupByOriginalYearAlbum, GroupByOriginalYearAlbumDisc:
		if n, err := strconv.Atoi(key); err == nil && n == 0 {
			return unknownText
		}
		return strings.ToUpper(key)

	case GroupByYear, GroupByOriginalYear, GroupBySamplerate, GroupByBitdepth, GroupByBitrate:
		n, err := strconv.Atoi(key)
		if err != nil || n == 0 {
			return unknownText
		}
		return strconv.Itoa(n) // strips the zero padding
	}
	return ""
}
