package collectionview

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/mlegeay/treble/internal/collection"
	"github.com/mlegeay/treble/internal/ui/render"
	"github.com/mlegeay/treble/internal/ui/styles"
)

// View renders the collection browser.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteByte('\n')
	b.WriteString(styles.T().S().Subtle.Render(render.Separator(m.width)))
	b.WriteByte('\n')

	height := m.listHeight()
	for i := 0; i < height; i++ {
		idx := i + m.cur.Offset()
		if idx >= len(m.rows) {
			b.WriteString(render.EmptyLine(m.width))
		} else {
			b.WriteString(m.renderRow(m.rows[idx], idx == m.cur.Pos()))
		}
		b.WriteByte('\n')
	}

	b.WriteString(m.renderFooter())
	if m.filtering {
		b.WriteByte('\n')
		b.WriteString(render.TruncateAndPad(m.filterInput.View(), m.width))
	}
	return b.String()
}

func (m Model) renderHeader() string {
	t := styles.T()
	left := t.S().Title.Render("Collection")

	grouping := m.engine.Grouping()
	var parts []string
	for i := 0; i < grouping.Depth(); i++ {
		parts = append(parts, grouping.Level(i).String())
	}
	right := t.S().Muted.Render(strings.Join(parts, " / "))
	if text := m.engine.FilterText(); text != "" {
		right = t.S().Base.Render("filter: "+text) + "  " + right
	}
	return render.Row(left, right, m.width)
}

func (m Model) renderRow(r row, isCursor bool) string {
	t := styles.T()

	var line string
	switch r.info.Type {
	case collection.NodeDivider:
		label := " " + r.info.DisplayText + " "
		fill := max(m.width-len([]rune(label))-2, 0)
		line = "─" + label + strings.Repeat("─", fill+1)
		return t.S().Divider.Render(render.TruncateAndPad(line, m.width))

	case collection.NodeLoading:
		line = "  " + r.info.DisplayText
		return t.S().Muted.Render(render.TruncateAndPad(line, m.width))

	case collection.NodeContainer:
		arrow := "▸"
		if m.expanded[r.info.Key] {
			arrow = "▾"
		}
		line = strings.Repeat("  ", r.depth) + arrow + " " + m.artMarker(r) + r.info.DisplayText

	case collection.NodeSong:
		title := r.info.DisplayText
		if song, ok := m.engine.SongFromID(r.info.SongID); ok && song.Track > 0 {
			title = fmt.Sprintf("%02d. %s", song.Track, r.info.DisplayText)
		}
		line = strings.Repeat("  ", r.depth) + "  " + title
	}

	line = render.TruncateAndPad(line, m.width)
	switch {
	case isCursor && m.focused:
		return t.S().Cursor.Render(line)
	case r.info.Type == collection.NodeSong:
		return t.S().Base.Render(line)
	default:
		return t.S().Title.Render(line)
	}
}

// artMarker requests cover art for album rows and shows its cache state.
// The async load resolves through an ArtLoadedMsg and the next render
// picks the image up from the memory tier.
func (m Model) artMarker(r row) string {
	if m.art == nil || !m.engine.PrettyCovers() || !m.engine.IsAlbumNode(r.id) {
		return ""
	}
	key := m.engine.ArtCacheKey(r.id)
	_, locations := m.engine.ChildSongs(r.id)
	if img := m.art.Image(key, locations, int32(r.id)); img != nil {
		return "▣ "
	}
	return "◌ "
}

func (m Model) renderFooter() string {
	t := styles.T()

	if m.errText != "" {
		return t.S().Error.Render(render.TruncateAndPad(m.errText, m.width))
	}

	songs, artists, albums := m.engine.Totals()
	left := t.S().Muted.Render(fmt.Sprintf("%s songs  %s artists  %s albums",
		humanize.Comma(int64(songs)), humanize.Comma(int64(artists)), humanize.Comma(int64(albums))))

	var right string
	switch {
	case m.engine.IsLoading():
		right = t.S().Base.Render("loading…")
	case m.engine.HasPendingUpdates():
		right = t.S().Base.Render("updating…")
	}
	return render.Row(left, right, m.width)
}
