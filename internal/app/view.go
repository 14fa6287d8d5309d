package app

import (
	"strings"

	"github.com/mlegeay/treble/internal/ui/render"
	"github.com/mlegeay/treble/internal/ui/styles"
)

// View renders the browser and, while a scan runs, a one-line status bar
// under it.
func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(a.collection.View())
	if a.scanStatus != "" {
		b.WriteByte('\n')
		b.WriteString(styles.T().S().Muted.Render(render.TruncateAndPad(a.scanStatus, a.width)))
	}
	return b.String()
}
