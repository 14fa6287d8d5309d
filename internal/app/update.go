package app

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mlegeay/treble/internal/ui/action"
	"github.com/mlegeay/treble/internal/ui/collectionview"
)

// Update routes messages. Listener messages re-arm their channel read so
// the streams keep flowing for the lifetime of the program.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resizeCollection()
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			// In filter mode "q" is ordinary text.
			if !a.collection.Filtering() {
				return a, tea.Quit
			}
		}
		var cmd tea.Cmd
		a.collection, cmd = a.collection.Update(msg)
		a.saveState()
		return a, cmd

	case action.Msg:
		return a.handleAction(msg.Action)

	case collectionview.StoreEventMsg:
		var cmd tea.Cmd
		a.collection, cmd = a.collection.Update(msg)
		return a, tea.Batch(cmd, a.waitStoreEvent())

	case collectionview.ArtLoadedMsg:
		var cmd tea.Cmd
		a.collection, cmd = a.collection.Update(msg)
		return a, tea.Batch(cmd, a.waitArtResult())

	case scanProgressMsg:
		a.scanStatus = formatScanStatus(msg)
		a.resizeCollection()
		return a, a.waitScanProgress()

	case scanDoneMsg:
		a.scanStatus = ""
		a.resizeCollection()
		return a, nil
	}

	var cmd tea.Cmd
	a.collection, cmd = a.collection.Update(msg)
	return a, cmd
}

func (a App) handleAction(act action.Action) (tea.Model, tea.Cmd) {
	switch act := act.(type) {
	case collectionview.ReloadRequested:
		return a, a.reload(act)
	case collectionview.SongsActivated:
		// No playback backend; activation is surfaced for queue
		// integrations and logged for now.
		slog.Info("songs activated", "count", len(act.Songs))
		return a, nil
	default:
		slog.Debug("unhandled action", "type", act.ActionType())
		return a, nil
	}
}

// resizeCollection reserves the bottom line for the scan status while a
// scan is running.
func (a *App) resizeCollection() {
	height := a.height
	if a.scanStatus != "" {
		height--
	}
	a.collection.SetSize(a.width, height)
}

func formatScanStatus(p scanProgressMsg) string {
	switch p.Phase {
	case "scanning":
		return fmt.Sprintf("scanning  %d files found", p.Total)
	case "processing":
		return fmt.Sprintf("importing  %d/%d  %s", p.Current, p.Total, p.CurrentFile)
	case "cleaning":
		return "removing vanished files"
	default:
		return ""
	}
}
