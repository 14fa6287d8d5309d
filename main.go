package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mlegeay/treble/internal/app"
	"github.com/mlegeay/treble/internal/artwork"
	"github.com/mlegeay/treble/internal/config"
	"github.com/mlegeay/treble/internal/library"
	"github.com/mlegeay/treble/internal/logging"
	"github.com/mlegeay/treble/internal/state"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Stdout belongs to the TUI, so logs go to a file.
	logCloser, err := logging.Setup(cfg.Log.Level, cfg.LogPath())
	if err != nil {
		logging.Discard()
	} else {
		defer logCloser.Close()
	}

	store, err := library.Open(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("opening library: %w", err)
	}
	defer store.Close()

	// The disk tier is optional; a nil handle leaves the memory tier alone.
	var disk *artwork.DiskCache
	if cfg.ArtworkDiskCacheEnabled() {
		if disk, err = artwork.AcquireDiskCache(cfg.ArtworkCacheDir()); err != nil {
			slog.Warn("artwork disk cache unavailable", "error", err)
			disk = nil
		}
	}
	art := artwork.NewCoordinator(disk, artwork.Options{
		Size:     cfg.ArtworkSize(),
		MemBytes: cfg.ArtworkMemoryBytes(),
	})
	defer art.Close()

	stateMgr, err := state.Open()
	if err != nil {
		slog.Warn("browser state unavailable", "error", err)
		stateMgr = nil
	} else {
		defer stateMgr.Close()
	}

	p := tea.NewProgram(app.New(cfg, store, art, stateMgr), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
