// Command trebleimport imports music sources into the library database
// without starting the TUI. Sources come from the command line, or from
// the config file when none are given.
package main

import (
	"flag"
	"log"

	"github.com/dustin/go-humanize"

	"github.com/mlegeay/treble/internal/config"
	"github.com/mlegeay/treble/internal/library"
)

func main() {
	full := flag.Bool("full", false, "wipe the database and re-import from scratch")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	sources := flag.Args()
	if len(sources) == 0 {
		sources = cfg.LibrarySources
	}
	if len(sources) == 0 {
		log.Fatal("No sources: pass directories as arguments or set library_sources in the config")
	}

	store, err := library.Open(cfg.DatabasePath())
	if err != nil {
		log.Fatalf("Failed to open library: %v", err)
	}
	defer store.Close()

	if *full {
		if err := store.Reset(); err != nil {
			log.Fatalf("Failed to reset library: %v", err)
		}
	}

	progress := make(chan library.ScanProgress, 16)
	done := make(chan error, 1)
	go func() {
		done <- store.Scan(sources, progress)
	}()

	for p := range progress {
		switch p.Phase {
		case "scanning":
			log.Printf("Discovered %s files", humanize.Comma(int64(p.Total)))
		case "processing":
			log.Printf("Importing %d/%d: %s", p.Current, p.Total, p.CurrentFile)
		case "cleaning":
			log.Println("Removing vanished files")
		}
	}
	if err := <-done; err != nil {
		log.Fatalf("Scan failed: %v", err)
	}

	totals, err := store.Totals()
	if err != nil {
		log.Fatalf("Failed to read totals: %v", err)
	}
	log.Printf("Library: %s songs, %s artists, %s albums",
		humanize.Comma(int64(totals.Songs)),
		humanize.Comma(int64(totals.Artists)),
		humanize.Comma(int64(totals.Albums)))
}
