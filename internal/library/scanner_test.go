package library

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mlegeay/treble/internal/collection"
)

func runScan(t *testing.T, s *Store, sources []string) []ScanProgress {
	t.Helper()
	progress := make(chan ScanProgress, 64)
	errCh := make(chan error, 1)
	go func() { errCh <- s.Scan(sources, progress) }()

	var seen []ScanProgress
	for p := range progress {
		seen = append(seen, p)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("Scan: %v", err)
	}
	return seen
}

func TestIsMusicFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/music/a.flac", true},
		{"/music/a.FLAC", true},
		{"/music/a.mp3", true},
		{"/music/a.opus", true},
		{"/music/cover.jpg", false},
		{"/music/notes.txt", false},
		{"/music/noext", false},
	}
	for _, tt := range tests {
		if got := IsMusicFile(tt.path); got != tt.want {
			t.Errorf("IsMusicFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestScanSkipsUnreadableFiles(t *testing.T) {
	s := openTestStore(t)
	dir := t.TempDir()

	// Not a real FLAC; tag reading fails and the file is skipped.
	if err := os.WriteFile(filepath.Join(dir, "garbage.flac"), []byte("not audio"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600); err != nil {
		t.Fatal(err)
	}

	seen := runScan(t, s, []string{dir})

	songs, err := s.Songs(collection.FilterOptions{})
	if err != nil {
		t.Fatalf("Songs: %v", err)
	}
	if len(songs) != 0 {
		t.Errorf("songs = %d, want 0", len(songs))
	}
	if len(seen) == 0 || seen[len(seen)-1].Phase != "done" {
		t.Errorf("progress did not end with done: %+v", seen)
	}
}

func TestScanRemovesVanishedSongs(t *testing.T) {
	s := openTestStore(t)
	dir := t.TempDir()

	// A song whose file no longer exists under the scanned source.
	gone := collection.Song{
		Location: filepath.Join(dir, "gone.flac"),
		Title:    "Gone",
		Artist:   "Artist",
		Album:    "Album",
		CTime:    time.Now().Unix(),
	}
	// A song outside the scanned source stays.
	outside := collection.Song{
		Location: "/elsewhere/keep.flac",
		Title:    "Keep",
		Artist:   "Artist",
		Album:    "Album",
		CTime:    time.Now().Unix(),
	}
	if err := s.AddSongs([]collection.Song{gone, outside}); err != nil {
		t.Fatalf("AddSongs: %v", err)
	}

	runScan(t, s, []string{dir})

	songs, err := s.Songs(collection.FilterOptions{})
	if err != nil {
		t.Fatalf("Songs: %v", err)
	}
	if len(songs) != 1 || songs[0].Title != "Keep" {
		t.Errorf("songs after scan = %+v, want only Keep", songs)
	}
}
