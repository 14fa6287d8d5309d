package library

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mlegeay/treble/internal/collection"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "treble.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testSong(location, artist, album, title string) collection.Song {
	return collection.Song{
		Location:    location,
		Title:       title,
		Artist:      artist,
		AlbumArtist: artist,
		Album:       album,
		CTime:       time.Now().Unix(),
		MTime:       time.Now().Unix(),
	}
}

func drainEvents(ch <-chan Event) []Event {
	var events []Event
	for {
		select {
		case ev := <-ch:
			events = append(events, ev)
		default:
			return events
		}
	}
}

func TestAddSongsAssignsIDs(t *testing.T) {
	s := openTestStore(t)
	ch := s.Subscribe()

	err := s.AddSongs([]collection.Song{
		testSong("/music/a.flac", "Artist", "Album", "One"),
		testSong("/music/b.flac", "Artist", "Album", "Two"),
	})
	if err != nil {
		t.Fatalf("AddSongs: %v", err)
	}

	events := drainEvents(ch)
	if len(events) != 2 {
		t.Fatalf("events = %d, want added + totals", len(events))
	}
	if events[0].Type != EventSongsAdded || len(events[0].Songs) != 2 {
		t.Fatalf("first event = %+v", events[0])
	}
	for _, song := range events[0].Songs {
		if song.ID == 0 {
			t.Errorf("song %q has no ID assigned", song.Title)
		}
	}
	if events[1].Type != EventTotalsUpdated || events[1].Totals.Songs != 2 {
		t.Errorf("totals event = %+v", events[1])
	}
}

func TestAddSongsRewritesExistingLocation(t *testing.T) {
	s := openTestStore(t)

	song := testSong("/music/a.flac", "Artist", "Album", "One")
	if err := s.AddSongs([]collection.Song{song}); err != nil {
		t.Fatalf("AddSongs: %v", err)
	}

	ch := s.Subscribe()
	song.Title = "One (Remaster)"
	if err := s.AddSongs([]collection.Song{song}); err != nil {
		t.Fatalf("AddSongs rewrite: %v", err)
	}

	events := drainEvents(ch)
	if len(events) == 0 || events[0].Type != EventSongsChanged {
		t.Fatalf("expected changed event, got %+v", events)
	}
	if events[0].Songs[0].ID == 0 {
		t.Error("rewritten song lost its ID")
	}

	got, err := s.SongByLocation("/music/a.flac")
	if err != nil {
		t.Fatalf("SongByLocation: %v", err)
	}
	if got.Title != "One (Remaster)" {
		t.Errorf("Title = %q, want rewritten title", got.Title)
	}
}

func TestRemoveSongsPublishesRemovedRows(t *testing.T) {
	s := openTestStore(t)

	if err := s.AddSongs([]collection.Song{
		testSong("/music/a.flac", "Artist", "Album", "One"),
		testSong("/music/b.flac", "Artist", "Album", "Two"),
	}); err != nil {
		t.Fatalf("AddSongs: %v", err)
	}
	songs, err := s.Songs(collection.FilterOptions{})
	if err != nil {
		t.Fatalf("Songs: %v", err)
	}

	ch := s.Subscribe()
	if err := s.RemoveSongs([]int64{songs[0].ID}); err != nil {
		t.Fatalf("RemoveSongs: %v", err)
	}

	events := drainEvents(ch)
	if len(events) != 2 {
		t.Fatalf("events = %d, want removed + totals", len(events))
	}
	if events[0].Type != EventSongsRemoved || len(events[0].Songs) != 1 {
		t.Fatalf("first event = %+v", events[0])
	}
	if events[0].Songs[0].ID != songs[0].ID {
		t.Error("removed event does not carry the deleted row")
	}
	if events[1].Totals.Songs != 1 {
		t.Errorf("totals after removal = %+v", events[1].Totals)
	}
}

func TestSongsAgeFilter(t *testing.T) {
	s := openTestStore(t)

	fresh := testSong("/music/fresh.flac", "A", "X", "Fresh")
	stale := testSong("/music/stale.flac", "B", "Y", "Stale")
	stale.CTime = time.Now().Add(-48 * time.Hour).Unix()
	if err := s.AddSongs([]collection.Song{fresh, stale}); err != nil {
		t.Fatalf("AddSongs: %v", err)
	}

	songs, err := s.Songs(collection.FilterOptions{
		Mode:   collection.FilterModeNew,
		MaxAge: 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("Songs: %v", err)
	}
	if len(songs) != 1 || songs[0].Title != "Fresh" {
		t.Errorf("filtered songs = %+v, want only Fresh", songs)
	}
}

func TestSongsTextFilter(t *testing.T) {
	s := openTestStore(t)

	if err := s.AddSongs([]collection.Song{
		testSong("/music/a.flac", "Led Zeppelin", "IV", "Black Dog"),
		testSong("/music/b.flac", "Artist", "Album", "Other"),
	}); err != nil {
		t.Fatalf("AddSongs: %v", err)
	}

	songs, err := s.Songs(collection.FilterOptions{Text: "zeppelin"})
	if err != nil {
		t.Fatalf("Songs: %v", err)
	}
	if len(songs) != 1 || songs[0].Artist != "Led Zeppelin" {
		t.Errorf("filtered songs = %+v", songs)
	}
}

func TestTotals(t *testing.T) {
	s := openTestStore(t)

	a1 := testSong("/music/1.flac", "Artist1", "AlbumX", "One")
	a2 := testSong("/music/2.flac", "Artist1", "AlbumX", "Two")
	a3 := testSong("/music/3.flac", "Artist1", "AlbumY", "Three")
	a4 := testSong("/music/4.flac", "Artist2", "AlbumZ", "Four")
	if err := s.AddSongs([]collection.Song{a1, a2, a3, a4}); err != nil {
		t.Fatalf("AddSongs: %v", err)
	}

	totals, err := s.Totals()
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if totals.Songs != 4 || totals.Artists != 2 || totals.Albums != 3 {
		t.Errorf("Totals = %+v, want 4 songs, 2 artists, 3 albums", totals)
	}
}

func TestUpdateSongs(t *testing.T) {
	s := openTestStore(t)

	if err := s.AddSongs([]collection.Song{
		testSong("/music/a.flac", "Artist", "Album", "Old"),
	}); err != nil {
		t.Fatalf("AddSongs: %v", err)
	}
	songs, _ := s.Songs(collection.FilterOptions{})

	songs[0].Title = "New"
	if err := s.UpdateSongs(songs); err != nil {
		t.Fatalf("UpdateSongs: %v", err)
	}

	got, err := s.SongByID(songs[0].ID)
	if err != nil {
		t.Fatalf("SongByID: %v", err)
	}
	if got.Title != "New" {
		t.Errorf("Title = %q, want New", got.Title)
	}
}

func TestResetWipesAndAnnounces(t *testing.T) {
	s := openTestStore(t)

	if err := s.AddSongs([]collection.Song{
		testSong("/music/a.flac", "Artist", "Album", "One"),
		testSong("/music/b.flac", "Artist", "Album", "Two"),
	}); err != nil {
		t.Fatalf("AddSongs: %v", err)
	}

	ch := s.Subscribe()
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	events := drainEvents(ch)
	if len(events) != 2 {
		t.Fatalf("events = %d, want reset + totals", len(events))
	}
	if events[0].Type != EventReset {
		t.Fatalf("first event = %+v, want reset", events[0])
	}
	if events[1].Totals.Songs != 0 {
		t.Errorf("totals after reset = %+v", events[1].Totals)
	}

	songs, err := s.Songs(collection.FilterOptions{})
	if err != nil {
		t.Fatalf("Songs: %v", err)
	}
	if len(songs) != 0 {
		t.Errorf("songs after reset = %d, want 0", len(songs))
	}
}
