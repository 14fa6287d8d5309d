// Package library persists the song database and notifies subscribers of
// every change, so in-memory indices can follow along incrementally.
package library

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mlegeay/treble/internal/collection"
	dbutil "github.com/mlegeay/treble/internal/db"
)

// EventType classifies a store notification.
type EventType int

const (
	// EventSongsAdded carries newly inserted songs.
	EventSongsAdded EventType = iota
	// EventSongsRemoved carries deleted songs.
	EventSongsRemoved
	// EventSongsChanged carries songs whose metadata was rewritten and may
	// have moved them in grouped views.
	EventSongsChanged
	// EventTotalsUpdated carries refreshed collection-wide counts.
	EventTotalsUpdated
	// EventReset signals that the whole database changed; consumers should
	// drop their state and reload.
	EventReset
)

// Event is one store notification.
type Event struct {
	Type   EventType
	Songs  []collection.Song
	Totals Totals
}

// Totals are collection-wide counters shown in status lines.
type Totals struct {
	Songs   int
	Artists int
	Albums  int
}

// Store is the SQLite-backed song database.
type Store struct {
	db *sql.DB

	mu          sync.Mutex
	subscribers []chan Event
}

// Open opens (creating if needed) the database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database and every subscriber channel.
func (s *Store) Close() error {
	s.mu.Lock()
	for _, ch := range s.subscribers {
		close(ch)
	}
	s.subscribers = nil
	s.mu.Unlock()
	return s.db.Close()
}

// Subscribe returns a channel of store events. The channel is buffered;
// a subscriber that stops draining loses events rather than blocking
// writers.
func (s *Store) Subscribe() <-chan Event {
	ch := make(chan Event, 64)
	s.mu.Lock()
	s.subscribers = append(s.subscribers, ch)
	s.mu.Unlock()
	return ch
}

func (s *Store) publish(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}

const songColumns = `id, location, title, artist, album_artist, album, album_id,
	genre, composer, performer, grouping, year, original_year, disc, track,
	bitrate, samplerate, bitdepth, filetype, compilation, ctime, mtime`

func scanSong(scan func(...any) error) (collection.Song, error) {
	var song collection.Song
	var compilation int
	err := scan(&song.ID, &song.Location, &song.Title, &song.Artist,
		&song.AlbumArtist, &song.Album, &song.AlbumID, &song.Genre,
		&song.Composer, &song.Performer, &song.Grouping, &song.Year,
		&song.OriginalYear, &song.Disc, &song.Track, &song.Bitrate,
		&song.Samplerate, &song.Bitdepth, &song.Filetype, &compilation,
		&song.CTime, &song.MTime)
	song.Compilation = compilation != 0
	return song, err
}

// Songs returns every song passing the filter, for bulk reloads. The age
// restriction runs in SQL; text matching stays in the collection layer so
// both paths share one implementation.
func (s *Store) Songs(filter collection.FilterOptions) ([]collection.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs`
	var args []any
	if filter.Mode == collection.FilterModeNew && filter.MaxAge > 0 {
		query += ` WHERE ctime >= ?`
		args = append(args, time.Now().Add(-filter.MaxAge).Unix())
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var songs []collection.Song
	for rows.Next() {
		song, err := scanSong(rows.Scan)
		if err != nil {
			return nil, err
		}
		if filter.Matches(song) {
			songs = append(songs, song)
		}
	}
	return songs, rows.Err()
}

// SongByID returns one song, sql.ErrNoRows when absent.
func (s *Store) SongByID(id int64) (collection.Song, error) {
	row := s.db.QueryRow(`SELECT `+songColumns+` FROM songs WHERE id = ?`, id)
	return scanSong(row.Scan)
}

// SongByLocation returns the song stored for a file location.
func (s *Store) SongByLocation(location string) (collection.Song, error) {
	row := s.db.QueryRow(`SELECT `+songColumns+` FROM songs WHERE location = ?`, location)
	return scanSong(row.Scan)
}

// AddSongs inserts new songs and rewrites existing ones, keyed on location.
// Inserts get their IDs assigned and come back on an added event; rewrites
// keep their IDs and come back on a changed event.
func (s *Store) AddSongs(songs []collection.Song) error {
	if len(songs) == 0 {
		return nil
	}

	var added, changed []collection.Song
	err := dbutil.WithTx(s.db, func(tx *sql.Tx) error {
		for _, song := range songs {
			var existingID int64
			err := tx.QueryRow(`SELECT id FROM songs WHERE location = ?`, song.Location).Scan(&existingID)
			switch {
			case errors.Is(err, sql.ErrNoRows):
				res, err := tx.Exec(`
					INSERT INTO songs (location, title, artist, album_artist, album, album_id,
						genre, composer, performer, grouping, year, original_year, disc, track,
						bitrate, samplerate, bitdepth, filetype, compilation, ctime, mtime)
					VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
					song.Location, song.Title, song.Artist, song.AlbumArtist, song.Album,
					song.AlbumID, song.Genre, song.Composer, song.Performer, song.Grouping,
					song.Year, song.OriginalYear, song.Disc, song.Track, song.Bitrate,
					song.Samplerate, song.Bitdepth, song.Filetype, boolInt(song.Compilation),
					song.CTime, song.MTime)
				if err != nil {
					return err
				}
				song.ID, err = res.LastInsertId()
				if err != nil {
					return err
				}
				added = append(added, song)
			case err != nil:
				return err
			default:
				song.ID = existingID
				if err := updateSong(tx, song); err != nil {
					return err
				}
				changed = append(changed, song)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if len(added) > 0 {
		s.publish(Event{Type: EventSongsAdded, Songs: added})
	}
	if len(changed) > 0 {
		s.publish(Event{Type: EventSongsChanged, Songs: changed})
	}
	return s.publishTotals()
}

// UpdateSongs rewrites songs by ID and publishes a changed event.
func (s *Store) UpdateSongs(songs []collection.Song) error {
	if len(songs) == 0 {
		return nil
	}

	err := dbutil.WithTx(s.db, func(tx *sql.Tx) error {
		for _, song := range songs {
			if err := updateSong(tx, song); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(Event{Type: EventSongsChanged, Songs: songs})
	return s.publishTotals()
}

// RemoveSongs deletes songs by ID and publishes a removed event carrying
// the deleted rows.
func (s *Store) RemoveSongs(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.Query(
		`SELECT `+songColumns+` FROM songs WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return err
	}
	var removed []collection.Song
	for rows.Next() {
		song, err := scanSong(rows.Scan)
		if err != nil {
			rows.Close()
			return err
		}
		removed = append(removed, song)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	if _, err := s.db.Exec(
		`DELETE FROM songs WHERE id IN (`+placeholders+`)`, args...); err != nil {
		return err
	}

	if len(removed) > 0 {
		s.publish(Event{Type: EventSongsRemoved, Songs: removed})
	}
	return s.publishTotals()
}

// Reset deletes every song and announces the wipe, so subscribers rebuild
// from scratch instead of replaying deletions one by one.
func (s *Store) Reset() error {
	if _, err := s.db.Exec(`DELETE FROM songs`); err != nil {
		return err
	}
	s.publish(Event{Type: EventReset})
	return s.publishTotals()
}

// Totals computes collection-wide counts. Artists count distinct effective
// album artists; albums count distinct artist/album pairs.
func (s *Store) Totals() (Totals, error) {
	var t Totals
	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COUNT(DISTINCT CASE WHEN album_artist != '' THEN album_artist ELSE artist END),
		       COUNT(DISTINCT CASE WHEN album_artist != '' THEN album_artist ELSE artist END || '/' || album)
		FROM songs
	`).Scan(&t.Songs, &t.Artists, &t.Albums)
	return t, err
}

func (s *Store) publishTotals() error {
	totals, err := s.Totals()
	if err != nil {
		return fmt.Errorf("computing totals: %w", err)
	}
	s.publish(Event{Type: EventTotalsUpdated, Totals: totals})
	return nil
}

func updateSong(tx *sql.Tx, song collection.Song) error {
	_, err := tx.Exec(`
		UPDATE songs SET location = ?, title = ?, artist = ?, album_artist = ?,
			album = ?, album_id = ?, genre = ?, composer = ?, performer = ?,
			grouping = ?, year = ?, original_year = ?, disc = ?, track = ?,
			bitrate = ?, samplerate = ?, bitdepth = ?, filetype = ?,
			compilation = ?, ctime = ?, mtime = ?
		WHERE id = ?`,
		song.Location, song.Title, song.Artist, song.AlbumArtist, song.Album,
		song.AlbumID, song.Genre, song.Composer, song.Performer, song.Grouping,
		song.Year, song.OriginalYear, song.Disc, song.Track, song.Bitrate,
		song.Samplerate, song.Bitdepth, song.Filetype, boolInt(song.Compilation),
		song.CTime, song.MTime, song.ID)
	return err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
