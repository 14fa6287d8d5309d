package library

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dhowden/tag"

	"github.com/mlegeay/treble/internal/collection"
)

const scanWorkers = 8

var musicExts = map[string]bool{
	".mp3":  true,
	".flac": true,
	".ogg":  true,
	".opus": true,
	".m4a":  true,
	".mp4":  true,
	".wav":  true,
	".aiff": true,
	".wv":   true,
	".ape":  true,
}

// IsMusicFile reports whether a path has a recognized audio extension.
func IsMusicFile(path string) bool {
	return musicExts[strings.ToLower(filepath.Ext(path))]
}

// ScanProgress reports the progress of a library scan.
type ScanProgress struct {
	Phase       string // "scanning", "processing", "cleaning", "done"
	Current     int
	Total       int
	CurrentFile string
}

type scanFile struct {
	path  string
	mtime int64
}

// Scan walks the source directories and reconciles the database with what
// is on disk: new files are added, modified files rewritten, vanished files
// removed. Subscribers see the changes as ordinary store events. Progress
// is reported on the channel, which is closed when the scan ends.
func (s *Store) Scan(sources []string, progress chan<- ScanProgress) error {
	defer close(progress)

	progress <- ScanProgress{Phase: "scanning"}
	files := discoverFiles(sources, progress)

	existing, err := s.locationMtimes()
	if err != nil {
		return err
	}

	var toProcess []scanFile
	for _, f := range files {
		if mtime, ok := existing[f.path]; ok && mtime == f.mtime {
			continue
		}
		toProcess = append(toProcess, f)
	}

	if len(toProcess) > 0 {
		if err := s.processFiles(toProcess, progress); err != nil {
			return err
		}
	}

	progress <- ScanProgress{Phase: "cleaning"}
	if err := s.removeVanished(sources, files, existing); err != nil {
		return err
	}

	progress <- ScanProgress{Phase: "done"}
	return nil
}

func discoverFiles(sources []string, progress chan<- ScanProgress) []scanFile {
	var files []scanFile
	for _, src := range sources {
		_ = filepath.WalkDir(src, func(path string, d os.DirEntry, walkErr error) error {
			if walkErr != nil || d.IsDir() || !IsMusicFile(path) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			files = append(files, scanFile{path: path, mtime: info.ModTime().Unix()})
			if len(files)%100 == 0 {
				progress <- ScanProgress{Phase: "scanning", Current: len(files)}
			}
			return nil
		})
	}
	return files
}

func (s *Store) processFiles(toProcess []scanFile, progress chan<- ScanProgress) error {
	total := len(toProcess)
	var processed atomic.Int64

	workCh := make(chan scanFile, total)
	resultCh := make(chan collection.Song, total)

	var wg sync.WaitGroup
	for i := 0; i < scanWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range workCh {
				song, ok := readSong(f)
				processed.Add(1)
				if ok {
					resultCh <- song
				}
			}
		}()
	}

	for _, f := range toProcess {
		workCh <- f
	}
	close(workCh)

	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				progress <- ScanProgress{
					Phase:   "processing",
					Current: int(processed.Load()),
					Total:   total,
				}
			case <-done:
				return
			}
		}
	}()

	wg.Wait()
	done <- struct{}{}
	close(resultCh)

	var songs []collection.Song
	for song := range resultCh {
		songs = append(songs, song)
	}
	return s.AddSongs(songs)
}

// readSong extracts collection metadata from one file's tags.
func readSong(f scanFile) (collection.Song, bool) {
	file, err := os.Open(f.path)
	if err != nil {
		return collection.Song{}, false
	}
	defer file.Close()

	meta, err := tag.ReadFrom(file)
	if err != nil {
		return collection.Song{}, false
	}

	track, _ := meta.Track()
	disc, _ := meta.Disc()

	song := collection.Song{
		Location:    f.path,
		Title:       meta.Title(),
		Artist:      meta.Artist(),
		AlbumArtist: meta.AlbumArtist(),
		Album:       meta.Album(),
		Genre:       meta.Genre(),
		Composer:    meta.Composer(),
		Year:        meta.Year(),
		Track:       track,
		Disc:        disc,
		Filetype:    string(meta.FileType()),
		Compilation: isCompilationTag(meta),
		CTime:       time.Now().Unix(),
		MTime:       f.mtime,
	}
	if song.Title == "" {
		song.Title = filepath.Base(f.path)
	}
	return song, true
}

// isCompilationTag checks the raw compilation frame, falling back to a
// "Various Artists" album artist.
func isCompilationTag(meta tag.Metadata) bool {
	for _, key := range []string{"compilation", "TCMP", "cpil"} {
		if v, ok := meta.Raw()[key]; ok {
			switch val := v.(type) {
			case bool:
				return val
			case string:
				n, err := strconv.Atoi(strings.TrimSpace(val))
				return err == nil && n != 0
			case int:
				return val != 0
			}
		}
	}
	return strings.EqualFold(meta.AlbumArtist(), "various artists")
}

func (s *Store) locationMtimes() (map[string]int64, error) {
	rows, err := s.db.Query(`SELECT location, mtime FROM songs`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	m := make(map[string]int64)
	for rows.Next() {
		var location string
		var mtime int64
		if err := rows.Scan(&location, &mtime); err != nil {
			return nil, err
		}
		m[location] = mtime
	}
	return m, rows.Err()
}

// removeVanished deletes songs under the scanned sources whose files are
// gone. Songs outside the scanned sources are left alone.
func (s *Store) removeVanished(sources []string, files []scanFile, existing map[string]int64) error {
	onDisk := make(map[string]struct{}, len(files))
	for _, f := range files {
		onDisk[f.path] = struct{}{}
	}

	var ids []int64
	for location := range existing {
		if _, ok := onDisk[location]; ok {
			continue
		}
		if !underAny(location, sources) {
			continue
		}
		song, err := s.SongByLocation(location)
		if err != nil {
			continue
		}
		ids = append(ids, song.ID)
	}
	return s.RemoveSongs(ids)
}

func underAny(path string, sources []string) bool {
	for _, src := range sources {
		rel, err := filepath.Rel(src, path)
		if err == nil && !strings.HasPrefix(rel, "..") {
			return true
		}
	}
	return false
}
