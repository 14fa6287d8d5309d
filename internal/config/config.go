// Package config loads treble's TOML configuration.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/mlegeay/treble/internal/collection"
)

type Config struct {
	LibrarySources []string `koanf:"library_sources"` // paths to scan for music

	Collection CollectionConfig `koanf:"collection"`
	Artwork    ArtworkConfig    `koanf:"artwork"`
	Database   DatabaseConfig   `koanf:"database"`
	Log        LogConfig        `koanf:"log"`
}

// CollectionConfig shapes the collection tree.
type CollectionConfig struct {
	// Grouping is an encoded triple of level codes, e.g. "010400" for
	// album artist / album - disc.
	Grouping                 string `koanf:"grouping"`
	SeparateAlbumsByGrouping bool   `koanf:"separate_albums_by_grouping"`
	ShowDividers             *bool  `koanf:"show_dividers"`        // default: true
	ShowVariousArtists       *bool  `koanf:"show_various_artists"` // default: true
	SortSkipsArticles        *bool  `koanf:"sort_skips_articles"`  // default: true
	PrettyCovers             *bool  `koanf:"pretty_covers"`        // default: true
	NewSongsMaxAgeDays       int    `koanf:"new_songs_max_age_days"`
}

// ArtworkConfig tunes the cover art caches.
type ArtworkConfig struct {
	CacheDir        string `koanf:"cache_dir"`         // default: XDG cache dir
	DiskCacheEnable *bool  `koanf:"disk_cache_enable"` // default: true
	Size            int    `koanf:"size"`              // cover bounding box in pixels
	MemoryMB        int    `koanf:"memory_mb"`         // in-memory cache bound
}

// DatabaseConfig locates the song database.
type DatabaseConfig struct {
	File string `koanf:"file"` // default: XDG data dir
}

// LogConfig controls the debug log.
type LogConfig struct {
	Level string `koanf:"level"` // "debug", "info", "warn", "error"
	File  string `koanf:"file"`  // default: XDG state dir
}

// Load reads configuration files in priority order: the XDG config file
// first, then ./config.toml on top.
func Load() (*Config, error) {
	return loadPaths(configPaths()...)
}

func loadPaths(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	for i, src := range cfg.LibrarySources {
		cfg.LibrarySources[i] = expandPath(src)
	}
	if cfg.Artwork.CacheDir != "" {
		cfg.Artwork.CacheDir = expandPath(cfg.Artwork.CacheDir)
	}
	return cfg, nil
}

func configPaths() []string {
	return []string{
		filepath.Join(xdg.ConfigHome, "treble", "config.toml"),
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// CollectionOptions converts the configuration into model options with
// defaults applied.
func (c *Config) CollectionOptions() collection.Options {
	opts := collection.DefaultOptions()
	opts.Grouping = collection.DecodeGrouping(c.Collection.Grouping)
	opts.SeparateAlbumsByGrouping = c.Collection.SeparateAlbumsByGrouping
	opts.ShowDividers = boolOr(c.Collection.ShowDividers, true)
	opts.ShowVariousArtists = boolOr(c.Collection.ShowVariousArtists, true)
	opts.SortSkipsArticles = boolOr(c.Collection.SortSkipsArticles, true)
	opts.PrettyCovers = boolOr(c.Collection.PrettyCovers, true)
	if c.Collection.NewSongsMaxAgeDays > 0 {
		opts.Filter.MaxAge = time.Duration(c.Collection.NewSongsMaxAgeDays) * 24 * time.Hour
	}
	return opts
}

// ArtworkCacheDir returns the configured disk cache directory, defaulting
// to the XDG cache home.
func (c *Config) ArtworkCacheDir() string {
	if c.Artwork.CacheDir != "" {
		return c.Artwork.CacheDir
	}
	return filepath.Join(xdg.CacheHome, "treble", "artwork")
}

// ArtworkSize returns the configured cover size with its default.
func (c *Config) ArtworkSize() int {
	if c.Artwork.Size > 0 {
		return c.Artwork.Size
	}
	return 160
}

// ArtworkMemoryBytes returns the memory cache bound with its default.
func (c *Config) ArtworkMemoryBytes() int {
	if c.Artwork.MemoryMB > 0 {
		return c.Artwork.MemoryMB << 20
	}
	return 32 << 20
}

// ArtworkDiskCacheEnabled reports whether covers are persisted to disk.
func (c *Config) ArtworkDiskCacheEnabled() bool {
	return boolOr(c.Artwork.DiskCacheEnable, true)
}

// DatabasePath returns the song database location, honoring the configured
// override.
func (c *Config) DatabasePath() string {
	if c.Database.File != "" {
		return expandPath(c.Database.File)
	}
	return filepath.Join(xdg.DataHome, "treble", "treble.db")
}

// LogPath returns the debug log location, honoring the configured override.
func (c *Config) LogPath() string {
	if c.Log.File != "" {
		return expandPath(c.Log.File)
	}
	return filepath.Join(xdg.StateHome, "treble", "treble.log")
}
