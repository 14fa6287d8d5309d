package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPathsParsesToml(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
library_sources = ["/music", "/more"]

[collection]
grouping = "120300"
show_dividers = false
new_songs_max_age_days = 14

[artwork]
size = 96
memory_mb = 16

[log]
level = "debug"
`)

	cfg, err := loadPaths(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"/music", "/more"}, cfg.LibrarySources)
	assert.Equal(t, "120300", cfg.Collection.Grouping)
	require.NotNil(t, cfg.Collection.ShowDividers)
	assert.False(t, *cfg.Collection.ShowDividers)
	assert.Equal(t, 14, cfg.Collection.NewSongsMaxAgeDays)
	assert.Equal(t, 96, cfg.ArtworkSize())
	assert.Equal(t, 16<<20, cfg.ArtworkMemoryBytes())
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadPathsLaterFileWins(t *testing.T) {
	base := writeConfig(t, t.TempDir(), `
[collection]
grouping = "010400"
show_various_artists = false
`)
	override := writeConfig(t, t.TempDir(), `
[collection]
grouping = "020300"
`)

	cfg, err := loadPaths(base, override)
	require.NoError(t, err)

	assert.Equal(t, "020300", cfg.Collection.Grouping)
	// Keys absent from the override keep the base value.
	require.NotNil(t, cfg.Collection.ShowVariousArtists)
	assert.False(t, *cfg.Collection.ShowVariousArtists)
}

func TestLoadPathsMissingFilesAreFine(t *testing.T) {
	cfg, err := loadPaths(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.LibrarySources)
}

func TestDatabasePath(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, "treble.db", filepath.Base(cfg.DatabasePath()))

	path := writeConfig(t, t.TempDir(), `
[database]
file = "/srv/music/songs.db"
`)
	cfg, err := loadPaths(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/music/songs.db", cfg.DatabasePath())
}

func TestArtworkDiskCacheEnable(t *testing.T) {
	cfg := &Config{}
	assert.True(t, cfg.ArtworkDiskCacheEnabled())

	path := writeConfig(t, t.TempDir(), `
[artwork]
disk_cache_enable = false
`)
	cfg, err := loadPaths(path)
	require.NoError(t, err)
	assert.False(t, cfg.ArtworkDiskCacheEnabled())
}

func TestLoadPathsExpandsTilde(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
library_sources = ["~/Music"]
`)

	cfg, err := loadPaths(path)
	require.NoError(t, err)
	require.Len(t, cfg.LibrarySources, 1)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Music"), cfg.LibrarySources[0])
}
