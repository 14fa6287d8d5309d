package library

import (
	"database/sql"
)

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS songs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			location TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL DEFAULT '',
			artist TEXT NOT NULL DEFAULT '',
			album_artist TEXT NOT NULL DEFAULT '',
			album TEXT NOT NULL DEFAULT '',
			album_id TEXT NOT NULL DEFAULT '',
			genre TEXT NOT NULL DEFAULT '',
			composer TEXT NOT NULL DEFAULT '',
			performer TEXT NOT NULL DEFAULT '',
			grouping TEXT NOT NULL DEFAULT '',
			year INTEGER NOT NULL DEFAULT 0,
			original_year INTEGER NOT NULL DEFAULT 0,
			disc INTEGER NOT NULL DEFAULT 0,
			track INTEGER NOT NULL DEFAULT 0,
			bitrate INTEGER NOT NULL DEFAULT 0,
			samplerate INTEGER NOT NULL DEFAULT 0,
			bitdepth INTEGER NOT NULL DEFAULT 0,
			filetype TEXT NOT NULL DEFAULT '',
			compilation INTEGER NOT NULL DEFAULT 0,
			ctime INTEGER NOT NULL DEFAULT 0,
			mtime INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_songs_album_artist ON songs(album_artist);
		CREATE INDEX IF NOT EXISTS idx_songs_album_artist_album ON songs(album_artist, album);
		CREATE INDEX IF NOT EXISTS idx_songs_ctime ON songs(ctime);
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	return err
}
