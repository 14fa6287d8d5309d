package state

import (
	"database/sql"
	"encoding/json"
	"errors"

	dbutil "github.com/mlegeay/treble/internal/db"
)

// BrowserState is the persisted shape of the collection browser.
type BrowserState struct {
	Grouping string   // encoded grouping, see collection.Grouping.Encode
	Expanded []string // open container keys
}

func getBrowser(db *sql.DB) (*BrowserState, error) {
	row := db.QueryRow(`SELECT grouping, expanded FROM browser_state WHERE id = 1`)

	var grouping, expanded sql.NullString
	err := row.Scan(&grouping, &expanded)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // no saved state is valid on first run
	}
	if err != nil {
		return nil, err
	}

	state := BrowserState{Grouping: dbutil.NullStringValue(grouping)}
	if raw := dbutil.NullStringValue(expanded); raw != "" {
		if err := json.Unmarshal([]byte(raw), &state.Expanded); err != nil {
			// Corrupt expansion state loses the open branches, nothing more.
			state.Expanded = nil
		}
	}
	return &state, nil
}

func saveBrowser(db *sql.DB, state BrowserState) error {
	expanded, err := json.Marshal(state.Expanded)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO browser_state (id, grouping, expanded)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			grouping = excluded.grouping,
			expanded = excluded.expanded
	`, state.Grouping, string(expanded))
	return err
}
