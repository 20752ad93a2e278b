// package recency keeps bounded most-recent-first histories of viewed albums
// and played songs, persisted in the local database so they survive session
// restarts.
package recency

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// Well-known list names. The values match the original client's storage keys
// so an exported history stays recognizable.
const (
	PlayedList = "recentlyPlayed"
	ViewedList = "recentlyViewedAlbums"
)

// MaxEntries bounds every list; older entries fall off the end.
const MaxEntries = 10

// Tracker reads and writes named recency lists in a sqlite table.
type Tracker struct {
	db *sql.DB
}

// NewTracker creates a Tracker over an open database. The history_lists
// table must exist (see the embedded migrations).
func NewTracker(db *sql.DB) *Tracker {
	return &Tracker{db: db}
}

// Read returns the stored list, most recent first. A missing row or
// unparseable payload yields an empty list, never an error the caller has to
// branch on.
func (t *Tracker) Read(listName string) ([]string, error) {
	var raw string
	err := t.db.QueryRow("SELECT entries FROM history_lists WHERE name = ?", listName).Scan(&raw)
	if err == sql.ErrNoRows {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history list %s: %w", listName, err)
	}

	var entries []string
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		// Corrupt history is discarded, not surfaced.
		return []string{}, nil
	}
	return entries, nil
}

// Record prepends id to the named list, de-duplicating (a re-recorded id
// moves to the front) and truncating to [MaxEntries].
func (t *Tracker) Record(listName, id string) error {
	if id == "" {
		return nil
	}

	entries, err := t.Read(listName)
	if err != nil {
		return err
	}

	updated := make([]string, 0, len(entries)+1)
	updated = append(updated, id)
	for _, existing := range entries {
		if existing != id {
			updated = append(updated, existing)
		}
	}
	if len(updated) > MaxEntries {
		updated = updated[:MaxEntries]
	}

	payload, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("failed to encode history list: %w", err)
	}

	_, err = t.db.Exec(`
		INSERT INTO history_lists (name, entries, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET entries = excluded.entries, updated_at = CURRENT_TIMESTAMP
	`, listName, string(payload))
	if err != nil {
		return fmt.Errorf("failed to write history list %s: %w", listName, err)
	}
	return nil
}
